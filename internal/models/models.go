package models

import "time"

// Tournament is a padel event hosting one or more categories
type Tournament struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartsOn  string    `json:"starts_on,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a draw within a tournament (e.g. "Mixed B")
type Category struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	Name         string `json:"name"`
}

// Court is a playing court a pool can be assigned to
type Court struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Club string `json:"club,omitempty"`
}

// Player is a registered padel player
type Player struct {
	ID            int    `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	RankingPoints int    `json:"ranking_points"`
	ExternalID    *int   `json:"external_id,omitempty"`
}

// FullName returns "First Last"
func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Match status values
const (
	MatchScheduled = "scheduled"
	MatchCompleted = "completed"
)

// Team tags used for PoolMatch.WinnerTeam
const (
	TeamA = "A"
	TeamB = "B"
)

// Pool is a group of four players playing a three-round round robin
type Pool struct {
	ID           int          `json:"id"`
	TournamentID int          `json:"tournament_id"`
	CategoryID   int          `json:"category_id"`
	Name         string       `json:"name"`
	Number       int          `json:"number"`
	CourtID      *int         `json:"court_id,omitempty"`
	Players      []PoolPlayer `json:"players,omitempty"`
	Matches      []PoolMatch  `json:"matches,omitempty"`
}

// PoolPlayer is a player's membership and running totals within a pool
type PoolPlayer struct {
	ID          int    `json:"id"`
	PoolID      int    `json:"pool_id"`
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name,omitempty"`
	Position    int    `json:"position"`
	GamesWon    int    `json:"games_won"`
	GamesLost   int    `json:"games_lost"`
	MatchesWon  int    `json:"matches_won"`
	MatchesLost int    `json:"matches_lost"`
	TotalPoints int    `json:"total_points"`
}

// PoolMatch is one of the three fixed pairings of a pool.
// Player1 and Player2 form team A, Player3 and Player4 team B.
type PoolMatch struct {
	ID          int         `json:"id"`
	PoolID      int         `json:"pool_id"`
	Round       int         `json:"round"`
	Player1ID   int         `json:"player1_id"`
	Player2ID   int         `json:"player2_id"`
	Player3ID   int         `json:"player3_id"`
	Player4ID   int         `json:"player4_id"`
	Status      string      `json:"status"`
	TeamAScore  int         `json:"team_a_score"`
	TeamBScore  int         `json:"team_b_score"`
	WinnerTeam  string      `json:"winner_team,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Sets        []SetResult `json:"sets,omitempty"`
}

// TeamA returns the player ids of team A
func (m PoolMatch) TeamA() [2]int {
	return [2]int{m.Player1ID, m.Player2ID}
}

// TeamB returns the player ids of team B
func (m PoolMatch) TeamB() [2]int {
	return [2]int{m.Player3ID, m.Player4ID}
}

// PlayerIDs returns all four player slots in order
func (m PoolMatch) PlayerIDs() [4]int {
	return [4]int{m.Player1ID, m.Player2ID, m.Player3ID, m.Player4ID}
}

// IsCompleted reports whether a result has been recorded
func (m PoolMatch) IsCompleted() bool {
	return m.Status == MatchCompleted
}

// SetResult is the game count of one set
type SetResult struct {
	ID         int `json:"id,omitempty"`
	MatchID    int `json:"match_id,omitempty"`
	SetNumber  int `json:"set_number"`
	TeamAGames int `json:"team_a"`
	TeamBGames int `json:"team_b"`
}

// GlobalRanking is a player's cumulative standing across all pools of a category.
// Position is nil until the ranking has been computed once.
type GlobalRanking struct {
	ID              int    `json:"id"`
	TournamentID    int    `json:"tournament_id"`
	CategoryID      int    `json:"category_id"`
	PlayerID        int    `json:"player_id"`
	PlayerName      string `json:"player_name,omitempty"`
	TotalGamesWon   int    `json:"total_games_won"`
	TotalGamesLost  int    `json:"total_games_lost"`
	TotalMatchesWon int    `json:"total_matches_won"`
	TotalPoints     int    `json:"total_points"`
	Position        *int   `json:"position"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
