package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/abrezinsky/padelpools/internal/models"
)

// StatDelta is a signed change applied to a pool player's running totals
type StatDelta struct {
	GamesWon    int
	GamesLost   int
	MatchesWon  int
	MatchesLost int
	TotalPoints int
}

// Negate returns the inverse delta
func (d StatDelta) Negate() StatDelta {
	return StatDelta{
		GamesWon:    -d.GamesWon,
		GamesLost:   -d.GamesLost,
		MatchesWon:  -d.MatchesWon,
		MatchesLost: -d.MatchesLost,
		TotalPoints: -d.TotalPoints,
	}
}

// RankingDelta is a signed change applied to a global ranking row
type RankingDelta struct {
	GamesWon    int
	GamesLost   int
	MatchesWon  int
	TotalPoints int
}

// Negate returns the inverse delta
func (d RankingDelta) Negate() RankingDelta {
	return RankingDelta{
		GamesWon:    -d.GamesWon,
		GamesLost:   -d.GamesLost,
		MatchesWon:  -d.MatchesWon,
		TotalPoints: -d.TotalPoints,
	}
}

// ==================== Pool Methods ====================

// CountPools returns how many pools exist for a tournament category
func (r *Repository) CountPools(ctx context.Context, tournamentID, categoryID int) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pools WHERE tournament_id = ? AND category_id = ?`,
		tournamentID, categoryID).Scan(&count)
	return count, err
}

// CreatePool creates an empty pool
func (r *Repository) CreatePool(ctx context.Context, tournamentID, categoryID int, name string, number int) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO pools (tournament_id, category_id, name, number) VALUES (?, ?, ?, ?)
	`, tournamentID, categoryID, name, number)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetPool retrieves a pool without its players and matches
func (r *Repository) GetPool(ctx context.Context, id int) (*models.Pool, error) {
	p, err := scanPool(r.q.QueryRowContext(ctx, `
		SELECT id, tournament_id, category_id, name, number, court_id FROM pools WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPools returns the pools of a tournament category ordered by number
func (r *Repository) ListPools(ctx context.Context, tournamentID, categoryID int) ([]models.Pool, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, tournament_id, category_id, name, number, court_id
		FROM pools WHERE tournament_id = ? AND category_id = ?
		ORDER BY number
	`, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []models.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// SetPoolCourt assigns a court to a pool; nil clears the assignment
func (r *Repository) SetPoolCourt(ctx context.Context, poolID int, courtID *int) error {
	result, err := r.q.ExecContext(ctx, `UPDATE pools SET court_id = ? WHERE id = ?`, courtID, poolID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func scanPool(s interface{ Scan(...any) error }) (models.Pool, error) {
	var p models.Pool
	var courtID sql.NullInt64
	if err := s.Scan(&p.ID, &p.TournamentID, &p.CategoryID, &p.Name, &p.Number, &courtID); err != nil {
		return p, err
	}
	if courtID.Valid {
		id := int(courtID.Int64)
		p.CourtID = &id
	}
	return p, nil
}

// ==================== Pool Player Methods ====================

// CreatePoolPlayer adds a player to a pool at a fixed position with zero totals
func (r *Repository) CreatePoolPlayer(ctx context.Context, poolID, playerID, position int) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO pool_players (pool_id, player_id, position) VALUES (?, ?, ?)
	`, poolID, playerID, position)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const poolPlayerSelect = `
	SELECT pp.id, pp.pool_id, pp.player_id, p.first_name, p.last_name, pp.position,
	       pp.games_won, pp.games_lost, pp.matches_won, pp.matches_lost, pp.total_points
	FROM pool_players pp
	JOIN players p ON p.id = pp.player_id`

// ListPoolPlayers returns every pool player of a tournament category,
// ordered by pool number then position
func (r *Repository) ListPoolPlayers(ctx context.Context, tournamentID, categoryID int) ([]models.PoolPlayer, error) {
	return r.queryPoolPlayers(ctx, poolPlayerSelect+`
		JOIN pools pl ON pl.id = pp.pool_id
		WHERE pl.tournament_id = ? AND pl.category_id = ?
		ORDER BY pl.number, pp.position
	`, tournamentID, categoryID)
}

// ListPoolPlayersByPool returns the members of one pool ordered by position
func (r *Repository) ListPoolPlayersByPool(ctx context.Context, poolID int) ([]models.PoolPlayer, error) {
	return r.queryPoolPlayers(ctx, poolPlayerSelect+`
		WHERE pp.pool_id = ?
		ORDER BY pp.position
	`, poolID)
}

// GetPoolPlayer retrieves a pool membership by pool and player
func (r *Repository) GetPoolPlayer(ctx context.Context, poolID, playerID int) (*models.PoolPlayer, error) {
	players, err := r.queryPoolPlayers(ctx, poolPlayerSelect+`
		WHERE pp.pool_id = ? AND pp.player_id = ?
	`, poolID, playerID)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, ErrNotFound
	}
	return &players[0], nil
}

// AdjustPoolPlayerStats adds delta to the running totals of a pool player
func (r *Repository) AdjustPoolPlayerStats(ctx context.Context, poolID, playerID int, d StatDelta) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE pool_players SET
			games_won = games_won + ?,
			games_lost = games_lost + ?,
			matches_won = matches_won + ?,
			matches_lost = matches_lost + ?,
			total_points = total_points + ?
		WHERE pool_id = ? AND player_id = ?
	`, d.GamesWon, d.GamesLost, d.MatchesWon, d.MatchesLost, d.TotalPoints, poolID, playerID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *Repository) queryPoolPlayers(ctx context.Context, query string, args ...any) ([]models.PoolPlayer, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.PoolPlayer
	for rows.Next() {
		var pp models.PoolPlayer
		var first string
		var last sql.NullString
		if err := rows.Scan(&pp.ID, &pp.PoolID, &pp.PlayerID, &first, &last, &pp.Position,
			&pp.GamesWon, &pp.GamesLost, &pp.MatchesWon, &pp.MatchesLost, &pp.TotalPoints); err != nil {
			return nil, err
		}
		pp.PlayerName = models.Player{FirstName: first, LastName: last.String}.FullName()
		players = append(players, pp)
	}
	return players, rows.Err()
}

// ==================== Pool Match Methods ====================

// CreatePoolMatch creates a scheduled match
func (r *Repository) CreatePoolMatch(ctx context.Context, m models.PoolMatch) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO pool_matches (pool_id, round, player1_id, player2_id, player3_id, player4_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.PoolID, m.Round, m.Player1ID, m.Player2ID, m.Player3ID, m.Player4ID, models.MatchScheduled)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const poolMatchSelect = `
	SELECT m.id, m.pool_id, m.round, m.player1_id, m.player2_id, m.player3_id, m.player4_id,
	       m.status, m.team_a_score, m.team_b_score, m.winner_team, m.completed_at
	FROM pool_matches m`

func scanPoolMatch(s interface{ Scan(...any) error }) (models.PoolMatch, error) {
	var m models.PoolMatch
	var winner sql.NullString
	var completedAt sql.NullTime
	if err := s.Scan(&m.ID, &m.PoolID, &m.Round, &m.Player1ID, &m.Player2ID, &m.Player3ID, &m.Player4ID,
		&m.Status, &m.TeamAScore, &m.TeamBScore, &winner, &completedAt); err != nil {
		return m, err
	}
	m.WinnerTeam = winner.String
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	return m, nil
}

// GetPoolMatch retrieves a match without its sets
func (r *Repository) GetPoolMatch(ctx context.Context, id int) (*models.PoolMatch, error) {
	m, err := scanPoolMatch(r.q.QueryRowContext(ctx, poolMatchSelect+` WHERE m.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListPoolMatches returns every match of a tournament category,
// ordered by pool number then round
func (r *Repository) ListPoolMatches(ctx context.Context, tournamentID, categoryID int) ([]models.PoolMatch, error) {
	return r.queryPoolMatches(ctx, poolMatchSelect+`
		JOIN pools pl ON pl.id = m.pool_id
		WHERE pl.tournament_id = ? AND pl.category_id = ?
		ORDER BY pl.number, m.round
	`, tournamentID, categoryID)
}

// ListPoolMatchesByPool returns the matches of one pool ordered by round
func (r *Repository) ListPoolMatchesByPool(ctx context.Context, poolID int) ([]models.PoolMatch, error) {
	return r.queryPoolMatches(ctx, poolMatchSelect+` WHERE m.pool_id = ? ORDER BY m.round`, poolID)
}

func (r *Repository) queryPoolMatches(ctx context.Context, query string, args ...any) ([]models.PoolMatch, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []models.PoolMatch
	for rows.Next() {
		m, err := scanPoolMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CompletePoolMatch stores a final score and marks the match completed
func (r *Repository) CompletePoolMatch(ctx context.Context, id, teamAScore, teamBScore int, winner string, completedAt time.Time) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE pool_matches
		SET status = ?, team_a_score = ?, team_b_score = ?, winner_team = ?, completed_at = ?
		WHERE id = ?
	`, models.MatchCompleted, teamAScore, teamBScore, winner, nullTime(&completedAt), id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// ResetPoolMatch clears a result and puts the match back to scheduled
func (r *Repository) ResetPoolMatch(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE pool_matches
		SET status = ?, team_a_score = 0, team_b_score = 0, winner_team = NULL, completed_at = NULL
		WHERE id = ?
	`, models.MatchScheduled, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// ==================== Set Result Methods ====================

// InsertSetResult stores the games of one set
func (r *Repository) InsertSetResult(ctx context.Context, matchID int, s models.SetResult) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO set_results (match_id, set_number, team_a_games, team_b_games) VALUES (?, ?, ?, ?)
	`, matchID, s.SetNumber, s.TeamAGames, s.TeamBGames)
	return err
}

// ListSetResults returns the sets of a match ordered by set number
func (r *Repository) ListSetResults(ctx context.Context, matchID int) ([]models.SetResult, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, match_id, set_number, team_a_games, team_b_games
		FROM set_results WHERE match_id = ? ORDER BY set_number
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []models.SetResult
	for rows.Next() {
		var s models.SetResult
		if err := rows.Scan(&s.ID, &s.MatchID, &s.SetNumber, &s.TeamAGames, &s.TeamBGames); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// DeleteSetResults removes every set of a match
func (r *Repository) DeleteSetResults(ctx context.Context, matchID int) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM set_results WHERE match_id = ?`, matchID)
	return err
}

// ==================== Global Ranking Methods ====================

// CreateGlobalRanking creates a zeroed ranking row with no position
func (r *Repository) CreateGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO global_rankings (tournament_id, category_id, player_id) VALUES (?, ?, ?)
	`, tournamentID, categoryID, playerID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AdjustGlobalRanking adds delta to a player's ranking totals
func (r *Repository) AdjustGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int, d RankingDelta) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE global_rankings SET
			total_games_won = total_games_won + ?,
			total_games_lost = total_games_lost + ?,
			total_matches_won = total_matches_won + ?,
			total_points = total_points + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE tournament_id = ? AND category_id = ? AND player_id = ?
	`, d.GamesWon, d.GamesLost, d.MatchesWon, d.TotalPoints, tournamentID, categoryID, playerID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

const rankingSelect = `
	SELECT g.id, g.tournament_id, g.category_id, g.player_id, p.first_name, p.last_name,
	       g.total_games_won, g.total_games_lost, g.total_matches_won, g.total_points, g.position
	FROM global_rankings g
	JOIN players p ON p.id = g.player_id
	WHERE g.tournament_id = ? AND g.category_id = ?`

// ListGlobalRankings returns the ranking rows of a scope in creation order
func (r *Repository) ListGlobalRankings(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error) {
	return r.queryRankings(ctx, rankingSelect+` ORDER BY g.id`, tournamentID, categoryID)
}

// ListRankingByPosition returns the ranking rows ordered by position then points.
// Rows without a position sort last.
func (r *Repository) ListRankingByPosition(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error) {
	return r.queryRankings(ctx, rankingSelect+`
		ORDER BY g.position IS NULL, g.position, g.total_points DESC, g.id
	`, tournamentID, categoryID)
}

// SetRankingPosition writes the computed position of a ranking row
func (r *Repository) SetRankingPosition(ctx context.Context, id, position int) error {
	result, err := r.q.ExecContext(ctx, `UPDATE global_rankings SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *Repository) queryRankings(ctx context.Context, query string, args ...any) ([]models.GlobalRanking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rankings []models.GlobalRanking
	for rows.Next() {
		var g models.GlobalRanking
		var first string
		var last sql.NullString
		var position sql.NullInt64
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.CategoryID, &g.PlayerID, &first, &last,
			&g.TotalGamesWon, &g.TotalGamesLost, &g.TotalMatchesWon, &g.TotalPoints, &position); err != nil {
			return nil, err
		}
		g.PlayerName = models.Player{FirstName: first, LastName: last.String}.FullName()
		if position.Valid {
			pos := int(position.Int64)
			g.Position = &pos
		}
		rankings = append(rankings, g)
	}
	return rankings, rows.Err()
}
