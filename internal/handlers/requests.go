package handlers

import "github.com/abrezinsky/padelpools/internal/models"

// TournamentCreateRequest represents a request to create a tournament
type TournamentCreateRequest struct {
	Name     string `json:"name"`
	StartsOn string `json:"starts_on"`
}

// CategoryCreateRequest represents a request to create a category
type CategoryCreateRequest struct {
	Name string `json:"name"`
}

// CourtCreateRequest represents a request to create a court
type CourtCreateRequest struct {
	Name string `json:"name"`
	Club string `json:"club"`
}

// PlayerCreateRequest represents a request to create a player
type PlayerCreateRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	RankingPoints int    `json:"ranking_points"`
	ExternalID    *int   `json:"external_id"`
}

// RosterRegisterRequest represents a request to register a player to a category
type RosterRegisterRequest struct {
	PlayerID int `json:"player_id"`
}

// GeneratePoolsRequest represents a request to generate pools.
// A nil PlayerIDs uses the category roster.
type GeneratePoolsRequest struct {
	PlayerIDs []int `json:"player_ids"`
}

// AssignCourtRequest represents a request to assign a court to a pool
type AssignCourtRequest struct {
	CourtID *int `json:"court_id"`
}

// RecordResultRequest represents a request to record a match result
type RecordResultRequest struct {
	TeamAScore *int               `json:"team_a_score"`
	TeamBScore *int               `json:"team_b_score"`
	Sets       []models.SetResult `json:"sets"`
}
