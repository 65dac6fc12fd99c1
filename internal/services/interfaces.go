package services

import (
	"context"

	"github.com/abrezinsky/padelpools/internal/models"
)

// PoolServicer defines the interface for Americano pool operations
type PoolServicer interface {
	GeneratePools(ctx context.Context, tournamentID, categoryID int, players []models.Player) error
	GeneratePoolsFromRoster(ctx context.Context, tournamentID, categoryID int) error
	RecordResult(ctx context.Context, matchID, teamAScore, teamBScore int, sets []models.SetResult) error
	RevertResult(ctx context.Context, matchID int) (*RevertOutcome, error)
	RecalculateRankings(ctx context.Context, tournamentID, categoryID int) error
	ListPools(ctx context.Context, tournamentID, categoryID int) ([]models.Pool, error)
	GetRanking(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error)
	GetPoolMatch(ctx context.Context, matchID int) (*models.PoolMatch, error)
	GetPoolStandings(ctx context.Context, poolID int) ([]models.PoolPlayer, error)
	GetOverview(ctx context.Context, tournamentID, categoryID int) (*Overview, error)
	AssignCourt(ctx context.Context, poolID int, courtID *int) error
	PoolQRCode(ctx context.Context, poolID, size int) ([]byte, error)
	SetBroadcaster(b Broadcaster)
}

// PlayerServicer defines the interface for player and roster operations
type PlayerServicer interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	CreatePlayer(ctx context.Context, p Player) (int64, error)
	ListRoster(ctx context.Context, categoryID int) ([]models.Player, error)
	RegisterPlayer(ctx context.Context, categoryID, playerID int) (bool, error)
	UnregisterPlayer(ctx context.Context, categoryID, playerID int) error
	SyncFromRoster(ctx context.Context, categoryID int) (*SyncResult, error)
}

// TournamentServicer defines the interface for tournament, category and court operations
type TournamentServicer interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateTournament(ctx context.Context, name, startsOn string) (int64, error)
	ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error)
	CreateCategory(ctx context.Context, tournamentID int, name string) (int64, error)
	ListCourts(ctx context.Context) ([]models.Court, error)
	CreateCourt(ctx context.Context, name, club string) (int64, error)
}

// Broadcaster defines the interface for pushing live updates to clients
type Broadcaster interface {
	BroadcastPoolsGenerated(tournamentID, categoryID int, pools []models.Pool)
	BroadcastMatchResult(tournamentID, categoryID int, match *models.PoolMatch)
	BroadcastRanking(tournamentID, categoryID int, ranking []models.GlobalRanking)
}

// Ensure concrete types implement interfaces
var (
	_ PoolServicer       = (*PoolService)(nil)
	_ PlayerServicer     = (*PlayerService)(nil)
	_ TournamentServicer = (*TournamentService)(nil)
)
