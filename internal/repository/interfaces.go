package repository

import (
	"context"
	"time"

	"github.com/abrezinsky/padelpools/internal/models"
)

// TournamentRepository defines tournament, category and court operations
type TournamentRepository interface {
	CreateTournament(ctx context.Context, name, startsOn string) (int64, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	CreateCategory(ctx context.Context, tournamentID int, name string) (int64, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error)
	CreateCourt(ctx context.Context, name, club string) (int64, error)
	GetCourt(ctx context.Context, id int) (*models.Court, error)
	ListCourts(ctx context.Context) ([]models.Court, error)
}

// PlayerRepository defines player and registration operations
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, p models.Player) (int64, error)
	GetPlayer(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpsertPlayerByExternalID(ctx context.Context, p models.Player) (int64, bool, error)
	RegisterPlayer(ctx context.Context, categoryID, playerID int) (bool, error)
	UnregisterPlayer(ctx context.Context, categoryID, playerID int) error
	ListRoster(ctx context.Context, categoryID int) ([]models.Player, error)
}

// PoolRepository defines pool, pool player, match and set operations
type PoolRepository interface {
	CountPools(ctx context.Context, tournamentID, categoryID int) (int, error)
	CreatePool(ctx context.Context, tournamentID, categoryID int, name string, number int) (int64, error)
	GetPool(ctx context.Context, id int) (*models.Pool, error)
	ListPools(ctx context.Context, tournamentID, categoryID int) ([]models.Pool, error)
	SetPoolCourt(ctx context.Context, poolID int, courtID *int) error
	CreatePoolPlayer(ctx context.Context, poolID, playerID, position int) (int64, error)
	ListPoolPlayers(ctx context.Context, tournamentID, categoryID int) ([]models.PoolPlayer, error)
	ListPoolPlayersByPool(ctx context.Context, poolID int) ([]models.PoolPlayer, error)
	GetPoolPlayer(ctx context.Context, poolID, playerID int) (*models.PoolPlayer, error)
	AdjustPoolPlayerStats(ctx context.Context, poolID, playerID int, d StatDelta) error
	CreatePoolMatch(ctx context.Context, m models.PoolMatch) (int64, error)
	GetPoolMatch(ctx context.Context, id int) (*models.PoolMatch, error)
	ListPoolMatches(ctx context.Context, tournamentID, categoryID int) ([]models.PoolMatch, error)
	ListPoolMatchesByPool(ctx context.Context, poolID int) ([]models.PoolMatch, error)
	CompletePoolMatch(ctx context.Context, id, teamAScore, teamBScore int, winner string, completedAt time.Time) error
	ResetPoolMatch(ctx context.Context, id int) error
	InsertSetResult(ctx context.Context, matchID int, s models.SetResult) error
	ListSetResults(ctx context.Context, matchID int) ([]models.SetResult, error)
	DeleteSetResults(ctx context.Context, matchID int) error
}

// RankingRepository defines global ranking operations
type RankingRepository interface {
	CreateGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int) (int64, error)
	AdjustGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int, d RankingDelta) error
	ListGlobalRankings(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error)
	ListRankingByPosition(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error)
	SetRankingPosition(ctx context.Context, id, position int) error
}

// Transactor runs a unit of work atomically
type Transactor interface {
	InTx(ctx context.Context, fn func(tx FullRepository) error) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TournamentRepository
	PlayerRepository
	PoolRepository
	RankingRepository
	Transactor
	Ping(ctx context.Context) error
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
