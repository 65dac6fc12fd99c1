package mock

import (
	"context"
	"time"

	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// Injected errors also apply inside InTx callbacks.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.AdjustGlobalRankingError = errors.New("database error")
//	svc := services.NewPoolService(log, mockRepo, nil)
//	err := svc.RecordResult(ctx, matchID, 6, 2, nil)
//	// err now contains the injected error and the transaction was rolled back
type Repository struct {
	repository.FullRepository

	// ===== Tournament Errors =====
	GetTournamentError error
	GetCategoryError   error
	GetCourtError      error

	// ===== Player Errors =====
	ListRosterError               error
	RegisterPlayerError           error
	UpsertPlayerByExternalIDError error

	// ===== Pool Errors =====
	CountPoolsError            error
	CreatePoolError            error
	CreatePoolPlayerError      error
	CreatePoolMatchError       error
	ListPoolsError             error
	ListPoolPlayersError       error
	ListPoolMatchesError       error
	SetPoolCourtError          error
	GetPoolMatchError          error
	CompletePoolMatchError     error
	ResetPoolMatchError        error
	InsertSetResultError       error
	DeleteSetResultsError      error
	AdjustPoolPlayerStatsError error

	// ===== Ranking Errors =====
	CreateGlobalRankingError   error
	AdjustGlobalRankingError   error
	ListGlobalRankingsError    error
	ListRankingByPositionError error
	SetRankingPositionError    error

	// FailAdjustForPlayer limits AdjustPoolPlayerStatsError and
	// AdjustGlobalRankingError to one player when non-zero
	FailAdjustForPlayer int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

// InTx runs fn on a copy of the mock that wraps the transactional repository
func (m *Repository) InTx(ctx context.Context, fn func(tx repository.FullRepository) error) error {
	return m.FullRepository.InTx(ctx, func(tx repository.FullRepository) error {
		inner := *m
		inner.FullRepository = tx
		return fn(&inner)
	})
}

func (m *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if m.GetTournamentError != nil {
		return nil, m.GetTournamentError
	}
	return m.FullRepository.GetTournament(ctx, id)
}

func (m *Repository) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	if m.GetCategoryError != nil {
		return nil, m.GetCategoryError
	}
	return m.FullRepository.GetCategory(ctx, id)
}

func (m *Repository) GetCourt(ctx context.Context, id int) (*models.Court, error) {
	if m.GetCourtError != nil {
		return nil, m.GetCourtError
	}
	return m.FullRepository.GetCourt(ctx, id)
}

func (m *Repository) ListRoster(ctx context.Context, categoryID int) ([]models.Player, error) {
	if m.ListRosterError != nil {
		return nil, m.ListRosterError
	}
	return m.FullRepository.ListRoster(ctx, categoryID)
}

func (m *Repository) RegisterPlayer(ctx context.Context, categoryID, playerID int) (bool, error) {
	if m.RegisterPlayerError != nil {
		return false, m.RegisterPlayerError
	}
	return m.FullRepository.RegisterPlayer(ctx, categoryID, playerID)
}

func (m *Repository) UpsertPlayerByExternalID(ctx context.Context, p models.Player) (int64, bool, error) {
	if m.UpsertPlayerByExternalIDError != nil {
		return 0, false, m.UpsertPlayerByExternalIDError
	}
	return m.FullRepository.UpsertPlayerByExternalID(ctx, p)
}

func (m *Repository) CountPools(ctx context.Context, tournamentID, categoryID int) (int, error) {
	if m.CountPoolsError != nil {
		return 0, m.CountPoolsError
	}
	return m.FullRepository.CountPools(ctx, tournamentID, categoryID)
}

func (m *Repository) CreatePool(ctx context.Context, tournamentID, categoryID int, name string, number int) (int64, error) {
	if m.CreatePoolError != nil {
		return 0, m.CreatePoolError
	}
	return m.FullRepository.CreatePool(ctx, tournamentID, categoryID, name, number)
}

func (m *Repository) CreatePoolPlayer(ctx context.Context, poolID, playerID, position int) (int64, error) {
	if m.CreatePoolPlayerError != nil {
		return 0, m.CreatePoolPlayerError
	}
	return m.FullRepository.CreatePoolPlayer(ctx, poolID, playerID, position)
}

func (m *Repository) CreatePoolMatch(ctx context.Context, match models.PoolMatch) (int64, error) {
	if m.CreatePoolMatchError != nil {
		return 0, m.CreatePoolMatchError
	}
	return m.FullRepository.CreatePoolMatch(ctx, match)
}

func (m *Repository) ListPools(ctx context.Context, tournamentID, categoryID int) ([]models.Pool, error) {
	if m.ListPoolsError != nil {
		return nil, m.ListPoolsError
	}
	return m.FullRepository.ListPools(ctx, tournamentID, categoryID)
}

func (m *Repository) ListPoolPlayers(ctx context.Context, tournamentID, categoryID int) ([]models.PoolPlayer, error) {
	if m.ListPoolPlayersError != nil {
		return nil, m.ListPoolPlayersError
	}
	return m.FullRepository.ListPoolPlayers(ctx, tournamentID, categoryID)
}

func (m *Repository) ListPoolMatches(ctx context.Context, tournamentID, categoryID int) ([]models.PoolMatch, error) {
	if m.ListPoolMatchesError != nil {
		return nil, m.ListPoolMatchesError
	}
	return m.FullRepository.ListPoolMatches(ctx, tournamentID, categoryID)
}

func (m *Repository) SetPoolCourt(ctx context.Context, poolID int, courtID *int) error {
	if m.SetPoolCourtError != nil {
		return m.SetPoolCourtError
	}
	return m.FullRepository.SetPoolCourt(ctx, poolID, courtID)
}

func (m *Repository) GetPoolMatch(ctx context.Context, id int) (*models.PoolMatch, error) {
	if m.GetPoolMatchError != nil {
		return nil, m.GetPoolMatchError
	}
	return m.FullRepository.GetPoolMatch(ctx, id)
}

func (m *Repository) CompletePoolMatch(ctx context.Context, id, teamAScore, teamBScore int, winner string, completedAt time.Time) error {
	if m.CompletePoolMatchError != nil {
		return m.CompletePoolMatchError
	}
	return m.FullRepository.CompletePoolMatch(ctx, id, teamAScore, teamBScore, winner, completedAt)
}

func (m *Repository) ResetPoolMatch(ctx context.Context, id int) error {
	if m.ResetPoolMatchError != nil {
		return m.ResetPoolMatchError
	}
	return m.FullRepository.ResetPoolMatch(ctx, id)
}

func (m *Repository) InsertSetResult(ctx context.Context, matchID int, s models.SetResult) error {
	if m.InsertSetResultError != nil {
		return m.InsertSetResultError
	}
	return m.FullRepository.InsertSetResult(ctx, matchID, s)
}

func (m *Repository) DeleteSetResults(ctx context.Context, matchID int) error {
	if m.DeleteSetResultsError != nil {
		return m.DeleteSetResultsError
	}
	return m.FullRepository.DeleteSetResults(ctx, matchID)
}

func (m *Repository) AdjustPoolPlayerStats(ctx context.Context, poolID, playerID int, d repository.StatDelta) error {
	if m.AdjustPoolPlayerStatsError != nil && m.appliesTo(playerID) {
		return m.AdjustPoolPlayerStatsError
	}
	return m.FullRepository.AdjustPoolPlayerStats(ctx, poolID, playerID, d)
}

func (m *Repository) CreateGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int) (int64, error) {
	if m.CreateGlobalRankingError != nil {
		return 0, m.CreateGlobalRankingError
	}
	return m.FullRepository.CreateGlobalRanking(ctx, tournamentID, categoryID, playerID)
}

func (m *Repository) AdjustGlobalRanking(ctx context.Context, tournamentID, categoryID, playerID int, d repository.RankingDelta) error {
	if m.AdjustGlobalRankingError != nil && m.appliesTo(playerID) {
		return m.AdjustGlobalRankingError
	}
	return m.FullRepository.AdjustGlobalRanking(ctx, tournamentID, categoryID, playerID, d)
}

func (m *Repository) ListGlobalRankings(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error) {
	if m.ListGlobalRankingsError != nil {
		return nil, m.ListGlobalRankingsError
	}
	return m.FullRepository.ListGlobalRankings(ctx, tournamentID, categoryID)
}

func (m *Repository) ListRankingByPosition(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error) {
	if m.ListRankingByPositionError != nil {
		return nil, m.ListRankingByPositionError
	}
	return m.FullRepository.ListRankingByPosition(ctx, tournamentID, categoryID)
}

func (m *Repository) SetRankingPosition(ctx context.Context, id, position int) error {
	if m.SetRankingPositionError != nil {
		return m.SetRankingPositionError
	}
	return m.FullRepository.SetRankingPosition(ctx, id, position)
}

func (m *Repository) appliesTo(playerID int) bool {
	return m.FailAdjustForPlayer == 0 || m.FailAdjustForPlayer == playerID
}

var _ repository.FullRepository = (*Repository)(nil)
