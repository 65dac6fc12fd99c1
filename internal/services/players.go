package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/repository"
	"github.com/abrezinsky/padelpools/pkg/roster"
)

// PlayerServiceRepository defines the repository methods needed by PlayerService
type PlayerServiceRepository interface {
	repository.PlayerRepository
	repository.Transactor
	GetCategory(ctx context.Context, id int) (*models.Category, error)
}

// PlayerService handles players and category rosters
type PlayerService struct {
	log    logger.Logger
	repo   PlayerServiceRepository
	client roster.Client
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(log logger.Logger, repo PlayerServiceRepository, client roster.Client) *PlayerService {
	return &PlayerService{log: log, repo: repo, client: client}
}

// Player represents a player for create operations
type Player struct {
	FirstName     string
	LastName      string
	RankingPoints int
	ExternalID    *int
}

// SyncResult contains the result of a roster import
type SyncResult struct {
	Status            string `json:"status"`
	PlayersCreated    int    `json:"players_created"`
	PlayersUpdated    int    `json:"players_updated"`
	PlayersRegistered int    `json:"players_registered"`
	TotalEntries      int    `json:"total_entries"`
}

// ListPlayers returns all players
func (s *PlayerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.repo.ListPlayers(ctx)
}

// GetPlayer retrieves a player by ID
func (s *PlayerService) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	p, err := s.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPlayerNotFound)
	}
	return p, nil
}

// CreatePlayer creates a new player
func (s *PlayerService) CreatePlayer(ctx context.Context, p Player) (int64, error) {
	first := strings.TrimSpace(p.FirstName)
	if first == "" {
		return 0, fmt.Errorf("%w: first name is required", ErrInvalidPlayer)
	}
	if p.RankingPoints < 0 {
		return 0, fmt.Errorf("%w: ranking points cannot be negative", ErrInvalidPlayer)
	}
	return s.repo.CreatePlayer(ctx, models.Player{
		FirstName:     first,
		LastName:      strings.TrimSpace(p.LastName),
		RankingPoints: p.RankingPoints,
		ExternalID:    p.ExternalID,
	})
}

// ListRoster returns the players registered to a category
func (s *PlayerService) ListRoster(ctx context.Context, categoryID int) ([]models.Player, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	players, err := s.repo.ListRoster(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

// RegisterPlayer adds a player to a category roster.
// Reports false when the player was already registered.
func (s *PlayerService) RegisterPlayer(ctx context.Context, categoryID, playerID int) (bool, error) {
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return false, notFoundAs(err, ErrCategoryNotFound)
	}
	if _, err := s.repo.GetPlayer(ctx, playerID); err != nil {
		return false, notFoundAs(err, ErrPlayerNotFound)
	}
	return s.repo.RegisterPlayer(ctx, categoryID, playerID)
}

// UnregisterPlayer removes a player from a category roster
func (s *PlayerService) UnregisterPlayer(ctx context.Context, categoryID, playerID int) error {
	return notFoundAs(s.repo.UnregisterPlayer(ctx, categoryID, playerID), ErrNotRegistered)
}

// SyncFromRoster imports the entries of a category from the registration
// service. Players are matched by external ID and registered to the category.
func (s *PlayerService) SyncFromRoster(ctx context.Context, categoryID int) (*SyncResult, error) {
	cat, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	if s.client == nil || s.client.BaseURL() == "" {
		return nil, ErrRosterNotConfigured
	}

	entries, err := s.client.FetchEntries(ctx, cat.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}
	s.log.Info("Fetched entries from roster service", "category", cat.Name, "count", len(entries))

	result := &SyncResult{TotalEntries: len(entries)}
	err = s.repo.InTx(ctx, func(tx repository.FullRepository) error {
		for _, e := range entries {
			externalID := e.ID
			id, created, err := tx.UpsertPlayerByExternalID(ctx, models.Player{
				FirstName:     strings.TrimSpace(e.FirstName),
				LastName:      strings.TrimSpace(e.LastName),
				RankingPoints: int(e.RankingPoints),
				ExternalID:    &externalID,
			})
			if err != nil {
				s.log.Error("Error syncing entry", "external_id", e.ID, "error", err)
				return fmt.Errorf("sync entry %d: %w", e.ID, err)
			}
			if created {
				result.PlayersCreated++
			} else {
				result.PlayersUpdated++
			}

			registered, err := tx.RegisterPlayer(ctx, categoryID, int(id))
			if err != nil {
				return fmt.Errorf("register entry %d: %w", e.ID, err)
			}
			if registered {
				result.PlayersRegistered++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Status = "success"
	s.log.Info("Roster sync complete", "players_created", result.PlayersCreated,
		"players_updated", result.PlayersUpdated, "players_registered", result.PlayersRegistered)
	return result, nil
}
