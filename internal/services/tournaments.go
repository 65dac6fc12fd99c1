package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/repository"
)

// TournamentService handles tournaments, their categories and courts
type TournamentService struct {
	log  logger.Logger
	repo repository.TournamentRepository
}

// NewTournamentService creates a new TournamentService
func NewTournamentService(log logger.Logger, repo repository.TournamentRepository) *TournamentService {
	return &TournamentService{log: log, repo: repo}
}

// ListTournaments returns all tournaments, newest first
func (s *TournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.repo.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return tournaments, nil
}

// GetTournament retrieves a tournament by ID
func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetTournament(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTournamentNotFound)
	}
	return t, nil
}

// CreateTournament creates a tournament. startsOn is optional and must be YYYY-MM-DD.
func (s *TournamentService) CreateTournament(ctx context.Context, name, startsOn string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidTournament)
	}
	if startsOn != "" {
		if _, err := time.Parse(time.DateOnly, startsOn); err != nil {
			return 0, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidTournament)
		}
	}

	id, err := s.repo.CreateTournament(ctx, name, startsOn)
	if err != nil {
		return 0, err
	}
	s.log.Info("Tournament created", "tournament_id", id, "name", name)
	return id, nil
}

// ListCategories returns the categories of a tournament
func (s *TournamentService) ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error) {
	if _, err := s.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	cats, err := s.repo.ListCategories(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// CreateCategory adds a category to a tournament. Names are unique per tournament.
func (s *TournamentService) CreateCategory(ctx context.Context, tournamentID int, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	cats, err := s.ListCategories(ctx, tournamentID)
	if err != nil {
		return 0, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
	}

	return s.repo.CreateCategory(ctx, tournamentID, name)
}

// ListCourts returns all courts
func (s *TournamentService) ListCourts(ctx context.Context) ([]models.Court, error) {
	courts, err := s.repo.ListCourts(ctx)
	if err != nil {
		return nil, err
	}
	if courts == nil {
		courts = []models.Court{}
	}
	return courts, nil
}

// CreateCourt creates a court
func (s *TournamentService) CreateCourt(ctx context.Context, name, club string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidCourt)
	}
	return s.repo.CreateCourt(ctx, name, strings.TrimSpace(club))
}
