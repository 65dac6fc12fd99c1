package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Scope identifies a seeded tournament category
type Scope struct {
	TournamentID int
	CategoryID   int
}

// SeedScope creates a tournament with one category
func SeedScope(t *testing.T, repo repository.TournamentRepository) Scope {
	t.Helper()
	ctx := context.Background()

	tid, err := repo.CreateTournament(ctx, "Club Social Open", "2026-05-02")
	if err != nil {
		t.Fatalf("failed to seed tournament: %v", err)
	}
	cid, err := repo.CreateCategory(ctx, int(tid), "Mixed B")
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return Scope{TournamentID: int(tid), CategoryID: int(cid)}
}

// SeedPlayers creates n players named "Player 1".."Player n" and returns them
// in creation order
func SeedPlayers(t *testing.T, repo repository.PlayerRepository, n int) []models.Player {
	t.Helper()
	ctx := context.Background()

	players := make([]models.Player, 0, n)
	for i := 1; i <= n; i++ {
		p := models.Player{FirstName: "Player", LastName: fmt.Sprintf("%d", i), RankingPoints: 100 * i}
		id, err := repo.CreatePlayer(ctx, p)
		if err != nil {
			t.Fatalf("failed to seed player %d: %v", i, err)
		}
		p.ID = int(id)
		players = append(players, p)
	}
	return players
}

// SeedRoster creates n players and registers them to the category
func SeedRoster(t *testing.T, repo repository.PlayerRepository, categoryID, n int) []models.Player {
	t.Helper()
	ctx := context.Background()

	players := SeedPlayers(t, repo, n)
	for _, p := range players {
		if _, err := repo.RegisterPlayer(ctx, categoryID, p.ID); err != nil {
			t.Fatalf("failed to register player %d: %v", p.ID, err)
		}
	}
	return players
}
