package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/abrezinsky/padelpools/internal/errors"
	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/services"
	"github.com/abrezinsky/padelpools/internal/testutil"
)

func TestTournamentService_CreateAndList(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewTournamentService(logger.New(), repo)
	ctx := context.Background()

	id, err := svc.CreateTournament(ctx, " Spring Social ", "2026-04-18")
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}

	tournament, err := svc.GetTournament(ctx, int(id))
	if err != nil {
		t.Fatalf("GetTournament failed: %v", err)
	}
	if tournament.Name != "Spring Social" || tournament.StartsOn != "2026-04-18" {
		t.Errorf("unexpected tournament: %+v", tournament)
	}

	if _, err := svc.CreateTournament(ctx, "Autumn Social", ""); err != nil {
		t.Fatalf("CreateTournament without date failed: %v", err)
	}
	list, err := svc.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("ListTournaments failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Autumn Social" {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestTournamentService_CreateTournament_Validation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewTournamentService(logger.Nop(), repo)

	tests := []struct {
		name, tname, date string
	}{
		{"empty name", "", ""},
		{"bad date", "Open", "18/04/2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTournament(context.Background(), tt.tname, tt.date)
			if !stderrors.Is(err, services.ErrInvalidTournament) {
				t.Errorf("expected ErrInvalidTournament, got %v", err)
			}
			if errors.KindOf(err) != errors.ErrValidation {
				t.Errorf("expected validation kind, got %v", errors.KindOf(err))
			}
		})
	}
}

func TestTournamentService_GetTournament_NotFound(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewTournamentService(logger.Nop(), repo)

	_, err := svc.GetTournament(context.Background(), 3)
	if !stderrors.Is(err, services.ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestTournamentService_Categories(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewTournamentService(logger.Nop(), repo)
	ctx := context.Background()

	tid, err := svc.CreateTournament(ctx, "Open", "")
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}

	if _, err := svc.CreateCategory(ctx, int(tid), "Mixed B"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, int(tid), "mixed b"); !stderrors.Is(err, services.ErrDuplicateCategory) {
		t.Errorf("expected ErrDuplicateCategory, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, int(tid), " "); !stderrors.Is(err, services.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, 999, "Men A"); !stderrors.Is(err, services.ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}

	cats, err := svc.ListCategories(ctx, int(tid))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Mixed B" || cats[0].TournamentID != int(tid) {
		t.Errorf("unexpected categories: %+v", cats)
	}
}

func TestTournamentService_Courts(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewTournamentService(logger.Nop(), repo)
	ctx := context.Background()

	courts, err := svc.ListCourts(ctx)
	if err != nil {
		t.Fatalf("ListCourts failed: %v", err)
	}
	if courts == nil || len(courts) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", courts)
	}

	if _, err := svc.CreateCourt(ctx, "Court 1", "Norte"); err != nil {
		t.Fatalf("CreateCourt failed: %v", err)
	}
	if _, err := svc.CreateCourt(ctx, "", "Norte"); !stderrors.Is(err, services.ErrInvalidCourt) {
		t.Errorf("expected ErrInvalidCourt, got %v", err)
	}

	courts, err = svc.ListCourts(ctx)
	if err != nil {
		t.Fatalf("ListCourts failed: %v", err)
	}
	if len(courts) != 1 || courts[0].Club != "Norte" {
		t.Errorf("unexpected courts: %+v", courts)
	}
}
