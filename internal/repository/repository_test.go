package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/abrezinsky/padelpools/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type scope struct {
	tid, cid int
}

func seedScope(t *testing.T, repo *Repository) scope {
	t.Helper()
	ctx := context.Background()
	tid, err := repo.CreateTournament(ctx, "Spring Americano", "2026-03-14")
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}
	cid, err := repo.CreateCategory(ctx, int(tid), "Men A")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	return scope{tid: int(tid), cid: int(cid)}
}

func seedPlayers(t *testing.T, repo *Repository, names ...string) []int {
	t.Helper()
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := repo.CreatePlayer(context.Background(), models.Player{FirstName: name})
		if err != nil {
			t.Fatalf("CreatePlayer failed: %v", err)
		}
		ids = append(ids, int(id))
	}
	return ids
}

// seedPool creates one pool of four players with a scheduled first-round match
// and zeroed ranking rows. Returns the pool id, match id and player ids.
func seedPool(t *testing.T, repo *Repository, s scope) (int, int, []int) {
	t.Helper()
	ctx := context.Background()
	players := seedPlayers(t, repo, "Ana", "Bea", "Carla", "Dani")

	poolID, err := repo.CreatePool(ctx, s.tid, s.cid, "Pool A", 1)
	if err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	for i, pid := range players {
		if _, err := repo.CreatePoolPlayer(ctx, int(poolID), pid, i+1); err != nil {
			t.Fatalf("CreatePoolPlayer failed: %v", err)
		}
		if _, err := repo.CreateGlobalRanking(ctx, s.tid, s.cid, pid); err != nil {
			t.Fatalf("CreateGlobalRanking failed: %v", err)
		}
	}
	matchID, err := repo.CreatePoolMatch(ctx, models.PoolMatch{
		PoolID: int(poolID), Round: 1,
		Player1ID: players[0], Player2ID: players[1], Player3ID: players[2], Player4ID: players[3],
	})
	if err != nil {
		t.Fatalf("CreatePoolMatch failed: %v", err)
	}
	return int(poolID), int(matchID), players
}

// ==================== Tournament Tests ====================

func TestTournamentCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateTournament(ctx, "Autumn Cup", "2026-10-03")
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}
	if _, err := repo.CreateTournament(ctx, "Undated", ""); err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}

	got, err := repo.GetTournament(ctx, int(id))
	if err != nil {
		t.Fatalf("GetTournament failed: %v", err)
	}
	if got.Name != "Autumn Cup" || got.StartsOn != "2026-10-03" {
		t.Errorf("unexpected tournament: %+v", got)
	}

	list, err := repo.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("ListTournaments failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Undated" || list[0].StartsOn != "" {
		t.Errorf("expected newest first, got %+v", list)
	}

	if _, err := repo.GetTournament(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)

	if _, err := repo.CreateCategory(ctx, s.tid, "Women B"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, s.tid, "Men A"); err == nil {
		t.Error("expected unique constraint error for duplicate category")
	}

	cats, err := repo.ListCategories(ctx, s.tid)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Men A" {
		t.Errorf("unexpected categories: %+v", cats)
	}

	c, err := repo.GetCategory(ctx, s.cid)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if c.TournamentID != s.tid {
		t.Errorf("expected tournament %d, got %d", s.tid, c.TournamentID)
	}
	if _, err := repo.GetCategory(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCourtCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateCourt(ctx, "Pista 2", "Club Norte")
	if err != nil {
		t.Fatalf("CreateCourt failed: %v", err)
	}
	if _, err := repo.CreateCourt(ctx, "Pista 1", ""); err != nil {
		t.Fatalf("CreateCourt failed: %v", err)
	}

	c, err := repo.GetCourt(ctx, int(id))
	if err != nil {
		t.Fatalf("GetCourt failed: %v", err)
	}
	if c.Club != "Club Norte" {
		t.Errorf("expected club, got %q", c.Club)
	}

	courts, err := repo.ListCourts(ctx)
	if err != nil {
		t.Fatalf("ListCourts failed: %v", err)
	}
	if len(courts) != 2 || courts[0].Name != "Pista 1" || courts[0].Club != "" {
		t.Errorf("expected courts ordered by name, got %+v", courts)
	}

	if _, err := repo.GetCourt(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Player Tests ====================

func TestPlayerCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ext := 77
	id, err := repo.CreatePlayer(ctx, models.Player{FirstName: "Lucia", LastName: "Vega", RankingPoints: 450, ExternalID: &ext})
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	p, err := repo.GetPlayer(ctx, int(id))
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if p.FullName() != "Lucia Vega" || p.RankingPoints != 450 || p.ExternalID == nil || *p.ExternalID != 77 {
		t.Errorf("unexpected player: %+v", p)
	}

	if _, err := repo.GetPlayer(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	seedPlayers(t, repo, "Marta")
	players, err := repo.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].FirstName != "Marta" || players[0].ExternalID != nil {
		t.Errorf("expected players without last name first, got %+v", players[0])
	}
}

func TestUpsertPlayerByExternalID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ext := 501
	id, created, err := repo.UpsertPlayerByExternalID(ctx, models.Player{FirstName: "Sara", LastName: "Gil", RankingPoints: 10, ExternalID: &ext})
	if err != nil {
		t.Fatalf("UpsertPlayerByExternalID failed: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}

	id2, created, err := repo.UpsertPlayerByExternalID(ctx, models.Player{FirstName: "Sara", LastName: "Gil Ruiz", RankingPoints: 20, ExternalID: &ext})
	if err != nil {
		t.Fatalf("UpsertPlayerByExternalID failed: %v", err)
	}
	if created || id2 != id {
		t.Errorf("expected update of %d, got id %d created %v", id, id2, created)
	}

	p, _ := repo.GetPlayer(ctx, int(id))
	if p.LastName != "Gil Ruiz" || p.RankingPoints != 20 {
		t.Errorf("expected updated player, got %+v", p)
	}

	if _, _, err := repo.UpsertPlayerByExternalID(ctx, models.Player{FirstName: "NoExt"}); err == nil {
		t.Error("expected error without external id")
	}
}

func TestRoster(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	ids := seedPlayers(t, repo, "Ana", "Bea")

	for _, id := range ids {
		ok, err := repo.RegisterPlayer(ctx, s.cid, id)
		if err != nil || !ok {
			t.Fatalf("RegisterPlayer(%d) = %v, %v", id, ok, err)
		}
	}
	ok, err := repo.RegisterPlayer(ctx, s.cid, ids[0])
	if err != nil {
		t.Fatalf("RegisterPlayer failed: %v", err)
	}
	if ok {
		t.Error("expected duplicate registration to report false")
	}

	roster, err := repo.ListRoster(ctx, s.cid)
	if err != nil {
		t.Fatalf("ListRoster failed: %v", err)
	}
	if len(roster) != 2 || roster[0].ID != ids[0] {
		t.Errorf("unexpected roster: %+v", roster)
	}

	if err := repo.UnregisterPlayer(ctx, s.cid, ids[0]); err != nil {
		t.Fatalf("UnregisterPlayer failed: %v", err)
	}
	if err := repo.UnregisterPlayer(ctx, s.cid, ids[0]); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	roster, _ = repo.ListRoster(ctx, s.cid)
	if len(roster) != 1 {
		t.Errorf("expected 1 registered player, got %d", len(roster))
	}
}

// ==================== Pool Tests ====================

func TestPools(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)

	count, err := repo.CountPools(ctx, s.tid, s.cid)
	if err != nil || count != 0 {
		t.Fatalf("CountPools = %d, %v", count, err)
	}

	poolID, _, players := seedPool(t, repo, s)
	if _, err := repo.CreatePool(ctx, s.tid, s.cid, "Pool B", 2); err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	if _, err := repo.CreatePool(ctx, s.tid, s.cid, "Pool B again", 2); err == nil {
		t.Error("expected unique constraint error for duplicate pool number")
	}

	count, _ = repo.CountPools(ctx, s.tid, s.cid)
	if count != 2 {
		t.Errorf("expected 2 pools, got %d", count)
	}

	pools, err := repo.ListPools(ctx, s.tid, s.cid)
	if err != nil {
		t.Fatalf("ListPools failed: %v", err)
	}
	if len(pools) != 2 || pools[0].Name != "Pool A" || pools[1].Number != 2 {
		t.Errorf("unexpected pools: %+v", pools)
	}

	p, err := repo.GetPool(ctx, poolID)
	if err != nil {
		t.Fatalf("GetPool failed: %v", err)
	}
	if p.CourtID != nil {
		t.Errorf("expected no court, got %v", *p.CourtID)
	}
	if _, err := repo.GetPool(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	members, err := repo.ListPoolPlayersByPool(ctx, poolID)
	if err != nil {
		t.Fatalf("ListPoolPlayersByPool failed: %v", err)
	}
	if len(members) != 4 || members[0].PlayerID != players[0] || members[3].Position != 4 {
		t.Errorf("unexpected pool players: %+v", members)
	}
	if members[0].PlayerName != "Ana" {
		t.Errorf("expected player name, got %q", members[0].PlayerName)
	}

	all, err := repo.ListPoolPlayers(ctx, s.tid, s.cid)
	if err != nil || len(all) != 4 {
		t.Errorf("ListPoolPlayers = %d rows, %v", len(all), err)
	}

	if _, err := repo.CreatePoolPlayer(ctx, poolID, players[0], 1); err == nil {
		t.Error("expected unique constraint error for duplicate pool player")
	}
}

func TestSetPoolCourt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	poolID, _, _ := seedPool(t, repo, s)

	courtID, _ := repo.CreateCourt(ctx, "Central", "")
	cid := int(courtID)
	if err := repo.SetPoolCourt(ctx, poolID, &cid); err != nil {
		t.Fatalf("SetPoolCourt failed: %v", err)
	}
	p, _ := repo.GetPool(ctx, poolID)
	if p.CourtID == nil || *p.CourtID != cid {
		t.Errorf("expected court %d, got %v", cid, p.CourtID)
	}

	if err := repo.SetPoolCourt(ctx, poolID, nil); err != nil {
		t.Fatalf("SetPoolCourt(nil) failed: %v", err)
	}
	p, _ = repo.GetPool(ctx, poolID)
	if p.CourtID != nil {
		t.Errorf("expected court cleared, got %v", *p.CourtID)
	}

	if err := repo.SetPoolCourt(ctx, 999, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustPoolPlayerStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	poolID, _, players := seedPool(t, repo, s)

	d := StatDelta{GamesWon: 6, GamesLost: 0, MatchesWon: 1, TotalPoints: 6}
	if err := repo.AdjustPoolPlayerStats(ctx, poolID, players[0], d); err != nil {
		t.Fatalf("AdjustPoolPlayerStats failed: %v", err)
	}
	pp, err := repo.GetPoolPlayer(ctx, poolID, players[0])
	if err != nil {
		t.Fatalf("GetPoolPlayer failed: %v", err)
	}
	if pp.GamesWon != 6 || pp.MatchesWon != 1 || pp.TotalPoints != 6 {
		t.Errorf("unexpected totals: %+v", pp)
	}

	if err := repo.AdjustPoolPlayerStats(ctx, poolID, players[0], d.Negate()); err != nil {
		t.Fatalf("AdjustPoolPlayerStats failed: %v", err)
	}
	pp, _ = repo.GetPoolPlayer(ctx, poolID, players[0])
	if pp.GamesWon != 0 || pp.MatchesWon != 0 || pp.TotalPoints != 0 {
		t.Errorf("expected totals restored, got %+v", pp)
	}

	if err := repo.AdjustPoolPlayerStats(ctx, poolID, 999, d); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetPoolPlayer(ctx, poolID, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ==================== Match Tests ====================

func TestPoolMatchLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	poolID, matchID, players := seedPool(t, repo, s)

	m, err := repo.GetPoolMatch(ctx, matchID)
	if err != nil {
		t.Fatalf("GetPoolMatch failed: %v", err)
	}
	if m.Status != models.MatchScheduled || m.WinnerTeam != "" || m.CompletedAt != nil {
		t.Errorf("expected scheduled match, got %+v", m)
	}
	if m.TeamA() != [2]int{players[0], players[1]} {
		t.Errorf("unexpected team A: %v", m.TeamA())
	}

	at := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)
	if err := repo.CompletePoolMatch(ctx, matchID, 6, 3, models.TeamA, at); err != nil {
		t.Fatalf("CompletePoolMatch failed: %v", err)
	}
	m, _ = repo.GetPoolMatch(ctx, matchID)
	if !m.IsCompleted() || m.TeamAScore != 6 || m.TeamBScore != 3 || m.WinnerTeam != models.TeamA {
		t.Errorf("unexpected completed match: %+v", m)
	}
	if m.CompletedAt == nil || !m.CompletedAt.Equal(at) {
		t.Errorf("expected completed_at %v, got %v", at, m.CompletedAt)
	}

	if err := repo.ResetPoolMatch(ctx, matchID); err != nil {
		t.Fatalf("ResetPoolMatch failed: %v", err)
	}
	m, _ = repo.GetPoolMatch(ctx, matchID)
	if m.IsCompleted() || m.TeamAScore != 0 || m.WinnerTeam != "" || m.CompletedAt != nil {
		t.Errorf("expected reset match, got %+v", m)
	}

	byPool, err := repo.ListPoolMatchesByPool(ctx, poolID)
	if err != nil || len(byPool) != 1 {
		t.Errorf("ListPoolMatchesByPool = %d, %v", len(byPool), err)
	}
	all, err := repo.ListPoolMatches(ctx, s.tid, s.cid)
	if err != nil || len(all) != 1 {
		t.Errorf("ListPoolMatches = %d, %v", len(all), err)
	}

	if _, err := repo.GetPoolMatch(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.CompletePoolMatch(ctx, 999, 6, 3, models.TeamA, at); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.ResetPoolMatch(ctx, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetResults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	_, matchID, _ := seedPool(t, repo, s)

	for i, games := range [][2]int{{6, 4}, {3, 6}, {7, 5}} {
		err := repo.InsertSetResult(ctx, matchID, models.SetResult{SetNumber: i + 1, TeamAGames: games[0], TeamBGames: games[1]})
		if err != nil {
			t.Fatalf("InsertSetResult failed: %v", err)
		}
	}
	if err := repo.InsertSetResult(ctx, matchID, models.SetResult{SetNumber: 1}); err == nil {
		t.Error("expected unique constraint error for duplicate set number")
	}

	sets, err := repo.ListSetResults(ctx, matchID)
	if err != nil {
		t.Fatalf("ListSetResults failed: %v", err)
	}
	if len(sets) != 3 || sets[1].SetNumber != 2 || sets[1].TeamBGames != 6 || sets[0].MatchID != matchID {
		t.Errorf("unexpected sets: %+v", sets)
	}

	if err := repo.DeleteSetResults(ctx, matchID); err != nil {
		t.Fatalf("DeleteSetResults failed: %v", err)
	}
	sets, _ = repo.ListSetResults(ctx, matchID)
	if len(sets) != 0 {
		t.Errorf("expected no sets, got %d", len(sets))
	}
}

// ==================== Ranking Tests ====================

func TestGlobalRankings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := seedScope(t, repo)
	_, _, players := seedPool(t, repo, s)

	rows, err := repo.ListGlobalRankings(ctx, s.tid, s.cid)
	if err != nil {
		t.Fatalf("ListGlobalRankings failed: %v", err)
	}
	if len(rows) != 4 || rows[0].PlayerID != players[0] || rows[0].Position != nil {
		t.Fatalf("unexpected ranking rows: %+v", rows)
	}

	d := RankingDelta{GamesWon: 6, MatchesWon: 1, TotalPoints: 6}
	if err := repo.AdjustGlobalRanking(ctx, s.tid, s.cid, players[2], d); err != nil {
		t.Fatalf("AdjustGlobalRanking failed: %v", err)
	}
	if err := repo.AdjustGlobalRanking(ctx, s.tid, s.cid, 999, d); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// positions set only on the top two; the rest sort after them
	if err := repo.SetRankingPosition(ctx, rows[2].ID, 1); err != nil {
		t.Fatalf("SetRankingPosition failed: %v", err)
	}
	if err := repo.SetRankingPosition(ctx, rows[0].ID, 2); err != nil {
		t.Fatalf("SetRankingPosition failed: %v", err)
	}
	if err := repo.SetRankingPosition(ctx, 999, 1); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ordered, err := repo.ListRankingByPosition(ctx, s.tid, s.cid)
	if err != nil {
		t.Fatalf("ListRankingByPosition failed: %v", err)
	}
	if ordered[0].PlayerID != players[2] || *ordered[0].Position != 1 || ordered[0].TotalPoints != 6 {
		t.Errorf("unexpected first row: %+v", ordered[0])
	}
	if ordered[1].PlayerID != players[0] {
		t.Errorf("expected player %d second, got %d", players[0], ordered[1].PlayerID)
	}
	if ordered[2].Position != nil || ordered[3].Position != nil {
		t.Error("expected unpositioned rows last")
	}
	if ordered[0].PlayerName != "Carla" {
		t.Errorf("expected player name, got %q", ordered[0].PlayerName)
	}

	if _, err := repo.CreateGlobalRanking(ctx, s.tid, s.cid, players[0]); err == nil {
		t.Error("expected unique constraint error for duplicate ranking row")
	}
}

// ==================== Transaction Tests ====================

func TestInTx_Commit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.InTx(ctx, func(tx FullRepository) error {
		_, err := tx.CreateTournament(ctx, "In Tx", "")
		return err
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	list, _ := repo.ListTournaments(ctx)
	if len(list) != 1 {
		t.Errorf("expected committed tournament, got %d", len(list))
	}
}

func TestInTx_Rollback(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := repo.InTx(ctx, func(tx FullRepository) error {
		if _, err := tx.CreateTournament(ctx, "Rolled Back", ""); err != nil {
			return err
		}
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	list, _ := repo.ListTournaments(ctx)
	if len(list) != 0 {
		t.Errorf("expected rollback, got %d tournaments", len(list))
	}
}

func TestInTx_NestedReusesOuter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := repo.InTx(ctx, func(tx FullRepository) error {
		if err := tx.InTx(ctx, func(inner FullRepository) error {
			_, err := inner.CreateTournament(ctx, "Nested", "")
			return err
		}); err != nil {
			return err
		}
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	list, _ := repo.ListTournaments(ctx)
	if len(list) != 0 {
		t.Errorf("expected nested write rolled back with outer, got %d", len(list))
	}
}

func TestInTx_PanicRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = repo.InTx(ctx, func(tx FullRepository) error {
			tx.CreateTournament(ctx, "Panicked", "")
			panic("boom")
		})
	}()

	list, err := repo.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("ListTournaments failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected rollback after panic, got %d", len(list))
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	if _, err := New("/nonexistent/dir/padel.db"); err == nil {
		t.Error("expected error for invalid path")
	}
}
