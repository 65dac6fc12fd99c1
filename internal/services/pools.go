package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/repository"
)

// PoolSize is the number of players in an Americano pool
const PoolSize = 4

// rounds lists the positions (1-based) forming Team A and Team B in each of
// the three rounds of a pool. Every pair partners exactly once.
var rounds = [3][4]int{
	{1, 2, 3, 4},
	{1, 3, 2, 4},
	{1, 4, 2, 3},
}

// PoolServiceRepository defines the repository methods needed by PoolService
type PoolServiceRepository interface {
	repository.TournamentRepository
	repository.PlayerRepository
	repository.PoolRepository
	repository.RankingRepository
	repository.Transactor
}

// PoolService generates Americano pools and keeps their standings
type PoolService struct {
	log         logger.Logger
	repo        PoolServiceRepository
	broadcaster Broadcaster
	baseURL     string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPoolService creates a new PoolService
func NewPoolService(log logger.Logger, repo PoolServiceRepository) *PoolService {
	now := uint64(time.Now().UnixNano())
	return &PoolService{
		log:  log,
		repo: repo,
		rng:  rand.New(rand.NewPCG(now, now>>1|1)),
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *PoolService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetBaseURL sets the public URL used in pool sheet QR codes
func (s *PoolService) SetBaseURL(url string) {
	s.baseURL = strings.TrimSuffix(url, "/")
}

// SetRandSource replaces the source used to shuffle rosters
func (s *PoolService) SetRandSource(src rand.Source) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(src)
}

// RevertFailure describes one running total that could not be restored
type RevertFailure struct {
	PlayerID int    `json:"player_id"`
	Record   string `json:"record"` // "pool_player", "ranking" or "positions"
	Error    string `json:"error"`
}

// RevertOutcome reports what happened when a result was reverted. The match
// is cleared even when Failures is not empty.
type RevertOutcome struct {
	MatchID  int             `json:"match_id"`
	Failures []RevertFailure `json:"failures"`
}

// Clean reports whether every total was restored
func (o *RevertOutcome) Clean() bool {
	return len(o.Failures) == 0
}

// Overview is the full state of a category: pools and ranking
type Overview struct {
	Pools   []models.Pool          `json:"pools"`
	Ranking []models.GlobalRanking `json:"ranking"`
}

// PoolName returns the display name of the pool at zero-based index i:
// Pool A..Pool Z, then Pool AA, Pool AB, ...
func PoolName(i int) string {
	var letters []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return "Pool " + string(letters)
}

// ==================== Generation ====================

// GeneratePools shuffles the players into pools of four, creates the three
// rounds of each pool and a zeroed ranking row for every player
func (s *PoolService) GeneratePools(ctx context.Context, tournamentID, categoryID int, players []models.Player) error {
	if len(players) == 0 || len(players)%PoolSize != 0 {
		return fmt.Errorf("%w: got %d players", ErrInvalidRosterSize, len(players))
	}

	seen := make(map[int]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return fmt.Errorf("%w: player %d", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = true
	}

	if err := s.checkScope(ctx, tournamentID, categoryID); err != nil {
		return err
	}

	shuffled := s.shuffle(players)

	err := s.repo.InTx(ctx, func(tx repository.FullRepository) error {
		existing, err := tx.CountPools(ctx, tournamentID, categoryID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrPoolsAlreadyGenerated
		}

		for i := 0; i < len(shuffled); i += PoolSize {
			if err := createPool(ctx, tx, tournamentID, categoryID, i/PoolSize, shuffled[i:i+PoolSize]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Pools generated", "tournament_id", tournamentID, "category_id", categoryID,
		"pools", len(players)/PoolSize, "players", len(players))

	if s.broadcaster != nil {
		pools, err := s.ListPools(ctx, tournamentID, categoryID)
		if err != nil {
			s.log.Warn("Failed to load pools for broadcast", "error", err)
			return nil
		}
		s.broadcaster.BroadcastPoolsGenerated(tournamentID, categoryID, pools)
	}
	return nil
}

func createPool(ctx context.Context, tx repository.FullRepository, tournamentID, categoryID, index int, members []models.Player) error {
	poolID, err := tx.CreatePool(ctx, tournamentID, categoryID, PoolName(index), index+1)
	if err != nil {
		return fmt.Errorf("create pool %d: %w", index+1, err)
	}

	for pos, p := range members {
		if _, err := tx.CreatePoolPlayer(ctx, int(poolID), p.ID, pos+1); err != nil {
			return fmt.Errorf("add player %d to pool %d: %w", p.ID, poolID, err)
		}
	}

	for r, slots := range rounds {
		m := models.PoolMatch{
			PoolID:    int(poolID),
			Round:     r + 1,
			Player1ID: members[slots[0]-1].ID,
			Player2ID: members[slots[1]-1].ID,
			Player3ID: members[slots[2]-1].ID,
			Player4ID: members[slots[3]-1].ID,
		}
		if _, err := tx.CreatePoolMatch(ctx, m); err != nil {
			return fmt.Errorf("create round %d of pool %d: %w", r+1, poolID, err)
		}
	}

	for _, p := range members {
		if _, err := tx.CreateGlobalRanking(ctx, tournamentID, categoryID, p.ID); err != nil {
			return fmt.Errorf("create ranking for player %d: %w", p.ID, err)
		}
	}
	return nil
}

// GeneratePoolsFromRoster generates pools from the players registered to the category
func (s *PoolService) GeneratePoolsFromRoster(ctx context.Context, tournamentID, categoryID int) error {
	players, err := s.repo.ListRoster(ctx, categoryID)
	if err != nil {
		return err
	}
	return s.GeneratePools(ctx, tournamentID, categoryID, players)
}

func (s *PoolService) shuffle(players []models.Player) []models.Player {
	shuffled := make([]models.Player, len(players))
	copy(shuffled, players)

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

func (s *PoolService) checkScope(ctx context.Context, tournamentID, categoryID int) error {
	cat, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return notFoundAs(err, ErrCategoryNotFound)
	}
	if cat.TournamentID != tournamentID {
		return ErrCategoryMismatch
	}
	return nil
}

// ==================== Results ====================

type playerDelta struct {
	playerID int
	pool     repository.StatDelta
	ranking  repository.RankingDelta
}

// resultDeltas computes the change each of the four players receives from a
// result. Only the losing side accumulates games lost.
func resultDeltas(m models.PoolMatch, teamAScore, teamBScore int, winner string) [4]playerDelta {
	var deltas [4]playerDelta
	for i, id := range m.PlayerIDs() {
		team, games := models.TeamA, teamAScore
		if i >= 2 {
			team, games = models.TeamB, teamBScore
		}
		won := team == winner

		d := playerDelta{playerID: id}
		d.pool.GamesWon = games
		d.pool.TotalPoints = games
		if won {
			d.pool.MatchesWon = 1
		} else {
			d.pool.GamesLost = teamAScore + teamBScore - games
			d.pool.MatchesLost = 1
		}
		d.ranking = repository.RankingDelta{
			GamesWon:    d.pool.GamesWon,
			GamesLost:   d.pool.GamesLost,
			MatchesWon:  d.pool.MatchesWon,
			TotalPoints: d.pool.TotalPoints,
		}
		deltas[i] = d
	}
	return deltas
}

func validateScores(teamAScore, teamBScore int, sets []models.SetResult) error {
	if teamAScore < 0 || teamBScore < 0 {
		return ErrInvalidScore
	}
	if teamAScore == teamBScore {
		return ErrTiedScore
	}
	for i, set := range sets {
		if set.TeamAGames < 0 || set.TeamBGames < 0 {
			return fmt.Errorf("%w: set %d", ErrInvalidScore, i+1)
		}
	}
	return nil
}

// RecordResult stores the final score of a match, updates the running totals
// of its four players and recomputes the category ranking. Everything happens
// in one transaction.
func (s *PoolService) RecordResult(ctx context.Context, matchID, teamAScore, teamBScore int, sets []models.SetResult) error {
	if err := validateScores(teamAScore, teamBScore, sets); err != nil {
		return err
	}

	winner := models.TeamB
	if teamAScore > teamBScore {
		winner = models.TeamA
	}

	var pool *models.Pool
	err := s.repo.InTx(ctx, func(tx repository.FullRepository) error {
		m, err := tx.GetPoolMatch(ctx, matchID)
		if err != nil {
			return notFoundAs(err, ErrMatchNotFound)
		}
		if m.IsCompleted() {
			return ErrMatchAlreadyCompleted
		}

		pool, err = tx.GetPool(ctx, m.PoolID)
		if err != nil {
			return fmt.Errorf("load pool %d: %w", m.PoolID, err)
		}

		if err := tx.CompletePoolMatch(ctx, matchID, teamAScore, teamBScore, winner, time.Now().UTC()); err != nil {
			return fmt.Errorf("complete match: %w", err)
		}

		for i, set := range sets {
			set.SetNumber = i + 1
			if err := tx.InsertSetResult(ctx, matchID, set); err != nil {
				return fmt.Errorf("store set %d: %w", i+1, err)
			}
		}

		for _, d := range resultDeltas(*m, teamAScore, teamBScore, winner) {
			if err := tx.AdjustPoolPlayerStats(ctx, m.PoolID, d.playerID, d.pool); err != nil {
				return fmt.Errorf("update pool stats for player %d: %w", d.playerID, err)
			}
			if err := tx.AdjustGlobalRanking(ctx, pool.TournamentID, pool.CategoryID, d.playerID, d.ranking); err != nil {
				return fmt.Errorf("update ranking for player %d: %w", d.playerID, err)
			}
		}

		return recalculateRankings(ctx, tx, pool.TournamentID, pool.CategoryID)
	})
	if err != nil {
		return err
	}

	s.log.Info("Result recorded", "match_id", matchID, "team_a", teamAScore, "team_b", teamBScore, "winner", winner)
	s.notifyResult(ctx, pool.TournamentID, pool.CategoryID, matchID)
	return nil
}

// RevertResult clears a recorded result and subtracts it from the running
// totals. Totals that cannot be restored are reported in the outcome; the
// match is reset and its sets removed regardless.
func (s *PoolService) RevertResult(ctx context.Context, matchID int) (*RevertOutcome, error) {
	outcome := &RevertOutcome{MatchID: matchID, Failures: []RevertFailure{}}
	var pool *models.Pool

	err := s.repo.InTx(ctx, func(tx repository.FullRepository) error {
		m, err := tx.GetPoolMatch(ctx, matchID)
		if err != nil {
			return notFoundAs(err, ErrMatchNotFound)
		}
		if !m.IsCompleted() {
			return ErrMatchNotCompleted
		}

		pool, err = tx.GetPool(ctx, m.PoolID)
		if err != nil {
			return fmt.Errorf("load pool %d: %w", m.PoolID, err)
		}

		for _, d := range resultDeltas(*m, m.TeamAScore, m.TeamBScore, m.WinnerTeam) {
			if err := tx.AdjustPoolPlayerStats(ctx, m.PoolID, d.playerID, d.pool.Negate()); err != nil {
				s.log.Warn("Failed to revert pool stats", "match_id", matchID, "player_id", d.playerID, "error", err)
				outcome.Failures = append(outcome.Failures, RevertFailure{PlayerID: d.playerID, Record: "pool_player", Error: err.Error()})
			}
			if err := tx.AdjustGlobalRanking(ctx, pool.TournamentID, pool.CategoryID, d.playerID, d.ranking.Negate()); err != nil {
				s.log.Warn("Failed to revert ranking", "match_id", matchID, "player_id", d.playerID, "error", err)
				outcome.Failures = append(outcome.Failures, RevertFailure{PlayerID: d.playerID, Record: "ranking", Error: err.Error()})
			}
		}

		if err := tx.ResetPoolMatch(ctx, matchID); err != nil {
			return fmt.Errorf("reset match: %w", err)
		}
		if err := tx.DeleteSetResults(ctx, matchID); err != nil {
			return fmt.Errorf("delete sets: %w", err)
		}

		if err := recalculateRankings(ctx, tx, pool.TournamentID, pool.CategoryID); err != nil {
			s.log.Warn("Failed to recompute positions after revert", "match_id", matchID, "error", err)
			outcome.Failures = append(outcome.Failures, RevertFailure{Record: "positions", Error: err.Error()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Result reverted", "match_id", matchID, "failures", len(outcome.Failures))
	s.notifyResult(ctx, pool.TournamentID, pool.CategoryID, matchID)
	return outcome, nil
}

func (s *PoolService) notifyResult(ctx context.Context, tournamentID, categoryID, matchID int) {
	if s.broadcaster == nil {
		return
	}

	m, err := s.GetPoolMatch(ctx, matchID)
	if err != nil {
		s.log.Warn("Failed to load match for broadcast", "match_id", matchID, "error", err)
		return
	}
	s.broadcaster.BroadcastMatchResult(tournamentID, categoryID, m)
	s.broadcastRanking(ctx, tournamentID, categoryID)
}

func (s *PoolService) broadcastRanking(ctx context.Context, tournamentID, categoryID int) {
	if s.broadcaster == nil {
		return
	}
	ranking, err := s.GetRanking(ctx, tournamentID, categoryID)
	if err != nil {
		s.log.Warn("Failed to load ranking for broadcast", "error", err)
		return
	}
	s.broadcaster.BroadcastRanking(tournamentID, categoryID, ranking)
}

// ==================== Ranking ====================

// RecalculateRankings recomputes every ranking position of a category
func (s *PoolService) RecalculateRankings(ctx context.Context, tournamentID, categoryID int) error {
	err := s.repo.InTx(ctx, func(tx repository.FullRepository) error {
		return recalculateRankings(ctx, tx, tournamentID, categoryID)
	})
	if err != nil {
		return err
	}
	s.broadcastRanking(ctx, tournamentID, categoryID)
	return nil
}

// recalculateRankings orders the rows by points, then games won, then matches
// won, and writes positions 1..N. Equal rows keep creation order.
func recalculateRankings(ctx context.Context, repo repository.RankingRepository, tournamentID, categoryID int) error {
	rows, err := repo.ListGlobalRankings(ctx, tournamentID, categoryID)
	if err != nil {
		return fmt.Errorf("load rankings: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TotalGamesWon != b.TotalGamesWon {
			return a.TotalGamesWon > b.TotalGamesWon
		}
		return a.TotalMatchesWon > b.TotalMatchesWon
	})

	for i, row := range rows {
		if err := repo.SetRankingPosition(ctx, row.ID, i+1); err != nil {
			return fmt.Errorf("set position of player %d: %w", row.PlayerID, err)
		}
	}
	return nil
}

// ==================== Accessors ====================

// ListPools returns the pools of a category with their players ordered by
// position and their matches ordered by round
func (s *PoolService) ListPools(ctx context.Context, tournamentID, categoryID int) ([]models.Pool, error) {
	pools, err := s.repo.ListPools(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	players, err := s.repo.ListPoolPlayers(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	matches, err := s.repo.ListPoolMatches(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}

	index := make(map[int]int, len(pools))
	for i := range pools {
		index[pools[i].ID] = i
		pools[i].Players = []models.PoolPlayer{}
		pools[i].Matches = []models.PoolMatch{}
	}
	for _, pp := range players {
		if i, ok := index[pp.PoolID]; ok {
			pools[i].Players = append(pools[i].Players, pp)
		}
	}
	for _, m := range matches {
		if i, ok := index[m.PoolID]; ok {
			pools[i].Matches = append(pools[i].Matches, m)
		}
	}

	if pools == nil {
		pools = []models.Pool{}
	}
	return pools, nil
}

// GetRanking returns the category ranking ordered by position then points
func (s *PoolService) GetRanking(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error) {
	ranking, err := s.repo.ListRankingByPosition(ctx, tournamentID, categoryID)
	if err != nil {
		return nil, err
	}
	if ranking == nil {
		ranking = []models.GlobalRanking{}
	}
	return ranking, nil
}

// GetPoolMatch returns a match with its sets
func (s *PoolService) GetPoolMatch(ctx context.Context, matchID int) (*models.PoolMatch, error) {
	m, err := s.repo.GetPoolMatch(ctx, matchID)
	if err != nil {
		return nil, notFoundAs(err, ErrMatchNotFound)
	}
	sets, err := s.repo.ListSetResults(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m.Sets = sets
	if m.Sets == nil {
		m.Sets = []models.SetResult{}
	}
	return m, nil
}

// GetPoolStandings returns the members of a pool ordered by points, then
// games won, then matches won
func (s *PoolService) GetPoolStandings(ctx context.Context, poolID int) ([]models.PoolPlayer, error) {
	if _, err := s.repo.GetPool(ctx, poolID); err != nil {
		return nil, notFoundAs(err, ErrPoolNotFound)
	}
	players, err := s.repo.ListPoolPlayersByPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		return a.MatchesWon > b.MatchesWon
	})
	return players, nil
}

// GetOverview loads pools and ranking of a category concurrently
func (s *PoolService) GetOverview(ctx context.Context, tournamentID, categoryID int) (*Overview, error) {
	var overview Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pools, err := s.ListPools(gctx, tournamentID, categoryID)
		if err != nil {
			return fmt.Errorf("load pools: %w", err)
		}
		overview.Pools = pools
		return nil
	})
	g.Go(func() error {
		ranking, err := s.GetRanking(gctx, tournamentID, categoryID)
		if err != nil {
			return fmt.Errorf("load ranking: %w", err)
		}
		overview.Ranking = ranking
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// AssignCourt assigns a court to a pool; nil clears it
func (s *PoolService) AssignCourt(ctx context.Context, poolID int, courtID *int) error {
	if courtID != nil {
		if _, err := s.repo.GetCourt(ctx, *courtID); err != nil {
			return notFoundAs(err, ErrCourtNotFound)
		}
	}
	if err := s.repo.SetPoolCourt(ctx, poolID, courtID); err != nil {
		return notFoundAs(err, ErrPoolNotFound)
	}
	return nil
}

// PoolQRCode renders a PNG QR code linking to the pool sheet.
// A size of 0 uses 256 pixels.
func (s *PoolService) PoolQRCode(ctx context.Context, poolID, size int) ([]byte, error) {
	if size == 0 {
		size = 256
	}
	if size < 64 || size > 1024 {
		return nil, ErrInvalidQRSize
	}
	if s.baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}
	if _, err := s.repo.GetPool(ctx, poolID); err != nil {
		return nil, notFoundAs(err, ErrPoolNotFound)
	}

	sheetURL := fmt.Sprintf("%s/pools/%d", s.baseURL, poolID)
	return qrcode.Encode(sheetURL, qrcode.Medium, size)
}
