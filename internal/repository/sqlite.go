package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/padelpools/internal/models"
)

// querier is the subset of *sql.DB and *sql.Tx the repository needs
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides data access methods. A Repository handed to an
// InTx callback runs every statement on that transaction.
type Repository struct {
	db *sql.DB
	q  querier
	tx *sql.Tx
}

// New opens the SQLite database at dbPath and applies migrations
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := newWithDB(db)
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

func newWithDB(db *sql.DB) *Repository {
	return &Repository{db: db, q: db}
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InTx runs fn inside a database transaction. The transaction is committed
// when fn returns nil and rolled back otherwise. Calling InTx on a
// transactional repository reuses the outer transaction.
//
// fn must only use the repository it is given: the pool has a single
// connection and the transaction holds it.
func (r *Repository) InTx(ctx context.Context, fn func(tx FullRepository) error) (err error) {
	if r.tx != nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()

	return fn(&Repository{db: r.db, q: tx, tx: tx})
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			starts_on TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
			UNIQUE(tournament_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS courts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			club TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name TEXT,
			ranking_points INTEGER NOT NULL DEFAULT 0,
			external_id INTEGER UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			category_id INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (category_id, player_id),
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE,
			FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS pools (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			number INTEGER NOT NULL,
			court_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id),
			FOREIGN KEY (category_id) REFERENCES categories(id),
			FOREIGN KEY (court_id) REFERENCES courts(id) ON DELETE SET NULL,
			UNIQUE(tournament_id, category_id, number)
		)`,
		`CREATE TABLE IF NOT EXISTS pool_players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pool_id INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			position INTEGER NOT NULL CHECK (position BETWEEN 1 AND 4),
			games_won INTEGER NOT NULL DEFAULT 0,
			games_lost INTEGER NOT NULL DEFAULT 0,
			matches_won INTEGER NOT NULL DEFAULT 0,
			matches_lost INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE CASCADE,
			FOREIGN KEY (player_id) REFERENCES players(id),
			UNIQUE(pool_id, player_id),
			UNIQUE(pool_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS pool_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pool_id INTEGER NOT NULL,
			round INTEGER NOT NULL CHECK (round BETWEEN 1 AND 3),
			player1_id INTEGER NOT NULL,
			player2_id INTEGER NOT NULL,
			player3_id INTEGER NOT NULL,
			player4_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			team_a_score INTEGER NOT NULL DEFAULT 0,
			team_b_score INTEGER NOT NULL DEFAULT 0,
			winner_team TEXT,
			completed_at DATETIME,
			FOREIGN KEY (pool_id) REFERENCES pools(id) ON DELETE CASCADE,
			UNIQUE(pool_id, round)
		)`,
		`CREATE TABLE IF NOT EXISTS set_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id INTEGER NOT NULL,
			set_number INTEGER NOT NULL,
			team_a_games INTEGER NOT NULL,
			team_b_games INTEGER NOT NULL,
			FOREIGN KEY (match_id) REFERENCES pool_matches(id) ON DELETE CASCADE,
			UNIQUE(match_id, set_number)
		)`,
		`CREATE TABLE IF NOT EXISTS global_rankings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			player_id INTEGER NOT NULL,
			total_games_won INTEGER NOT NULL DEFAULT 0,
			total_games_lost INTEGER NOT NULL DEFAULT 0,
			total_matches_won INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			position INTEGER,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (player_id) REFERENCES players(id),
			UNIQUE(tournament_id, category_id, player_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pools_scope ON pools(tournament_id, category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pool_players_pool ON pool_players(pool_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pool_matches_pool ON pool_matches(pool_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rankings_scope ON global_rankings(tournament_id, category_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Tournament Methods ====================

// CreateTournament creates a tournament
func (r *Repository) CreateTournament(ctx context.Context, name, startsOn string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `INSERT INTO tournaments (name, starts_on) VALUES (?, ?)`, name, nullString(startsOn))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetTournament retrieves a tournament by ID
func (r *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var t models.Tournament
	var startsOn sql.NullString
	err := r.q.QueryRowContext(ctx, `SELECT id, name, starts_on, created_at FROM tournaments WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &startsOn, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.StartsOn = startsOn.String
	return &t, nil
}

// ListTournaments returns all tournaments, newest first
func (r *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, starts_on, created_at FROM tournaments ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		var t models.Tournament
		var startsOn sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &startsOn, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.StartsOn = startsOn.String
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// CreateCategory creates a category within a tournament
func (r *Repository) CreateCategory(ctx context.Context, tournamentID int, name string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `INSERT INTO categories (tournament_id, name) VALUES (?, ?)`, tournamentID, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetCategory retrieves a category by ID
func (r *Repository) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := r.q.QueryRowContext(ctx, `SELECT id, tournament_id, name FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.TournamentID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns the categories of a tournament
func (r *Repository) ListCategories(ctx context.Context, tournamentID int) ([]models.Category, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, tournament_id, name FROM categories WHERE tournament_id = ? ORDER BY id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.TournamentID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ==================== Court Methods ====================

// CreateCourt creates a court
func (r *Repository) CreateCourt(ctx context.Context, name, club string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `INSERT INTO courts (name, club) VALUES (?, ?)`, name, nullString(club))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetCourt retrieves a court by ID
func (r *Repository) GetCourt(ctx context.Context, id int) (*models.Court, error) {
	var c models.Court
	var club sql.NullString
	err := r.q.QueryRowContext(ctx, `SELECT id, name, club FROM courts WHERE id = ?`, id).Scan(&c.ID, &c.Name, &club)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Club = club.String
	return &c, nil
}

// ListCourts returns all courts
func (r *Repository) ListCourts(ctx context.Context) ([]models.Court, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, club FROM courts ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []models.Court
	for rows.Next() {
		var c models.Court
		var club sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &club); err != nil {
			return nil, err
		}
		c.Club = club.String
		courts = append(courts, c)
	}
	return courts, rows.Err()
}

// ==================== Player Methods ====================

const playerColumns = `p.id, p.first_name, p.last_name, p.ranking_points, p.external_id`

func scanPlayer(s interface{ Scan(...any) error }) (models.Player, error) {
	var p models.Player
	var lastName sql.NullString
	var externalID sql.NullInt64
	if err := s.Scan(&p.ID, &p.FirstName, &lastName, &p.RankingPoints, &externalID); err != nil {
		return p, err
	}
	p.LastName = lastName.String
	if externalID.Valid {
		id := int(externalID.Int64)
		p.ExternalID = &id
	}
	return p, nil
}

// CreatePlayer creates a player
func (r *Repository) CreatePlayer(ctx context.Context, p models.Player) (int64, error) {
	result, err := r.q.ExecContext(ctx, `
		INSERT INTO players (first_name, last_name, ranking_points, external_id)
		VALUES (?, ?, ?, ?)
	`, p.FirstName, nullString(p.LastName), p.RankingPoints, p.ExternalID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	p, err := scanPlayer(r.q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players p WHERE p.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns all players ordered by name
func (r *Repository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return r.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players p ORDER BY p.last_name, p.first_name, p.id`)
}

// UpsertPlayerByExternalID inserts a player or updates the one with the same
// external ID. Reports whether a new row was created.
func (r *Repository) UpsertPlayerByExternalID(ctx context.Context, p models.Player) (int64, bool, error) {
	if p.ExternalID == nil {
		return 0, false, fmt.Errorf("upsert player %q: external id is required", p.FullName())
	}

	var existing int64
	err := r.q.QueryRowContext(ctx, `SELECT id FROM players WHERE external_id = ?`, *p.ExternalID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		id, err := r.CreatePlayer(ctx, p)
		return id, true, err
	case err != nil:
		return 0, false, err
	}

	_, err = r.q.ExecContext(ctx, `
		UPDATE players SET first_name = ?, last_name = ?, ranking_points = ? WHERE id = ?
	`, p.FirstName, nullString(p.LastName), p.RankingPoints, existing)
	return existing, false, err
}

// ==================== Registration Methods ====================

// RegisterPlayer adds a player to a category roster.
// Reports false if the player was already registered.
func (r *Repository) RegisterPlayer(ctx context.Context, categoryID, playerID int) (bool, error) {
	result, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO registrations (category_id, player_id) VALUES (?, ?)`, categoryID, playerID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// UnregisterPlayer removes a player from a category roster
func (r *Repository) UnregisterPlayer(ctx context.Context, categoryID, playerID int) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM registrations WHERE category_id = ? AND player_id = ?`, categoryID, playerID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// ListRoster returns the players registered to a category in registration order
func (r *Repository) ListRoster(ctx context.Context, categoryID int) ([]models.Player, error) {
	return r.queryPlayers(ctx, `
		SELECT `+playerColumns+`
		FROM registrations reg
		JOIN players p ON p.id = reg.player_id
		WHERE reg.category_id = ?
		ORDER BY reg.created_at, p.id
	`, categoryID)
}

func (r *Repository) queryPlayers(ctx context.Context, query string, args ...any) ([]models.Player, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ==================== Helpers ====================

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// checkAffected maps a zero-row update or delete to ErrNotFound
func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
