package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
)

// SQLiteStore implements StrategyStore using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ StrategyStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the strategy database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		legs TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_strategies_updated ON strategies(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores a new strategy under a freshly generated ID.
func (s *SQLiteStore) Save(ctx context.Context, name string, legs []models.OptionLeg) (*models.SavedStrategy, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	legsJSON, err := encodeLegs(legs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	strategy := &models.SavedStrategy{
		ID:        uuid.NewString(),
		Name:      name,
		Legs:      legs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if strategy.Legs == nil {
		strategy.Legs = []models.OptionLeg{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO strategies (id, name, legs, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, strategy.ID, strategy.Name, legsJSON, now, now)
	if err != nil {
		return nil, dbError("save strategy", err)
	}

	return strategy, nil
}

// List returns every strategy, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]models.SavedStrategy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, legs, created_at, updated_at
		FROM strategies
		ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, dbError("list strategies", err)
	}
	defer rows.Close()

	strategies := []models.SavedStrategy{}
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list strategies", err)
	}

	return strategies, nil
}

// Get returns the strategy with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.SavedStrategy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, legs, created_at, updated_at
		FROM strategies WHERE id = ?
	`, id)

	st, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Update replaces the name and legs of an existing strategy.
func (s *SQLiteStore) Update(ctx context.Context, id, name string, legs []models.OptionLeg) (*models.SavedStrategy, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	legsJSON, err := encodeLegs(legs)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE strategies SET name = ?, legs = ?, updated_at = ? WHERE id = ?
	`, name, legsJSON, s.now(), id)
	if err != nil {
		return nil, dbError("update strategy", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound(id)
	}

	return s.Get(ctx, id)
}

// Delete removes a strategy.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM strategies WHERE id = ?`, id)
	if err != nil {
		return dbError("delete strategy", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row scanner) (*models.SavedStrategy, error) {
	var (
		st       models.SavedStrategy
		legsJSON string
	)
	if err := row.Scan(&st.ID, &st.Name, &legsJSON, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, dbError("scan strategy", err)
	}
	if err := json.Unmarshal([]byte(legsJSON), &st.Legs); err != nil {
		return nil, dbError("decode legs", err)
	}
	if st.Legs == nil {
		st.Legs = []models.OptionLeg{}
	}
	return &st, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", name, "strategy name is required")
	}
	return name, nil
}

func encodeLegs(legs []models.OptionLeg) (string, error) {
	if legs == nil {
		legs = []models.OptionLeg{}
	}
	data, err := json.Marshal(legs)
	if err != nil {
		return "", fmt.Errorf("failed to encode legs: %w", err)
	}
	return string(data), nil
}

func notFound(id string) error {
	return apperrors.NewDataError("strategy", id, "no such strategy", apperrors.ErrStrategyNotFound)
}

func dbError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrDatabaseError, err)
}
