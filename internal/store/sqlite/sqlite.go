package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridhall/relay-server/internal/directory"
)

const schema = `
CREATE TABLE IF NOT EXISTS spaces (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements directory.Directory over the SQLite database the
// administration service maintains. The relay only reads from it at join
// time; AddSpace exists for local development and tests.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath and ensures the spaces schema exists.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

// GetSpace resolves a space id to its grid dimensions.
func (s *Store) GetSpace(ctx context.Context, id string) (*directory.Space, error) {
	space := &directory.Space{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, width, height FROM spaces WHERE id = ?`, id,
	).Scan(&space.ID, &space.Name, &space.Width, &space.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, directory.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query space: %w", err)
	}
	return space, nil
}

// AddSpace inserts a space. Fails if the id already exists.
func (s *Store) AddSpace(ctx context.Context, space *directory.Space) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO spaces (id, name, width, height) VALUES (?, ?, ?, ?)`,
		space.ID, space.Name, space.Width, space.Height,
	)
	if err != nil {
		return fmt.Errorf("insert space: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
