// Package litestore implements links.Store on SQLite.
//
// It is the colocated alternative to the clink backend for deployments where
// the external binary is unavailable: the same flat-triple model, but with a
// real transactional store underneath, so Clear is atomic here even though
// the Store contract does not require it.
package litestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/linkstore/internal/links"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed link storage.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies the
// schema. Idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one connection
	// to avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new link and returns it with the assigned id.
func (s *Store) Create(ctx context.Context, source, target int64) (links.Link, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO links (source, target) VALUES (?, ?)`, source, target)
	if err != nil {
		return links.Link{}, fmt.Errorf("create link: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return links.Link{}, fmt.Errorf("create link: %w", err)
	}
	return links.Link{ID: id, Source: source, Target: target}, nil
}

// ReadAll returns every link ordered by id.
func (s *Store) ReadAll(ctx context.Context) ([]links.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, target FROM links ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}
	defer rows.Close()

	all := []links.Link{}
	for rows.Next() {
		var link links.Link
		if err := rows.Scan(&link.ID, &link.Source, &link.Target); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		all = append(all, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return all, nil
}

// ReadOne returns the link with the given id, or nil if absent.
func (s *Store) ReadOne(ctx context.Context, id int64) (*links.Link, error) {
	var link links.Link
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, target FROM links WHERE id = ?`, id).
		Scan(&link.ID, &link.Source, &link.Target)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read link %d: %w", id, err)
	}
	return &link, nil
}

// Update replaces source and target of the link with the given id.
func (s *Store) Update(ctx context.Context, id, source, target int64) (links.Link, error) {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE links SET source = ?, target = ? WHERE id = ?`, source, target, id); err != nil {
		return links.Link{}, fmt.Errorf("update link %d: %w", id, err)
	}
	return links.Link{ID: id, Source: source, Target: target}, nil
}

// Delete removes the link with the given id. Idempotent.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete link %d: %w", id, err)
	}
	return nil
}

// Clear removes every link in one statement.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM links`); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	return nil
}
