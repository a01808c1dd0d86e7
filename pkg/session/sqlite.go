// Copyright (C) 2026 Valence Project
//
// This file is part of valence-go.
//
// valence-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// valence-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with valence-go.  If not, see <https://www.gnu.org/licenses/>.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/valence-project/valence-go/pkg/auth"
)

// SQLiteStore implements Store on a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the session database at path
// and ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// Single connection: one writer, and in-memory databases keep their
	// schema across calls.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			name             TEXT PRIMARY KEY,
			host             TEXT NOT NULL,
			user_id          TEXT NOT NULL,
			user_key         TEXT NOT NULL,
			encrypt_requests INTEGER NOT NULL,
			server_skew      INTEGER NOT NULL,
			anonymous        INTEGER NOT NULL,
			updated_at       INTEGER NOT NULL
		);`,
	); err != nil {
		return fmt.Errorf("failed to init 'sessions' table schema: %w", err)
	}
	return nil
}

// Save upserts the session by name. On conflict all columns are updated.
func (s *SQLiteStore) Save(ctx context.Context, name string, props auth.ContextProperties) error {
	query := ` INSERT INTO sessions (name, host, user_id, user_key, encrypt_requests, server_skew, anonymous, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET host = excluded.host,
				user_id = excluded.user_id,
				user_key = excluded.user_key,
				encrypt_requests = excluded.encrypt_requests,
				server_skew = excluded.server_skew,
				anonymous = excluded.anonymous,
				updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		name, props.Host, props.UserID, props.UserKey,
		props.EncryptRequests, props.ServerSkew, props.Anonymous,
		time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// Load returns the properties for a single saved session.
func (s *SQLiteStore) Load(ctx context.Context, name string) (auth.ContextProperties, error) {
	query := `select host, user_id, user_key, encrypt_requests, server_skew, anonymous from sessions where name=?`
	row := s.db.QueryRowContext(ctx, query, name)

	var props auth.ContextProperties
	err := row.Scan(&props.Host, &props.UserID, &props.UserKey,
		&props.EncryptRequests, &props.ServerSkew, &props.Anonymous)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.ContextProperties{}, ErrNotFound
	}
	if err != nil {
		return auth.ContextProperties{}, fmt.Errorf("failed to load session: %w", err)
	}
	return props, nil
}

// Delete removes a saved session. It expects exactly one row to be affected.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `delete from sessions where name=?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all saved session names.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `select name from sessions order by name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
