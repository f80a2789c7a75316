// Package store provides the persistence layer for the server. It wraps a
// SQLite database holding the stable device identity, cached access tokens
// and a small audit log of recent searches. Callers open a single Store with
// New and reuse it for all operations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
)

// Store wraps a sql.DB connection and exposes helper methods for the
// server's persistence needs.
type Store struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not exist
// it is created along with the required schema.
func New(path string) (*Store, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS device (id INTEGER PRIMARY KEY CHECK (id = 1), device_id TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS tokens (server_url TEXT, username TEXT, token TEXT NOT NULL, user_id TEXT NOT NULL, PRIMARY KEY(server_url, username))`,
		`CREATE TABLE IF NOT EXISTS searches (id INTEGER PRIMARY KEY AUTOINCREMENT, search_id TEXT, library TEXT, term TEXT, result_count INTEGER, searched_at TIMESTAMP)`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, err
		}
	}
	return &Store{d}, nil
}

// DeviceID returns the stable device identifier reported to the media
// server, generating and persisting one on first use. Reusing the id keeps
// the server from accumulating a new device entry per run.
func (s *Store) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := s.QueryRowContext(ctx, `SELECT device_id FROM device WHERE id = 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id = uuid.NewString()
	if _, err := s.ExecContext(ctx, `INSERT INTO device(id, device_id) VALUES(1, ?)`, id); err != nil {
		return "", err
	}
	return id, nil
}

// SaveToken caches an access token for the given server and account so
// later runs can skip the password flow. An existing entry is replaced.
func (s *Store) SaveToken(ctx context.Context, serverURL, username, accessToken, userID string) error {
	b, err := json.Marshal(&oauth2.Token{AccessToken: accessToken})
	if err != nil {
		return err
	}
	_, err = s.ExecContext(ctx,
		`INSERT INTO tokens(server_url, username, token, user_id) VALUES(?, ?, ?, ?)
		 ON CONFLICT(server_url, username) DO UPDATE SET token=excluded.token, user_id=excluded.user_id`,
		serverURL, username, string(b), userID)
	return err
}

// Token retrieves the cached access token and user id for the given server
// and account. sql.ErrNoRows is returned when nothing is cached.
func (s *Store) Token(ctx context.Context, serverURL, username string) (accessToken, userID string, err error) {
	var data string
	if err := s.QueryRowContext(ctx,
		`SELECT token, user_id FROM tokens WHERE server_url=? AND username=?`,
		serverURL, username).Scan(&data, &userID); err != nil {
		return "", "", err
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		return "", "", err
	}
	return tok.AccessToken, userID, nil
}

// DeleteToken drops the cached token for the given server and account, used
// when a cached token turns out to be revoked.
func (s *Store) DeleteToken(ctx context.Context, serverURL, username string) error {
	_, err := s.ExecContext(ctx, `DELETE FROM tokens WHERE server_url=? AND username=?`, serverURL, username)
	return err
}

// SearchRecord is one entry in the search audit log.
type SearchRecord struct {
	SearchID    string
	Library     string
	Term        string
	ResultCount int
	SearchedAt  time.Time
}

// RecordSearch appends a search to the audit log.
func (s *Store) RecordSearch(ctx context.Context, searchID, library, term string, resultCount int) error {
	_, err := s.ExecContext(ctx,
		`INSERT INTO searches(search_id, library, term, result_count, searched_at) VALUES(?, ?, ?, ?, ?)`,
		searchID, library, term, resultCount, time.Now().UTC())
	return err
}

// RecentSearches returns the most recent audit log entries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.QueryContext(ctx,
		`SELECT search_id, library, term, result_count, searched_at FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.SearchID, &r.Library, &r.Term, &r.ResultCount, &r.SearchedAt); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
