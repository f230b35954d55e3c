package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocStore implements Store using per-model tables with JSONB data columns.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS players (
			id   TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id        TEXT PRIMARY KEY,
			player_id TEXT NOT NULL REFERENCES players(id),
			status    TEXT NOT NULL,
			data      JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_player_id ON sessions (player_id)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &DocStore{db: db}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getDoc(ctx context.Context, q querier, query string, arg, dest any) error {
	var data string
	err := q.QueryRowContext(ctx, query, arg).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func putSession(ctx context.Context, q querier, s sessionDoc) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO sessions (id, player_id, status, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, data = excluded.data`,
		s.ID, s.PlayerID, s.Status, string(data),
	)
	return err
}

func (s *DocStore) UpsertPlayer(ctx context.Context, name string) (playerDoc, error) {
	p := playerDoc{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return playerDoc{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, data) VALUES (?, ?, jsonb(?))
		 ON CONFLICT(name) DO NOTHING`,
		p.ID, p.Name, string(data),
	); err != nil {
		return playerDoc{}, fmt.Errorf("inserting player: %w", err)
	}

	var stored playerDoc
	if err := getDoc(ctx, s.db, `SELECT json(data) FROM players WHERE name = ?`, name, &stored); err != nil {
		return playerDoc{}, fmt.Errorf("loading player: %w", err)
	}
	return stored, nil
}

func (s *DocStore) CreateSession(ctx context.Context, sess sessionDoc) error {
	if err := putSession(ctx, s.db, sess); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *DocStore) Session(ctx context.Context, id string) (sessionDoc, error) {
	var sess sessionDoc
	if err := getDoc(ctx, s.db, `SELECT json(data) FROM sessions WHERE id = ?`, id, &sess); err != nil {
		return sessionDoc{}, err
	}
	return sess, nil
}

func (s *DocStore) UpdateSession(ctx context.Context, id string, fn func(*sessionDoc) error) (sessionDoc, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sessionDoc{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var sess sessionDoc
	if err := getDoc(ctx, tx, `SELECT json(data) FROM sessions WHERE id = ?`, id, &sess); err != nil {
		return sessionDoc{}, err
	}
	if err := fn(&sess); err != nil {
		return sessionDoc{}, err
	}
	if err := putSession(ctx, tx, sess); err != nil {
		return sessionDoc{}, fmt.Errorf("updating session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return sessionDoc{}, fmt.Errorf("committing: %w", err)
	}
	return sess, nil
}
