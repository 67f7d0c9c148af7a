package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps each collection as one JSONB row in a documents table.
// A save replaces the whole row, mirroring the file store's rewrite model.
type PostgresStore struct {
	db DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS documents (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	data, err := s.load(ctx, UsersDocument)
	if err != nil {
		return nil, err
	}
	return DecodeUsers(data)
}

func (s *PostgresStore) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	data, err := EncodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.save(ctx, UsersDocument, data)
}

func (s *PostgresStore) LoadEvents(ctx context.Context) (map[string]*model.Event, error) {
	data, err := s.load(ctx, EventsDocument)
	if err != nil {
		return nil, err
	}
	return DecodeEvents(data)
}

func (s *PostgresStore) SaveEvents(ctx context.Context, events map[string]*model.Event) error {
	data, err := EncodeEvents(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return s.save(ctx, EventsDocument, data)
}

func (s *PostgresStore) load(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE name = $1`,
		name,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s document: %w", name, err)
	}
	return body, nil
}

func (s *PostgresStore) save(ctx context.Context, name string, body []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO documents (name, body, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE
		 SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		name, string(body),
	)
	if err != nil {
		return fmt.Errorf("save %s document: %w", name, err)
	}
	return nil
}
