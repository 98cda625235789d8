package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Worthit/internal/metrics"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS decision_history (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	inputs     JSONB NOT NULL,
	outputs    JSONB NOT NULL DEFAULT '{}'::jsonb
);

CREATE INDEX IF NOT EXISTS decision_history_created_at ON decision_history (created_at DESC);
`

func NewPostgresStore(ctx context.Context, databaseURL string, logger *slog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const entryColumns = `id, name, created_at, inputs, outputs`

func (s *PostgresStore) CreateEntry(ctx context.Context, e *Entry) error {
	prepareEntry(e, uuid.NewString)

	inputsJSON, err := json.Marshal(e.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	outputsJSON, err := json.Marshal(e.Outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO decision_history (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Name, e.CreatedAt, inputsJSON, outputsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var (
		name                    string
		createdAt               time.Time
		inputsJSON, outputsJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM decision_history WHERE id = $1`, id,
	).Scan(&id, &name, &createdAt, &inputsJSON, &outputsJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e, err := decodeParts(id, name, createdAt.UTC(), inputsJSON, outputsJSON, scoring.DefaultInputs())
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}
	return e, nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM decision_history ORDER BY created_at DESC, id ASC`
	args := []interface{}{}
	n := 0

	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var (
			id, name                string
			createdAt               time.Time
			inputsJSON, outputsJSON []byte
		)
		if err := rows.Scan(&id, &name, &createdAt, &inputsJSON, &outputsJSON); err != nil {
			return nil, err
		}
		e, err := decodeParts(id, name, createdAt.UTC(), inputsJSON, outputsJSON, scoring.DefaultInputs())
		if err != nil {
			s.logger.Warn("skipping malformed history record", "id", id, "error", err)
			metrics.HistorySkipped.WithLabelValues("postgres").Inc()
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM decision_history WHERE id = $1`, id)
	return err
}
