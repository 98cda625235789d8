package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/MikeSquared-Agency/Worthit/internal/metrics"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

// SQLiteStore persists history to a local SQLite file. Inputs and outputs are
// stored as JSON text.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS history_entries (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	inputs     TEXT NOT NULL,
	outputs    TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS history_entries_created_at ON history_entries (created_at);
`

type sqliteRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	Inputs    string `db:"inputs"`
	Outputs   string `db:"outputs"`
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateEntry(ctx context.Context, e *Entry) error {
	prepareEntry(e, uuid.NewString)

	inputs, err := json.Marshal(e.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	outputs, err := json.Marshal(e.Outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO history_entries (id, name, created_at, inputs, outputs)
		VALUES (:id, :name, :created_at, :inputs, :outputs)`,
		sqliteRow{
			ID:        e.ID,
			Name:      e.Name,
			CreatedAt: e.CreatedAt.UTC().Format(timeLayout),
			Inputs:    string(inputs),
			Outputs:   string(outputs),
		})
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var row sqliteRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, created_at, inputs, outputs FROM history_entries WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e, err := row.entry()
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}
	return e, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	var rows []sqliteRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, created_at, inputs, outputs FROM history_entries
		ORDER BY created_at DESC, id ASC
		LIMIT ? OFFSET ?`, limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	out := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			s.logger.Warn("skipping malformed history record", "id", row.ID, "error", err)
			metrics.HistorySkipped.WithLabelValues("sqlite").Inc()
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history_entries WHERE id = ?`, id)
	return err
}

func (r sqliteRow) entry() (*Entry, error) {
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	return decodeParts(r.ID, r.Name, createdAt, []byte(r.Inputs), []byte(r.Outputs), scoring.DefaultInputs())
}
