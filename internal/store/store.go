package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

// Entry is one saved decision: the inputs as entered and the scores they
// produced at save time.
type Entry struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Name      string              `json:"name"`
	Inputs    scoring.ItemInputs  `json:"inputs"`
	Outputs   scoring.ScoreResult `json:"outputs"`
}

// NewEntry computes outputs for in and wraps both in an unsaved Entry.
func NewEntry(name string, in scoring.ItemInputs) *Entry {
	d := scoring.ComputeDecision(in)
	return &Entry{
		Name:    name,
		Inputs:  in,
		Outputs: d.Score,
	}
}

// Recompute re-runs the engine over the saved inputs.
func (e *Entry) Recompute() scoring.Decision {
	return scoring.ComputeDecision(e.Inputs)
}

type EntryFilter struct {
	Limit  int
	Offset int
}

// Store persists saved history entries. Lookups of missing entries return
// nil, nil. Listing skips records that cannot be decoded.
type Store interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	Close() error
}

// timeLayout sorts lexically in chronological order for UTC times.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// decodeParts rebuilds an entry from separately stored JSON columns. Inputs
// decode over defaults so records missing a field still score. Backends pass
// scoring.DefaultInputs(): they only read back complete records written by
// CreateEntry.
func decodeParts(id, name string, createdAt time.Time, inputs, outputs []byte, defaults scoring.ItemInputs) (*Entry, error) {
	if id == "" {
		return nil, errors.New("missing id")
	}
	if len(inputs) == 0 || string(inputs) == "null" {
		return nil, errors.New("missing inputs")
	}
	e := &Entry{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		Inputs:    defaults,
	}
	if err := json.Unmarshal(inputs, &e.Inputs); err != nil {
		return nil, fmt.Errorf("decode inputs: %w", err)
	}
	if len(outputs) > 0 && string(outputs) != "null" {
		if err := json.Unmarshal(outputs, &e.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
	}
	return e, nil
}

func prepareEntry(e *Entry, newID func() string) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}
