package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

func TestSQLiteListSkipsMalformedRows(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir()+"/history.db", discardLogger())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	good := NewEntry("Good", scoring.DefaultInputs())
	require.NoError(t, s.CreateEntry(ctx, good))

	_, err = s.db.Exec(`INSERT INTO history_entries (id, name, created_at, inputs, outputs)
		VALUES ('bad-json', 'Broken', '2026-01-01T00:00:00.000000000Z', '{not json', '{}')`)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO history_entries (id, name, created_at, inputs, outputs)
		VALUES ('bad-time', 'Broken', 'yesterday', '{}', '{}')`)
	require.NoError(t, err)

	entries, err := s.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, good.ID, entries[0].ID)

	_, err = s.GetEntry(ctx, "bad-json")
	assert.Error(t, err)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/history.db"
	ctx := context.Background()

	s, err := NewSQLiteStore(path, discardLogger())
	require.NoError(t, err)
	e := NewEntry("Headphones", scoring.DefaultInputs().With(scoring.SetPrice(349)))
	require.NoError(t, s.CreateEntry(ctx, e))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, discardLogger())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 349.0, got.Inputs.Price)
	assert.Equal(t, e.Outputs, got.Recompute().Score)
}
