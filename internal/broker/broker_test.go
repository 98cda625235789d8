package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Worthit/internal/cache"
	"github.com/MikeSquared-Agency/Worthit/internal/hermes"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
	"github.com/MikeSquared-Agency/Worthit/internal/store"
)

type published struct {
	subject string
	data    interface{}
}

// recordingHermes captures publishes and the registered handlers.
type recordingHermes struct {
	mu       sync.Mutex
	events   []published
	handlers map[string]func(string, []byte)
	err      error
}

func newRecordingHermes() *recordingHermes {
	return &recordingHermes{handlers: make(map[string]func(string, []byte))}
}

func (h *recordingHermes) Publish(subject string, data interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, published{subject, data})
	return h.err
}

func (h *recordingHermes) Subscribe(subject string, handler func(string, []byte)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[subject] = handler
	return nil
}

func (h *recordingHermes) Close() {}

func (h *recordingHermes) subjects() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		out = append(out, e.subject)
	}
	return out
}

func (h *recordingHermes) last() published {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.events[len(h.events)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBroker(c cache.Cache, h hermes.Client) (*Broker, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return New(s, c, h, scoring.DefaultInputs(), testLogger()), s
}

func TestDecodeInputs(t *testing.T) {
	b, _ := newTestBroker(nil, nil)

	in, err := b.DecodeInputs(nil)
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultInputs(), in)

	in, err = b.DecodeInputs([]byte(`{"price": 900, "condition": "poor", "demand": "bogus"}`))
	require.NoError(t, err)
	assert.Equal(t, 900.0, in.Price)
	assert.Equal(t, scoring.ConditionPoor, in.Condition)
	assert.Equal(t, scoring.DefaultDemand, in.Demand)
	assert.Equal(t, scoring.DefaultInputs().JoyScore, in.JoyScore)

	_, err = b.DecodeInputs([]byte(`{"price": "lots"}`))
	assert.Error(t, err)
}

func TestDecodeInputsUsesConfiguredDefaults(t *testing.T) {
	defaults := scoring.DefaultInputs().With(scoring.SetTaxRate(8))
	b := New(store.NewMemoryStore(), nil, nil, defaults, testLogger())

	in, err := b.DecodeInputs([]byte(`{"price": 100}`))
	require.NoError(t, err)
	assert.Equal(t, 8.0, in.TaxRatePct)
	assert.Equal(t, 8.0, b.Defaults().TaxRatePct)
}

func TestDecideMatchesEngine(t *testing.T) {
	b, _ := newTestBroker(nil, nil)
	in := scoring.DefaultInputs().With(scoring.SetPrice(1500), scoring.SetWaitForSale(true, 20, 1))

	assert.Equal(t, scoring.ComputeDecision(in), b.Decide(context.Background(), in, SourceAPI))
}

func TestDecideUsesCache(t *testing.T) {
	h := newRecordingHermes()
	b, _ := newTestBroker(cache.NewMemoryCache(0, 0), h)
	ctx := context.Background()
	in := scoring.DefaultInputs()

	first := b.Decide(ctx, in, SourceAPI)
	second := b.Decide(ctx, in, SourceAPI)
	assert.Equal(t, first, second)

	require.Len(t, h.events, 2)
	e1 := h.events[0].data.(hermes.DecisionComputedEvent)
	e2 := h.events[1].data.(hermes.DecisionComputedEvent)
	assert.Equal(t, hermes.SubjectDecisionComputed, h.events[0].subject)
	assert.False(t, e1.Cached)
	assert.True(t, e2.Cached)
	assert.Equal(t, e1.CacheKey, e2.CacheKey)
	assert.Equal(t, SourceAPI, e2.Source)
	assert.Equal(t, 60, e2.DecisionScore)
}

func TestDecideIgnoresCorruptCacheEntry(t *testing.T) {
	c := cache.NewMemoryCache(0, 0)
	b, _ := newTestBroker(c, nil)
	ctx := context.Background()
	in := scoring.DefaultInputs()

	key, err := cache.DecisionKey(in)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, []byte("{broken")))

	assert.Equal(t, scoring.ComputeDecision(in), b.Decide(ctx, in, SourceAPI))

	data, ok := c.Get(ctx, key)
	require.True(t, ok)
	var cached scoring.Decision
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, scoring.ComputeDecision(in), cached)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	h := newRecordingHermes()
	h.err = errors.New("nats down")
	b, s := newTestBroker(nil, h)
	ctx := context.Background()

	d := b.Decide(ctx, scoring.DefaultInputs(), SourceAPI)
	assert.Equal(t, 60, d.Score.DecisionScore)

	e, err := b.Save(ctx, "Bag", scoring.DefaultInputs())
	require.NoError(t, err)
	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSaveAndDelete(t *testing.T) {
	h := newRecordingHermes()
	b, s := newTestBroker(nil, h)
	ctx := context.Background()

	e, err := b.Save(ctx, "  Road bike  ", scoring.DefaultInputs().With(scoring.SetPrice(2400)))
	require.NoError(t, err)
	assert.Equal(t, "Road bike", e.Name)
	assert.NotEmpty(t, e.ID)

	saved := h.last()
	assert.Equal(t, hermes.SubjectHistorySaved(e.ID), saved.subject)
	assert.Equal(t, e.Outputs.Verdict, saved.data.(hermes.HistorySavedEvent).Verdict)

	found, err := b.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, hermes.SubjectHistoryDeleted(e.ID), h.last().subject)

	got, err := s.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	found, err = b.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestBroker(nil, nil)
	for _, p := range []float64{120, 480, 3100} {
		_, err := src.Save(ctx, "item", scoring.DefaultInputs().With(scoring.SetPrice(p)))
		require.NoError(t, err)
	}

	data, err := src.Export(ctx)
	require.NoError(t, err)

	h := newRecordingHermes()
	dst, dstStore := newTestBroker(nil, h)
	imported, skipped, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, imported)
	assert.Zero(t, skipped)

	entries, err := dstStore.ListEntries(ctx, store.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, e.Outputs, e.Recompute().Score)
	}

	assert.Equal(t, []string{hermes.SubjectHistoryImported}, h.subjects())
	ev := h.last().data.(hermes.HistoryImportedEvent)
	assert.Equal(t, 3, ev.Imported)

	// A second import of the same payload collides on every id.
	imported, skipped, err = dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Zero(t, imported)
	assert.Equal(t, 3, skipped)
}

func TestImportRecomputesStaleOutputs(t *testing.T) {
	b, s := newTestBroker(nil, nil)
	ctx := context.Background()
	payload := `[{"id": "stale", "name": "Old", "created_at": "2025-01-01T00:00:00Z",
		"inputs": {"price": 500}, "outputs": {"decision_score": 99, "verdict": "Buy"}},
		{"name": "no id", "inputs": {}}]`

	imported, skipped, err := b.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	e, err := s.GetEntry(ctx, "stale")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 60, e.Outputs.DecisionScore)
	assert.Equal(t, scoring.VerdictWait, e.Outputs.Verdict)

	_, _, err = b.Import(ctx, []byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestImportUsesConfiguredDefaults(t *testing.T) {
	defaults := scoring.DefaultInputs().With(scoring.SetTaxRate(8))
	s := store.NewMemoryStore()
	b := New(s, nil, nil, defaults, testLogger())
	ctx := context.Background()

	imported, skipped, err := b.Import(ctx, []byte(`[{"id": "x", "inputs": {"price": 100}}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Zero(t, skipped)

	e, err := s.GetEntry(ctx, "x")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 100.0, e.Inputs.Price)
	assert.Equal(t, 8.0, e.Inputs.TaxRatePct)
	assert.Equal(t, scoring.ComputeDecision(e.Inputs).Score, e.Outputs)
}

func overflowingInputs() scoring.ItemInputs {
	return scoring.DefaultInputs().With(scoring.SetPrice(1e308), scoring.SetTaxRate(100))
}

func TestSaveRejectsOverflowingDecision(t *testing.T) {
	h := newRecordingHermes()
	b, s := newTestBroker(nil, h)
	ctx := context.Background()

	e, err := b.Save(ctx, "Yacht", overflowingInputs())
	assert.Nil(t, e)
	assert.ErrorIs(t, err, scoring.ErrNonFinite)
	assert.Empty(t, h.events)

	entries, err := s.ListEntries(ctx, store.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportSkipsOverflowingRecords(t *testing.T) {
	b, s := newTestBroker(nil, nil)
	ctx := context.Background()
	payload := `[{"id": "huge", "inputs": {"price": 1e308, "tax_rate_pct": 100}},
		{"id": "fine", "inputs": {"price": 300}}]`

	imported, skipped, err := b.Import(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	e, err := s.GetEntry(ctx, "huge")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestDecideSkipsCachingOverflowingDecision(t *testing.T) {
	c := cache.NewMemoryCache(0, 0)
	b, _ := newTestBroker(c, nil)
	ctx := context.Background()
	in := overflowingInputs()

	d := b.Decide(ctx, in, SourceAPI)
	assert.ErrorIs(t, d.CheckFinite(), scoring.ErrNonFinite)

	key, err := cache.DecisionKey(in)
	require.NoError(t, err)
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
}

func TestDecisionRequestSubscription(t *testing.T) {
	h := newRecordingHermes()
	b, _ := newTestBroker(nil, h)
	require.NoError(t, b.SetupSubscriptions())

	handler, ok := h.handlers[hermes.SubjectDecisionRequest]
	require.True(t, ok)

	handler(hermes.SubjectDecisionRequest, []byte(`{"request_id": "r-1", "name": "Drone", "inputs": {"price": 900}}`))
	require.Len(t, h.events, 1)
	ev := h.last().data.(hermes.DecisionComputedEvent)
	assert.Equal(t, "r-1", ev.RequestID)
	assert.Equal(t, SourceNATS, ev.Source)
	want := scoring.ComputeDecision(scoring.DefaultInputs().With(scoring.SetPrice(900)))
	assert.Equal(t, want.Score.DecisionScore, ev.DecisionScore)

	handler(hermes.SubjectDecisionRequest, []byte(`not json`))
	handler(hermes.SubjectDecisionRequest, []byte(`{"inputs": {"price": "x"}}`))
	assert.Len(t, h.events, 1)
}

func TestSetupSubscriptionsWithoutHermes(t *testing.T) {
	b, _ := newTestBroker(nil, nil)
	assert.NoError(t, b.SetupSubscriptions())
}
