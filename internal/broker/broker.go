// Package broker sits between transports and the scoring engine. It decodes
// inputs over the configured defaults, serves decisions through the cache,
// persists history and fans out events.
package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Worthit/internal/cache"
	"github.com/MikeSquared-Agency/Worthit/internal/hermes"
	"github.com/MikeSquared-Agency/Worthit/internal/metrics"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
	"github.com/MikeSquared-Agency/Worthit/internal/store"
)

const (
	SourceAPI  = "api"
	SourceNATS = "nats"
)

// requestTimeout bounds work done for one NATS decision request.
const requestTimeout = 5 * time.Second

type Broker struct {
	store    store.Store
	cache    cache.Cache
	hermes   hermes.Client
	defaults scoring.ItemInputs
	logger   *slog.Logger
}

// New wires a broker. c and h may be nil; the broker then computes every
// decision and publishes nothing.
func New(s store.Store, c cache.Cache, h hermes.Client, defaults scoring.ItemInputs, logger *slog.Logger) *Broker {
	return &Broker{
		store:    s,
		cache:    c,
		hermes:   h,
		defaults: defaults.Normalize(),
		logger:   logger,
	}
}

func (b *Broker) Defaults() scoring.ItemInputs {
	return b.defaults
}

// DecodeInputs decodes a partial ItemInputs object over the defaults. An
// empty payload yields the defaults.
func (b *Broker) DecodeInputs(data []byte) (scoring.ItemInputs, error) {
	in := b.defaults
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return scoring.ItemInputs{}, fmt.Errorf("decode inputs: %w", err)
	}
	return in.Normalize(), nil
}

// Decide scores in, serving from the cache when possible.
func (b *Broker) Decide(ctx context.Context, in scoring.ItemInputs, source string) scoring.Decision {
	return b.decide(ctx, in, source, "")
}

func (b *Broker) decide(ctx context.Context, in scoring.ItemInputs, source, requestID string) scoring.Decision {
	in = in.Normalize()

	key, err := cache.DecisionKey(in)
	if err != nil {
		b.logger.Warn("failed to build cache key", "error", err)
	}

	d, cached := b.lookup(ctx, key)
	if !cached {
		d = scoring.ComputeDecision(in)
		if d.CheckFinite() == nil {
			b.remember(ctx, key, d)
		}
	}

	metrics.ObserveDecision(d)
	b.publish(hermes.SubjectDecisionComputed, hermes.DecisionComputedEvent{
		RequestID:     requestID,
		Source:        source,
		CacheKey:      key,
		Cached:        cached,
		DecisionScore: d.Score.DecisionScore,
		Verdict:       d.Score.Verdict,
		Warnings:      d.Warnings,
	})
	return d
}

func (b *Broker) lookup(ctx context.Context, key string) (scoring.Decision, bool) {
	if b.cache == nil || key == "" {
		return scoring.Decision{}, false
	}
	data, ok := b.cache.Get(ctx, key)
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return scoring.Decision{}, false
	}
	var d scoring.Decision
	if err := json.Unmarshal(data, &d); err != nil {
		b.logger.Warn("discarding unreadable cached decision", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return scoring.Decision{}, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return d, true
}

func (b *Broker) remember(ctx context.Context, key string, d scoring.Decision) {
	if b.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		b.logger.Warn("failed to encode decision for cache", "key", key, "error", err)
		return
	}
	if err := b.cache.Set(ctx, key, data); err != nil {
		b.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Save scores in and persists it as a new history entry. Inputs whose
// decision overflows are rejected with an error wrapping
// scoring.ErrNonFinite.
func (b *Broker) Save(ctx context.Context, name string, in scoring.ItemInputs) (*store.Entry, error) {
	in = in.Normalize()
	if err := scoring.ComputeDecision(in).CheckFinite(); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	e := store.NewEntry(strings.TrimSpace(name), in)
	if err := b.store.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	metrics.HistorySaved.Inc()
	b.publish(hermes.SubjectHistorySaved(e.ID), hermes.HistorySavedEvent{
		EntryID:       e.ID,
		Name:          e.Name,
		DecisionScore: e.Outputs.DecisionScore,
		Verdict:       e.Outputs.Verdict,
		CreatedAt:     e.CreatedAt,
	})
	return e, nil
}

// Delete removes an entry and reports whether it existed.
func (b *Broker) Delete(ctx context.Context, id string) (bool, error) {
	e, err := b.store.GetEntry(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get entry: %w", err)
	}
	if e == nil {
		return false, nil
	}
	if err := b.store.DeleteEntry(ctx, id); err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	b.publish(hermes.SubjectHistoryDeleted(id), hermes.HistoryDeletedEvent{EntryID: id})
	return true, nil
}

// Export serializes the whole history, newest first.
func (b *Broker) Export(ctx context.Context) ([]byte, error) {
	entries, err := b.store.ListEntries(ctx, store.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return store.EncodeEntries(entries)
}

// Import loads an exported history. Partial inputs decode over the
// configured defaults and outputs are recomputed from them. Malformed
// records, records whose decision overflows and entries the store rejects
// are skipped. It returns the imported and skipped counts.
func (b *Broker) Import(ctx context.Context, data []byte) (int, int, error) {
	entries, skipped, err := store.DecodeEntries(data, b.defaults)
	if err != nil {
		return 0, 0, err
	}

	imported := 0
	for _, e := range entries {
		e.Inputs = e.Inputs.Normalize()
		d := e.Recompute()
		if err := d.CheckFinite(); err != nil {
			b.logger.Warn("skipping history record on import", "id", e.ID, "error", err)
			skipped++
			continue
		}
		e.Outputs = d.Score
		if err := b.store.CreateEntry(ctx, e); err != nil {
			b.logger.Warn("skipping history record on import", "id", e.ID, "error", err)
			skipped++
			continue
		}
		imported++
	}

	metrics.HistorySaved.Add(float64(imported))
	metrics.HistorySkipped.WithLabelValues("import").Add(float64(skipped))
	b.publish(hermes.SubjectHistoryImported, hermes.HistoryImportedEvent{
		Imported:  imported,
		Skipped:   skipped,
		Timestamp: time.Now().UTC(),
	})
	return imported, skipped, nil
}

// SetupSubscriptions registers the NATS decision request handler.
func (b *Broker) SetupSubscriptions() error {
	if b.hermes == nil {
		return nil
	}
	return b.hermes.Subscribe(hermes.SubjectDecisionRequest, b.handleDecisionRequest)
}

func (b *Broker) handleDecisionRequest(_ string, data []byte) {
	var req hermes.DecisionRequestEvent
	if err := json.Unmarshal(data, &req); err != nil {
		b.logger.Warn("invalid decision request event", "error", err)
		return
	}
	in, err := b.DecodeInputs(req.Inputs)
	if err != nil {
		b.logger.Warn("invalid decision request inputs", "request_id", req.RequestID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	d := b.decide(ctx, in, SourceNATS, req.RequestID)
	b.logger.Info("decision request handled",
		"request_id", req.RequestID,
		"name", req.Name,
		"score", d.Score.DecisionScore,
		"verdict", d.Score.Verdict,
	)
}

// publish is best-effort; failures are logged.
func (b *Broker) publish(subject string, data interface{}) {
	if b.hermes == nil {
		return
	}
	if err := b.hermes.Publish(subject, data); err != nil {
		b.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
