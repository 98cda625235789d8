package hermes

import (
	"encoding/json"
	"time"
)

// DecisionRequestEvent asks the service to score inputs. Inputs is a partial
// ItemInputs object decoded over the configured defaults.
type DecisionRequestEvent struct {
	RequestID string          `json:"request_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Inputs    json.RawMessage `json:"inputs,omitempty"`
}

type DecisionComputedEvent struct {
	RequestID     string   `json:"request_id,omitempty"`
	Source        string   `json:"source"`
	CacheKey      string   `json:"cache_key,omitempty"`
	Cached        bool     `json:"cached"`
	DecisionScore int      `json:"decision_score"`
	Verdict       string   `json:"verdict"`
	Warnings      []string `json:"warnings,omitempty"`
}

type HistorySavedEvent struct {
	EntryID       string    `json:"entry_id"`
	Name          string    `json:"name,omitempty"`
	DecisionScore int       `json:"decision_score"`
	Verdict       string    `json:"verdict"`
	CreatedAt     time.Time `json:"created_at"`
}

type HistoryDeletedEvent struct {
	EntryID string `json:"entry_id"`
}

type HistoryImportedEvent struct {
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}
