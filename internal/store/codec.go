package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

// EncodeEntries serializes entries as a JSON array.
func EncodeEntries(entries []*Entry) ([]byte, error) {
	if entries == nil {
		entries = []*Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return data, nil
}

// DecodeEntries parses a JSON array of entries. Partial inputs decode over
// defaults. Records that fail to decode or lack an id or inputs are skipped
// and counted; only a payload that is not a JSON array is an error.
func DecodeEntries(data []byte, defaults scoring.ItemInputs) ([]*Entry, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode entries: %w", err)
	}

	entries := make([]*Entry, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		e, err := decodeRecord(r, defaults)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped, nil
}

func decodeRecord(data []byte, defaults scoring.ItemInputs) (*Entry, error) {
	var rec struct {
		ID        string          `json:"id"`
		CreatedAt time.Time       `json:"created_at"`
		Name      string          `json:"name"`
		Inputs    json.RawMessage `json:"inputs"`
		Outputs   json.RawMessage `json:"outputs"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return decodeParts(rec.ID, rec.Name, rec.CreatedAt, rec.Inputs, rec.Outputs, defaults)
}
