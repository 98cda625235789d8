package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Worthit/internal/broker"
	"github.com/MikeSquared-Agency/Worthit/internal/export"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

type DecisionsHandler struct {
	broker *broker.Broker
}

func NewDecisionsHandler(b *broker.Broker) *DecisionsHandler {
	return &DecisionsHandler{broker: b}
}

// NamedInputsRequest carries an item name and a partial ItemInputs object.
type NamedInputsRequest struct {
	Name   string          `json:"name"`
	Inputs json.RawMessage `json:"inputs,omitempty"`
}

// decodeNamedInputs reads a NamedInputsRequest body. An empty body means an
// unnamed item with default inputs.
func decodeNamedInputs(b *broker.Broker, w http.ResponseWriter, r *http.Request) (string, scoring.ItemInputs, bool) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", scoring.ItemInputs{}, false
	}

	var req NamedInputsRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return "", scoring.ItemInputs{}, false
		}
	}

	in, err := b.DecodeInputs(req.Inputs)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", scoring.ItemInputs{}, false
	}
	return strings.TrimSpace(req.Name), in, true
}

// Compute scores a partial ItemInputs body decoded over the defaults.
func (h *DecisionsHandler) Compute(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in, err := h.broker.DecodeInputs(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	d := h.broker.Decide(r.Context(), in, broker.SourceAPI)
	if err := d.CheckFinite(); err != nil {
		writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DecisionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	name, in, ok := decodeNamedInputs(h.broker, w, r)
	if !ok {
		return
	}
	d := h.broker.Decide(r.Context(), in, broker.SourceAPI)
	writeText(w, http.StatusOK, export.Summary(name, in, d))
}
