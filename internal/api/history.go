package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Worthit/internal/broker"
	"github.com/MikeSquared-Agency/Worthit/internal/export"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
	"github.com/MikeSquared-Agency/Worthit/internal/store"
)

type HistoryHandler struct {
	store  store.Store
	broker *broker.Broker
}

func NewHistoryHandler(s store.Store, b *broker.Broker) *HistoryHandler {
	return &HistoryHandler{store: s, broker: b}
}

// EntryResponse pairs a saved entry with a decision recomputed from its
// inputs.
type EntryResponse struct {
	Entry    *store.Entry     `json:"entry"`
	Decision scoring.Decision `json:"decision"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	name, in, ok := decodeNamedInputs(h.broker, w, r)
	if !ok {
		return
	}
	e, err := h.broker.Save(r.Context(), name, in)
	if errors.Is(err, scoring.ErrNonFinite) {
		writeDecisionError(w, err)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.EntryFilter
	for param, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := r.URL.Query().Get(param)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
			return
		}
		*dst = n
	}

	entries, err := h.store.ListEntries(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []*store.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// entry loads the {id} entry or writes the error response.
func (h *HistoryHandler) entry(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	e, err := h.store.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return nil, false
	}
	return e, true
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	d := e.Recompute()
	if err := d.CheckFinite(); err != nil {
		writeDecisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Entry: e, Decision: d})
}

func (h *HistoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, export.Summary(e.Name, e.Inputs, e.Recompute()))
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := h.broker.Delete(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.broker.Export(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="worthit-history.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	imported, skipped, err := h.broker.Import(r.Context(), body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: imported, Skipped: skipped})
}
