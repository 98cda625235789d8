package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Worthit/internal/broker"
	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

type PresetsHandler struct {
	broker *broker.Broker
}

func NewPresetsHandler(b *broker.Broker) *PresetsHandler {
	return &PresetsHandler{broker: b}
}

type PresetsResponse struct {
	Conditions       []scoring.ConditionPreset `json:"conditions"`
	Demands          []scoring.DemandPreset    `json:"demands"`
	DefaultCondition scoring.Condition         `json:"default_condition"`
	DefaultDemand    scoring.Demand            `json:"default_demand"`
}

func (h *PresetsHandler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PresetsResponse{
		Conditions:       scoring.ConditionPresets(),
		Demands:          scoring.DemandPresets(),
		DefaultCondition: scoring.DefaultCondition,
		DefaultDemand:    scoring.DefaultDemand,
	})
}

func (h *PresetsHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.broker.Defaults())
}
