package handlers

import (
	"net/http"
	"strings"

	"osprey-mdi/core/incidents"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type IncidentsHandler struct {
	svc    *incidents.Service
	logger *utils.Logger
}

func NewIncidentsHandler(svc *incidents.Service, logger *utils.Logger) *IncidentsHandler {
	return &IncidentsHandler{svc: svc, logger: logger}
}

func (h *IncidentsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []store.Incident{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *IncidentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var inc store.Incident
	if err := decodeJSON(r, &inc); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(inc.IncidentID) == "" {
		http.Error(w, "incident_id required", http.StatusBadRequest)
		return
	}
	id, err := h.svc.Create(r.Context(), actorName(r), &inc)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	inc.ID = id
	writeJSON(w, http.StatusCreated, map[string]any{"item": inc})
}

// UpdateStatus is a set operation: it touches every row sharing the
// business key and reports the affected count. Zero is a valid outcome.
func (h *IncidentsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	incidentID := urlParam(r, "incident_id")
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Status) == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	n, err := h.svc.ChangeStatus(r.Context(), actorName(r), incidentID, payload.Status)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

func (h *IncidentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	incidentID := urlParam(r, "incident_id")
	n, err := h.svc.Remove(r.Context(), actorName(r), incidentID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

func (h *IncidentsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
