package handlers

import (
	"net/http"
	"strings"

	"osprey-mdi/core/store"
	"osprey-mdi/core/tickets"
	"osprey-mdi/core/utils"
)

type TicketsHandler struct {
	svc    *tickets.Service
	logger *utils.Logger
}

func NewTicketsHandler(svc *tickets.Service, logger *utils.Logger) *TicketsHandler {
	return &TicketsHandler{svc: svc, logger: logger}
}

func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []store.Ticket{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *TicketsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t store.Ticket
	if err := decodeJSON(r, &t); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(t.TicketID) == "" {
		http.Error(w, "ticket_id required", http.StatusBadRequest)
		return
	}
	id, err := h.svc.Create(r.Context(), actorName(r), &t)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	t.ID = id
	writeJSON(w, http.StatusCreated, map[string]any{"item": t})
}

func (h *TicketsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ticketID := urlParam(r, "ticket_id")
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Status) == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	n, err := h.svc.ChangeStatus(r.Context(), actorName(r), ticketID, payload.Status)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

func (h *TicketsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ticketID := urlParam(r, "ticket_id")
	n, err := h.svc.Remove(r.Context(), actorName(r), ticketID)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

func (h *TicketsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
