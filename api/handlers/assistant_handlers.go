package handlers

import (
	"net/http"
	"strings"

	"osprey-mdi/core/assistant"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type AssistantHandler struct {
	svc    *assistant.Service
	audits store.AuditStore
	logger *utils.Logger
}

func NewAssistantHandler(svc *assistant.Service, audits store.AuditStore, logger *utils.Logger) *AssistantHandler {
	return &AssistantHandler{svc: svc, audits: audits, logger: logger}
}

// Ask never fails on upstream errors: the service degrades to the offline
// responder internally.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Question) == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	answer := h.svc.Ask(r.Context(), payload.Question)
	h.audits.Log(r.Context(), actorName(r), "assistant.ask", "")
	writeJSON(w, http.StatusOK, answer)
}
