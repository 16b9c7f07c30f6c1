package handlers

import (
	"net/http"

	"osprey-mdi/core/store"
)

type UsersHandler struct {
	users store.UsersStore
}

func NewUsersHandler(users store.UsersStore) *UsersHandler {
	return &UsersHandler{users: users}
}

// List returns user rows without password hashes (the struct never
// serializes them).
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []store.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
