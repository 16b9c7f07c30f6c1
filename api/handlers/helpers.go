package handlers

import (
	"encoding/json"
	"net/http"

	"osprey-mdi/core/auth"
	"osprey-mdi/core/store"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// sessionFrom returns the authenticated session placed in the context by
// the middleware, or nil for unauthenticated requests.
func sessionFrom(r *http.Request) *store.SessionRecord {
	if v := r.Context().Value(auth.SessionContextKey); v != nil {
		if sr, ok := v.(*store.SessionRecord); ok {
			return sr
		}
	}
	return nil
}

func actorName(r *http.Request) string {
	if sr := sessionFrom(r); sr != nil {
		return sr.Username
	}
	return ""
}
