package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"osprey-mdi/config"
	"osprey-mdi/core/auth"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

const (
	SessionCookieName = "osprey_session"
	CSRFCookieName    = "osprey_csrf"

	// Single text for both lookup miss and hash mismatch, so responses do
	// not reveal which usernames exist.
	genericLoginError = "invalid username or password"
)

type AuthHandler struct {
	cfg            *config.AppConfig
	authenticator  *auth.Authenticator
	sessionManager *auth.SessionManager
	sessions       store.SessionStore
	audits         store.AuditStore
	logger         *utils.Logger
}

func NewAuthHandler(cfg *config.AppConfig, authenticator *auth.Authenticator, sm *auth.SessionManager, sessions store.SessionStore, audits store.AuditStore, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, authenticator: authenticator, sessionManager: sm, sessions: sessions, audits: audits, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credentials
	if err := decodeJSON(r, &cred); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	cred.Username = strings.ToLower(strings.TrimSpace(cred.Username))
	if err := utils.ValidateUsername(cred.Username); err != nil {
		http.Error(w, genericLoginError, http.StatusUnauthorized)
		return
	}
	ident, err := h.authenticator.Login(r.Context(), cred.Username, cred.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			h.audits.Log(r.Context(), cred.Username, "auth.login_failed", "user not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.audits.Log(r.Context(), cred.Username, "auth.login_failed", "invalid password")
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		http.Error(w, genericLoginError, http.StatusUnauthorized)
		return
	}
	sess, err := h.sessionManager.Create(r.Context(), ident, clientIP(r), r.UserAgent())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("session create failed for %s: %v", cred.Username, err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.audits.Log(r.Context(), ident.Username, "auth.login_success", "")
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    sess.CSRFToken,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       ident,
		"csrf_token": sess.CSRFToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := actorName(r)
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		_ = h.sessionManager.Delete(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
	h.audits.Log(r.Context(), actor, "auth.logout", "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	payload.Username = strings.ToLower(strings.TrimSpace(payload.Username))
	if err := utils.ValidateUsername(payload.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidatePassword(payload.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Self-registration always yields the lowest role.
	ident, err := h.authenticator.Register(r.Context(), payload.Username, payload.Password, "general")
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			http.Error(w, "username already exists", http.StatusConflict)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.audits.Log(r.Context(), ident.Username, "auth.register", "")
	writeJSON(w, http.StatusCreated, map[string]any{"user": ident})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sr := sessionFrom(r)
	if sr == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       auth.Identity{ID: sr.UserID, Username: sr.Username, Role: sr.Role},
		"csrf_token": sr.CSRFToken,
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || ip == "" {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return ip
}
