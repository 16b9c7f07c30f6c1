package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"osprey-mdi/api/handlers"
	"osprey-mdi/config"
	"osprey-mdi/core/assistant"
	"osprey-mdi/core/auth"
	"osprey-mdi/core/datasets"
	"osprey-mdi/core/importer"
	"osprey-mdi/core/incidents"
	"osprey-mdi/core/rbac"
	"osprey-mdi/core/store"
	"osprey-mdi/core/tickets"
	"osprey-mdi/core/utils"
)

type testEnv struct {
	server *Server
	router http.Handler
	auth   *auth.Authenticator
	cfg    *config.AppConfig
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "api.db"),
		Pepper:   "pepper",
		Assistant: config.AssistantConfig{
			BaseURL:    "http://127.0.0.1:0",
			Model:      "test-model",
			TimeoutSec: 1,
		},
	}
	logger := utils.NewNopLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	users := store.NewUsersStore(db)
	sessions := store.NewSessionsStore(db)
	audits := store.NewAuditStore(db)
	incidentsStore := store.NewIncidentsStore(db)
	policy, err := rbac.NewPolicy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	authenticator := auth.NewAuthenticator(users, cfg)
	deps := ServerDeps{
		Users:          users,
		Sessions:       sessions,
		Audits:         audits,
		Authenticator:  authenticator,
		SessionManager: auth.NewSessionManager(sessions, cfg, logger),
		Policy:         policy,
		IncidentsSvc:   incidents.NewService(incidentsStore, audits, logger),
		DatasetsSvc:    datasets.NewService(store.NewDatasetsStore(db), audits, logger),
		TicketsSvc:     tickets.NewService(store.NewTicketsStore(db), audits, logger),
		AssistantSvc:   assistant.NewService(assistant.NewClient(cfg.Assistant), incidentsStore, logger),
		Importer:       importer.New(db, logger),
	}
	srv := NewServer(cfg, deps, logger)
	return &testEnv{server: srv, router: srv.Router(), auth: authenticator, cfg: cfg}
}

func (env *testEnv) register(t *testing.T, username, password, role string) {
	t.Helper()
	if _, err := env.auth.Register(context.Background(), username, password, role); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
}

type loginSession struct {
	cookie *http.Cookie
	csrf   string
}

func (env *testEnv) login(t *testing.T, username, password string) loginSession {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:12345"
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rr.Code, rr.Body.String())
	}
	var parsed struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("login response: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == handlers.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("no session cookie set")
	}
	return loginSession{cookie: cookie, csrf: parsed.CSRFToken}
}

func (env *testEnv) do(t *testing.T, sess loginSession, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:12345"
	if sess.cookie != nil {
		req.AddCookie(sess.cookie)
	}
	if sess.csrf != "" {
		req.Header.Set("X-CSRF-Token", sess.csrf)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "general")

	wrongPassword := env.do(t, loginSession{}, http.MethodPost, "/api/auth/login",
		`{"username":"alice","password":"wrong"}`)
	unknownUser := env.do(t, loginSession{}, http.MethodPost, "/api/auth/login",
		`{"username":"bobby","password":"anything"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Fatalf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestIncidentEndToEnd(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "admin")
	sess := env.login(t, "alice", "correcthorse")

	create := env.do(t, sess, http.MethodPost, "/api/incidents",
		`{"incident_id":"T1","incident_type":"Phishing","severity":"High","status":"Open","reported_at":"2025-01-01"}`)
	if create.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", create.Code, create.Body.String())
	}

	list := env.do(t, sess, http.MethodGet, "/api/incidents", "")
	if list.Code != http.StatusOK {
		t.Fatalf("list: %d", list.Code)
	}
	var listed struct {
		Items []store.Incident `json:"items"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listed); err != nil {
		t.Fatalf("list body: %v", err)
	}
	if len(listed.Items) != 1 || listed.Items[0].IncidentID != "T1" || listed.Items[0].Status != "Open" {
		t.Fatalf("unexpected list: %+v", listed.Items)
	}

	update := env.do(t, sess, http.MethodPatch, "/api/incidents/T1/status", `{"status":"Resolved"}`)
	if update.Code != http.StatusOK {
		t.Fatalf("update: %d %s", update.Code, update.Body.String())
	}
	list = env.do(t, sess, http.MethodGet, "/api/incidents", "")
	_ = json.Unmarshal(list.Body.Bytes(), &listed)
	if listed.Items[0].Status != "Resolved" {
		t.Fatalf("status not updated: %+v", listed.Items[0])
	}

	del := env.do(t, sess, http.MethodDelete, "/api/incidents/T1", "")
	if del.Code != http.StatusOK {
		t.Fatalf("delete: %d", del.Code)
	}
	list = env.do(t, sess, http.MethodGet, "/api/incidents", "")
	_ = json.Unmarshal(list.Body.Bytes(), &listed)
	if len(listed.Items) != 0 {
		t.Fatalf("incident still listed after delete: %+v", listed.Items)
	}
}

func TestUpdateMissingKeyReportsZero(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "admin")
	sess := env.login(t, "alice", "correcthorse")

	update := env.do(t, sess, http.MethodPatch, "/api/incidents/NOPE/status", `{"status":"Closed"}`)
	if update.Code != http.StatusOK {
		t.Fatalf("missing key must be a no-op, got %d", update.Code)
	}
	var parsed struct {
		Updated int64 `json:"updated"`
	}
	_ = json.Unmarshal(update.Body.Bytes(), &parsed)
	if parsed.Updated != 0 {
		t.Fatalf("expected 0 rows, got %d", parsed.Updated)
	}
}

func TestRBACDeniesGeneralMutations(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "viewer", "correcthorse", "general")
	sess := env.login(t, "viewer", "correcthorse")

	if rr := env.do(t, sess, http.MethodGet, "/api/incidents", ""); rr.Code != http.StatusOK {
		t.Fatalf("general should read incidents: %d", rr.Code)
	}
	if rr := env.do(t, sess, http.MethodPost, "/api/incidents", `{"incident_id":"T1"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("general should not create incidents: %d", rr.Code)
	}
	if rr := env.do(t, sess, http.MethodGet, "/api/logs", ""); rr.Code != http.StatusForbidden {
		t.Fatalf("general should not read logs: %d", rr.Code)
	}
}

func TestSessionAndCSRFGuards(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "admin")
	sess := env.login(t, "alice", "correcthorse")

	if rr := env.do(t, loginSession{}, http.MethodGet, "/api/incidents", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie must be unauthorized: %d", rr.Code)
	}
	noCSRF := loginSession{cookie: sess.cookie}
	if rr := env.do(t, noCSRF, http.MethodPost, "/api/incidents", `{"incident_id":"T1"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("missing csrf must be forbidden: %d", rr.Code)
	}
	// GET does not require the token.
	if rr := env.do(t, noCSRF, http.MethodGet, "/api/incidents", ""); rr.Code != http.StatusOK {
		t.Fatalf("csrf must not gate reads: %d", rr.Code)
	}
}

func TestAssistantFallsBackOffline(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "general")
	sess := env.login(t, "alice", "correcthorse")

	rr := env.do(t, sess, http.MethodPost, "/api/assistant/ask", `{"question":"what first?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("ask: %d %s", rr.Code, rr.Body.String())
	}
	var answer assistant.Answer
	if err := json.Unmarshal(rr.Body.Bytes(), &answer); err != nil {
		t.Fatalf("answer body: %v", err)
	}
	if !answer.Offline || !strings.Contains(answer.Text, "Offline") {
		t.Fatalf("expected offline fallback, got %+v", answer)
	}
}

func TestCSVImportEndpoint(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "root", "correcthorse", "admin")
	env.register(t, "viewer", "correcthorse", "general")
	adminSess := env.login(t, "root", "correcthorse")
	viewerSess := env.login(t, "viewer", "correcthorse")

	csvBody := "ticket_id,priority,status\nIT-9,High,Open\n"
	if rr := env.do(t, viewerSess, http.MethodPost, "/api/import/csv?table=it_tickets", csvBody); rr.Code != http.StatusForbidden {
		t.Fatalf("import must be admin-only: %d", rr.Code)
	}
	rr := env.do(t, adminSess, http.MethodPost, "/api/import/csv?table=it_tickets", csvBody)
	if rr.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rr.Code, rr.Body.String())
	}
	list := env.do(t, adminSess, http.MethodGet, "/api/tickets", "")
	var listed struct {
		Items []store.Ticket `json:"items"`
	}
	_ = json.Unmarshal(list.Body.Bytes(), &listed)
	if len(listed.Items) != 1 || listed.Items[0].TicketID != "IT-9" {
		t.Fatalf("imported ticket missing: %+v", listed.Items)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := setupEnv(t)
	rr := env.do(t, loginSession{}, http.MethodPost, "/api/auth/register",
		`{"username":"newbie","password":"password1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rr.Code, rr.Body.String())
	}
	dup := env.do(t, loginSession{}, http.MethodPost, "/api/auth/register",
		`{"username":"newbie","password":"password2"}`)
	if dup.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", dup.Code)
	}
	short := env.do(t, loginSession{}, http.MethodPost, "/api/auth/register",
		`{"username":"ok","password":"password1"}`)
	if short.Code != http.StatusBadRequest {
		t.Fatalf("short username must be rejected: %d", short.Code)
	}
	// Self-registration always lands on the lowest role.
	sess := env.login(t, "newbie", "password1")
	if rr := env.do(t, sess, http.MethodPost, "/api/incidents", `{"incident_id":"X"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("self-registered user must not manage incidents: %d", rr.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := setupEnv(t)
	env.register(t, "alice", "correcthorse", "admin")
	sess := env.login(t, "alice", "correcthorse")

	if rr := env.do(t, sess, http.MethodPost, "/api/auth/logout", ""); rr.Code != http.StatusOK {
		t.Fatalf("logout: %d", rr.Code)
	}
	if rr := env.do(t, sess, http.MethodGet, "/api/incidents", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("session must be invalid after logout: %d", rr.Code)
	}
}
