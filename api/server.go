package api

import (
	"context"
	"net/http"
	"time"

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

	"github.com/go-chi/chi/v5"
)

type ServerDeps struct {
	Users          store.UsersStore
	Sessions       store.SessionStore
	Audits         store.AuditStore
	Authenticator  *auth.Authenticator
	SessionManager *auth.SessionManager
	Policy         *rbac.Policy
	IncidentsSvc   *incidents.Service
	DatasetsSvc    *datasets.Service
	TicketsSvc     *tickets.Service
	AssistantSvc   *assistant.Service
	Importer       *importer.Importer
}

type Server struct {
	cfg            *config.AppConfig
	logger         *utils.Logger
	users          store.UsersStore
	sessions       store.SessionStore
	audits         store.AuditStore
	authenticator  *auth.Authenticator
	sessionManager *auth.SessionManager
	policy         *rbac.Policy
	incidentsSvc   *incidents.Service
	datasetsSvc    *datasets.Service
	ticketsSvc     *tickets.Service
	assistantSvc   *assistant.Service
	importer       *importer.Importer
	loginLimiter   *requestLimiter
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	return &Server{
		cfg:            cfg,
		logger:         logger,
		users:          deps.Users,
		sessions:       deps.Sessions,
		audits:         deps.Audits,
		authenticator:  deps.Authenticator,
		sessionManager: deps.SessionManager,
		policy:         deps.Policy,
		incidentsSvc:   deps.IncidentsSvc,
		datasetsSvc:    deps.DatasetsSvc,
		ticketsSvc:     deps.TicketsSvc,
		assistantSvc:   deps.AssistantSvc,
		importer:       deps.Importer,
		loginLimiter:   newLimiter(10, time.Minute),
	}
}

func (s *Server) Router() http.Handler {
	authHandler := handlers.NewAuthHandler(s.cfg, s.authenticator, s.sessionManager, s.sessions, s.audits, s.logger)
	incidentsHandler := handlers.NewIncidentsHandler(s.incidentsSvc, s.logger)
	datasetsHandler := handlers.NewDatasetsHandler(s.datasetsSvc, s.logger)
	ticketsHandler := handlers.NewTicketsHandler(s.ticketsSvc, s.logger)
	assistantHandler := handlers.NewAssistantHandler(s.assistantSvc, s.audits, s.logger)
	logsHandler := handlers.NewLogsHandler(s.audits)
	importHandler := handlers.NewImportHandler(s.importer, s.audits, s.logger)
	usersHandler := handlers.NewUsersHandler(s.users)

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.loginRateLimit(authHandler.Login))
		r.Post("/auth/register", s.loginRateLimit(authHandler.Register))
		r.Post("/auth/logout", s.withSession(authHandler.Logout))
		r.Get("/auth/me", s.withSession(authHandler.Me))

		r.Get("/incidents", s.withSession(s.requirePermission("incidents.view", incidentsHandler.List)))
		r.Get("/incidents/summary", s.withSession(s.requirePermission("incidents.view", incidentsHandler.Summary)))
		r.Post("/incidents", s.withSession(s.requirePermission("incidents.manage", incidentsHandler.Create)))
		r.Patch("/incidents/{incident_id}/status", s.withSession(s.requirePermission("incidents.manage", incidentsHandler.UpdateStatus)))
		r.Delete("/incidents/{incident_id}", s.withSession(s.requirePermission("incidents.manage", incidentsHandler.Delete)))

		r.Get("/datasets", s.withSession(s.requirePermission("datasets.view", datasetsHandler.List)))
		r.Get("/datasets/summary", s.withSession(s.requirePermission("datasets.view", datasetsHandler.Summary)))
		r.Post("/datasets", s.withSession(s.requirePermission("datasets.manage", datasetsHandler.Create)))
		r.Patch("/datasets/{dataset_name}/owner", s.withSession(s.requirePermission("datasets.manage", datasetsHandler.UpdateOwner)))
		r.Delete("/datasets/{dataset_name}", s.withSession(s.requirePermission("datasets.manage", datasetsHandler.Delete)))

		r.Get("/tickets", s.withSession(s.requirePermission("tickets.view", ticketsHandler.List)))
		r.Get("/tickets/summary", s.withSession(s.requirePermission("tickets.view", ticketsHandler.Summary)))
		r.Post("/tickets", s.withSession(s.requirePermission("tickets.manage", ticketsHandler.Create)))
		r.Patch("/tickets/{ticket_id}/status", s.withSession(s.requirePermission("tickets.manage", ticketsHandler.UpdateStatus)))
		r.Delete("/tickets/{ticket_id}", s.withSession(s.requirePermission("tickets.manage", ticketsHandler.Delete)))

		r.Post("/assistant/ask", s.withSession(s.requirePermission("assistant.use", assistantHandler.Ask)))

		r.Get("/logs", s.withSession(s.requirePermission("logs.view", logsHandler.List)))
		r.Get("/users", s.withSession(s.requirePermission("users.view", usersHandler.List)))
		r.Post("/import/csv", s.withSession(s.requirePermission("import.manage", importHandler.ImportCSV)))
	})
	return r
}

// Run serves until ctx is cancelled, then drains with a short grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if s.logger != nil {
		s.logger.Printf("listening on %s", s.cfg.ListenAddr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func sessionRecord(r *http.Request) *store.SessionRecord {
	if v := r.Context().Value(auth.SessionContextKey); v != nil {
		if sr, ok := v.(*store.SessionRecord); ok {
			return sr
		}
	}
	return nil
}
