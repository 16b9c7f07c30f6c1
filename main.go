package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"osprey-mdi/api"
	"osprey-mdi/config"
	"osprey-mdi/core/assistant"
	"osprey-mdi/core/auth"
	"osprey-mdi/core/datasets"
	"osprey-mdi/core/importer"
	"osprey-mdi/core/incidents"
	"osprey-mdi/core/rbac"
	"osprey-mdi/core/retention"
	"osprey-mdi/core/store"
	"osprey-mdi/core/tickets"
	"osprey-mdi/core/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := utils.NewLogger()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *utils.Logger) error {
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		return err
	}

	users := store.NewUsersStore(db)
	sessions := store.NewSessionsStore(db)
	audits := store.NewAuditStore(db)
	incidentsStore := store.NewIncidentsStore(db)
	datasetsStore := store.NewDatasetsStore(db)
	ticketsStore := store.NewTicketsStore(db)

	// One-time legacy credential import and optional CSV seeding run
	// before the listener comes up.
	if _, err := auth.ImportLegacyUsers(ctx, users, cfg.LegacyUsersFile, logger); err != nil {
		return err
	}
	im := importer.New(db, logger)
	if err := im.SeedFromDir(ctx, cfg.CSVDataDir); err != nil {
		return err
	}

	policy, err := rbac.NewPolicy()
	if err != nil {
		return err
	}

	deps := api.ServerDeps{
		Users:          users,
		Sessions:       sessions,
		Audits:         audits,
		Authenticator:  auth.NewAuthenticator(users, cfg),
		SessionManager: auth.NewSessionManager(sessions, cfg, logger),
		Policy:         policy,
		IncidentsSvc:   incidents.NewService(incidentsStore, audits, logger),
		DatasetsSvc:    datasets.NewService(datasetsStore, audits, logger),
		TicketsSvc:     tickets.NewService(ticketsStore, audits, logger),
		AssistantSvc:   assistant.NewService(assistant.NewClient(cfg.Assistant), incidentsStore, logger),
		Importer:       im,
	}

	worker := retention.NewWorker(cfg.Retention, sessions, audits, logger)
	if err := worker.Start(ctx); err != nil {
		return err
	}
	defer worker.Stop()

	return api.NewServer(cfg, deps, logger).Run(ctx)
}
