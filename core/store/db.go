package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"osprey-mdi/config"
	"osprey-mdi/core/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// NewDB opens the configured backend: an embedded single-file sqlite
// database by default, or postgres via db_url when db_driver is "postgres".
func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*sql.DB, error) {
	driver := "sqlite"
	if cfg != nil && strings.TrimSpace(cfg.DBDriver) != "" {
		driver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	}
	switch driver {
	case "postgres":
		if cfg == nil || strings.TrimSpace(cfg.DBURL) == "" {
			return nil, fmt.Errorf("db_driver postgres requires db_url")
		}
		db, err := sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Printf("DB open driver=postgres")
		}
		return db, nil
	case "sqlite":
		path := "data/osprey.db"
		if cfg != nil && strings.TrimSpace(cfg.DBPath) != "" {
			path = cfg.DBPath
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, err
			}
		}
		dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// The sqlite file serializes writes; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		if logger != nil {
			logger.Printf("DB open driver=sqlite path=%s", path)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported db_driver %q", driver)
	}
}
