package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"osprey-mdi/core/utils"
)

// Column whitelist per importable table; header names outside it are
// rejected so the CSV can never address the surrogate key or another
// table's columns.
var tableColumns = map[string]map[string]struct{}{
	"cyber_incidents": {
		"incident_id": {}, "incident_type": {}, "severity": {}, "status": {},
		"reported_at": {}, "resolved_at": {}, "assigned_to": {}, "description": {},
	},
	"datasets_metadata": {
		"dataset_name": {}, "owner": {}, "source_system": {},
		"size_mb": {}, "row_count": {}, "created_at": {},
	},
	"it_tickets": {
		"ticket_id": {}, "category": {}, "priority": {}, "status": {},
		"opened_at": {}, "closed_at": {}, "assigned_to": {},
	},
}

var seedFiles = map[string]string{
	"cyber_incidents.csv":   "cyber_incidents",
	"datasets_metadata.csv": "datasets_metadata",
	"it_tickets.csv":        "it_tickets",
}

type Importer struct {
	db     *sql.DB
	logger *utils.Logger
}

func New(db *sql.DB, logger *utils.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

// ImportCSV appends every record of r into table. The first record is the
// header and must name whitelisted columns only. Returns rows inserted.
func (im *Importer) ImportCSV(ctx context.Context, table string, r io.Reader) (int, error) {
	allowed, ok := tableColumns[table]
	if !ok {
		return 0, fmt.Errorf("table %q is not importable", table)
	}
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, 0, len(header))
	for _, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, ok := allowed[name]; !ok {
			return 0, fmt.Errorf("column %q not allowed for table %s", name, table)
		}
		cols = append(cols, name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)

	inserted := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, err
		}
		args := make([]any, len(cols))
		for i := range cols {
			if i < len(record) {
				args[i] = strings.TrimSpace(record[i])
			} else {
				args[i] = ""
			}
		}
		if _, err := im.db.ExecContext(ctx, stmt, args...); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// SeedFromDir loads the conventional seed files from dir when they exist.
// Missing files are skipped, matching one-shot seeding on a fresh install.
func (im *Importer) SeedFromDir(ctx context.Context, dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	for filename, table := range seedFiles {
		path := filepath.Join(dir, filename)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		n, err := im.ImportCSV(ctx, table, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("seed %s: %w", filename, err)
		}
		if im.logger != nil {
			im.logger.Printf("seeded %d rows into %s", n, table)
		}
	}
	return nil
}
