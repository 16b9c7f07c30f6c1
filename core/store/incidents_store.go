package store

import (
	"context"
	"database/sql"
)

// Incident mirrors one row of cyber_incidents. IncidentID is the
// application-level key; the schema does not enforce it unique, so key-based
// updates and deletes are set operations over every matching row.
type Incident struct {
	ID           int64  `json:"id"`
	IncidentID   string `json:"incident_id"`
	IncidentType string `json:"incident_type"`
	Severity     string `json:"severity"`
	Status       string `json:"status"`
	ReportedAt   string `json:"reported_at"`
	ResolvedAt   string `json:"resolved_at"`
	AssignedTo   string `json:"assigned_to"`
	Description  string `json:"description"`
}

type IncidentsStore interface {
	Create(ctx context.Context, inc *Incident) (int64, error)
	ListAll(ctx context.Context) ([]Incident, error)
	// UpdateStatus sets status on every row whose incident_id matches and
	// returns the number of rows affected. Zero matches is a no-op.
	UpdateStatus(ctx context.Context, incidentID, status string) (int64, error)
	// Delete removes every row whose incident_id matches.
	Delete(ctx context.Context, incidentID string) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountBySeverity(ctx context.Context) (map[string]int, error)
}

type incidentsStore struct {
	db *sql.DB
}

func NewIncidentsStore(db *sql.DB) IncidentsStore {
	return &incidentsStore{db: db}
}

func (s *incidentsStore) Create(ctx context.Context, inc *Incident) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO cyber_incidents
		(incident_id, incident_type, severity, status, reported_at, resolved_at, assigned_to, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inc.IncidentID, inc.IncidentType, inc.Severity, inc.Status,
		inc.ReportedAt, inc.ResolvedAt, inc.AssignedTo, inc.Description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *incidentsStore) ListAll(ctx context.Context) ([]Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, incident_id, incident_type, severity, status,
		       reported_at, resolved_at, assigned_to, description
		FROM cyber_incidents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Incident
	for rows.Next() {
		var inc Incident
		var incidentID, incidentType, severity, status sql.NullString
		var reportedAt, resolvedAt, assignedTo, description sql.NullString
		if err := rows.Scan(&inc.ID, &incidentID, &incidentType, &severity, &status,
			&reportedAt, &resolvedAt, &assignedTo, &description); err != nil {
			return nil, err
		}
		inc.IncidentID = incidentID.String
		inc.IncidentType = incidentType.String
		inc.Severity = severity.String
		inc.Status = status.String
		inc.ReportedAt = reportedAt.String
		inc.ResolvedAt = resolvedAt.String
		inc.AssignedTo = assignedTo.String
		inc.Description = description.String
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *incidentsStore) UpdateStatus(ctx context.Context, incidentID, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cyber_incidents SET status = ? WHERE incident_id = ?`, status, incidentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *incidentsStore) Delete(ctx context.Context, incidentID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cyber_incidents WHERE incident_id = ?`, incidentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *incidentsStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, s.db,
		`SELECT COALESCE(status, ''), COUNT(*) FROM cyber_incidents GROUP BY status`)
}

func (s *incidentsStore) CountBySeverity(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, s.db,
		`SELECT COALESCE(severity, ''), COUNT(*) FROM cyber_incidents GROUP BY severity`)
}

func countGrouped(ctx context.Context, db *sql.DB, query string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
