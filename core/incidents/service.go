package incidents

import (
	"context"
	"fmt"

	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

// Service is the layer the HTTP handlers talk to: one store call per
// operation, an audit entry on every mutation, no transactions spanning
// multiple statements.
type Service struct {
	store  store.IncidentsStore
	audits store.AuditStore
	logger *utils.Logger
}

func NewService(st store.IncidentsStore, audits store.AuditStore, logger *utils.Logger) *Service {
	return &Service{store: st, audits: audits, logger: logger}
}

type Summary struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}

func (s *Service) List(ctx context.Context) ([]store.Incident, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) Create(ctx context.Context, actor string, inc *store.Incident) (int64, error) {
	id, err := s.store.Create(ctx, inc)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "incidents.create", inc.IncidentID)
	return id, nil
}

// ChangeStatus updates every incident row matching the business key and
// returns the affected count. Zero matches is a no-op, not an error.
func (s *Service) ChangeStatus(ctx context.Context, actor, incidentID, status string) (int64, error) {
	n, err := s.store.UpdateStatus(ctx, incidentID, status)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "incidents.status", fmt.Sprintf("%s -> %s (%d rows)", incidentID, status, n))
	return n, nil
}

func (s *Service) Remove(ctx context.Context, actor, incidentID string) (int64, error) {
	n, err := s.store.Delete(ctx, incidentID)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "incidents.delete", fmt.Sprintf("%s (%d rows)", incidentID, n))
	return n, nil
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	byStatus, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.store.CountBySeverity(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{ByStatus: byStatus, BySeverity: bySeverity}
	for _, n := range byStatus {
		sum.Total += n
	}
	sum.Open = byStatus["Open"]
	return sum, nil
}
