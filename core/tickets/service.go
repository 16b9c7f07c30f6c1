package tickets

import (
	"context"
	"fmt"

	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type Service struct {
	store  store.TicketsStore
	audits store.AuditStore
	logger *utils.Logger
}

func NewService(st store.TicketsStore, audits store.AuditStore, logger *utils.Logger) *Service {
	return &Service{store: st, audits: audits, logger: logger}
}

type Summary struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

func (s *Service) List(ctx context.Context) ([]store.Ticket, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) Create(ctx context.Context, actor string, t *store.Ticket) (int64, error) {
	id, err := s.store.Create(ctx, t)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "tickets.create", t.TicketID)
	return id, nil
}

// ChangeStatus updates every ticket row matching the business key.
func (s *Service) ChangeStatus(ctx context.Context, actor, ticketID, status string) (int64, error) {
	n, err := s.store.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "tickets.status", fmt.Sprintf("%s -> %s (%d rows)", ticketID, status, n))
	return n, nil
}

func (s *Service) Remove(ctx context.Context, actor, ticketID string) (int64, error) {
	n, err := s.store.Delete(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	s.audits.Log(ctx, actor, "tickets.delete", fmt.Sprintf("%s (%d rows)", ticketID, n))
	return n, nil
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	byStatus, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.store.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{ByStatus: byStatus, ByPriority: byPriority}
	for _, n := range byStatus {
		sum.Total += n
	}
	sum.Open = byStatus["Open"]
	return sum, nil
}
