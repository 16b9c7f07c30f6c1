package store

import (
	"context"
	"database/sql"
)

type Ticket struct {
	ID         int64  `json:"id"`
	TicketID   string `json:"ticket_id"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	OpenedAt   string `json:"opened_at"`
	ClosedAt   string `json:"closed_at"`
	AssignedTo string `json:"assigned_to"`
}

type TicketsStore interface {
	Create(ctx context.Context, t *Ticket) (int64, error)
	ListAll(ctx context.Context) ([]Ticket, error)
	// UpdateStatus and Delete predicate on ticket_id, which is not unique:
	// every matching row is affected.
	UpdateStatus(ctx context.Context, ticketID, status string) (int64, error)
	Delete(ctx context.Context, ticketID string) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByPriority(ctx context.Context) (map[string]int, error)
}

type ticketsStore struct {
	db *sql.DB
}

func NewTicketsStore(db *sql.DB) TicketsStore {
	return &ticketsStore{db: db}
}

func (s *ticketsStore) Create(ctx context.Context, t *Ticket) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO it_tickets
		(ticket_id, category, priority, status, opened_at, closed_at, assigned_to)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.TicketID, t.Category, t.Priority, t.Status, t.OpenedAt, t.ClosedAt, t.AssignedTo)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *ticketsStore) ListAll(ctx context.Context) ([]Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ticket_id, category, priority, status, opened_at, closed_at, assigned_to
		FROM it_tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ticket
	for rows.Next() {
		var t Ticket
		var ticketID, category, priority, status sql.NullString
		var openedAt, closedAt, assignedTo sql.NullString
		if err := rows.Scan(&t.ID, &ticketID, &category, &priority, &status,
			&openedAt, &closedAt, &assignedTo); err != nil {
			return nil, err
		}
		t.TicketID = ticketID.String
		t.Category = category.String
		t.Priority = priority.String
		t.Status = status.String
		t.OpenedAt = openedAt.String
		t.ClosedAt = closedAt.String
		t.AssignedTo = assignedTo.String
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *ticketsStore) UpdateStatus(ctx context.Context, ticketID, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE it_tickets SET status = ? WHERE ticket_id = ?`, status, ticketID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ticketsStore) Delete(ctx context.Context, ticketID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM it_tickets WHERE ticket_id = ?`, ticketID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ticketsStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, s.db,
		`SELECT COALESCE(status, ''), COUNT(*) FROM it_tickets GROUP BY status`)
}

func (s *ticketsStore) CountByPriority(ctx context.Context) (map[string]int, error) {
	return countGrouped(ctx, s.db,
		`SELECT COALESCE(priority, ''), COUNT(*) FROM it_tickets GROUP BY priority`)
}
