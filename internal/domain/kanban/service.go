package kanban

import (
	"context"

	"github.com/google/uuid"

	"imobcrm/internal/domain/lead"
)

// LeadService is the part of the lead engine the board needs.
type LeadService interface {
	ListLeads(ctx context.Context, f lead.ListFilter) (*lead.LeadListResponse, error)
	Transition(ctx context.Context, id uuid.UUID, status lead.Status, op *lead.Operator) (*lead.Lead, error)
}

// Service serves the board. It keeps no state of its own.
type Service struct {
	leads  LeadService
	labels Labeler
}

func NewService(leads LeadService, labels Labeler) *Service {
	return &Service{leads: leads, labels: labels}
}

// Board reads the leads matching f and groups them into columns. The status
// filter and page are ignored; a board always shows every stage.
func (s *Service) Board(ctx context.Context, f lead.ListFilter) (*Board, error) {
	f.Status = ""
	f.Page = 1
	if f.Limit <= 0 {
		f.Limit = lead.MaxPageSize
	}

	page, err := s.leads.ListLeads(ctx, f)
	if err != nil {
		return nil, err
	}

	board := Build(page.Leads, s.labels)
	board.Total = page.Total
	board.Truncated = page.Total > int64(len(page.Leads))
	return &board, nil
}

// Move is a drag and drop of a card onto another column.
func (s *Service) Move(ctx context.Context, id uuid.UUID, to lead.Status, op *lead.Operator) (*Card, error) {
	l, err := s.leads.Transition(ctx, id, to, op)
	if err != nil {
		return nil, err
	}
	card := NewCard(l)
	return &card, nil
}
