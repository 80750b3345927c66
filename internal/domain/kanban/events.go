package kanban

import (
	"time"

	"github.com/google/uuid"

	"imobcrm/internal/domain/lead"
)

// BoardEvent is pushed to connected boards after a lead mutation commits.
type BoardEvent struct {
	Type       lead.EventKind `json:"type"`
	LeadID     uuid.UUID      `json:"leadId"`
	Card       *Card          `json:"card,omitempty"`
	From       lead.Status    `json:"from,omitempty"`
	To         lead.Status    `json:"to,omitempty"`
	OperatorID *int64         `json:"operatorId,omitempty"`
	At         time.Time      `json:"at"`
}

// NewBoardEvent converts a committed lead event.
func NewBoardEvent(ev lead.Event) BoardEvent {
	out := BoardEvent{
		Type:       ev.Kind,
		LeadID:     ev.LeadID,
		OperatorID: ev.OperatorID,
		At:         ev.At,
	}
	if ev.Lead != nil {
		card := NewCard(ev.Lead)
		out.Card = &card
		out.To = ev.Lead.Status
	}
	if ev.Kind == lead.EventMoved {
		out.From = ev.PreviousStatus
	}
	return out
}
