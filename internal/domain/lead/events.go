package lead

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind names a committed lead mutation.
type EventKind string

const (
	EventCreated EventKind = "lead.created"
	EventUpdated EventKind = "lead.updated"
	EventMoved   EventKind = "lead.moved"
	EventDeleted EventKind = "lead.deleted"
)

// Event is published after a mutation commits. Lead is nil for deletions.
type Event struct {
	Kind           EventKind
	LeadID         uuid.UUID
	Lead           *Lead
	PreviousStatus Status
	OperatorID     *int64
	At             time.Time
}

// EventPublisher receives committed lead events. Implementations must not
// block for long; failures are logged and never undo the mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}
