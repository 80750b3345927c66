package activity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Type is the kind of audit entry.
type Type string

const (
	TypeCreated        Type = "created"
	TypeUpdated        Type = "updated"
	TypeStatusChanged  Type = "status_changed"
	TypeVisitScheduled Type = "visit_scheduled"
)

// Activity is an immutable audit record attached to a lead.
type Activity struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID       uuid.UUID      `json:"leadId" gorm:"type:uuid;not null;index:idx_activities_lead_created,priority:1"`
	OperatorID   *int64         `json:"operatorId,omitempty" gorm:"index"`
	OperatorName string         `json:"operatorName,omitempty" gorm:"size:120"`
	Type         Type           `json:"type" gorm:"size:32;not null;index"`
	Description  string         `json:"description" gorm:"type:text"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" gorm:"not null;autoCreateTime:false;index:idx_activities_lead_created,priority:2"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Payload is the structured context of an activity. Each concrete payload
// belongs to exactly one Type.
type Payload interface {
	ActivityType() Type
}

// CreatedPayload records how a lead entered the pipeline.
type CreatedPayload struct {
	Source string `json:"source"`
	Status string `json:"status"`
}

func (CreatedPayload) ActivityType() Type { return TypeCreated }

// UpdatedPayload lists the fields a mutation touched.
type UpdatedPayload struct {
	Fields []string `json:"fields"`
}

func (UpdatedPayload) ActivityType() Type { return TypeUpdated }

// StatusChangedPayload records a pipeline move and any fields changed with it.
type StatusChangedPayload struct {
	PreviousStatus string   `json:"previousStatus"`
	NewStatus      string   `json:"newStatus"`
	Fields         []string `json:"fields,omitempty"`
}

func (StatusChangedPayload) ActivityType() Type { return TypeStatusChanged }

// VisitScheduledPayload points at the visit that was booked.
type VisitScheduledPayload struct {
	VisitID     uuid.UUID `json:"visitId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (VisitScheduledPayload) ActivityType() Type { return TypeVisitScheduled }

// Actor identifies who performed a mutation. A nil *Actor means anonymous.
type Actor struct {
	ID   int64
	Name string
}

// New builds an activity whose type is taken from the payload.
func New(leadID uuid.UUID, actor *Actor, payload Payload, description string, at time.Time) (*Activity, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("activity: encode %s payload: %w", payload.ActivityType(), err)
	}
	a := &Activity{
		LeadID:      leadID,
		Type:        payload.ActivityType(),
		Description: description,
		Metadata:    datatypes.JSON(raw),
		CreatedAt:   at,
	}
	if actor != nil {
		id := actor.ID
		a.OperatorID = &id
		a.OperatorName = actor.Name
	}
	return a, nil
}

// Payload decodes the metadata into the variant that matches the activity type.
func (a *Activity) Payload() (Payload, error) {
	var p Payload
	switch a.Type {
	case TypeCreated:
		var v CreatedPayload
		if err := a.decode(&v); err != nil {
			return nil, err
		}
		p = v
	case TypeUpdated:
		var v UpdatedPayload
		if err := a.decode(&v); err != nil {
			return nil, err
		}
		p = v
	case TypeStatusChanged:
		var v StatusChangedPayload
		if err := a.decode(&v); err != nil {
			return nil, err
		}
		p = v
	case TypeVisitScheduled:
		var v VisitScheduledPayload
		if err := a.decode(&v); err != nil {
			return nil, err
		}
		p = v
	default:
		return nil, fmt.Errorf("activity: unknown type %q", a.Type)
	}
	return p, nil
}

func (a *Activity) decode(v any) error {
	if len(a.Metadata) == 0 {
		return nil
	}
	if err := json.Unmarshal(a.Metadata, v); err != nil {
		return fmt.Errorf("activity: decode %s payload: %w", a.Type, err)
	}
	return nil
}
