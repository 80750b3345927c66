package visit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents visit status
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Visit is a property viewing booked for a lead. Only scheduling and the
// lead cascade are handled here; the full visit lifecycle lives elsewhere.
type Visit struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID      uuid.UUID `json:"leadId" gorm:"type:uuid;not null;index"`
	PropertyID  *int64    `json:"propertyId,omitempty" gorm:"index"`
	OperatorID  *int64    `json:"operatorId,omitempty"`
	ScheduledAt time.Time `json:"scheduledAt" gorm:"not null;index"`
	Status      Status    `json:"status" gorm:"size:16;not null"`
	Notes       string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

func (Visit) TableName() string {
	return "visits"
}

func (v *Visit) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
