package lead

import (
	"time"

	"github.com/google/uuid"

	"imobcrm/internal/domain/visit"
)

// CreateLeadRequest represents lead intake, public or operator entered.
// New leads always start in NOVO.
type CreateLeadRequest struct {
	Name  string  `json:"name" validate:"required,max=160"`
	Email *string `json:"email" validate:"omitempty,email,max=160"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`
	TaxID *string `json:"taxId" validate:"omitempty,max=32"`

	Source       Source        `json:"source"`
	Score        *int          `json:"score" validate:"omitempty,min=0,max=100"`
	Budget       *float64      `json:"budget" validate:"omitempty,gte=0"`
	InterestType *InterestType `json:"interestType"`

	PropertyID             *int64   `json:"propertyId"`
	AssignedTo             *int64   `json:"assignedTo"`
	PreferredNeighborhoods []string `json:"preferredNeighborhoods" validate:"omitempty,max=20,dive,max=80"`
}

// UpdateLeadRequest is a partial update. Only non-nil fields are applied.
// Clear names optional fields to set to null.
type UpdateLeadRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=160"`
	Email *string `json:"email" validate:"omitempty,email,max=160"`
	Phone *string `json:"phone" validate:"omitempty,max=40"`
	TaxID *string `json:"taxId" validate:"omitempty,max=32"`

	Source       *Source       `json:"source"`
	Status       *Status       `json:"status"`
	Score        *int          `json:"score" validate:"omitempty,min=0,max=100"`
	Budget       *float64      `json:"budget" validate:"omitempty,gte=0"`
	InterestType *InterestType `json:"interestType"`

	PropertyID             *int64    `json:"propertyId"`
	AssignedTo             *int64    `json:"assignedTo"`
	PreferredNeighborhoods *[]string `json:"preferredNeighborhoods" validate:"omitempty,max=20,dive,max=80"`

	Clear []string `json:"clear"`
}

// Clearable fields of UpdateLeadRequest.Clear.
const (
	FieldEmail                  = "email"
	FieldPhone                  = "phone"
	FieldTaxID                  = "taxId"
	FieldBudget                 = "budget"
	FieldInterestType           = "interestType"
	FieldPropertyID             = "propertyId"
	FieldAssignedTo             = "assignedTo"
	FieldPreferredNeighborhoods = "preferredNeighborhoods"
)

// ListFilter narrows ListLeads. Zero values mean no filter.
type ListFilter struct {
	Status     Status
	Source     Source
	AssignedTo *int64
	Search     string
	Page       int
	Limit      int
	Order      string // "desc" (default) or "asc" by createdAt
}

// Pagination defaults for ListLeads.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LeadListResponse represents paginated list
type LeadListResponse struct {
	Leads      []Lead `json:"leads"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// ScheduleVisitRequest books a viewing for a lead.
type ScheduleVisitRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	PropertyID  *int64    `json:"propertyId"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// InternalVisitRequest is sent by the visit scheduler service, which
// authenticates with the internal token and names the operator itself.
type InternalVisitRequest struct {
	LeadID       uuid.UUID `json:"leadId" validate:"required"`
	OperatorID   int64     `json:"operatorId" validate:"required,gt=0"`
	OperatorName string    `json:"operatorName" validate:"max=120"`
	ScheduledAt  time.Time `json:"scheduledAt" validate:"required"`
	PropertyID   *int64    `json:"propertyId"`
	Notes        string    `json:"notes" validate:"max=2000"`
}

// VisitResult is returned after scheduling.
type VisitResult struct {
	Visit *visit.Visit `json:"visit"`
	Lead  *Lead        `json:"lead"`
}
