package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"imobcrm/internal/domain/activity"
)

// Status represents a pipeline stage
type Status string

const (
	StatusNew            Status = "NOVO"
	StatusContacted      Status = "CONTATO_REALIZADO"
	StatusQualified      Status = "QUALIFICADO"
	StatusVisitScheduled Status = "VISITA_AGENDADA"
	StatusProposalSent   Status = "PROPOSTA_ENVIADA"
	StatusNegotiation    Status = "NEGOCIACAO"
	StatusWon            Status = "FECHADO_GANHO"
	StatusLost           Status = "FECHADO_PERDIDO"
)

// Statuses lists every stage in canonical pipeline order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusVisitScheduled,
	StatusProposalSent,
	StatusNegotiation,
	StatusWon,
	StatusLost,
}

// Valid reports whether s is one of the declared stages.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Source represents the acquisition channel
type Source string

const (
	SourceSite           Source = "SITE"
	SourceWhatsApp       Source = "WHATSAPP"
	SourceReferral       Source = "INDICACAO"
	SourcePortalZap      Source = "PORTAL_ZAP"
	SourcePortalVivaReal Source = "PORTAL_VIVAREAL"
	SourcePortalOLX      Source = "PORTAL_OLX"
	SourceSocialMedia    Source = "REDES_SOCIAIS"
	SourcePhone          Source = "TELEFONE"
	SourceOfficeVisit    Source = "VISITA_ESCRITORIO"
	SourceOther          Source = "OUTRO"
)

var Sources = []Source{
	SourceSite,
	SourceWhatsApp,
	SourceReferral,
	SourcePortalZap,
	SourcePortalVivaReal,
	SourcePortalOLX,
	SourceSocialMedia,
	SourcePhone,
	SourceOfficeVisit,
	SourceOther,
}

func (s Source) Valid() bool {
	for _, v := range Sources {
		if v == s {
			return true
		}
	}
	return false
}

// InterestType is what the lead wants to do with a property
type InterestType string

const (
	InterestPurchase InterestType = "COMPRA"
	InterestRental   InterestType = "LOCACAO"
)

var InterestTypes = []InterestType{InterestPurchase, InterestRental}

func (t InterestType) Valid() bool {
	return t == InterestPurchase || t == InterestRental
}

// Lead represents a prospective client inquiry
type Lead struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Contact
	Name  string  `json:"name" gorm:"size:160;not null"`
	Email *string `json:"email,omitempty" gorm:"size:160;index"`
	Phone *string `json:"phone,omitempty" gorm:"size:40"`
	TaxID *string `json:"taxId,omitempty" gorm:"column:tax_id;size:32"`

	// Pipeline
	Source       Source        `json:"source" gorm:"size:32;not null;index"`
	Status       Status        `json:"status" gorm:"size:32;not null;index"`
	Score        int           `json:"score" gorm:"not null"`
	Budget       *float64      `json:"budget,omitempty" gorm:"type:numeric(14,2)"`
	InterestType *InterestType `json:"interestType,omitempty" gorm:"size:16"`

	// Relations
	PropertyID             *int64                      `json:"propertyId,omitempty" gorm:"index"`
	AssignedTo             *int64                      `json:"assignedTo,omitempty" gorm:"index"`
	PreferredNeighborhoods datatypes.JSONSlice[string] `json:"preferredNeighborhoods" gorm:"type:json"`

	CreatedAt   time.Time  `json:"createdAt" gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
	ContactedAt *time.Time `json:"contactedAt"`

	// SearchKey is the lowercased name, email and phone. SQLite LOWER()
	// folds ASCII only, so case folding happens here.
	SearchKey string `json:"-" gorm:"size:400;not null;default:''"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// refreshSearchKey must run before every insert or full save.
func (l *Lead) refreshSearchKey() {
	parts := []string{l.Name}
	if l.Email != nil {
		parts = append(parts, *l.Email)
	}
	if l.Phone != nil {
		parts = append(parts, *l.Phone)
	}
	l.SearchKey = strings.ToLower(strings.Join(parts, "\n"))
}

// IsNew returns true if lead is still in the first stage
func (l *Lead) IsNew() bool {
	return l.Status == StatusNew
}

// WasContacted reports whether the lead ever left NOVO.
func (l *Lead) WasContacted() bool {
	return l.ContactedAt != nil
}

// Operator is the authenticated staff member behind a mutation. A nil
// *Operator means the caller is anonymous (public intake).
type Operator struct {
	ID   int64
	Name string
	Role string
}

func (o *Operator) actor() *activity.Actor {
	if o == nil {
		return nil
	}
	return &activity.Actor{ID: o.ID, Name: o.Name}
}
