package kanban

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"imobcrm/internal/domain/lead"
)

// Labeler resolves a status to its column title. *lead.Catalog satisfies it.
type Labeler interface {
	StatusLabel(s lead.Status) string
}

// Card is the board view of a lead.
type Card struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Status       lead.Status        `json:"status"`
	Source       lead.Source        `json:"source"`
	Score        int                `json:"score"`
	Budget       *float64           `json:"budget,omitempty"`
	InterestType *lead.InterestType `json:"interestType,omitempty"`
	AssignedTo   *int64             `json:"assignedTo,omitempty"`
	PropertyID   *int64             `json:"propertyId,omitempty"`
	ContactedAt  *time.Time         `json:"contactedAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Column holds the cards of one pipeline stage.
type Column struct {
	Status lead.Status `json:"status"`
	Label  string      `json:"label"`
	Count  int         `json:"count"`
	Cards  []Card      `json:"cards"`
}

// Board is the kanban projection. Columns always follow pipeline order and
// include empty stages.
type Board struct {
	Columns   []Column `json:"columns"`
	Total     int64    `json:"total"`
	Truncated bool     `json:"truncated"`
}

// NewCard projects a lead onto a card.
func NewCard(l *lead.Lead) Card {
	return Card{
		ID:           l.ID,
		Name:         l.Name,
		Status:       l.Status,
		Source:       l.Source,
		Score:        l.Score,
		Budget:       l.Budget,
		InterestType: l.InterestType,
		AssignedTo:   l.AssignedTo,
		PropertyID:   l.PropertyID,
		ContactedAt:  l.ContactedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// Build groups leads by status. It has no side effects; card order inside
// a column is most recently updated first and carries no meaning.
func Build(leads []lead.Lead, labels Labeler) Board {
	index := make(map[lead.Status]int, len(lead.Statuses))
	columns := make([]Column, len(lead.Statuses))
	for i, s := range lead.Statuses {
		index[s] = i
		label := string(s)
		if labels != nil {
			label = labels.StatusLabel(s)
		}
		columns[i] = Column{Status: s, Label: label, Cards: []Card{}}
	}

	for i := range leads {
		pos, ok := index[leads[i].Status]
		if !ok {
			continue
		}
		columns[pos].Cards = append(columns[pos].Cards, NewCard(&leads[i]))
	}

	for i := range columns {
		cards := columns[i].Cards
		sort.SliceStable(cards, func(a, b int) bool {
			return cards[a].UpdatedAt.After(cards[b].UpdatedAt)
		})
		columns[i].Count = len(cards)
	}

	return Board{Columns: columns, Total: int64(len(leads))}
}

// Column returns the column of s, or nil.
func (b *Board) Column(s lead.Status) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == s {
			return &b.Columns[i]
		}
	}
	return nil
}
