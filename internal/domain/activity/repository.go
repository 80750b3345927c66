package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repository is the append-only journal. It exposes no update or delete of
// single entries; DeleteByLead exists only for the lead cascade.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append stores a new entry and returns its id.
func (r *Repository) Append(ctx context.Context, a *Activity) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

// ListForLead returns the newest entries first.
func (r *Repository) ListForLead(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var items []Activity
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// CountForLead counts entries, optionally restricted to one type.
func (r *Repository) CountForLead(ctx context.Context, leadID uuid.UUID, t Type) (int64, error) {
	q := r.db.WithContext(ctx).Model(&Activity{}).Where("lead_id = ?", leadID)
	if t != "" {
		q = q.Where("type = ?", t)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// DeleteByLead removes every entry of a lead. Call it only inside the lead
// deletion transaction.
func (r *Repository) DeleteByLead(ctx context.Context, leadID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&Activity{})
	return res.RowsAffected, res.Error
}
