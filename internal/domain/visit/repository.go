package visit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles visit data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates visit repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new visit
func (r *Repository) Create(ctx context.Context, v *Visit) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// ListForLead returns visits of a lead, soonest first
func (r *Repository) ListForLead(ctx context.Context, leadID uuid.UUID) ([]Visit, error) {
	var items []Visit
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("scheduled_at ASC").
		Find(&items).Error
	return items, err
}

// CountForLead counts visits of a lead
func (r *Repository) CountForLead(ctx context.Context, leadID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Visit{}).Where("lead_id = ?", leadID).Count(&n).Error
	return n, err
}

// DeleteByLead removes all visits of a lead (lead cascade only)
func (r *Repository) DeleteByLead(ctx context.Context, leadID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Delete(&Visit{})
	return res.RowsAffected, res.Error
}
