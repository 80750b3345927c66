package lead

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"imobcrm/internal/domain/activity"
	"imobcrm/internal/domain/visit"
)

// Repository handles lead data access
type Repository struct {
	db *gorm.DB
}

// NewRepository creates lead repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new lead
func (r *Repository) Create(ctx context.Context, l *Lead) error {
	l.refreshSearchKey()
	return r.db.WithContext(ctx).Create(l).Error
}

// GetByID retrieves lead by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var l Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetForUpdate reads the lead and locks its row until the transaction ends.
// Must be called on a repository bound to a transaction.
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var l Lead
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Save writes every column of l, including nulls.
func (r *Repository) Save(ctx context.Context, l *Lead) error {
	l.refreshSearchKey()
	res := r.db.WithContext(ctx).Model(l).Select("*").Omit("id", "created_at").Updates(l)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete removes the lead with its activities and visits. Either all rows
// go or none do.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := activity.NewRepository(tx).DeleteByLead(ctx, id); err != nil {
			return err
		}
		if _, err := visit.NewRepository(tx).DeleteByLead(ctx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&Lead{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLeadNotFound
		}
		return nil
	})
}

// List returns one page of leads matching f and the total match count.
// f must already be normalized.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&Lead{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(`search_key LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if f.Order == "asc" {
		order = "created_at ASC"
	}

	leads := make([]Lead, 0, f.Limit)
	err := q.Order(order).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// BackfillSearchKeys fills search_key on rows written before the column
// existed.
func (r *Repository) BackfillSearchKeys(ctx context.Context) (int, error) {
	var stale []Lead
	if err := r.db.WithContext(ctx).Where("search_key = ''").Find(&stale).Error; err != nil {
		return 0, err
	}
	for i := range stale {
		l := &stale[i]
		l.refreshSearchKey()
		err := r.db.WithContext(ctx).Model(&Lead{}).
			Where("id = ?", l.ID).
			Update("search_key", l.SearchKey).Error
		if err != nil {
			return i, err
		}
	}
	return len(stale), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
