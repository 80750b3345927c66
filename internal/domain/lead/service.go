package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"imobcrm/internal/domain/activity"
	"imobcrm/internal/domain/visit"
	"imobcrm/internal/pkg/logger"
)

// Service is the lead lifecycle engine. Every mutation reads the current
// lead, writes it and appends its activity in one transaction, then
// publishes a board event once the transaction has committed.
type Service struct {
	db         *gorm.DB
	leads      *Repository
	activities *activity.Repository
	visits     *visit.Repository
	publisher  EventPublisher
	now        func() time.Time
}

// NewService creates lead service. publisher may be nil.
func NewService(db *gorm.DB, publisher EventPublisher) *Service {
	return &Service{
		db:         db,
		leads:      NewRepository(db),
		activities: activity.NewRepository(db),
		visits:     visit.NewRepository(db),
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateLead registers a new lead in NOVO. op is nil for public intake.
func (s *Service) CreateLead(ctx context.Context, req *CreateLeadRequest, op *Operator) (*Lead, error) {
	now := s.now()
	l, err := newLead(req, now)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.leads.WithTx(tx).Create(ctx, l); err != nil {
			return err
		}
		payload := activity.CreatedPayload{Source: string(l.Source), Status: string(l.Status)}
		return s.appendActivity(ctx, tx, l.ID, op, payload, fmt.Sprintf("Lead criado (origem: %s)", l.Source), now)
	})
	if err != nil {
		return nil, persistence("create lead", err)
	}

	s.publish(ctx, Event{Kind: EventCreated, LeadID: l.ID, Lead: l, OperatorID: operatorID(op), At: now})
	return l, nil
}

// GetLead returns lead by ID
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("get lead", err)
	}
	return l, nil
}

// ListLeads returns one page of leads with the total match count.
func (s *Service) ListLeads(ctx context.Context, f ListFilter) (*LeadListResponse, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}

	leads, total, err := s.leads.List(ctx, f)
	if err != nil {
		return nil, persistence("list leads", err)
	}

	return &LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
	}, nil
}

// Transition moves the lead to status. Any stage may move to any other,
// closed stages included. Moving to the current stage only touches
// updatedAt and records an "updated" activity.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, status Status, op *Operator) (*Lead, error) {
	return s.UpdateLead(ctx, id, &UpdateLeadRequest{Status: &status}, op)
}

// UpdateLead applies a partial update. Field changes and the status change,
// if any, commit together with exactly one activity. Anonymous callers may
// not change the status.
func (s *Service) UpdateLead(ctx context.Context, id uuid.UUID, req *UpdateLeadRequest, op *Operator) (*Lead, error) {
	if req.Status != nil && op == nil {
		return nil, ErrUnauthorized
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		updated  *Lead
		previous Status
		moved    bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := s.leads.WithTx(tx)
		l, err := leads.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		fields := req.apply(l)
		previous = l.Status

		var (
			payload activity.Payload
			desc    string
		)
		switch {
		case req.Status != nil && *req.Status != l.Status:
			changeStatus(l, *req.Status, now)
			moved = true
			payload = activity.StatusChangedPayload{PreviousStatus: string(previous), NewStatus: string(l.Status), Fields: fields}
			desc = fmt.Sprintf("Status alterado de %s para %s", previous, l.Status)
		case len(fields) == 0:
			payload = activity.UpdatedPayload{Fields: fields}
			desc = fmt.Sprintf("Status mantido em %s", l.Status)
		default:
			payload = activity.UpdatedPayload{Fields: fields}
			desc = "Lead atualizado: " + strings.Join(fields, ", ")
		}

		l.UpdatedAt = now
		if err := leads.Save(ctx, l); err != nil {
			return err
		}
		if err := s.appendActivity(ctx, tx, l.ID, op, payload, desc, now); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, persistence("update lead", err)
	}

	ev := Event{Kind: EventUpdated, LeadID: updated.ID, Lead: updated, OperatorID: operatorID(op), At: now}
	if moved {
		ev.Kind = EventMoved
		ev.PreviousStatus = previous
	}
	s.publish(ctx, ev)
	return updated, nil
}

// DeleteLead removes the lead with all of its activities and visits.
func (s *Service) DeleteLead(ctx context.Context, id uuid.UUID, op *Operator) error {
	if op == nil {
		return ErrUnauthorized
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		return persistence("delete lead", err)
	}

	s.publish(ctx, Event{Kind: EventDeleted, LeadID: id, OperatorID: operatorID(op), At: s.now()})
	return nil
}

// ListActivities returns the audit trail of a lead, newest first.
func (s *Service) ListActivities(ctx context.Context, id uuid.UUID, limit int) ([]activity.Activity, error) {
	if _, err := s.leads.GetByID(ctx, id); err != nil {
		return nil, persistence("get lead", err)
	}
	items, err := s.activities.ListForLead(ctx, id, limit)
	if err != nil {
		return nil, persistence("list activities", err)
	}
	return items, nil
}

// ListVisits returns the visits booked for a lead.
func (s *Service) ListVisits(ctx context.Context, id uuid.UUID) ([]visit.Visit, error) {
	if _, err := s.leads.GetByID(ctx, id); err != nil {
		return nil, persistence("get lead", err)
	}
	items, err := s.visits.ListForLead(ctx, id)
	if err != nil {
		return nil, persistence("list visits", err)
	}
	return items, nil
}

// ScheduleVisit books a visit and moves the lead to VISITA_AGENDADA unless
// it is already there. The visit, its activity and the status change share
// one transaction.
func (s *Service) ScheduleVisit(ctx context.Context, leadID uuid.UUID, req *ScheduleVisitRequest, op *Operator) (*VisitResult, error) {
	if op == nil {
		return nil, ErrUnauthorized
	}
	if req.ScheduledAt.IsZero() {
		return nil, invalid("scheduledAt", "is required")
	}

	now := s.now()
	var (
		result   VisitResult
		previous Status
		moved    bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leads := s.leads.WithTx(tx)
		l, err := leads.GetForUpdate(ctx, leadID)
		if err != nil {
			return err
		}

		propertyID := req.PropertyID
		if propertyID == nil {
			propertyID = l.PropertyID
		}
		v := &visit.Visit{
			LeadID:      l.ID,
			PropertyID:  propertyID,
			OperatorID:  operatorID(op),
			ScheduledAt: req.ScheduledAt.UTC(),
			Status:      visit.StatusScheduled,
			Notes:       strings.TrimSpace(req.Notes),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.visits.WithTx(tx).Create(ctx, v); err != nil {
			return err
		}
		booked := activity.VisitScheduledPayload{VisitID: v.ID, ScheduledAt: v.ScheduledAt}
		desc := "Visita agendada para " + v.ScheduledAt.Format("02/01/2006 15:04")
		if err := s.appendActivity(ctx, tx, l.ID, op, booked, desc, now); err != nil {
			return err
		}

		// Postgres keeps microseconds; the status change must list after the booking.
		movedAt := now.Add(time.Microsecond)
		previous = l.Status
		if l.Status != StatusVisitScheduled {
			changeStatus(l, StatusVisitScheduled, movedAt)
			moved = true
		}
		l.UpdatedAt = now
		if moved {
			l.UpdatedAt = movedAt
		}
		if err := leads.Save(ctx, l); err != nil {
			return err
		}
		if moved {
			changed := activity.StatusChangedPayload{PreviousStatus: string(previous), NewStatus: string(l.Status)}
			desc := fmt.Sprintf("Status alterado de %s para %s", previous, l.Status)
			if err := s.appendActivity(ctx, tx, l.ID, op, changed, desc, movedAt); err != nil {
				return err
			}
		}

		result = VisitResult{Visit: v, Lead: l}
		return nil
	})
	if err != nil {
		return nil, persistence("schedule visit", err)
	}

	ev := Event{Kind: EventUpdated, LeadID: result.Lead.ID, Lead: result.Lead, OperatorID: operatorID(op), At: now}
	if moved {
		ev.Kind = EventMoved
		ev.PreviousStatus = previous
	}
	s.publish(ctx, ev)
	return &result, nil
}

func (s *Service) appendActivity(ctx context.Context, tx *gorm.DB, leadID uuid.UUID, op *Operator, payload activity.Payload, desc string, at time.Time) error {
	a, err := activity.New(leadID, op.actor(), payload, desc, at)
	if err != nil {
		return err
	}
	_, err = s.activities.WithTx(tx).Append(ctx, a)
	return err
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.LogError("board_publish_failed", err, map[string]interface{}{
			"lead_id": ev.LeadID.String(),
			"kind":    string(ev.Kind),
		})
	}
}

// changeStatus sets the status and stamps contactedAt the first time the
// lead leaves NOVO. contactedAt never changes afterwards.
func changeStatus(l *Lead, to Status, now time.Time) {
	if l.IsNew() && !l.WasContacted() && to != StatusNew {
		t := now
		l.ContactedAt = &t
	}
	l.Status = to
}

func newLead(req *CreateLeadRequest, now time.Time) (*Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	source := req.Source
	if source == "" {
		source = SourceSite
	}
	if !source.Valid() {
		return nil, invalid("source", fmt.Sprintf("unknown value %q", source))
	}
	if req.InterestType != nil && !req.InterestType.Valid() {
		return nil, invalid("interestType", fmt.Sprintf("unknown value %q", *req.InterestType))
	}

	score := DefaultScore
	if req.Score != nil {
		score = *req.Score
	}
	if err := ValidateScore(score); err != nil {
		return nil, err
	}
	if req.Budget != nil && *req.Budget < 0 {
		return nil, invalid("budget", "must not be negative")
	}

	return &Lead{
		Name:                   name,
		Email:                  trimmedOrNil(req.Email),
		Phone:                  trimmedOrNil(req.Phone),
		TaxID:                  trimmedOrNil(req.TaxID),
		Source:                 source,
		Status:                 StatusNew,
		Score:                  score,
		Budget:                 req.Budget,
		InterestType:           req.InterestType,
		PropertyID:             req.PropertyID,
		AssignedTo:             req.AssignedTo,
		PreferredNeighborhoods: neighborhoods(req.PreferredNeighborhoods),
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

func normalizeFilter(f ListFilter) (ListFilter, error) {
	if f.Status != "" && !f.Status.Valid() {
		return f, invalid("status", fmt.Sprintf("unknown value %q", f.Status))
	}
	if f.Source != "" && !f.Source.Valid() {
		return f, invalid("source", fmt.Sprintf("unknown value %q", f.Source))
	}
	switch strings.ToLower(f.Order) {
	case "", "desc":
		f.Order = "desc"
	case "asc":
		f.Order = "asc"
	default:
		return f, invalid("order", "must be asc or desc")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f, nil
}

func (r *UpdateLeadRequest) validate() error {
	if r.isEmpty() {
		return invalid("body", "no fields to update")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return invalid("name", "is required")
	}
	if r.Source != nil && !r.Source.Valid() {
		return invalid("source", fmt.Sprintf("unknown value %q", *r.Source))
	}
	if r.Status != nil && !r.Status.Valid() {
		return invalid("status", fmt.Sprintf("unknown value %q", *r.Status))
	}
	if r.Score != nil {
		if err := ValidateScore(*r.Score); err != nil {
			return err
		}
	}
	if r.Budget != nil && *r.Budget < 0 {
		return invalid("budget", "must not be negative")
	}
	if r.InterestType != nil && !r.InterestType.Valid() {
		return invalid("interestType", fmt.Sprintf("unknown value %q", *r.InterestType))
	}
	for _, f := range r.Clear {
		set, known := r.clearable(f)
		if !known {
			return invalid("clear", fmt.Sprintf("field %q cannot be cleared", f))
		}
		if set {
			return invalid("clear", fmt.Sprintf("field %q is both set and cleared", f))
		}
	}
	return nil
}

func (r *UpdateLeadRequest) isEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.TaxID == nil &&
		r.Source == nil && r.Status == nil && r.Score == nil && r.Budget == nil &&
		r.InterestType == nil && r.PropertyID == nil && r.AssignedTo == nil &&
		r.PreferredNeighborhoods == nil && len(r.Clear) == 0
}

// clearable reports whether field may be cleared and whether the request
// also sets it.
func (r *UpdateLeadRequest) clearable(field string) (set, known bool) {
	switch field {
	case FieldEmail:
		return r.Email != nil, true
	case FieldPhone:
		return r.Phone != nil, true
	case FieldTaxID:
		return r.TaxID != nil, true
	case FieldBudget:
		return r.Budget != nil, true
	case FieldInterestType:
		return r.InterestType != nil, true
	case FieldPropertyID:
		return r.PropertyID != nil, true
	case FieldAssignedTo:
		return r.AssignedTo != nil, true
	case FieldPreferredNeighborhoods:
		return r.PreferredNeighborhoods != nil, true
	}
	return false, false
}

// apply copies the present non-status fields onto l and returns their
// names. The status is handled by the caller.
func (r *UpdateLeadRequest) apply(l *Lead) []string {
	fields := make([]string, 0, 8)
	if r.Name != nil {
		l.Name = strings.TrimSpace(*r.Name)
		fields = append(fields, "name")
	}
	if r.Email != nil {
		l.Email = trimmedOrNil(r.Email)
		fields = append(fields, FieldEmail)
	}
	if r.Phone != nil {
		l.Phone = trimmedOrNil(r.Phone)
		fields = append(fields, FieldPhone)
	}
	if r.TaxID != nil {
		l.TaxID = trimmedOrNil(r.TaxID)
		fields = append(fields, FieldTaxID)
	}
	if r.Source != nil {
		l.Source = *r.Source
		fields = append(fields, "source")
	}
	if r.Score != nil {
		l.Score = *r.Score
		fields = append(fields, "score")
	}
	if r.Budget != nil {
		l.Budget = r.Budget
		fields = append(fields, FieldBudget)
	}
	if r.InterestType != nil {
		l.InterestType = r.InterestType
		fields = append(fields, FieldInterestType)
	}
	if r.PropertyID != nil {
		l.PropertyID = r.PropertyID
		fields = append(fields, FieldPropertyID)
	}
	if r.AssignedTo != nil {
		l.AssignedTo = r.AssignedTo
		fields = append(fields, FieldAssignedTo)
	}
	if r.PreferredNeighborhoods != nil {
		l.PreferredNeighborhoods = neighborhoods(*r.PreferredNeighborhoods)
		fields = append(fields, FieldPreferredNeighborhoods)
	}

	for _, f := range r.Clear {
		switch f {
		case FieldEmail:
			l.Email = nil
		case FieldPhone:
			l.Phone = nil
		case FieldTaxID:
			l.TaxID = nil
		case FieldBudget:
			l.Budget = nil
		case FieldInterestType:
			l.InterestType = nil
		case FieldPropertyID:
			l.PropertyID = nil
		case FieldAssignedTo:
			l.AssignedTo = nil
		case FieldPreferredNeighborhoods:
			l.PreferredNeighborhoods = datatypes.JSONSlice[string]{}
		}
		fields = append(fields, f)
	}
	return fields
}

func operatorID(op *Operator) *int64 {
	if op == nil {
		return nil
	}
	id := op.ID
	return &id
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// neighborhoods keeps the caller's order and drops blank entries.
func neighborhoods(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, n := range in {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
