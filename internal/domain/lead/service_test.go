package lead

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"imobcrm/internal/domain/activity"
	"imobcrm/internal/domain/visit"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Lead{}, &activity.Activity{}, &visit.Visit{}))
	return db
}

func setupTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewService(setupTestDB(t), pub)

	clock := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, pub
}

var broker = &Operator{ID: 7, Name: "Ana Souza", Role: "broker"}

func createLead(t *testing.T, svc *Service, name string) *Lead {
	t.Helper()
	l, err := svc.CreateLead(context.Background(), &CreateLeadRequest{Name: name, Source: SourceWhatsApp}, broker)
	require.NoError(t, err)
	return l
}

func statusChanges(t *testing.T, svc *Service, id uuid.UUID) []activity.StatusChangedPayload {
	t.Helper()
	items, err := svc.activities.ListForLead(context.Background(), id, activity.MaxListLimit)
	require.NoError(t, err)
	var out []activity.StatusChangedPayload
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Type != activity.TypeStatusChanged {
			continue
		}
		p, err := items[i].Payload()
		require.NoError(t, err)
		out = append(out, p.(activity.StatusChangedPayload))
	}
	return out
}

func TestCreateLeadDefaults(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()

	l, err := svc.CreateLead(ctx, &CreateLeadRequest{Name: "  Maria Lima  "}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Maria Lima", l.Name)
	assert.Equal(t, StatusNew, l.Status)
	assert.Equal(t, SourceSite, l.Source)
	assert.Equal(t, DefaultScore, l.Score)
	assert.Nil(t, l.ContactedAt)
	assert.True(t, l.CreatedAt.Equal(l.UpdatedAt))

	items, err := svc.activities.ListForLead(ctx, l.ID, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, activity.TypeCreated, items[0].Type)
	assert.Nil(t, items[0].OperatorID)

	assert.Equal(t, []EventKind{EventCreated}, pub.kinds())
}

func TestCreateLeadKeepsZeroScore(t *testing.T) {
	svc, _ := setupTestService(t)
	zero := 0

	l, err := svc.CreateLead(context.Background(), &CreateLeadRequest{Name: "Zé", Score: &zero}, broker)
	require.NoError(t, err)

	got, err := svc.GetLead(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Score)
}

func TestCreateLeadValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	high := 101
	rent := InterestType("TEMPORADA")

	cases := map[string]*CreateLeadRequest{
		"blank name":    {Name: "   "},
		"bad source":    {Name: "A", Source: "FAX"},
		"score range":   {Name: "A", Score: &high},
		"interest type": {Name: "A", InterestType: &rent},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateLead(ctx, req, nil)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var n int64
	require.NoError(t, svc.db.Model(&Lead{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTransitionRoundTripKeepsContactedAt(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Bruno")

	qualified, err := svc.Transition(ctx, l.ID, StatusQualified, broker)
	require.NoError(t, err)
	assert.Equal(t, StatusQualified, qualified.Status)
	require.NotNil(t, qualified.ContactedAt)
	firstContact := *qualified.ContactedAt

	changes := statusChanges(t, svc, l.ID)
	require.Len(t, changes, 1)
	assert.Equal(t, "NOVO", changes[0].PreviousStatus)
	assert.Equal(t, "QUALIFICADO", changes[0].NewStatus)

	back, err := svc.Transition(ctx, l.ID, StatusNew, broker)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, back.Status)
	require.NotNil(t, back.ContactedAt)
	assert.True(t, firstContact.Equal(*back.ContactedAt))

	changes = statusChanges(t, svc, l.ID)
	require.Len(t, changes, 2)
	assert.Equal(t, "QUALIFICADO", changes[1].PreviousStatus)
	assert.Equal(t, "NOVO", changes[1].NewStatus)

	stored, err := svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ContactedAt)
	assert.True(t, firstContact.Equal(*stored.ContactedAt))

	// leaving NOVO again does not restamp
	_, err = svc.Transition(ctx, l.ID, StatusContacted, broker)
	require.NoError(t, err)
	stored, err = svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, firstContact.Equal(*stored.ContactedAt))
}

func TestTransitionWithoutOperatorIsRejected(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Carla")

	status := StatusWon
	score := 90
	_, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Status: &status, Score: &score}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, err := svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, stored.Status)
	assert.Equal(t, DefaultScore, stored.Score)
	assert.True(t, l.UpdatedAt.Equal(stored.UpdatedAt))

	n, err := svc.activities.CountForLead(ctx, l.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAnonymousFieldUpdateAllowed(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Diego")

	phone := "+55 11 99999-0000"
	updated, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Phone: &phone}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	items, err := svc.activities.ListForLead(ctx, l.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, activity.TypeUpdated, items[0].Type)
	assert.Nil(t, items[0].OperatorID)
}

func TestTransitionToSameStatusIsNoop(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Elisa")

	same, err := svc.Transition(ctx, l.ID, StatusNew, broker)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, same.Status)
	assert.Nil(t, same.ContactedAt)
	assert.True(t, same.UpdatedAt.After(l.UpdatedAt))

	assert.Empty(t, statusChanges(t, svc, l.ID))
	items, err := svc.activities.ListForLead(ctx, l.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, activity.TypeUpdated, items[0].Type)

	assert.Equal(t, []EventKind{EventCreated, EventUpdated}, pub.kinds())
}

func TestTransitionOutOfClosedStatus(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Fábio")

	_, err := svc.Transition(ctx, l.ID, StatusLost, broker)
	require.NoError(t, err)
	reopened, err := svc.Transition(ctx, l.ID, StatusNegotiation, broker)
	require.NoError(t, err)
	assert.Equal(t, StatusNegotiation, reopened.Status)
}

func TestTransitionErrors(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Gabi")

	_, err := svc.Transition(ctx, uuid.New(), StatusQualified, broker)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	_, err = svc.Transition(ctx, l.ID, Status("ARQUIVADO"), broker)
	assert.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Field)
}

func TestUpdateLeadAppliesFieldsWithStatusAtomically(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Helena")

	status := StatusProposalSent
	score := 80
	budget := 750000.0
	agent := int64(12)
	hoods := []string{"Pinheiros", " ", "Vila Madalena"}
	updated, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{
		Status:                 &status,
		Score:                  &score,
		Budget:                 &budget,
		AssignedTo:             &agent,
		PreferredNeighborhoods: &hoods,
	}, broker)
	require.NoError(t, err)

	stored, err := svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProposalSent, stored.Status)
	assert.Equal(t, 80, stored.Score)
	require.NotNil(t, stored.Budget)
	assert.Equal(t, 750000.0, *stored.Budget)
	assert.Equal(t, []string{"Pinheiros", "Vila Madalena"}, []string(stored.PreferredNeighborhoods))
	assert.True(t, updated.UpdatedAt.Equal(stored.UpdatedAt))

	items, err := svc.activities.ListForLead(ctx, l.ID, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	p, err := items[0].Payload()
	require.NoError(t, err)
	assert.Equal(t, activity.StatusChangedPayload{
		PreviousStatus: "NOVO",
		NewStatus:      "PROPOSTA_ENVIADA",
		Fields:         []string{"score", "budget", "assignedTo", "preferredNeighborhoods"},
	}, p)

	kinds := pub.kinds()
	assert.Equal(t, EventMoved, kinds[len(kinds)-1])
}

func TestUpdateLeadClearAndConflicts(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	email := "joao@example.com"
	l, err := svc.CreateLead(ctx, &CreateLeadRequest{Name: "João", Email: &email}, broker)
	require.NoError(t, err)

	cleared, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Clear: []string{FieldEmail}}, broker)
	require.NoError(t, err)
	assert.Nil(t, cleared.Email)

	other := "x@example.com"
	_, err = svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Email: &other, Clear: []string{FieldEmail}}, broker)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Clear: []string{"name"}}, broker)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{}, broker)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFailedMutationLeavesNoWrites(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Igor")

	require.NoError(t, svc.db.Migrator().DropTable(&activity.Activity{}))

	status := StatusQualified
	_, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Status: &status}, broker)
	require.ErrorIs(t, err, ErrPersistence)

	stored, err := svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNew, stored.Status)
	assert.Nil(t, stored.ContactedAt)
	assert.Equal(t, []EventKind{EventCreated}, pub.kinds())
}

func TestDeleteLeadCascades(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Júlia")
	keep := createLead(t, svc, "Karen")

	_, err := svc.ScheduleVisit(ctx, l.ID, &ScheduleVisitRequest{ScheduledAt: time.Now().Add(48 * time.Hour)}, broker)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteLead(ctx, l.ID, nil), ErrUnauthorized)
	require.NoError(t, svc.DeleteLead(ctx, l.ID, broker))

	_, err = svc.GetLead(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLeadNotFound)

	var acts, visits int64
	require.NoError(t, svc.db.Model(&activity.Activity{}).Where("lead_id = ?", l.ID).Count(&acts).Error)
	require.NoError(t, svc.db.Model(&visit.Visit{}).Where("lead_id = ?", l.ID).Count(&visits).Error)
	assert.Zero(t, acts)
	assert.Zero(t, visits)

	n, err := svc.activities.CountForLead(ctx, keep.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, svc.DeleteLead(ctx, l.ID, broker), ErrLeadNotFound)
	kinds := pub.kinds()
	assert.Equal(t, EventDeleted, kinds[len(kinds)-1])
}

func TestListLeadsPagination(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		createLead(t, svc, fmt.Sprintf("Lead %02d", i))
	}

	page, err := svc.ListLeads(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Leads, 20)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Lead 24", page.Leads[0].Name)

	second, err := svc.ListLeads(ctx, ListFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Leads, 5)

	asc, err := svc.ListLeads(ctx, ListFilter{Order: "asc", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, asc.Limit)
	assert.Equal(t, "Lead 00", asc.Leads[0].Name)

	_, err = svc.ListLeads(ctx, ListFilter{Order: "sideways"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListLeadsFilters(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	email := "Paula.Reis@Example.com"
	phone := "11 98888-7777"
	agent := int64(3)
	_, err := svc.CreateLead(ctx, &CreateLeadRequest{Name: "Paula Reis", Email: &email, Source: SourcePortalZap, AssignedTo: &agent}, broker)
	require.NoError(t, err)
	_, err = svc.CreateLead(ctx, &CreateLeadRequest{Name: "Rafael", Phone: &phone, Source: SourceSite}, broker)
	require.NoError(t, err)
	q := createLead(t, svc, "Sofia")
	_, err = svc.Transition(ctx, q.ID, StatusQualified, broker)
	require.NoError(t, err)

	byEmail, err := svc.ListLeads(ctx, ListFilter{Search: "paula.reis"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEmail.Total)

	byPhone, err := svc.ListLeads(ctx, ListFilter{Search: "98888"})
	require.NoError(t, err)
	require.Len(t, byPhone.Leads, 1)
	assert.Equal(t, "Rafael", byPhone.Leads[0].Name)

	bySource, err := svc.ListLeads(ctx, ListFilter{Source: SourcePortalZap})
	require.NoError(t, err)
	assert.Equal(t, int64(1), bySource.Total)

	byAgent, err := svc.ListLeads(ctx, ListFilter{AssignedTo: &agent})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byAgent.Total)

	byStatus, err := svc.ListLeads(ctx, ListFilter{Status: StatusQualified})
	require.NoError(t, err)
	require.Len(t, byStatus.Leads, 1)
	assert.Equal(t, "Sofia", byStatus.Leads[0].Name)
}

func TestListLeadsSearchFoldsAccents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	createLead(t, svc, "Úrsula Conceição")
	createLead(t, svc, "Ursula Lima")

	for q, want := range map[string]int64{
		"Úrsula":    1,
		"úrsula":    1,
		"ÚRSULA":    1,
		"conceição": 1,
		"CONCEIÇÃO": 1,
		"ursula":    1,
		"sula":      2,
	} {
		res, err := svc.ListLeads(ctx, ListFilter{Search: q})
		require.NoError(t, err)
		assert.Equal(t, want, res.Total, "q=%q", q)
	}
}

func TestListLeadsSearchIsLiteral(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	createLead(t, svc, "Ana")
	createLead(t, svc, "Bruno")
	createLead(t, svc, `promo_100% \ vip`)

	for _, q := range []string{"%", "_", `\`, "o_1", "100%"} {
		res, err := svc.ListLeads(ctx, ListFilter{Search: q})
		require.NoError(t, err)
		require.Len(t, res.Leads, 1, "q=%q", q)
		assert.Equal(t, `promo_100% \ vip`, res.Leads[0].Name)
	}

	res, err := svc.ListLeads(ctx, ListFilter{Search: "a_a"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestSearchKeyFollowsUpdates(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Vera")

	email := "Vera.Mota@Example.COM"
	_, err := svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Email: &email}, broker)
	require.NoError(t, err)

	res, err := svc.ListLeads(ctx, ListFilter{Search: "MOTA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	_, err = svc.UpdateLead(ctx, l.ID, &UpdateLeadRequest{Clear: []string{FieldEmail}}, broker)
	require.NoError(t, err)
	res, err = svc.ListLeads(ctx, ListFilter{Search: "example"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestBackfillSearchKeys(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Wagner Ávila")
	require.NoError(t, svc.db.Model(&Lead{}).Where("id = ?", l.ID).UpdateColumn("search_key", "").Error)

	n, err := svc.leads.BackfillSearchKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := svc.ListLeads(ctx, ListFilter{Search: "ávila"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
}

func TestScheduleVisitActivityOrder(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Xavier")

	result, err := svc.ScheduleVisit(ctx, l.ID, &ScheduleVisitRequest{ScheduledAt: time.Date(2026, 5, 3, 11, 0, 0, 0, time.UTC)}, broker)
	require.NoError(t, err)

	items, err := svc.ListActivities(ctx, l.ID, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, activity.TypeStatusChanged, items[0].Type)
	assert.Equal(t, activity.TypeVisitScheduled, items[1].Type)
	assert.Equal(t, activity.TypeCreated, items[2].Type)
	assert.True(t, items[1].CreatedAt.Before(items[0].CreatedAt))
	assert.True(t, result.Lead.UpdatedAt.Equal(items[0].CreatedAt))
}

func TestScheduleVisitMovesLead(t *testing.T) {
	svc, pub := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Tiago")
	at := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)

	result, err := svc.ScheduleVisit(ctx, l.ID, &ScheduleVisitRequest{ScheduledAt: at, Notes: "Apto 42"}, broker)
	require.NoError(t, err)
	assert.Equal(t, StatusVisitScheduled, result.Lead.Status)
	assert.NotNil(t, result.Lead.ContactedAt)
	assert.Equal(t, visit.StatusScheduled, result.Visit.Status)

	changes := statusChanges(t, svc, l.ID)
	require.Len(t, changes, 1)
	assert.Equal(t, "VISITA_AGENDADA", changes[0].NewStatus)

	n, err := svc.activities.CountForLead(ctx, l.ID, activity.TypeVisitScheduled)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// a second booking keeps the status and adds no status change
	_, err = svc.ScheduleVisit(ctx, l.ID, &ScheduleVisitRequest{ScheduledAt: at.Add(24 * time.Hour)}, broker)
	require.NoError(t, err)
	assert.Len(t, statusChanges(t, svc, l.ID), 1)

	visits, err := svc.ListVisits(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, visits, 2)

	kinds := pub.kinds()
	assert.Equal(t, []EventKind{EventCreated, EventMoved, EventUpdated}, kinds)
}

func TestScheduleVisitRequiresOperator(t *testing.T) {
	svc, _ := setupTestService(t)
	l := createLead(t, svc, "Úrsula")

	_, err := svc.ScheduleVisit(context.Background(), l.ID, &ScheduleVisitRequest{ScheduledAt: time.Now()}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestConcurrentTransitionsBothCommit(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	l := createLead(t, svc, "Vera")

	targets := []Status{StatusQualified, StatusNegotiation}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, st := range targets {
		wg.Add(1)
		go func(i int, st Status) {
			defer wg.Done()
			_, errs[i] = svc.Transition(ctx, l.ID, st, broker)
		}(i, st)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := svc.GetLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Contains(t, targets, stored.Status)
	assert.Len(t, statusChanges(t, svc, l.ID), 2)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	svc, pub := setupTestService(t)
	pub.err = errors.New("hub down")

	l, err := svc.CreateLead(context.Background(), &CreateLeadRequest{Name: "Wagner"}, broker)
	require.NoError(t, err)

	_, err = svc.GetLead(context.Background(), l.ID)
	assert.NoError(t, err)
}

func TestListActivitiesUnknownLead(t *testing.T) {
	svc, _ := setupTestService(t)
	_, err := svc.ListActivities(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
