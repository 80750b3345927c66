package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Activity{}))
	return NewRepository(db)
}

func TestAppendAssignsID(t *testing.T) {
	repo := setupTestRepo(t)
	leadID := uuid.New()

	a, err := New(leadID, &Actor{ID: 7, Name: "Ana"}, CreatedPayload{Source: "SITE", Status: "NOVO"}, "Lead criado", time.Now())
	require.NoError(t, err)

	id, err := repo.Append(context.Background(), a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, TypeCreated, a.Type)
	require.NotNil(t, a.OperatorID)
	assert.Equal(t, int64(7), *a.OperatorID)
}

func TestNewAnonymousActor(t *testing.T) {
	a, err := New(uuid.New(), nil, UpdatedPayload{Fields: []string{"phone"}}, "", time.Now())
	require.NoError(t, err)
	assert.Nil(t, a.OperatorID)
	assert.Empty(t, a.OperatorName)
}

func TestListForLeadNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	leadID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, st := range []string{"CONTATO_REALIZADO", "QUALIFICADO", "NEGOCIACAO"} {
		a, err := New(leadID, &Actor{ID: 1}, StatusChangedPayload{PreviousStatus: "NOVO", NewStatus: st}, "", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		_, err = repo.Append(ctx, a)
		require.NoError(t, err)
	}
	other, err := New(uuid.New(), nil, UpdatedPayload{}, "", base)
	require.NoError(t, err)
	_, err = repo.Append(ctx, other)
	require.NoError(t, err)

	items, err := repo.ListForLead(ctx, leadID, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	p, err := items[0].Payload()
	require.NoError(t, err)
	assert.Equal(t, "NEGOCIACAO", p.(StatusChangedPayload).NewStatus)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
}

func TestPayloadRoundTripPerType(t *testing.T) {
	visitID := uuid.New()
	at := time.Date(2026, 5, 2, 15, 30, 0, 0, time.UTC)

	cases := []Payload{
		CreatedPayload{Source: "WHATSAPP", Status: "NOVO"},
		UpdatedPayload{Fields: []string{"score", "budget"}},
		StatusChangedPayload{PreviousStatus: "NOVO", NewStatus: "QUALIFICADO", Fields: []string{"score"}},
		VisitScheduledPayload{VisitID: visitID, ScheduledAt: at},
	}
	for _, want := range cases {
		a, err := New(uuid.New(), nil, want, "", at)
		require.NoError(t, err)
		got, err := a.Payload()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPayloadUnknownType(t *testing.T) {
	a := &Activity{Type: "note"}
	_, err := a.Payload()
	assert.Error(t, err)
}

func TestDeleteByLead(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	leadID := uuid.New()
	keep := uuid.New()

	for _, id := range []uuid.UUID{leadID, leadID, keep} {
		a, err := New(id, nil, UpdatedPayload{}, "", time.Now())
		require.NoError(t, err)
		_, err = repo.Append(ctx, a)
		require.NoError(t, err)
	}

	n, err := repo.DeleteByLead(ctx, leadID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.CountForLead(ctx, leadID, "")
	require.NoError(t, err)
	assert.Zero(t, left)

	kept, err := repo.CountForLead(ctx, keep, TypeUpdated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), kept)
}
