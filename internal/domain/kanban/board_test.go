package kanban

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imobcrm/internal/domain/lead"
)

func sampleLead(name string, status lead.Status, updated time.Time) lead.Lead {
	return lead.Lead{ID: uuid.New(), Name: name, Status: status, Source: lead.SourceSite, Score: 50, UpdatedAt: updated}
}

func TestBuildHasEveryColumnInOrder(t *testing.T) {
	board := Build(nil, nil)

	require.Len(t, board.Columns, len(lead.Statuses))
	for i, s := range lead.Statuses {
		assert.Equal(t, s, board.Columns[i].Status)
		assert.Equal(t, string(s), board.Columns[i].Label)
		assert.Zero(t, board.Columns[i].Count)
		assert.NotNil(t, board.Columns[i].Cards)
	}
}

func TestBuildGroupsAndCounts(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	leads := []lead.Lead{
		sampleLead("A", lead.StatusNew, base),
		sampleLead("B", lead.StatusQualified, base),
		sampleLead("C", lead.StatusNew, base.Add(time.Hour)),
		sampleLead("D", lead.StatusWon, base),
	}

	board := Build(leads, nil)

	assert.Equal(t, int64(4), board.Total)
	novo := board.Column(lead.StatusNew)
	require.NotNil(t, novo)
	assert.Equal(t, 2, novo.Count)
	assert.Equal(t, "C", novo.Cards[0].Name)
	assert.Equal(t, 1, board.Column(lead.StatusQualified).Count)
	assert.Equal(t, 1, board.Column(lead.StatusWon).Count)
	assert.Zero(t, board.Column(lead.StatusNegotiation).Count)
}

func TestBuildIsRepeatable(t *testing.T) {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	leads := []lead.Lead{
		sampleLead("A", lead.StatusNew, base),
		sampleLead("B", lead.StatusNew, base.Add(time.Minute)),
	}

	first := Build(leads, nil)
	second := Build(leads, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, "A", leads[0].Name)
}

func TestBuildUsesCatalogLabels(t *testing.T) {
	catalog, err := lead.NewCatalog(nil)
	require.NoError(t, err)

	board := Build(nil, catalog)
	assert.Equal(t, "Negociação", board.Column(lead.StatusNegotiation).Label)
}
