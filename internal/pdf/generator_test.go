package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/gigledger/internal/model"
)

func TestGenerate(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	report := model.EarningsReport{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalPaid:   decimal.RequireFromString("400.00"),
		Professions: []model.ProfessionEarnings{
			{Profession: "programmer", TotalEarnings: decimal.RequireFromString("300.00")},
		},
		Clients: []model.ClientSpending{
			{ID: uuid.New(), FullName: "Ada Lovelace", Paid: decimal.RequireFromString("400.00")},
		},
	}

	content, err := generator.Generate(report)
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestGenerate_EmptyReport(t *testing.T) {
	generator, err := NewGenerator()
	require.NoError(t, err)

	content, err := generator.Generate(model.EarningsReport{TotalPaid: decimal.Zero})
	require.NoError(t, err)
	require.NotEmpty(t, content)
}
