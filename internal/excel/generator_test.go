package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/gigledger/internal/model"
)

func sampleReport() model.EarningsReport {
	return model.EarningsReport{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalPaid:   decimal.RequireFromString("400.00"),
		Professions: []model.ProfessionEarnings{
			{Profession: "programmer", TotalEarnings: decimal.RequireFromString("300.00")},
			{Profession: "plumber", TotalEarnings: decimal.RequireFromString("100.00")},
		},
		Clients: []model.ClientSpending{
			{ID: uuid.New(), FullName: "Ada Lovelace", Paid: decimal.RequireFromString("400.00")},
		},
	}
}

func TestGenerate(t *testing.T) {
	content, err := NewGenerator().Generate(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, content)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.ElementsMatch(t, []string{"Summary", "By profession", "By client"}, file.GetSheetList())

	total, err := file.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "400.00", total)

	profession, err := file.GetCellValue("By profession", "A2")
	require.NoError(t, err)
	assert.Equal(t, "programmer", profession)

	client, err := file.GetCellValue("By client", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", client)
}

func TestGenerate_EmptyReport(t *testing.T) {
	report := model.EarningsReport{
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalPaid:   decimal.Zero,
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)
	require.NotEmpty(t, content)
}
