package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/nullnotice/internal/model"
)

func testSummary() model.Summary {
	return model.Summary{
		RunID:      "run-1",
		Entity:     model.Entity{Name: "Entidad 2", Channel: model.ChannelFax},
		Tone:       "formal",
		GrandTotal: decimal.RequireFromString("175.50"),
		Records:    3,
		Requested:  5,
		Dispatches: []model.Dispatch{{
			ReceiptID: "r-1",
			Time:      time.Date(2025, 3, 4, 9, 15, 0, 0, time.UTC),
			CaseCode:  "N1",
			Company:   "Co",
			Entity:    "Entidad 2",
			Channel:   model.ChannelFax,
			Recipient: "r1",
			Total:     "150",
		}},
		Skips: []model.Skip{{Line: 3, CaseCode: "short", Reason: "insufficient data"}},
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, Write(path, testSummary()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetDispatches, SheetSkipped}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grand total", "175.5"}, summary[4])
	assert.Equal(t, []string{"Dispatched", "1"}, summary[7])

	dispatches, err := f.GetRows(SheetDispatches)
	require.NoError(t, err)
	require.Len(t, dispatches, 2)
	assert.Equal(t, "Case", dispatches[0][0])
	assert.Equal(t, []string{"N1", "Co", "r1", "Entidad 2", "fax", "150", "r-1", "2025-03-04T09:15:00Z"}, dispatches[1])

	skipped, err := f.GetRows(SheetSkipped)
	require.NoError(t, err)
	require.Len(t, skipped, 2)
	assert.Equal(t, []string{"3", "short", "insufficient data"}, skipped[1])
}

func TestWrite_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, Write(path, model.Summary{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetDispatches)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWrite_BadPath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "dir", "run.xlsx"), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving report")
}
