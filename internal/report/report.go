package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/nullnotice/internal/amount"
	"github.com/cleared-dev/nullnotice/internal/model"
)

// Sheet names.
const (
	SheetSummary    = "Summary"
	SheetDispatches = "Dispatches"
	SheetSkipped    = "Skipped"
)

var dispatchHeader = []any{"Case", "Company", "Recipient", "Entity", "Channel", "Total", "Receipt", "Sent at", "Archive"}

var skipHeader = []any{"Line", "Case", "Reason"}

// Write saves s as a workbook at path, replacing any existing file.
func Write(path string, s model.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if err := writeSummary(f, s); err != nil {
		return err
	}
	if err := writeDispatches(f, s.Dispatches); err != nil {
		return err
	}
	if err := writeSkips(f, s.Skips); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s model.Summary) error {
	rows := [][]any{
		{"Run", s.RunID},
		{"Entity", s.Entity.Name},
		{"Channel", string(s.Entity.Channel)},
		{"Tone", s.Tone},
		{"Grand total", amount.Format(s.GrandTotal)},
		{"Records read", s.Records},
		{"Requested", s.Requested},
		{"Dispatched", len(s.Dispatches)},
		{"Skipped", len(s.Skips)},
	}
	return writeRows(f, SheetSummary, rows)
}

func writeDispatches(f *excelize.File, ds []model.Dispatch) error {
	if _, err := f.NewSheet(SheetDispatches); err != nil {
		return fmt.Errorf("creating dispatches sheet: %w", err)
	}
	rows := make([][]any, 0, len(ds)+1)
	rows = append(rows, dispatchHeader)
	for _, d := range ds {
		rows = append(rows, []any{
			d.CaseCode,
			d.Company,
			d.Recipient,
			d.Entity,
			string(d.Channel),
			d.Total,
			d.ReceiptID,
			d.Time.Format(time.RFC3339),
			d.ArchivePath,
		})
	}
	return writeRows(f, SheetDispatches, rows)
}

func writeSkips(f *excelize.File, skips []model.Skip) error {
	if _, err := f.NewSheet(SheetSkipped); err != nil {
		return fmt.Errorf("creating skipped sheet: %w", err)
	}
	rows := make([][]any, 0, len(skips)+1)
	rows = append(rows, skipHeader)
	for _, s := range skips {
		rows = append(rows, []any{s.Line, s.CaseCode, s.Reason})
	}
	return writeRows(f, SheetSkipped, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
