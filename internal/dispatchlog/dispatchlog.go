package dispatchlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/nullnotice/internal/model"
)

// Header is the CSV header for the dispatch log.
const Header = "timestamp,receipt_id,case_code,company,entity,channel,recipient,total,archive_path"

const (
	numFields      = 9
	colTimestamp   = 0
	colReceiptID   = 1
	colCaseCode    = 2
	colCompany     = 3
	colEntity      = 4
	colChannel     = 5
	colRecipient   = 6
	colTotal       = 7
	colArchivePath = 8
)

// MarshalDispatch converts a Dispatch to a CSV row.
func MarshalDispatch(d model.Dispatch) []string {
	row := make([]string, numFields)
	row[colTimestamp] = d.Time.Format(time.RFC3339)
	row[colReceiptID] = d.ReceiptID
	row[colCaseCode] = d.CaseCode
	row[colCompany] = d.Company
	row[colEntity] = d.Entity
	row[colChannel] = string(d.Channel)
	row[colRecipient] = d.Recipient
	row[colTotal] = d.Total
	row[colArchivePath] = d.ArchivePath
	return row
}

// UnmarshalDispatch converts a CSV row to a Dispatch.
func UnmarshalDispatch(record []string) (model.Dispatch, error) {
	if len(record) != numFields {
		return model.Dispatch{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return model.Dispatch{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return model.Dispatch{
		Time:        ts,
		ReceiptID:   record[colReceiptID],
		CaseCode:    record[colCaseCode],
		Company:     record[colCompany],
		Entity:      record[colEntity],
		Channel:     model.Channel(record[colChannel]),
		Recipient:   record[colRecipient],
		Total:       record[colTotal],
		ArchivePath: record[colArchivePath],
	}, nil
}

// Append writes dispatches to path, creating the file, its directory and the
// header when needed.
func Append(path string, dispatches []model.Dispatch) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dispatch log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening dispatch log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, d := range dispatches {
		if err := cw.Write(MarshalDispatch(d)); err != nil {
			return fmt.Errorf("writing dispatch %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all dispatches in path. A missing file yields no dispatches.
func Read(path string) ([]model.Dispatch, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening dispatch log: %w", err)
	}
	defer f.Close()

	return readDispatches(f)
}

func readDispatches(r io.Reader) ([]model.Dispatch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dispatch log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []model.Dispatch
	for i, rec := range records[1:] {
		d, err := UnmarshalDispatch(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, d)
	}
	return out, nil
}
