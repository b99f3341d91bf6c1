package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cleared-dev/nullnotice/internal/model"
)

// Separator splits fields within a line.
const Separator = "\t"

// ReadFile opens path and parses every line into a ProviderRecord.
func ReadFile(path string) ([]model.ProviderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	recs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}

// Parse splits each line of r on tabs. No schema validation happens here.
// Lines may be of any length.
func Parse(r io.Reader) ([]model.ProviderRecord, error) {
	br := bufio.NewReader(r)

	var recs []model.ProviderRecord
	line := 0
	for {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		if text == "" && err != nil {
			break
		}
		line++
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		recs = append(recs, model.ProviderRecord{
			Line:   line,
			Fields: SplitLine(text),
		})
		if err != nil {
			break
		}
	}
	return recs, nil
}

// SplitLine splits one line on tabs and drops trailing empty fields.
// A line without any tab yields a single field, even when empty.
func SplitLine(line string) []string {
	fields := strings.Split(line, Separator)
	if len(fields) == 1 {
		return fields
	}
	n := len(fields)
	for n > 0 && fields[n-1] == "" {
		n--
	}
	return fields[:n]
}
