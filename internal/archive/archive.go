package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is where letters are archived when no directory is configured.
const DefaultDir = "CARPETA_CARTAS"

// ErrInvalidCaseCode is returned for case codes that cannot name a file.
var ErrInvalidCaseCode = errors.New("invalid case code for archive file name")

// Archiver writes letters under Dir.
type Archiver struct {
	Dir string
}

// New returns an Archiver rooted at dir.
func New(dir string) *Archiver {
	if dir == "" {
		dir = DefaultDir
	}
	return &Archiver{Dir: dir}
}

// Path returns the file a case code is archived to.
func (a *Archiver) Path(caseCode string) (string, error) {
	if caseCode == "" || caseCode == "." || caseCode == ".." ||
		strings.ContainsAny(caseCode, `/\`) || strings.ContainsRune(caseCode, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCaseCode, caseCode)
	}
	return filepath.Join(a.Dir, caseCode+".txt"), nil
}

// Save writes text to <Dir>/<caseCode>.txt, creating Dir if needed and
// overwriting any previous letter for the same case.
func (a *Archiver) Save(caseCode, text string) (string, error) {
	path, err := a.Path(caseCode)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing letter %s: %w", caseCode, err)
	}
	return path, nil
}

// Load reads back an archived letter.
func (a *Archiver) Load(caseCode string) (string, error) {
	path, err := a.Path(caseCode)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading letter %s: %w", caseCode, err)
	}
	return string(data), nil
}
