package letter

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osteele/liquid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nullnotice/internal/amount"
	"github.com/cleared-dev/nullnotice/internal/model"
)

//go:embed templates/*.liquid
var builtin embed.FS

// Tone selects the wording of a letter.
type Tone string

const (
	ToneInformal Tone = "informal"
	ToneFormal   Tone = "formal"
	ToneEntity   Tone = "entity" // formal wording signed on behalf of the sending entity
)

// Tones lists every tone in menu order.
func Tones() []Tone {
	return []Tone{ToneInformal, ToneFormal, ToneEntity}
}

// ParseTone returns the tone named s (case-insensitive).
func ParseTone(s string) (Tone, error) {
	for _, t := range Tones() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, s)
}

// ErrUnknownTone is returned for a tone with no template.
var ErrUnknownTone = errors.New("unknown letter tone")

// DefaultContactToken is the placeholder the recipient is asked to write to.
const DefaultContactToken = "[correo_empresa_nulidad]"

var defaultSigners = map[Tone][]string{
	ToneInformal: {"[Juan Fernandez]"},
	ToneFormal: {
		"[Juan Fernandez]",
		"[Director del grupo de programación]",
		"[Imperio]",
	},
	ToneEntity: {
		"[Nombre del remitente]",
		"[Cargo del remitente]",
	},
}

// DefaultSigner returns the built-in signature lines for tone. The entity tone
// appends the entity's own lines after these.
func DefaultSigner(tone Tone) []string {
	return append([]string(nil), defaultSigners[tone]...)
}

// Input holds everything a letter depends on.
type Input struct {
	Entity    string
	Recipient string
	CaseCode  string
	Company   string
	Total     decimal.Decimal
	Payments  []string
}

// Options configures a Generator.
type Options struct {
	ContactToken string
	// Signers replaces the signature lines per tone. Tones missing from the
	// map use DefaultSigner.
	Signers map[Tone][]string
	// TemplatesDir, when set, may hold <tone>.liquid files that replace the
	// built-in template for that tone.
	TemplatesDir string
}

// Generator renders letters. It is not modified after NewGenerator returns.
type Generator struct {
	templates map[Tone]*liquid.Template
	contact   string
	signers   map[Tone][]string
}

// NewGenerator parses the built-in templates and any overrides.
func NewGenerator(opts Options) (*Generator, error) {
	engine := liquid.NewEngine()

	g := &Generator{
		templates: make(map[Tone]*liquid.Template, len(Tones())),
		contact:   opts.ContactToken,
		signers:   make(map[Tone][]string, len(Tones())),
	}
	if g.contact == "" {
		g.contact = DefaultContactToken
	}

	for _, tone := range Tones() {
		src, err := templateSource(opts.TemplatesDir, tone)
		if err != nil {
			return nil, err
		}
		tpl, perr := engine.ParseString(src)
		if perr != nil {
			return nil, fmt.Errorf("parsing %s template: %w", tone, perr)
		}
		g.templates[tone] = tpl

		if lines := opts.Signers[tone]; len(lines) > 0 {
			g.signers[tone] = append([]string(nil), lines...)
		} else {
			g.signers[tone] = DefaultSigner(tone)
		}
	}
	return g, nil
}

func templateSource(dir string, tone Tone) (string, error) {
	name := string(tone) + ".liquid"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case err == nil:
			return string(data), nil
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("reading %s template override: %w", tone, err)
		}
	}
	data, err := builtin.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("reading built-in %s template: %w", tone, err)
	}
	return string(data), nil
}

// Render produces the letter for in. Same tone and input give the same text.
func (g *Generator) Render(tone Tone, in Input) (model.Letter, error) {
	tpl, ok := g.templates[tone]
	if !ok {
		return model.Letter{}, fmt.Errorf("%w: %q", ErrUnknownTone, tone)
	}

	payments := make([]any, len(in.Payments))
	for i, p := range in.Payments {
		payments[i] = p
	}
	signer := make([]any, len(g.signers[tone]))
	for i, s := range g.signers[tone] {
		signer[i] = s
	}

	out, err := tpl.RenderString(liquid.Bindings{
		"entity":    in.Entity,
		"recipient": in.Recipient,
		"case_code": in.CaseCode,
		"company":   in.Company,
		"total":     amount.Format(in.Total),
		"payments":  payments,
		"contact":   g.contact,
		"signer":    signer,
	})
	if err != nil {
		return model.Letter{}, fmt.Errorf("rendering %s letter for %s: %w", tone, in.CaseCode, err)
	}

	return model.Letter{
		CaseCode: in.CaseCode,
		Tone:     string(tone),
		Text:     strings.TrimRight(out, "\n") + "\n",
	}, nil
}

// FromCase builds the render input for c sent on behalf of entity.
func FromCase(entity string, c model.Case) Input {
	return Input{
		Entity:    entity,
		Recipient: c.Recipient,
		CaseCode:  c.Code,
		Company:   c.Company,
		Total:     c.Total,
		Payments:  c.Payments,
	}
}

// WriteBuiltin copies the built-in templates into dir so they can be edited
// and used as overrides. Existing files are left alone.
func WriteBuiltin(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating templates dir: %w", err)
	}
	for _, tone := range Tones() {
		name := string(tone) + ".liquid"
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		data, err := builtin.ReadFile("templates/" + name)
		if err != nil {
			return fmt.Errorf("reading built-in %s template: %w", tone, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing %s template: %w", tone, err)
		}
	}
	return nil
}
