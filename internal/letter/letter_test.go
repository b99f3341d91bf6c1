package letter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nullnotice/internal/model"
)

func testInput() Input {
	return Input{
		Entity:    "Entidad 1",
		Recipient: "Ana Pérez",
		CaseCode:  "NUL-001",
		Company:   "Acme SA",
		Total:     decimal.RequireFromString("1350.75"),
		Payments:  []string{"100", "1,250.75"},
	}
}

func newGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	g, err := NewGenerator(opts)
	require.NoError(t, err)
	return g
}

func TestRender_AllTonesCarryRequiredContent(t *testing.T) {
	g := newGenerator(t, Options{})
	in := testInput()

	for _, tone := range Tones() {
		l, err := g.Render(tone, in)
		require.NoError(t, err, "tone %s", tone)

		assert.Equal(t, "NUL-001", l.CaseCode)
		assert.Equal(t, string(tone), l.Tone)
		assert.Contains(t, l.Text, "Ana Pérez", "tone %s greets recipient", tone)
		assert.Contains(t, l.Text, "NUL-001", "tone %s states case", tone)
		assert.Contains(t, l.Text, "Acme SA", "tone %s states company", tone)
		assert.Contains(t, l.Text, "1350.75", "tone %s states total", tone)
		assert.Contains(t, l.Text, "100\n1,250.75\n", "tone %s lists payments in order", tone)
		assert.Contains(t, l.Text, DefaultContactToken, "tone %s names contact token", tone)
		assert.True(t, strings.HasSuffix(l.Text, "]\n"), "tone %s ends with signature", tone)
	}
}

func TestRender_Deterministic(t *testing.T) {
	g := newGenerator(t, Options{})
	for _, tone := range Tones() {
		a, err := g.Render(tone, testInput())
		require.NoError(t, err)
		b, err := g.Render(tone, testInput())
		require.NoError(t, err)
		assert.Equal(t, a.Text, b.Text)
	}
}

func TestRender_FormalLayout(t *testing.T) {
	g := newGenerator(t, Options{Signers: map[Tone][]string{ToneFormal: {"[Juan]", "[Director]"}}})
	l, err := g.Render(ToneFormal, testInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(l.Text, "Estimado/a Ana Pérez,\n\n"))
	assert.Contains(t, l.Text, "pagos correspondientes:\n\n100\n1,250.75\n\nEs imperativo")
	assert.True(t, strings.HasSuffix(l.Text, "Atentamente,\n\n[Juan]\n[Director]\n"), "got %q", l.Text)
}

func TestRender_InformalLayout(t *testing.T) {
	g := newGenerator(t, Options{})
	l, err := g.Render(ToneInformal, testInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(l.Text, "¡Hola Ana Pérez!\n\n"))
	assert.True(t, strings.HasSuffix(l.Text, "¡Gracias y un saludo!\n\n[Juan Fernandez]\n"))
}

func TestRender_EntityNamedInSignature(t *testing.T) {
	g := newGenerator(t, Options{})
	l, err := g.Render(ToneEntity, testInput())
	require.NoError(t, err)
	assert.Contains(t, l.Text, "Atentamente,\n\n[Nombre del remitente]\n[Cargo del remitente]\n[Entidad: Entidad 1]\n")
}

func TestRender_DefaultSignatureDiffersByTone(t *testing.T) {
	g := newGenerator(t, Options{})
	informal, err := g.Render(ToneInformal, testInput())
	require.NoError(t, err)
	formal, err := g.Render(ToneFormal, testInput())
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(informal.Text, "¡Gracias y un saludo!\n\n[Juan Fernandez]\n"), "got %q", informal.Text)
	assert.True(t, strings.HasSuffix(formal.Text, "Atentamente,\n\n[Juan Fernandez]\n[Director del grupo de programación]\n[Imperio]\n"), "got %q", formal.Text)
}

func TestRender_SignersPerTone(t *testing.T) {
	g := newGenerator(t, Options{Signers: map[Tone][]string{
		ToneEntity:   {"[Marta Ruiz]", "[Jefa de compras]"},
		ToneInformal: {"[Marta]"},
	}})

	l, err := g.Render(ToneEntity, testInput())
	require.NoError(t, err)
	assert.Contains(t, l.Text, "Atentamente,\n\n[Marta Ruiz]\n[Jefa de compras]\n[Entidad: Entidad 1]\n")
	assert.NotContains(t, l.Text, "[Nombre del remitente]")

	l, err = g.Render(ToneInformal, testInput())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(l.Text, "\n[Marta]\n"))

	// Tones without configured lines keep the defaults.
	l, err = g.Render(ToneFormal, testInput())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(l.Text, "[Imperio]\n"))
}

func TestDefaultSigner_ReturnsCopy(t *testing.T) {
	lines := DefaultSigner(ToneInformal)
	lines[0] = "changed"
	assert.Equal(t, []string{"[Juan Fernandez]"}, DefaultSigner(ToneInformal))
}

func TestRender_TotalFormatting(t *testing.T) {
	g := newGenerator(t, Options{})
	in := testInput()
	in.Total = decimal.RequireFromString("175.50")
	l, err := g.Render(ToneFormal, in)
	require.NoError(t, err)
	assert.Contains(t, l.Text, "asciende a 175.5.")
	assert.NotContains(t, l.Text, "$")
}

func TestRender_NoPayments(t *testing.T) {
	g := newGenerator(t, Options{})
	in := testInput()
	in.Payments = nil
	in.Total = decimal.Zero
	l, err := g.Render(ToneFormal, in)
	require.NoError(t, err)
	assert.Contains(t, l.Text, "correspondientes:\n\n\nEs imperativo")
	assert.Contains(t, l.Text, "asciende a 0.")
}

func TestRender_CustomContactToken(t *testing.T) {
	g := newGenerator(t, Options{ContactToken: "nulidades@example.test"})
	l, err := g.Render(ToneInformal, testInput())
	require.NoError(t, err)
	assert.Contains(t, l.Text, "nulidades@example.test")
	assert.NotContains(t, l.Text, DefaultContactToken)
}

func TestRender_UnknownTone(t *testing.T) {
	g := newGenerator(t, Options{})
	_, err := g.Render(Tone("sarcastic"), testInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTone))
}

func TestNewGenerator_TemplateOverride(t *testing.T) {
	dir := t.TempDir()
	src := "Hi {{ recipient }} re {{ case_code }}: {{ total }}{% for p in payments %} [{{ p }}]{% endfor %} {{ contact }}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "informal.liquid"), []byte(src), 0o644))

	g := newGenerator(t, Options{TemplatesDir: dir})

	l, err := g.Render(ToneInformal, testInput())
	require.NoError(t, err)
	assert.Equal(t, "Hi Ana Pérez re NUL-001: 1350.75 [100] [1,250.75] [correo_empresa_nulidad]\n", l.Text)

	// Tones without an override keep the built-in template.
	l, err = g.Render(ToneFormal, testInput())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(l.Text, "Estimado/a"))
}

func TestNewGenerator_BadOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formal.liquid"), []byte("{% for x in %}"), 0o644))

	_, err := NewGenerator(Options{TemplatesDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing formal template")
}

func TestParseTone(t *testing.T) {
	tone, err := ParseTone("Formal")
	require.NoError(t, err)
	assert.Equal(t, ToneFormal, tone)

	_, err = ParseTone("tipo 3")
	assert.True(t, errors.Is(err, ErrUnknownTone))
}

func TestFromCase(t *testing.T) {
	c := model.Case{
		Code:      "N9",
		Company:   "Globex",
		Recipient: "bo@globex.test",
		Payments:  []string{"5"},
		Total:     decimal.NewFromInt(5),
	}
	in := FromCase("Entidad 2", c)
	assert.Equal(t, "Entidad 2", in.Entity)
	assert.Equal(t, "N9", in.CaseCode)
	assert.Equal(t, "bo@globex.test", in.Recipient)
	assert.Equal(t, []string{"5"}, in.Payments)
}

func TestWriteBuiltin(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	custom := "custom {{ recipient }}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formal.liquid"), []byte(custom), 0o644))

	require.NoError(t, WriteBuiltin(dir))

	for _, tone := range Tones() {
		_, err := os.Stat(filepath.Join(dir, string(tone)+".liquid"))
		assert.NoError(t, err, "tone %s", tone)
	}
	data, err := os.ReadFile(filepath.Join(dir, "formal.liquid"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data), "existing template kept")

	// Exported templates render the same as the built-ins.
	builtinGen := newGenerator(t, Options{})
	exportedGen := newGenerator(t, Options{TemplatesDir: dir})
	a, err := builtinGen.Render(ToneInformal, testInput())
	require.NoError(t, err)
	b, err := exportedGen.Render(ToneInformal, testInput())
	require.NoError(t, err)
	assert.Equal(t, a.Text, b.Text)
}
