package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/nullnotice/internal/letter"
	"github.com/cleared-dev/nullnotice/internal/model"
)

// ErrNoSelection is returned when a selection cannot be obtained.
var ErrNoSelection = errors.New("no selection available")

// Selector supplies run selections. Indices are 0-based.
type Selector interface {
	SelectEntity(ctx context.Context, entities []model.Entity) (int, error)
	SelectTone(ctx context.Context, tones []letter.Tone) (int, error)
	SelectCount(ctx context.Context, available int) (int, error)
}

// Console asks on out and reads whitespace-separated integers from in.
// Invalid answers are asked again until in is exhausted.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole returns a Console selector.
func NewConsole(in io.Reader, out io.Writer) *Console {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Console{in: sc, out: out}
}

// SelectEntity lists entities and reads a 1-based choice.
func (c *Console) SelectEntity(ctx context.Context, entities []model.Entity) (int, error) {
	fmt.Fprintln(c.out, "Select the sending entity:")
	for i, e := range entities {
		fmt.Fprintf(c.out, "%d. %s (%s)\n", i+1, e.Name, e.Channel)
	}
	n, err := c.readInt(ctx, 1, len(entities))
	if err != nil {
		return 0, fmt.Errorf("selecting entity: %w", err)
	}
	return n - 1, nil
}

// SelectTone lists tones and reads a 1-based choice.
func (c *Console) SelectTone(ctx context.Context, tones []letter.Tone) (int, error) {
	fmt.Fprintln(c.out, "Select the letter type to send:")
	for i, t := range tones {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, t)
	}
	n, err := c.readInt(ctx, 1, len(tones))
	if err != nil {
		return 0, fmt.Errorf("selecting tone: %w", err)
	}
	return n - 1, nil
}

// SelectCount reads how many records to process.
func (c *Console) SelectCount(ctx context.Context, available int) (int, error) {
	fmt.Fprintf(c.out, "Select the number of nullities to process (%d available):\n", available)
	n, err := c.readInt(ctx, 0, -1)
	if err != nil {
		return 0, fmt.Errorf("selecting count: %w", err)
	}
	return n, nil
}

// readInt reads an integer in [lo, hi]; hi < 0 means unbounded.
func (c *Console) readInt(ctx context.Context, lo, hi int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, fmt.Errorf("reading input: %w", err)
			}
			return 0, fmt.Errorf("%w: input closed", ErrNoSelection)
		}
		n, err := strconv.Atoi(c.in.Text())
		if err == nil && n >= lo && (hi < 0 || n <= hi) {
			return n, nil
		}
		if hi < 0 {
			fmt.Fprintf(c.out, "Invalid option, enter a number of at least %d:\n", lo)
		} else {
			fmt.Fprintf(c.out, "Invalid option, enter a number between %d and %d:\n", lo, hi)
		}
	}
}

// Fixed answers from preset 1-based values and defers unset ones to Next.
type Fixed struct {
	Entity *int
	Tone   *int
	Count  *int
	Next   Selector
}

// Int returns a pointer to n, for building a Fixed literal.
func Int(n int) *int { return &n }

// SelectEntity returns the preset entity or asks Next.
func (f *Fixed) SelectEntity(ctx context.Context, entities []model.Entity) (int, error) {
	if f.Entity == nil {
		if f.Next == nil {
			return 0, fmt.Errorf("selecting entity: %w", ErrNoSelection)
		}
		return f.Next.SelectEntity(ctx, entities)
	}
	if *f.Entity < 1 || *f.Entity > len(entities) {
		return 0, fmt.Errorf("entity %d out of range 1-%d", *f.Entity, len(entities))
	}
	return *f.Entity - 1, nil
}

// SelectTone returns the preset tone or asks Next.
func (f *Fixed) SelectTone(ctx context.Context, tones []letter.Tone) (int, error) {
	if f.Tone == nil {
		if f.Next == nil {
			return 0, fmt.Errorf("selecting tone: %w", ErrNoSelection)
		}
		return f.Next.SelectTone(ctx, tones)
	}
	if *f.Tone < 1 || *f.Tone > len(tones) {
		return 0, fmt.Errorf("tone %d out of range 1-%d", *f.Tone, len(tones))
	}
	return *f.Tone - 1, nil
}

// SelectCount returns the preset count or asks Next.
func (f *Fixed) SelectCount(ctx context.Context, available int) (int, error) {
	if f.Count == nil {
		if f.Next == nil {
			return 0, fmt.Errorf("selecting count: %w", ErrNoSelection)
		}
		return f.Next.SelectCount(ctx, available)
	}
	return *f.Count, nil
}

// ToneIndex returns the 1-based menu position of tone.
func ToneIndex(tone letter.Tone) int {
	for i, t := range letter.Tones() {
		if t == tone {
			return i + 1
		}
	}
	return 0
}
