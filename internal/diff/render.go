package diff

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Renderer receives discrepancy reports. It is only called on mismatch.
type Renderer interface {
	// Index announces that the following blocks describe sequence index i.
	Index(i int)

	// Actual renders the rejected value produced by this run.
	Actual(text string)

	// Expected renders the accepted baseline value.
	Expected(text string)
}

// ColorMode selects whether the color renderer emits escape codes.
type ColorMode string

const (
	// ColorAuto defers to fatih/color terminal detection.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces escape codes.
	ColorAlways ColorMode = "always"
	// ColorNever disables escape codes.
	ColorNever ColorMode = "never"
)

// ParseColorMode validates a configured color mode. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("invalid color mode %q: must be one of auto, always, never", s)
}

// blockRenderer writes two labeled blocks per mismatch:
//
//	Index 1
//	Actual:
//	<actual text>
//	Expected:
//	<expected text>
type blockRenderer struct {
	w        io.Writer
	heading  *color.Color
	label    *color.Color
	actual   *color.Color
	expected *color.Color
}

// NewColorRenderer renders actual values in red and expected values in green.
func NewColorRenderer(w io.Writer, mode ColorMode) Renderer {
	r := &blockRenderer{
		w:        w,
		heading:  color.New(color.FgYellow),
		label:    color.New(color.Bold),
		actual:   color.New(color.FgRed),
		expected: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{r.heading, r.label, r.actual, r.expected} {
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
	}
	return r
}

// NewPlainRenderer renders the same layout as NewColorRenderer without
// escape codes.
func NewPlainRenderer(w io.Writer) Renderer {
	return NewColorRenderer(w, ColorNever)
}

func (r *blockRenderer) Index(i int) {
	r.heading.Fprintf(r.w, "Index %d\n", i)
}

func (r *blockRenderer) Actual(text string) {
	r.label.Fprintln(r.w, "Actual:")
	r.actual.Fprintln(r.w, text)
}

func (r *blockRenderer) Expected(text string) {
	r.label.Fprintln(r.w, "Expected:")
	r.expected.Fprintln(r.w, text)
}
