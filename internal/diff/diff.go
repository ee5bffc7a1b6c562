// Package diff compares actual and expected artifacts and reports
// discrepancies through a Renderer.
//
// Every entry point returns true on match and produces no output. On
// mismatch both sides are rendered. Sequence comparison reports every
// mismatching index before failing, rather than stopping at the first.
//
// Discrepancies are reported per value or per index; there is no
// character or line level diffing.
package diff

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/roach88/expect/internal/codec"
)

// MissingItem is rendered for the side of a sequence that has no element
// at an index.
const MissingItem = "[No item at index]"

// Display renders a value for a discrepancy report.
type Display func(v any) string

// DisplayWith renders values through c, falling back to a Go-syntax dump
// when encoding fails.
func DisplayWith(c codec.Codec) Display {
	return func(v any) string {
		s, err := codec.EncodeString(c, v)
		if err != nil {
			return fmt.Sprintf("%#v", v)
		}
		return s
	}
}

// Engine compares values. Safe for concurrent use if its Renderer is.
type Engine struct {
	renderer Renderer
	display  Display
	opts     []cmp.Option
}

// New creates an Engine. A nil display uses the default codec.
//
// Structural equality is go-cmp's cmp.Equal with cmpopts.EquateEmpty and
// IgnoreUnexported, followed by opts.
func New(r Renderer, display Display, opts ...cmp.Option) *Engine {
	if display == nil {
		display = DisplayWith(codec.Default)
	}
	all := make([]cmp.Option, 0, len(opts)+2)
	all = append(all, cmpopts.EquateEmpty(), IgnoreUnexported)
	all = append(all, opts...)
	return &Engine{renderer: r, display: display, opts: all}
}

// IgnoreUnexported skips unexported struct fields of any type. No codec
// serializes them, so a baseline can never hold them.
var IgnoreUnexported = cmp.FilterPath(func(p cmp.Path) bool {
	sf, ok := p.Last().(cmp.StructField)
	return ok && !token.IsExported(sf.Name())
}, cmp.Ignore())

// Text compares two strings byte for byte.
func (e *Engine) Text(actual, expected string) bool {
	if actual == expected {
		return true
	}
	e.renderer.Actual(actual)
	e.renderer.Expected(expected)
	return false
}

// Value compares two values structurally.
func Value[T any](e *Engine, actual, expected T) bool {
	return Decoded(e, actual, actual, expected)
}

// Decoded compares decoded, the actual value after a round trip through the
// codec, with expected. Reports show actual as the caller passed it.
//
// An int inside a map[string]any decodes from JSON as a float64, so only
// the decoded form is comparable with a decoded baseline.
func Decoded[T any](e *Engine, actual, decoded, expected T) bool {
	if e.equal(decoded, expected) {
		return true
	}
	e.renderer.Actual(e.render(actual))
	e.renderer.Expected(e.render(expected))
	return false
}

// Values compares two sequences element by element.
//
// Indexes present on only one side are reported with MissingItem for the
// absent side. All mismatching indexes are reported; the result is false if
// any index mismatched.
func Values[T any](e *Engine, actual, expected []T) bool {
	return DecodedValues(e, actual, actual, expected)
}

// DecodedValues is Values comparing decoded, the round-tripped form of
// actual, while reporting the elements of actual.
func DecodedValues[T any](e *Engine, actual, decoded, expected []T) bool {
	shown := func(i int) string {
		if i < len(actual) {
			return e.render(actual[i])
		}
		return e.render(decoded[i])
	}

	ok := true
	for i := 0; i < max(len(decoded), len(expected)); i++ {
		switch {
		case i >= len(decoded):
			e.renderer.Index(i)
			e.renderer.Actual(MissingItem)
			e.renderer.Expected(e.render(expected[i]))
			ok = false
		case i >= len(expected):
			e.renderer.Index(i)
			e.renderer.Actual(shown(i))
			e.renderer.Expected(MissingItem)
			ok = false
		case !e.equal(decoded[i], expected[i]):
			e.renderer.Index(i)
			e.renderer.Actual(shown(i))
			e.renderer.Expected(e.render(expected[i]))
			ok = false
		}
	}
	return ok
}

func (e *Engine) equal(a, b any) bool {
	return cmp.Equal(a, b, e.opts...)
}

func (e *Engine) render(v any) string {
	return strings.TrimRight(e.display(v), "\n")
}
