package expect

import (
	"io"
	"log/slog"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/diff"
)

// Option configures an Expect. Options override config.yaml and the
// EXPECT_* environment variables.
type Option func(*options)

type options struct {
	codec      codec.Codec
	renderer   diff.Renderer
	output     io.Writer
	logger     *slog.Logger
	cmpOpts    []cmp.Option
	color      *diff.ColorMode
	history    string
	historySet bool
}

// Codec serializes structured values. Implementations must round-trip:
// decoding an encoded value yields an equal value.
type Codec = codec.Codec

// Built-in codecs.
var (
	JSON Codec = codec.JSON{}
	YAML Codec = codec.YAML{}
	CUE  Codec = codec.CUE{}
)

// Renderer receives mismatch reports.
type Renderer = diff.Renderer

// ColorMode selects whether mismatch reports are colored.
type ColorMode = diff.ColorMode

const (
	ColorAuto   = diff.ColorAuto
	ColorAlways = diff.ColorAlways
	ColorNever  = diff.ColorNever
)

// WithCodec selects the serializer for Value and Values.
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithRenderer replaces the mismatch renderer. It takes precedence over
// WithOutput and WithColor.
func WithRenderer(r Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithOutput sends mismatch reports to w instead of the test log.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithColor sets the color mode of the default renderer.
func WithColor(mode ColorMode) Option {
	return func(o *options) { o.color = &mode }
}

// WithLogger replaces the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCmpOptions adds go-cmp options to structural comparison, for example
// cmpopts.IgnoreFields or cmp.AllowUnexported.
func WithCmpOptions(opts ...cmp.Option) Option {
	return func(o *options) { o.cmpOpts = append(o.cmpOpts, opts...) }
}

// WithHistory records every outcome in the sqlite ledger at path. An empty
// path disables recording.
func WithHistory(path string) Option {
	return func(o *options) {
		o.history = path
		o.historySet = true
	}
}
