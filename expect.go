package expect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/roach88/expect/internal/artifact"
	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/config"
	"github.com/roach88/expect/internal/diff"
	"github.com/roach88/expect/internal/history"
	"github.com/roach88/expect/internal/identity"
	"github.com/roach88/expect/internal/layout"
)

// TextExtension is the conventional extension for plain text artifacts.
const TextExtension = layout.TextExtension

// Identity names the test that owns an artifact pair.
type Identity = identity.Identity

// Expect performs golden-file assertions for one test.
//
// Each operation verifies the .expect directory, writes the actual
// artifact, reads the expected artifact (creating it from the actual one on
// the first run) and compares the two. An Expect holds no state between
// operations beyond its identity and configuration.
type Expect struct {
	store  *artifact.Store
	codec  codec.Codec
	engine *diff.Engine
	logger *slog.Logger
	ledger *history.Ledger
}

// New creates an Expect bound to tb and the calling source file.
// Configuration errors fail the test immediately.
func New(tb testing.TB, opts ...Option) *Expect {
	tb.Helper()
	id := identity.FromTB(tb, 1)
	e, err := build(id, tbWriter{tb}, opts)
	if err != nil {
		tb.Fatalf("expect: %v", err)
	}
	return e
}

// NewWithIdentity creates an Expect for an explicit identity, for hosts
// other than the testing package. Reports and diagnostics go to stderr
// unless overridden.
func NewWithIdentity(id Identity, opts ...Option) (*Expect, error) {
	if id.Name == "" {
		return nil, identity.ErrNoTestName
	}
	return build(id, os.Stderr, opts)
}

func build(id identity.Identity, sink io.Writer, opts []Option) (*Expect, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(layout.ModuleDir(id))
	if err != nil {
		return nil, err
	}

	c := o.codec
	if c == nil {
		if c, err = cfg.CodecValue(); err != nil {
			return nil, err
		}
	}

	logger := o.logger
	if logger == nil {
		level, err := cfg.Level()
		if err != nil {
			return nil, err
		}
		logger = newLogger(sink, level)
	}

	renderer := o.renderer
	if renderer == nil {
		mode, err := cfg.ColorMode()
		if err != nil {
			return nil, err
		}
		if o.color != nil {
			mode = *o.color
		}
		out := o.output
		if out == nil {
			out = sink
		}
		renderer = diff.NewColorRenderer(out, mode)
	}

	path := cfg.History
	if o.historySet {
		path = o.history
	}
	var ledger *history.Ledger
	if path != "" {
		if ledger, err = history.Shared(path); err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	return &Expect{
		store:  artifact.NewStore(id, logger),
		codec:  c,
		engine: diff.New(renderer, diff.DisplayWith(c), o.cmpOpts...),
		logger: logger,
		ledger: ledger,
	}, nil
}

// Identity returns the identity the Expect was created for.
func (e *Expect) Identity() Identity {
	return e.store.Identity()
}

// Paths returns the actual and expected artifact paths for ext.
func (e *Expect) Paths(ext string) (actual, expected string) {
	l := e.store.Paths(ext)
	return l.Actual, l.Expected
}

// Text compares actual with the expected text artifact for ext, byte for
// byte. The result is false on mismatch; the error is non-nil only for
// infrastructure failures.
func (e *Expect) Text(actual, ext string) (bool, error) {
	if err := e.store.VerifyDirs(); err != nil {
		return false, err
	}
	act, err := e.store.WriteActualText(actual, ext)
	if err != nil {
		return false, err
	}
	expected, exp, err := e.store.ReadExpectedText(ext)
	if err != nil {
		return false, err
	}
	ok := e.engine.Text(actual, expected)
	e.record(ext, ok, act, exp)
	return ok, nil
}

// Value compares actual with the expected artifact decoded as a T. Both
// sides are compared in decoded form, so values the codec widens or drops
// (untyped numbers, unexported fields) still match their own baseline.
func Value[T any](e *Expect, actual T) (bool, error) {
	if err := e.store.VerifyDirs(); err != nil {
		return false, err
	}
	act, err := e.store.WriteActualValue(e.codec, actual)
	if err != nil {
		return false, err
	}
	decoded, err := artifact.DecodeActual[T](e.codec, act)
	if err != nil {
		return false, err
	}
	expected, exp, err := artifact.ReadExpectedValue[T](e.store, e.codec)
	if err != nil {
		return false, err
	}
	ok := diff.Decoded(e.engine, actual, decoded, expected)
	e.record(e.codec.Extension(), ok, act, exp)
	return ok, nil
}

// Values compares actual element by element with the expected artifact
// decoded as a []T. Every mismatching index is reported.
func Values[T any](e *Expect, actual []T) (bool, error) {
	if err := e.store.VerifyDirs(); err != nil {
		return false, err
	}
	act, err := e.store.WriteActualValue(e.codec, actual)
	if err != nil {
		return false, err
	}
	decoded, err := artifact.DecodeActual[[]T](e.codec, act)
	if err != nil {
		return false, err
	}
	expected, exp, err := artifact.ReadExpectedValue[[]T](e.store, e.codec)
	if err != nil {
		return false, err
	}
	ok := diff.DecodedValues(e.engine, actual, decoded, expected)
	e.record(e.codec.Extension(), ok, act, exp)
	return ok, nil
}

// AssertText is Text for use in tests: mismatches are reported with
// tb.Errorf and errors end the test with tb.Fatalf.
func (e *Expect) AssertText(tb testing.TB, actual, ext string) bool {
	tb.Helper()
	ok, err := e.Text(actual, ext)
	return e.report(tb, ext, ok, err)
}

// AssertValue is Value for use in tests.
func AssertValue[T any](tb testing.TB, e *Expect, actual T) bool {
	tb.Helper()
	ok, err := Value(e, actual)
	return e.report(tb, e.codec.Extension(), ok, err)
}

// AssertValues is Values for use in tests.
func AssertValues[T any](tb testing.TB, e *Expect, actual []T) bool {
	tb.Helper()
	ok, err := Values(e, actual)
	return e.report(tb, e.codec.Extension(), ok, err)
}

func (e *Expect) report(tb testing.TB, ext string, ok bool, err error) bool {
	tb.Helper()
	if err != nil {
		tb.Fatalf("expect: %v", err)
		return false
	}
	if !ok {
		actual, expected := e.Paths(ext)
		tb.Errorf("expect: %s does not match %s", actual, expected)
	}
	return ok
}

// record appends the outcome to the history ledger, if any. Ledger failures
// are logged and never change the assertion result.
func (e *Expect) record(ext string, ok bool, act, exp *artifact.Artifact) {
	if e.ledger == nil {
		return
	}

	outcome := history.OutcomePass
	switch {
	case !ok:
		outcome = history.OutcomeFail
	case exp.Bootstrapped:
		outcome = history.OutcomeBootstrapped
	}

	id := e.store.Identity()
	_, err := e.ledger.Record(context.Background(), history.Entry{
		Module:         strings.Join(id.Module, identity.DefaultSeparator),
		Name:           id.Name,
		SourceFile:     id.SourceFile,
		Extension:      ext,
		Outcome:        outcome,
		ActualDigest:   history.Digest(act.Data),
		ExpectedDigest: history.Digest(exp.Data),
	})
	if err != nil {
		e.logger.Warn("failed to record outcome", "name", id.Name, "error", err)
	}
}
