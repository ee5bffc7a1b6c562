package expect

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

// tbWriter forwards each write to tb.Log so output is attributed to the
// owning test and shown only on failure or with -v.
type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// newLogger builds the default diagnostic logger. The time attribute is
// dropped; test logs carry their own ordering.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
