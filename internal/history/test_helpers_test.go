package history

import (
	"path/filepath"
	"testing"
)

// createTestLedger opens a fresh ledger in a temp dir.
func createTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// createTestEntry creates an entry with minimal required fields.
func createTestEntry(name string, outcome Outcome) Entry {
	return Entry{
		Module:         "github.com/acme/widgets",
		Name:           name,
		SourceFile:     "widgets_test.go",
		Extension:      "json",
		Outcome:        outcome,
		ActualDigest:   Digest([]byte("actual")),
		ExpectedDigest: Digest([]byte("expected")),
	}
}
