package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/expect/internal/history"
)

// newLedger creates a ledger file with three recorded outcomes.
func newLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := history.Open(path)
	require.NoError(t, err)
	defer l.Close()

	for _, e := range []history.Entry{
		{Module: "example.com/widgets", Name: "TestA", SourceFile: "widgets_test.go", Extension: "json", Outcome: history.OutcomeBootstrapped},
		{Module: "example.com/widgets", Name: "TestB", SourceFile: "widgets_test.go", Extension: "txt", Outcome: history.OutcomePass},
		{Module: "example.com/widgets", Name: "TestA", SourceFile: "widgets_test.go", Extension: "json", Outcome: history.OutcomeFail},
	} {
		e.ActualDigest = history.Digest([]byte(e.Name + string(e.Outcome)))
		e.ExpectedDigest = history.Digest([]byte(e.Name))
		_, err := l.Record(context.Background(), e)
		require.NoError(t, err)
	}
	return path
}

func TestHistory_Text(t *testing.T) {
	path := newLedger(t)

	out, err := execute(t, "history", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^SEQ\s+OUTCOME\s+TEST\s+EXT\s+ACTUAL\s+EXPECTED$`, lines[0])
	assert.Regexp(t, `^3\s+fail\s+example\.com/widgets/TestA\s+json\s+[0-9a-f]{12}\s+[0-9a-f]{12}$`, lines[1])
	assert.Regexp(t, `^1\s+bootstrapped\s+`, lines[3])
}

func TestHistory_Limit(t *testing.T) {
	path := newLedger(t)

	out, err := execute(t, "--format", "json", "history", "--limit", "1", path)
	require.NoError(t, err)

	var entries []history.Entry
	decodeData(t, out, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].Seq)
}

func TestHistory_ByTest(t *testing.T) {
	path := newLedger(t)

	out, err := execute(t, "--format", "json", "history", "--source", "widgets_test.go", "--name", "TestA", path)
	require.NoError(t, err)

	var entries []history.Entry
	decodeData(t, out, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, history.OutcomeBootstrapped, entries[0].Outcome)
	assert.Equal(t, history.OutcomeFail, entries[1].Outcome)
}

func TestHistory_NameRequiresSource(t *testing.T) {
	path := newLedger(t)

	_, err := execute(t, "history", "--name", "TestA", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
}

func TestHistory_MissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := execute(t, "history", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.NoFileExists(t, path)
}

func TestHistory_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	l, err := history.Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	out, err := execute(t, "history", path)
	require.NoError(t, err)
	assert.Equal(t, "no entries\n", out)
}
