package artifact

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/identity"
	"github.com/roach88/expect/internal/layout"
)

type record struct {
	N    int    `json:"n" yaml:"n"`
	Name string `json:"name" yaml:"name"`
}

// newTestStore creates a store rooted in a temp dir with an initialized
// .expect directory.
func newTestStore(t *testing.T, logger *slog.Logger) *Store {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, layout.Dir), 0o755))
	id := identity.Identity{
		Module:     []string{"mymod", "tests"},
		Name:       "TestSample",
		SourceFile: filepath.Join(root, "sample_test.go"),
		SourceLine: 1,
	}
	return NewStore(id, logger)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVerifyDirs_MissingExpectDir(t *testing.T) {
	id := identity.Identity{Name: "TestX", SourceFile: filepath.Join(t.TempDir(), "x_test.go")}
	s := NewStore(id, nil)

	err := s.VerifyDirs()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.True(t, IsCode(err, ErrCodeExpectDirNotFound))

	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, layout.ModuleDir(id), ae.Path)

	// The missing top-level directory is never created.
	_, statErr := os.Stat(layout.ModuleDir(id))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestVerifyDirs_CreatesTestDir(t *testing.T) {
	s := newTestStore(t, nil)
	testDir := layout.TestDir(s.Identity())

	require.NoError(t, s.VerifyDirs())
	info, err := os.Stat(testDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	require.NoError(t, s.VerifyDirs())
}

func TestVerifyDirs_CreateSubDirFails(t *testing.T) {
	s := newTestStore(t, nil)
	// A regular file where the test directory should be blocks MkdirAll.
	require.NoError(t, os.WriteFile(layout.TestDir(s.Identity()), []byte("x"), 0o644))

	err := s.VerifyDirs()
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeCreateSubDir))
}

func TestWriteActualText(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	art, err := s.WriteActualText("Hello, world!", layout.TextExtension)
	require.NoError(t, err)

	assert.Equal(t, s.Paths(layout.TextExtension).Actual, art.Path)
	assert.Equal(t, "Hello, world!", readFile(t, art.Path))
}

func TestWriteActualText_Overwrites(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	_, err := s.WriteActualText("a much longer first version", layout.TextExtension)
	require.NoError(t, err)
	art, err := s.WriteActualText("short", layout.TextExtension)
	require.NoError(t, err)

	assert.Equal(t, "short", readFile(t, art.Path))
}

func TestWriteActualText_WithoutVerifyDirs(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.WriteActualText("x", layout.TextExtension)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeCreateActual))
}

func TestWriteActualValue(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	art, err := s.WriteActualValue(codec.JSON{}, record{N: 1, Name: "one"})
	require.NoError(t, err)

	assert.Equal(t, s.Paths("json").Actual, art.Path)
	assert.Equal(t, "{\n  \"n\": 1,\n  \"name\": \"one\"\n}\n", readFile(t, art.Path))
	assert.Equal(t, readFile(t, art.Path), string(art.Data))
}

func TestWriteActualValue_SerializeError(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	_, err := s.WriteActualValue(codec.JSON{}, make(chan int))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeSerializeActual))

	// Nothing was written.
	_, statErr := os.Stat(s.Paths("json").Actual)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestReadExpectedText_Existing(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())
	paths := s.Paths(layout.TextExtension)
	require.NoError(t, os.WriteFile(paths.Expected, []byte("Hello, world!"), 0o644))

	text, art, err := s.ReadExpectedText(layout.TextExtension)
	require.NoError(t, err)

	assert.Equal(t, "Hello, world!", text)
	assert.False(t, art.Bootstrapped)
	assert.Equal(t, paths.Expected, art.Path)
}

func TestReadExpectedText_Bootstraps(t *testing.T) {
	var logs bytes.Buffer
	s := newTestStore(t, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, s.VerifyDirs())
	paths := s.Paths(layout.TextExtension)

	_, err := s.WriteActualText("first run", layout.TextExtension)
	require.NoError(t, err)

	text, art, err := s.ReadExpectedText(layout.TextExtension)
	require.NoError(t, err)

	assert.Equal(t, "first run", text)
	assert.True(t, art.Bootstrapped)
	assert.Equal(t, "first run", readFile(t, paths.Expected))
	assert.Contains(t, logs.String(), "creating expected file")
	assert.Contains(t, logs.String(), paths.Expected)

	// Second read uses the baseline as is.
	_, err = s.WriteActualText("second run", layout.TextExtension)
	require.NoError(t, err)
	text, art, err = s.ReadExpectedText(layout.TextExtension)
	require.NoError(t, err)
	assert.Equal(t, "first run", text)
	assert.False(t, art.Bootstrapped)
}

func TestReadExpectedText_CopyErrorWithoutActual(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())
	paths := s.Paths(layout.TextExtension)

	_, _, err := s.ReadExpectedText(layout.TextExtension)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeCopyActual))

	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, paths.Actual, ae.Path)
	assert.Equal(t, paths.Expected, ae.Target)
	assert.Contains(t, err.Error(), paths.Actual)
	assert.Contains(t, err.Error(), paths.Expected)
}

func TestReadExpectedText_OpenError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())
	paths := s.Paths(layout.TextExtension)
	require.NoError(t, os.WriteFile(paths.Expected, []byte("x"), 0o000))

	_, _, err := s.ReadExpectedText(layout.TextExtension)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeOpenExpected))
}

func TestReadExpectedValue_Bootstrap(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	actual, err := s.WriteActualValue(codec.JSON{}, record{N: 1})
	require.NoError(t, err)

	got, art, err := ReadExpectedValue[record](s, codec.JSON{})
	require.NoError(t, err)

	assert.Equal(t, record{N: 1}, got)
	assert.True(t, art.Bootstrapped)
	assert.Equal(t, actual.Data, art.Data, "bootstrap copies byte for byte")
}

func TestReadExpectedValue_Sequence(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())

	want := []record{{N: 1, Name: "a"}, {N: 2, Name: "b"}}
	_, err := s.WriteActualValue(codec.YAML{}, want)
	require.NoError(t, err)

	got, _, err := ReadExpectedValue[[]record](s, codec.YAML{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadExpectedValue_DeserializeError(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())
	require.NoError(t, os.WriteFile(s.Paths("json").Expected, []byte(`{"n": "not a number"}`), 0o644))

	_, _, err := ReadExpectedValue[record](s, codec.JSON{})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeDeserializeExpected))
	assert.False(t, IsConfigError(err))
}

func TestError_Format(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Code: ErrCodeWriteActual, Path: "a/b.actual.txt", Err: cause}

	assert.Equal(t, "failed to run test: could not write actual results file (path=a/b.actual.txt): disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestError_FormatCopy(t *testing.T) {
	err := &Error{Code: ErrCodeCopyActual, Path: "from", Target: "to"}
	assert.Equal(t, "failed to run test: could not copy actual results file (from=from, to=to)", err.Error())
}

func TestIsCode_Wrapped(t *testing.T) {
	err := newError(ErrCodeReadExpected, "p", nil)
	wrapped := errors.Join(errors.New("context"), err)

	assert.True(t, IsCode(wrapped, ErrCodeReadExpected))
	assert.False(t, IsCode(wrapped, ErrCodeOpenExpected))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeReadExpected))
}

func TestPromote(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.VerifyDirs())
	paths := s.Paths(layout.TextExtension)
	require.NoError(t, os.WriteFile(paths.Expected, []byte("old"), 0o644))
	_, err := s.WriteActualText("new", layout.TextExtension)
	require.NoError(t, err)

	require.NoError(t, Promote(paths.Actual, paths.Expected))
	assert.Equal(t, "new", readFile(t, paths.Expected))

	text, art, err := s.ReadExpectedText(layout.TextExtension)
	require.NoError(t, err)
	assert.Equal(t, "new", text)
	assert.False(t, art.Bootstrapped)
}

func TestPromote_MissingActual(t *testing.T) {
	dir := t.TempDir()
	err := Promote(filepath.Join(dir, "a.actual.txt"), filepath.Join(dir, "a.expect.txt"))
	assert.True(t, IsCode(err, ErrCodeCopyActual))
}

func TestDecodeActual(t *testing.T) {
	v, err := DecodeActual[map[string]any](codec.JSON{}, &Artifact{Path: "a.json", Data: []byte(`{"n": 1}`)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 1.0}, v)

	_, err = DecodeActual[map[string]any](codec.JSON{}, &Artifact{Path: "a.json", Data: []byte(`[1]`)})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeSerializeActual))
}
