// Package artifact reads and writes the actual and expected artifacts of
// one test.
//
// The actual artifact is overwritten on every run. The expected artifact is
// the accepted baseline; when it does not exist yet, the actual artifact is
// copied into place first. A test's very first run therefore passes and
// records its output as the baseline, to be reviewed through version control
// and promoted or rejected by a human.
//
// All I/O is synchronous. Two different tests never share an artifact pair,
// so no locking is done here.
package artifact

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/identity"
	"github.com/roach88/expect/internal/layout"
)

// Artifact describes one file that was written or read.
type Artifact struct {
	Path string
	Data []byte

	// Bootstrapped is set on reads that created the expected file from
	// the actual file because no baseline existed.
	Bootstrapped bool
}

// Store performs the artifact lifecycle for a single test identity.
type Store struct {
	id     identity.Identity
	logger *slog.Logger
}

// NewStore creates a store for id. A nil logger discards diagnostics.
func NewStore(id identity.Identity, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{id: id, logger: logger}
}

// Identity returns the identity the store was created for.
func (s *Store) Identity() identity.Identity {
	return s.id
}

// VerifyDirs must run before any write or read.
//
// The top-level .expect directory must already exist; its absence returns
// ErrCodeExpectDirNotFound. The per-source-file subdirectory is created when
// missing.
func (s *Store) VerifyDirs() error {
	moduleDir := layout.ModuleDir(s.id)
	if !isDir(moduleDir) {
		return newError(ErrCodeExpectDirNotFound, moduleDir, nil)
	}

	testDir := layout.TestDir(s.id)
	if isDir(testDir) {
		return nil
	}
	if err := os.MkdirAll(testDir, 0o755); err != nil {
		return newError(ErrCodeCreateSubDir, testDir, err)
	}
	s.logger.Debug("created test results directory", "path", testDir)
	return nil
}

// WriteActualText writes text to the actual artifact for ext.
func (s *Store) WriteActualText(text, ext string) (*Artifact, error) {
	return s.writeActual([]byte(text), ext)
}

// WriteActualValue encodes v with c and writes it to the actual artifact.
// Encoding happens in memory first, so a codec failure never leaves a
// truncated actual file behind.
func (s *Store) WriteActualValue(c codec.Codec, v any) (*Artifact, error) {
	data, err := c.Encode(v)
	if err != nil {
		return nil, newError(ErrCodeSerializeActual, layout.Path(s.id, layout.RoleActual, c.Extension()), err)
	}
	return s.writeActual(data, c.Extension())
}

func (s *Store) writeActual(data []byte, ext string) (*Artifact, error) {
	path := layout.Path(s.id, layout.RoleActual, ext)

	f, err := os.Create(path)
	if err != nil {
		return nil, newError(ErrCodeCreateActual, path, err)
	}

	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		f.Close()
		return nil, newError(ErrCodeWriteActual, path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return nil, newError(ErrCodeFlushActual, path, err)
	}
	if err := f.Close(); err != nil {
		return nil, newError(ErrCodeFlushActual, path, err)
	}

	return &Artifact{Path: path, Data: data}, nil
}

// ReadExpectedText returns the expected artifact for ext as text,
// bootstrapping it from the actual artifact when absent.
func (s *Store) ReadExpectedText(ext string) (string, *Artifact, error) {
	art, err := s.readOrBootstrap(ext)
	if err != nil {
		return "", nil, err
	}
	return string(art.Data), art, nil
}

// ReadExpectedValue decodes the expected artifact for c into a T,
// bootstrapping it from the actual artifact when absent.
func ReadExpectedValue[T any](s *Store, c codec.Codec) (T, *Artifact, error) {
	var v T
	art, err := s.readOrBootstrap(c.Extension())
	if err != nil {
		return v, nil, err
	}
	if err := c.Decode(art.Data, &v); err != nil {
		return v, nil, newError(ErrCodeDeserializeExpected, art.Path, err)
	}
	return v, art, nil
}

// DecodeActual decodes an actual artifact written by WriteActualValue back
// into a T. A value the codec cannot read back is a serialization failure.
func DecodeActual[T any](c codec.Codec, art *Artifact) (T, error) {
	var v T
	if err := c.Decode(art.Data, &v); err != nil {
		return v, newError(ErrCodeSerializeActual, art.Path, err)
	}
	return v, nil
}

func (s *Store) readOrBootstrap(ext string) (*Artifact, error) {
	l := layout.Resolve(s.id, ext)

	bootstrapped := false
	if !isFile(l.Expected) {
		s.logger.Info("creating expected file", "path", l.Expected)
		if err := copyFile(l.Actual, l.Expected); err != nil {
			return nil, &Error{Code: ErrCodeCopyActual, Path: l.Actual, Target: l.Expected, Err: err}
		}
		bootstrapped = true
	}

	f, err := os.Open(l.Expected)
	if err != nil {
		return nil, newError(ErrCodeOpenExpected, l.Expected, err)
	}
	defer f.Close()

	data, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return nil, newError(ErrCodeReadExpected, l.Expected, err)
	}

	return &Artifact{Path: l.Expected, Data: data, Bootstrapped: bootstrapped}, nil
}

// Promote overwrites the expected artifact with the actual artifact. It is
// the explicit acceptance of a new baseline.
func Promote(actual, expected string) error {
	if err := copyFile(actual, expected); err != nil {
		return &Error{Code: ErrCodeCopyActual, Path: actual, Target: expected, Err: err}
	}
	return nil
}

// copyFile copies src to dst byte for byte. dst is created or truncated.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Paths returns the resolved artifact paths for ext.
func (s *Store) Paths(ext string) layout.Layout {
	return layout.Resolve(s.id, ext)
}

