// Package layout maps a test identity to its artifact file paths.
//
// Every test owns two files:
//
//	<dir of source file>/.expect/<source file stem>/<name>.actual.<ext>
//	<dir of source file>/.expect/<source file stem>/<name>.expect.<ext>
//
// The layout is load-bearing for compatibility with checked-in baselines.
// Resolution is pure path arithmetic and performs no I/O.
package layout

import (
	"path/filepath"
	"strings"

	"github.com/roach88/expect/internal/identity"
)

const (
	// Dir is the top-level fixture directory next to each test source file.
	Dir = ".expect"

	// RoleActual marks the artifact written by the current run.
	RoleActual = "actual"

	// RoleExpected marks the accepted baseline.
	RoleExpected = "expect"

	// TextExtension is used for raw text comparisons.
	TextExtension = "txt"
)

// Layout holds the two resolved artifact paths for one test and extension.
type Layout struct {
	Actual   string
	Expected string
}

// ModuleDir returns the top-level .expect directory for the identity's
// source file, e.g. "pkg/.expect".
func ModuleDir(id identity.Identity) string {
	return filepath.Join(filepath.Dir(id.SourceFile), Dir)
}

// TestDir returns the per-source-file directory, e.g. "pkg/.expect/foo_test".
func TestDir(id identity.Identity) string {
	return filepath.Join(ModuleDir(id), stem(id.SourceFile))
}

// Resolve returns the actual and expected paths for ext.
func Resolve(id identity.Identity, ext string) Layout {
	return Layout{
		Actual:   Path(id, RoleActual, ext),
		Expected: Path(id, RoleExpected, ext),
	}
}

// Path returns the artifact path for one role.
func Path(id identity.Identity, role, ext string) string {
	return filepath.Join(TestDir(id), FileName(id.Name, role, ext))
}

// FileName formats "<name>.<role>.<ext>".
func FileName(name, role, ext string) string {
	return name + "." + role + "." + ext
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
