// Package identity derives a stable identity for the currently executing test.
//
// An Identity is the (module path, name, source location) tuple that names a
// test's artifact files. It is built once per test invocation from the host
// runner's segmented test name and the call site that asked for it.
//
// Names are NFC normalized and stripped of characters that are illegal in
// file names on common filesystems, so the same test resolves to the same
// artifact files on every machine.
package identity

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultSeparator splits a qualified test name into module segments and name.
const DefaultSeparator = "/"

// SubtestSeparator replaces "/" inside testing.TB names when flattening
// subtests into a single artifact name.
const SubtestSeparator = "__"

// ErrNoTestName indicates the host runner did not expose a current test name.
var ErrNoTestName = errors.New("no current test name")

// Identity is the structured identity of one test invocation.
// It is a value type; copies never alias.
type Identity struct {
	// Module is the module hierarchy of the test, excluding the test name.
	Module []string

	// Name is the test name excluding the module path.
	Name string

	// SourceFile is the path of the file containing the test, relative to
	// the process working directory.
	SourceFile string

	// SourceLine is the line of the call site. Diagnostics only.
	SourceLine int
}

// Parse builds an Identity from a qualified test name.
//
// The qualified name is split on sep; all segments but the last become the
// module path and the last becomes the name. Returns ErrNoTestName when the
// qualified name or its last segment is empty.
func Parse(qualified, sep, file string, line int) (Identity, error) {
	if qualified == "" {
		return Identity{}, ErrNoTestName
	}
	if sep == "" {
		sep = DefaultSeparator
	}

	segments := strings.Split(qualified, sep)
	name := sanitize(segments[len(segments)-1])
	if name == "" {
		return Identity{}, ErrNoTestName
	}

	module := make([]string, 0, len(segments)-1)
	for _, seg := range segments[:len(segments)-1] {
		module = append(module, norm.NFC.String(seg))
	}

	return Identity{
		Module:     module,
		Name:       name,
		SourceFile: filepath.Clean(file),
		SourceLine: line,
	}, nil
}

// FromTB derives the identity of the test running tb.
//
// skip is the number of stack frames above the caller of FromTB to use as
// the call site, as in runtime.Caller. The module path is the import path of
// the package declaring the calling function.
//
// Panics if tb exposes no test name or the call site cannot be determined.
// Both indicate a broken host environment, not a recoverable condition.
func FromTB(tb testing.TB, skip int) Identity {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		panic("identity: cannot determine test call site")
	}

	qualified := flatten(tb.Name())
	if pkg := packagePath(pc); pkg != "" && qualified != "" {
		qualified = pkg + DefaultSeparator + qualified
	}

	id, err := Parse(qualified, DefaultSeparator, relativeSource(file), line)
	if err != nil {
		panic("identity: " + err.Error())
	}
	return id
}

// QualifiedName joins the module path and name with sep.
func (id Identity) QualifiedName(sep string) string {
	if len(id.Module) == 0 {
		return id.Name
	}
	return strings.Join(id.Module, sep) + sep + id.Name
}

func flatten(testName string) string {
	return strings.ReplaceAll(testName, "/", SubtestSeparator)
}

// packagePath extracts the import path from a function symbol such as
// "github.com/x/y/pkg_test.TestFoo.func1".
func packagePath(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return symbolPackage(fn.Name())
}

// symbolPackage strips the function part of sym. The last path element may
// itself contain dots ("gopkg.in/yaml.v3.TestX"), so the package ends
// before the first segment naming a type, method or exported function, or
// else before the first segment that is not a vN major version.
func symbolPackage(sym string) string {
	if i := strings.IndexByte(sym, '['); i >= 0 {
		sym = sym[:i]
	}
	slash := strings.LastIndex(sym, "/")
	segs := strings.Split(sym[slash+1:], ".")
	if len(segs) == 1 {
		return sym
	}

	cut := 0
	for i := 1; i < len(segs); i++ {
		if startsSymbol(segs[i]) {
			cut = i
			break
		}
	}
	if cut == 0 {
		cut = 1
		for cut < len(segs)-1 && isMajorVersion(segs[cut]) {
			cut++
		}
	}
	return sym[:slash+1] + strings.Join(segs[:cut], ".")
}

func startsSymbol(seg string) bool {
	r, _ := utf8.DecodeRuneInString(seg)
	return r == '(' || unicode.IsUpper(r)
}

func isMajorVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// relativeSource makes an absolute caller path relative to the working
// directory. Paths reported under -trimpath are not rooted on disk, so only
// the base name is kept; go test runs in the package directory.
func relativeSource(file string) string {
	if !filepath.IsAbs(file) {
		if _, err := os.Stat(file); err == nil {
			return file
		}
		return filepath.Base(file)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(cwd, file)
	if err != nil {
		return file
	}
	return rel
}

func sanitize(name string) string {
	name = norm.NFC.String(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, name)
}
