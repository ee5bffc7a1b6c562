package layout

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is an artifact file name parsed back into its parts.
type Entry struct {
	Dir       string // directory holding the file (.expect/<stem>)
	Name      string
	Role      string
	Extension string
}

// ParseFile reverses FileName. Test names may contain dots, so the role and
// extension are taken from the right. Returns false for files that do not
// follow the layout.
func ParseFile(path string) (Entry, bool) {
	base := filepath.Base(path)

	extDot := strings.LastIndex(base, ".")
	if extDot <= 0 || extDot == len(base)-1 {
		return Entry{}, false
	}
	roleDot := strings.LastIndex(base[:extDot], ".")
	if roleDot <= 0 {
		return Entry{}, false
	}

	role := base[roleDot+1 : extDot]
	if role != RoleActual && role != RoleExpected {
		return Entry{}, false
	}

	return Entry{
		Dir:       filepath.Dir(path),
		Name:      base[:roleDot],
		Role:      role,
		Extension: base[extDot+1:],
	}, true
}

// Pair groups the actual and expected artifacts of one test and extension.
// Either path is empty when that side is absent on disk.
type Pair struct {
	Dir       string `json:"dir"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Actual    string `json:"actual,omitempty"`
	Expected  string `json:"expected,omitempty"`
}

// Scan walks root and pairs every artifact found under .expect directories.
// Pairs are sorted by directory, name, then extension.
func Scan(root string) ([]Pair, error) {
	index := make(map[[3]string]*Pair)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Only direct children of .expect/<stem>/ are artifacts.
		if filepath.Base(filepath.Dir(filepath.Dir(path))) != Dir {
			return nil
		}

		entry, ok := ParseFile(path)
		if !ok {
			return nil
		}

		key := [3]string{entry.Dir, entry.Name, entry.Extension}
		p, ok := index[key]
		if !ok {
			p = &Pair{Dir: entry.Dir, Name: entry.Name, Extension: entry.Extension}
			index[key] = p
		}
		if entry.Role == RoleActual {
			p.Actual = path
		} else {
			p.Expected = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(index))
	for _, p := range index {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.Dir != b.Dir {
			return a.Dir < b.Dir
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Extension < b.Extension
	})
	return pairs, nil
}

// ActualPath returns the path the actual artifact has, or would have.
func (p Pair) ActualPath() string {
	if p.Actual != "" {
		return p.Actual
	}
	return filepath.Join(p.Dir, FileName(p.Name, RoleActual, p.Extension))
}

// ExpectedPath returns the path the expected artifact has, or would have.
func (p Pair) ExpectedPath() string {
	if p.Expected != "" {
		return p.Expected
	}
	return filepath.Join(p.Dir, FileName(p.Name, RoleExpected, p.Extension))
}
