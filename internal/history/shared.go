package history

import (
	"fmt"
	"path/filepath"
	"sync"
)

var (
	sharedMu sync.Mutex
	shared   = map[string]*Ledger{}
)

// Shared returns the process-wide Ledger for path, opening it on first use.
// Shared ledgers stay open until the process exits.
func Shared(path string) (*Ledger, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger path: %w", err)
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if l, ok := shared[abs]; ok {
		return l, nil
	}
	l, err := Open(abs)
	if err != nil {
		return nil, err
	}
	shared[abs] = l
	return l, nil
}
