package history

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Outcome classifies one assertion.
type Outcome string

const (
	OutcomePass         Outcome = "pass"
	OutcomeFail         Outcome = "fail"
	OutcomeBootstrapped Outcome = "bootstrapped"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeBootstrapped:
		return true
	}
	return false
}

// Entry is one recorded assertion.
type Entry struct {
	// Seq and RunID are assigned by the ledger; they are ignored by Record.
	Seq   int64  `json:"seq"`
	RunID string `json:"run_id"`

	Module         string  `json:"module"`
	Name           string  `json:"name"`
	SourceFile     string  `json:"source_file"`
	Extension      string  `json:"extension"`
	Outcome        Outcome `json:"outcome"`
	ActualDigest   string  `json:"actual_digest"`
	ExpectedDigest string  `json:"expected_digest"`
}

func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("entry name is required")
	}
	if !e.Outcome.Valid() {
		return fmt.Errorf("invalid outcome %q", e.Outcome)
	}
	return nil
}

// Digest returns the hex-encoded BLAKE3-256 hash of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
