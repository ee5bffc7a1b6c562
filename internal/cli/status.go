package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/expect/internal/layout"
)

// State classifies one actual/expected pair on disk.
type State string

const (
	StateMatch    State = "match"    // both present, byte-identical
	StateMismatch State = "mismatch" // both present, different
	StatePending  State = "pending"  // actual only
	StateOrphan   State = "orphan"   // expected only
)

var states = []State{StateMatch, StateMismatch, StatePending, StateOrphan}

var stateColors = map[State]*color.Color{
	StateMatch:    color.New(color.FgGreen),
	StateMismatch: color.New(color.FgRed),
	StatePending:  color.New(color.FgYellow),
	StateOrphan:   color.New(color.FgMagenta),
}

// PairStatus is a scanned pair with its state.
type PairStatus struct {
	layout.Pair
	State State `json:"state"`
}

// StatusResult holds status command output.
type StatusResult struct {
	Root   string        `json:"root"`
	Pairs  []PairStatus  `json:"pairs"`
	Counts map[State]int `json:"counts"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status [root]",
		Short: "Report baselines that differ from the latest actual artifacts",
		Long: `Scan root (default ".") for .expect directories and classify every
artifact pair:

  match     actual and expected are byte-identical
  mismatch  actual differs from expected
  pending   actual has no expected baseline
  orphan    expected has no actual artifact

Comparison is byte for byte. Structured values that are equal but
formatted differently show as mismatch here while their tests pass.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, rootArg(args), check, cmd)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exit with status 1 if any baseline mismatches")

	return cmd
}

func runStatus(opts *RootOptions, root string, check bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	pairs, err := collect(formatter, root)
	if err != nil {
		return err
	}

	result := StatusResult{Root: root, Pairs: pairs, Counts: countStates(pairs)}
	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, p := range pairs {
			if p.State == StateMatch && !opts.Verbose {
				continue
			}
			fmt.Fprintf(formatter.Writer, "%s %s\n", stateColors[p.State].Sprintf("%-8s", p.State), displayPath(root, p.ExpectedPath()))
		}
		fmt.Fprintln(formatter.Writer, summarize(result.Counts))
	}

	if check && result.Counts[StateMismatch] > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%s: %d baseline(s) do not match", ErrCodeMismatch, result.Counts[StateMismatch]))
	}
	return nil
}

// collect scans root and classifies every pair. Errors are reported through
// formatter and returned as ExitErrors.
func collect(formatter *OutputFormatter, root string) ([]PairStatus, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("directory not found: %s", root), nil)
	}

	pairs, err := layout.Scan(root)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeScanError, "error scanning directory", err)
	}
	formatter.VerboseLog("Found %d artifact pair(s) under %s", len(pairs), root)

	out := make([]PairStatus, 0, len(pairs))
	for _, p := range pairs {
		state, err := classify(p)
		if err != nil {
			return nil, formatter.Fail(ExitCommandError, ErrCodeScanError, "error reading artifacts", err)
		}
		out = append(out, PairStatus{Pair: p, State: state})
	}
	return out, nil
}

func classify(p layout.Pair) (State, error) {
	switch {
	case p.Actual == "":
		return StateOrphan, nil
	case p.Expected == "":
		return StatePending, nil
	}

	actual, err := os.ReadFile(p.Actual)
	if err != nil {
		return "", err
	}
	expected, err := os.ReadFile(p.Expected)
	if err != nil {
		return "", err
	}
	if bytes.Equal(actual, expected) {
		return StateMatch, nil
	}
	return StateMismatch, nil
}

func countStates(pairs []PairStatus) map[State]int {
	counts := make(map[State]int, len(states))
	for _, s := range states {
		counts[s] = 0
	}
	for _, p := range pairs {
		counts[p.State]++
	}
	return counts
}

func summarize(counts map[State]int) string {
	return fmt.Sprintf("%d match, %d mismatch, %d pending, %d orphan",
		counts[StateMatch], counts[StateMismatch], counts[StatePending], counts[StateOrphan])
}

func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// displayPath shortens path relative to root when possible.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
