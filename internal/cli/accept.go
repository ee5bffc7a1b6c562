package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/expect/internal/artifact"
)

// AcceptResult holds accept command output.
type AcceptResult struct {
	DryRun   bool         `json:"dry_run"`
	Accepted []PairStatus `json:"accepted"`
}

// NewAcceptCommand creates the accept command.
func NewAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "accept [root]",
		Short: "Promote actual artifacts to expected baselines",
		Long: `Copy every mismatched or pending actual artifact under root over its
expected baseline. Matching pairs and orphaned baselines are left alone.

Review the resulting changes with version control before committing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccept(rootOpts, rootArg(args), filter, dryRun, cmd)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only accept tests whose name matches this glob")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list what would be accepted without writing")

	return cmd
}

func runAccept(opts *RootOptions, root, filter string, dryRun bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, fmt.Sprintf("invalid filter %q", filter), err)
		}
	}

	pairs, err := collect(formatter, root)
	if err != nil {
		return err
	}

	result := AcceptResult{DryRun: dryRun, Accepted: []PairStatus{}}
	for _, p := range pairs {
		if p.State != StateMismatch && p.State != StatePending {
			continue
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, p.Name); !ok {
				formatter.VerboseLog("Skipping %s (filter)", p.Name)
				continue
			}
		}
		if !dryRun {
			if err := artifact.Promote(p.ActualPath(), p.ExpectedPath()); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to accept baseline", err)
			}
		}
		result.Accepted = append(result.Accepted, p)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	verb, summary := "accepted", "accepted"
	if dryRun {
		verb, summary = "would accept", "to accept"
	}
	for _, p := range result.Accepted {
		fmt.Fprintf(formatter.Writer, "%s %s\n", verb, displayPath(root, p.ExpectedPath()))
	}
	fmt.Fprintf(formatter.Writer, "%d baseline(s) %s\n", len(result.Accepted), summary)
	return nil
}
