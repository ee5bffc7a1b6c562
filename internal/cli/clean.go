package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CleanResult holds clean command output.
type CleanResult struct {
	DryRun  bool     `json:"dry_run"`
	Removed []string `json:"removed"`
}

// NewCleanCommand creates the clean command.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [root]",
		Short: "Delete actual artifacts",
		Long: `Delete every *.actual.* artifact under root. Expected baselines are
never touched. Tests recreate actual artifacts on their next run.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(rootOpts, rootArg(args), dryRun, cmd)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list what would be removed without deleting")

	return cmd
}

func runClean(opts *RootOptions, root string, dryRun bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	pairs, err := collect(formatter, root)
	if err != nil {
		return err
	}

	result := CleanResult{DryRun: dryRun, Removed: []string{}}
	for _, p := range pairs {
		if p.Actual == "" {
			continue
		}
		if !dryRun {
			if err := os.Remove(p.Actual); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to remove actual artifact", err)
			}
		}
		result.Removed = append(result.Removed, p.Actual)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	verb, summary := "removed", "removed"
	if dryRun {
		verb, summary = "would remove", "to remove"
	}
	for _, path := range result.Removed {
		formatter.VerboseLog("%s %s", verb, displayPath(root, path))
	}
	fmt.Fprintf(formatter.Writer, "%d actual artifact(s) %s\n", len(result.Removed), summary)
	return nil
}
