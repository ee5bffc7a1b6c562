package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/expect/internal/history"
)

// digestWidth is the number of hex digits shown per digest in text output.
const digestWidth = 12

type historyFlags struct {
	limit  int
	source string
	name   string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &historyFlags{}

	cmd := &cobra.Command{
		Use:   "history <db>",
		Short: "Show recorded assertion outcomes",
		Long: `Show outcomes recorded in a history ledger (see the "history" setting
in .expect/config.yaml or EXPECT_HISTORY).

Without --name the most recent entries are listed, newest first. With
--name and --source, every entry for that test is listed, oldest first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), rootOpts, args[0], flags, cmd)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "l", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&flags.source, "source", "", "test source file, as recorded")
	cmd.Flags().StringVar(&flags.name, "name", "", "test name")

	return cmd
}

func runHistory(ctx context.Context, opts *RootOptions, path string, flags *historyFlags, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if (flags.name == "") != (flags.source == "") {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, "--name and --source must be used together", nil)
	}

	// Open would create a missing database
	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}

	ledger, err := history.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to open history", err)
	}
	defer ledger.Close()

	var entries []history.Entry
	if flags.name != "" {
		entries, err = ledger.ByTest(ctx, flags.source, flags.name)
	} else {
		entries, err = ledger.Recent(ctx, flags.limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeHistory, "failed to read history", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "no entries")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tOUTCOME\tTEST\tEXT\tACTUAL\tEXPECTED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, e.Outcome, testLabel(e), e.Extension, short(e.ActualDigest), short(e.ExpectedDigest))
	}
	return tw.Flush()
}

func testLabel(e history.Entry) string {
	if e.Module == "" {
		return e.Name
	}
	return e.Module + "/" + e.Name
}

func short(digest string) string {
	if len(digest) > digestWidth {
		return digest[:digestWidth]
	}
	return digest
}
