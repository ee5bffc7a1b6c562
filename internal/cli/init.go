package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/expect/internal/codec"
	"github.com/roach88/expect/internal/config"
	"github.com/roach88/expect/internal/layout"
)

// InitDir reports the outcome for one directory.
type InitDir struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Config  string `json:"config,omitempty"`
}

// InitResult holds init command output.
type InitResult struct {
	Dirs []InitDir `json:"dirs"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var codecName string

	cmd := &cobra.Command{
		Use:   "init [dir...]",
		Short: "Create .expect fixture directories",
		Long: `Create a .expect directory in each dir (default "."). Tests in a
package fail with a configuration error until its .expect directory exists.

With --codec, the default serializer for structured values is recorded in
.expect/config.yaml. Existing settings in that file are preserved.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runInit(rootOpts, args, codecName, cmd)
		},
	}

	cmd.Flags().StringVar(&codecName, "codec", "", fmt.Sprintf("default codec (%v)", codec.Names()))

	return cmd
}

func runInit(opts *RootOptions, dirs []string, codecName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var c codec.Codec
	if codecName != "" {
		var err error
		if c, err = codec.Lookup(codecName); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag, "invalid codec", err)
		}
	}

	result := InitResult{Dirs: []InitDir{}}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("directory not found: %s", dir), nil)
		}

		expectDir := filepath.Join(dir, layout.Dir)
		entry := InitDir{Path: expectDir}

		switch err := os.Mkdir(expectDir, 0o755); {
		case err == nil:
			entry.Created = true
		case errors.Is(err, fs.ErrExist):
			formatter.VerboseLog("%s already exists", expectDir)
		default:
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to create directory", err)
		}

		if c != nil {
			cfg, err := config.ReadFile(expectDir)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to read existing config", err)
			}
			cfg.Codec = c.Name()
			if err := config.WriteFile(expectDir, cfg); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write config", err)
			}
			entry.Config = filepath.Join(expectDir, config.FileName)
		}

		result.Dirs = append(result.Dirs, entry)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	for _, d := range result.Dirs {
		status := "exists "
		if d.Created {
			status = "created"
		}
		fmt.Fprintf(formatter.Writer, "%s %s\n", status, d.Path)
		if d.Config != "" {
			fmt.Fprintf(formatter.Writer, "wrote   %s\n", d.Config)
		}
	}
	return nil
}
