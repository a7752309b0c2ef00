// Package cli provides the command-line interface for logweave.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/logweave/logweave/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return 0
}

// NewRootCommand creates the root cobra command. The root command itself
// performs the merge; detect and version are subcommands.
func NewRootCommand() *cobra.Command {
	opts := commands.MergeOptions{}

	rootCmd := &cobra.Command{
		Use:   "logweave [files...]",
		Short: "View multiple log files in a side-by-side merged format",
		Long: `logweave merges multiple independently-formatted log files into one
chronologically ordered, side-by-side view.

Each file's timestamp format is detected from its first line. Lines
without a leading timestamp (tracebacks, wrapped output) are folded into
the preceding entry, and locally out-of-order timestamps are corrected
within a bounded lookahead window.

Start and end times clip the merge to a window. They accept
"YYYY-MM-DD HH:MM:SS.fff" forms (trailing seconds and milliseconds
optional, "," allowed for the decimal point, "T" allowed between date and
time) or relative values such as "15m" for 15 minutes ago (units s, m, h, d).`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			if !opts.Demo && len(opts.Files) == 0 && opts.ConfigPath == "" {
				_ = cmd.Usage()
				return fmt.Errorf("one or more log files required")
			}
			applyTerminalDefaults(&opts)
			return commands.Merge(cmd.Context(), opts, os.Stdout)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.Start, "start", "s", "", "start time to select time window for merging logs")
	flags.StringVarP(&opts.End, "end", "e", "", "end time to select time window for merging logs")
	flags.BoolVar(&opts.AutoClip, "autoclip", false, "clip merging to time range of logs in first log file")
	flags.BoolVar(&opts.IgnoreNonTimestamped, "ignore-non-timestamped", false, "ignore log lines that do not have a timestamp")
	flags.BoolVarP(&opts.LineNumbers, "line-numbers", "n", false, "add line number column")
	flags.IntVar(&opts.Window, "window", 0, "out-of-order correction lookahead size (default 40)")
	flags.StringArrayVar(&opts.Formats, "timestamp-format", nil, "custom timestamp format template (repeatable)")
	flags.StringVarP(&opts.Format, "format", "f", "", "output format: table, csv, markdown, jsonl (default table)")
	flags.StringVarP(&opts.OutputPath, "output", "o", "", "save merged output to file ('-' for stdout)")
	flags.StringVar(&opts.CSVPath, "csv", "", "save merged logs to CSV file")
	flags.IntVarP(&opts.Width, "width", "w", 0, "total width for table output (defaults to terminal width)")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML run configuration")
	flags.BoolVar(&opts.Demo, "demo", false, "merge the built-in demo logs")

	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// applyTerminalDefaults fills width from the terminal when stdout is a
// tty and no width was requested.
func applyTerminalDefaults(opts *commands.MergeOptions) {
	if opts.Width != 0 {
		return
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
			opts.Width = w
		}
	}
}
