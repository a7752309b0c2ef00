package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logweave/logweave/pkg/merge"
	"github.com/logweave/logweave/pkg/source"
	"github.com/logweave/logweave/pkg/timestamp"
)

// NewDetectCommand creates the detect command, which reports the
// timestamp format that would be selected for each file.
func NewDetectCommand() *cobra.Command {
	var formats []string

	cmd := &cobra.Command{
		Use:   "detect <files...>",
		Short: "Show the detected timestamp format for each log file",
		Long: `Detect reads the first line of each file and reports which timestamp
format would govern that file during a merge, along with the parsed
sample timestamp.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := timestamp.NewRegistry()
			for _, tmpl := range formats {
				if err := registry.AddCustomFormat(tmpl); err != nil {
					return err
				}
			}
			return runDetect(cmd.Context(), registry, args, os.Stdout)
		},
	}

	cmd.Flags().StringArrayVar(&formats, "timestamp-format", nil, "custom timestamp format template (repeatable)")
	return cmd
}

func runDetect(ctx context.Context, registry *timestamp.Registry, files []string, w io.Writer) error {
	var firstErr error
	for _, path := range files {
		if err := detectFile(ctx, registry, path, w); err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func detectFile(ctx context.Context, registry *timestamp.Registry, path string, w io.Writer) error {
	reader, meta, err := source.Open(path, source.Options{Registry: registry})
	if err != nil {
		return err
	}
	defer reader.Close()

	sample, err := reader.Next(ctx)
	if err == io.EOF {
		fmt.Fprintf(w, "%s: empty file, nothing to detect\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	matcher, err := registry.Detect(path, sample)
	if err != nil {
		return err
	}

	line := timestamp.NewTransformer(matcher, timestamp.ContextFromModTime(meta.ModTime)).Transform(sample)
	fmt.Fprintf(w, "%s: %s\n", path, matcher.Name)
	fmt.Fprintf(w, "  pattern: %s\n", matcher.PatternStr)
	if line.HasTime {
		fmt.Fprintf(w, "  sample:  %s -> %s\n", strings.TrimSpace(sample), line.Time.Format(merge.TimestampLayout))
	}
	return nil
}
