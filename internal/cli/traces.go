package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/store"
)

// TracesOptions holds flags for the traces command.
type TracesOptions struct {
	*RootOptions
	Database string
	Delete   string
}

// TraceList is the traces command's result.
type TraceList struct {
	Traces []store.TraceInfo `json:"traces"`
}

func (l TraceList) String() string {
	if len(l.Traces) == 0 {
		return "No traces ingested."
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tEVENTS\tSKIPPED")
	for _, t := range l.Traces {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", t.ID, t.Source, t.Events, t.Skipped)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewTracesCommand creates the traces command.
func NewTracesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TracesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "traces",
		Short: "List cached traces",
		Long: `List the traces stored in a trace cache, oldest first.

Examples:
  blkbuster traces --db traces.db
  blkbuster traces --db traces.db --delete 0192f0c1-...
  blkbuster traces --db traces.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace cache (required)")
	cmd.Flags().StringVar(&opts.Delete, "delete", "", "remove the trace with this ID first")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTraces(opts *TracesOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.Database); err != nil {
		return codedError(ExitCommandError, ErrCodeInputNotFound, "trace cache not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return codedError(ExitCommandError, ErrCodeStore, "failed to open trace cache", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing trace cache", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if opts.Delete != "" {
		if err := st.DeleteTrace(ctx, opts.Delete); err != nil {
			return codedError(ExitCommandError, ErrCodeInputNotFound, "failed to delete trace", err)
		}
		slog.Info("trace deleted", "id", opts.Delete)
	}

	traces, err := st.ListTraces(ctx)
	if err != nil {
		return codedError(ExitFailure, ErrCodeStore, "failed to list traces", err)
	}
	return newFormatter(opts.RootOptions, cmd).Success(TraceList{Traces: traces})
}
