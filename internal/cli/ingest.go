package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database   string
	SectorSize int
}

// IngestResult is the ingest command's result.
type IngestResult struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Events  int    `json:"events"`
	Lines   int    `json:"lines"`
	Skipped int    `json:"skipped"`
}

func (r IngestResult) String() string {
	return fmt.Sprintf("Ingested %s as %s (%d events, %d of %d lines skipped)",
		r.Source, r.ID, r.Events, r.Skipped, r.Lines)
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <trace-file>",
		Short: "Parse a trace into the trace cache",
		Long: `Parse a blkparse trace once and store its events in a SQLite trace
cache, so later renders can skip parsing. The database is created if it
does not exist. Use "-" to read the trace from stdin.

Examples:
  blkbuster ingest sda.txt --db traces.db
  blkparse -i sda | blkbuster ingest - --db traces.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace cache (required)")
	cmd.Flags().IntVar(&opts.SectorSize, "sector-size", defaultSectorSize, "bytes per blkparse sector")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	unit, err := sectorSize(opts.SectorSize)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	lt, err := parseTraceFile(cmd, path, unit)
	if err != nil {
		return err
	}
	if len(lt.Events) == 0 {
		return codedError(ExitCommandError, ErrCodeNoEvents,
			fmt.Sprintf("no queue events in %s (%d lines read)", path, lt.Lines), nil)
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

	id, err := st.WriteTrace(ctx, store.TraceInfo{
		Source:     path,
		SectorSize: opts.SectorSize,
		Lines:      lt.Lines,
		Skipped:    lt.Skipped,
	}, lt.Events)
	if err != nil {
		return codedError(ExitFailure, ErrCodeStore, "failed to store trace", err)
	}
	slog.Info("trace ingested", "id", id, "events", len(lt.Events))

	return newFormatter(opts.RootOptions, cmd).Success(IngestResult{
		ID:      id,
		Source:  path,
		Events:  len(lt.Events),
		Lines:   lt.Lines,
		Skipped: lt.Skipped,
	})
}
