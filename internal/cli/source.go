package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/render"
	"github.com/roach88/blkbuster/internal/store"
	"github.com/roach88/blkbuster/internal/theme"
	"github.com/roach88/blkbuster/internal/timeline"
	"github.com/roach88/blkbuster/internal/trace"
)

// SourceFlags select where events come from: a trace file argument or the
// trace cache.
type SourceFlags struct {
	Database string
	TraceID  string
}

func (f *SourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Database, "db", "", "read events from this trace cache instead of a file")
	cmd.Flags().StringVar(&f.TraceID, "trace", "", "cached trace ID (default: most recently ingested)")
}

// loadedTrace is a trace ready to be built into a timeline.
type loadedTrace struct {
	Source  string        `json:"source"`
	ID      string        `json:"id,omitempty"`
	Lines   int           `json:"lines"`
	Skipped int           `json:"skipped"`
	Events  []trace.Event `json:"-"`
}

// load reads events from args[0] ("-" for stdin) or, with --db, from the
// cache.
func (f *SourceFlags) load(ctx context.Context, cmd *cobra.Command, args []string, sectorSize uint64) (*loadedTrace, error) {
	if f.Database == "" {
		if f.TraceID != "" {
			return nil, NewExitError(ExitCommandError, "--trace requires --db")
		}
		if len(args) == 0 {
			return nil, NewExitError(ExitCommandError, "a trace file (or --db) is required")
		}
		return parseTraceFile(cmd, args[0], sectorSize)
	}
	if len(args) > 0 {
		return nil, NewExitError(ExitCommandError, "use either a trace file or --db, not both")
	}
	return f.loadCached(ctx)
}

func (f *SourceFlags) loadCached(ctx context.Context) (*loadedTrace, error) {
	if _, err := os.Stat(f.Database); err != nil {
		return nil, codedError(ExitCommandError, ErrCodeInputNotFound, "trace cache not found", err)
	}
	st, err := store.Open(f.Database)
	if err != nil {
		return nil, codedError(ExitCommandError, ErrCodeStore, "failed to open trace cache", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing trace cache", "error", closeErr)
		}
	}()

	var info store.TraceInfo
	if f.TraceID != "" {
		info, err = st.GetTrace(ctx, f.TraceID)
	} else {
		info, err = st.LatestTrace(ctx)
	}
	if errors.Is(err, store.ErrTraceNotFound) {
		return nil, codedError(ExitCommandError, ErrCodeInputNotFound, "no such trace", err)
	}
	if err != nil {
		return nil, codedError(ExitFailure, ErrCodeStore, "failed to read trace cache", err)
	}

	events, err := st.ReadEvents(ctx, info.ID)
	if err != nil {
		return nil, codedError(ExitFailure, ErrCodeStore, "failed to read events", err)
	}
	slog.Debug("loaded cached trace", "id", info.ID, "source", info.Source, "events", len(events))
	return &loadedTrace{
		Source:  info.Source,
		ID:      info.ID,
		Lines:   info.Lines,
		Skipped: info.Skipped,
		Events:  events,
	}, nil
}

func parseTraceFile(cmd *cobra.Command, path string, sectorSize uint64) (*loadedTrace, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, codedError(ExitCommandError, ErrCodeInputNotFound, "failed to open trace", err)
		}
		defer f.Close()
		r = f
	}

	res, err := trace.NewParser(sectorSize).Parse(r)
	if err != nil {
		return nil, codedError(ExitFailure, ErrCodeGeneric, "failed to read trace", err)
	}
	slog.Debug("parsed trace", "path", path, "lines", res.Lines, "events", len(res.Events), "skipped", res.Skipped)
	return &loadedTrace{
		Source:  path,
		Lines:   res.Lines,
		Skipped: res.Skipped,
		Events:  res.Events,
	}, nil
}

// newRenderer builds the timeline and renderer, mapping degenerate input to
// a command error.
func newRenderer(lt *loadedTrace, cfg config.Config, th theme.Theme) (*render.Renderer, *timeline.Timeline, error) {
	tl, err := timeline.Build(lt.Events)
	if errors.Is(err, timeline.ErrNoEvents) || errors.Is(err, timeline.ErrZeroMaxOffset) {
		return nil, nil, codedError(ExitCommandError, ErrCodeNoEvents,
			fmt.Sprintf("nothing to render in %s", lt.Source), err)
	}
	if err != nil {
		return nil, nil, codedError(ExitCommandError, ErrCodeNoEvents, "invalid trace", err)
	}
	r, err := render.New(tl, cfg, th)
	if err != nil {
		return nil, nil, configError("failed to create renderer", err)
	}
	return r, tl, nil
}
