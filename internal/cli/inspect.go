package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/blkbuster/internal/timeline"
	"github.com/roach88/blkbuster/internal/trace"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Config ConfigFlags
	Source SourceFlags
}

// InspectResult is the inspect command's result.
type InspectResult struct {
	Source    string         `json:"source"`
	TraceID   string         `json:"trace_id,omitempty"`
	Lines     int            `json:"lines"`
	Skipped   int            `json:"skipped"`
	Stats     timeline.Stats `json:"stats"`
	FrameRate float64        `json:"frame_rate"`
	Frames    int            `json:"frames"`
}

var printer = message.NewPrinter(language.English)

func (r InspectResult) String() string {
	var b strings.Builder
	p := printer
	p.Fprintf(&b, "Trace:      %s", r.Source)
	if r.TraceID != "" {
		p.Fprintf(&b, " (%s)", r.TraceID)
	}
	p.Fprintf(&b, "\nEvents:     %d (%d of %d lines skipped)\n", r.Stats.Events, r.Skipped, r.Lines)
	p.Fprintf(&b, "Time:       %.3fs to %.3fs\n", r.Stats.Start, r.Stats.Duration)
	p.Fprintf(&b, "Max offset: %d bytes\n", r.Stats.MaxOffset)
	p.Fprintf(&b, "Frames:     %d at %v fps\n", r.Frames, r.FrameRate)
	for _, d := range trace.Directions {
		ds := r.Stats.ByDir[d.String()]
		p.Fprintf(&b, "  %-8s %d events, %d bytes\n", d.String()+":", ds.Events, ds.Bytes)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [trace-file]",
		Short: "Summarize a trace without rendering",
		Long: `Show event counts and bytes per direction, the address-space extent, the
time span and the number of frames a render would produce.

Examples:
  blkbuster inspect sda.txt
  blkbuster inspect --db traces.db --fps 30
  blkbuster inspect sda.txt --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args, cmd)
		},
	}

	opts.Config.register(cmd)
	opts.Source.register(cmd)

	return cmd
}

func runInspect(opts *InspectOptions, args []string, cmd *cobra.Command) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	cfg, th, err := opts.Config.resolve(cmd)
	if err != nil {
		return err
	}
	lt, err := opts.Source.load(ctx, cmd, args, uint64(cfg.SectorSize))
	if err != nil {
		return err
	}
	r, tl, err := newRenderer(lt, cfg, th)
	if err != nil {
		return err
	}

	return newFormatter(opts.RootOptions, cmd).Success(InspectResult{
		Source:    lt.Source,
		TraceID:   lt.ID,
		Lines:     lt.Lines,
		Skipped:   lt.Skipped,
		Stats:     tl.Stats(),
		FrameRate: cfg.FrameRate,
		Frames:    r.FrameCount(),
	})
}
