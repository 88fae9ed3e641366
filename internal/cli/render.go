package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/render"
	"github.com/roach88/blkbuster/internal/video"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Config ConfigFlags
	Source SourceFlags

	Output string  // video file, encoded by ffmpeg
	PNGDir string  // PNG sequence directory
	DryRun bool    // print frame digests instead of writing images
	Start  float64 // first second to render
	End    float64 // last second to render, 0 = end of trace
	FFmpeg string  // encoder binary
	Codec  string  // encoder video codec
}

// RenderSummary is the render command's result.
type RenderSummary struct {
	Source    string   `json:"source"`
	TraceID   string   `json:"trace_id,omitempty"`
	Frames    int      `json:"frames"`
	First     int      `json:"first"`
	Last      int      `json:"last"`
	ElapsedMS int64    `json:"elapsed_ms"`
	Output    string   `json:"output,omitempty"`
	PNGDir    string   `json:"png_dir,omitempty"`
	Digests   []string `json:"digests,omitempty"`
}

func (s RenderSummary) String() string {
	out := fmt.Sprintf("Rendered %d frames (%d-%d) from %s in %dms", s.Frames, s.First, s.Last, s.Source, s.ElapsedMS)
	if s.Output != "" {
		out += "\n  video: " + s.Output
	}
	if s.PNGDir != "" {
		out += "\n  frames: " + s.PNGDir
	}
	return out
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render [trace-file]",
		Short: "Render a trace to video",
		Long: `Render a blkparse trace (or a cached one, with --db) frame by frame.

Frames go to one or more outputs: a video encoded by ffmpeg (-o), a
directory of PNG files (--png-dir), or a list of frame digests on stdout
(--dry-run). Use "-" to read the trace from stdin.

Exit codes:
  0 - Rendered successfully
  1 - Render or encode failure, or interrupted
  2 - Command error (invalid config, missing or empty trace)

Examples:
  blkbuster render sda.txt -o sda.mp4
  blkbuster render sda.txt --png-dir frames --start 10 --end 20
  blkbuster render --db traces.db -o latest.mp4 --theme dark
  blkbuster render sda.txt --dry-run --width 640 --height 360`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	opts.Config.register(cmd)
	opts.Source.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output video file")
	cmd.Flags().StringVar(&opts.PNGDir, "png-dir", "", "write frames as PNG files into this directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print frame digests instead of writing images")
	cmd.Flags().Float64Var(&opts.Start, "start", 0, "first second to render")
	cmd.Flags().Float64Var(&opts.End, "end", 0, "last second to render (0 = end of trace)")
	cmd.Flags().StringVar(&opts.FFmpeg, "ffmpeg", "ffmpeg", "ffmpeg binary")
	cmd.Flags().StringVar(&opts.Codec, "codec", "libx264", "video codec passed to ffmpeg")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	if opts.Output == "" && opts.PNGDir == "" && !opts.DryRun {
		return NewExitError(ExitCommandError, "no output selected: use -o, --png-dir or --dry-run")
	}
	if opts.Start < 0 || opts.End < 0 || (opts.End > 0 && opts.End < opts.Start) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid time range: start=%v end=%v", opts.Start, opts.End))
	}

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
	slog.Info("timeline ready",
		"source", lt.Source, "events", tl.Len(), "max_offset", tl.MaxOffset(), "duration", tl.Duration())

	driver := video.NewDriver(r, video.Options{
		Workers: cfg.Workers,
		Start:   opts.Start,
		End:     opts.End,
	})
	if first, last := driver.Range(); last < first {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("no frames between %vs and %vs (trace ends at %.3fs)", opts.Start, opts.End, r.Duration()))
	}

	sink, digests, err := opts.openSinks(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	stats, runErr := driver.Run(ctx, sink)
	closeErr := sink.Close()

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return codedError(ExitFailure, ErrCodeRenderFailed, "render interrupted", runErr)
		}
		return codedError(ExitFailure, ErrCodeRenderFailed, "render failed", runErr)
	}
	if closeErr != nil {
		return codedError(ExitFailure, ErrCodeWriteFailed, "failed to finish output", closeErr)
	}

	summary := RenderSummary{
		Source:    lt.Source,
		TraceID:   lt.ID,
		Frames:    stats.Frames,
		First:     stats.First,
		Last:      stats.Last,
		ElapsedMS: stats.Elapsed.Milliseconds(),
		Output:    opts.Output,
		PNGDir:    opts.PNGDir,
	}
	if digests != nil && opts.Format == "json" {
		summary.Digests = digests.Digests()
	}
	return newFormatter(opts.RootOptions, cmd).Success(summary)
}

// openSinks opens every selected output. The digest sink is returned
// separately so its digests can be reported.
func (opts *RenderOptions) openSinks(ctx context.Context, cmd *cobra.Command, cfg config.Config) (video.Sink, *video.DigestSink, error) {
	var (
		sinks   video.Tee
		digests *video.DigestSink
	)

	if opts.PNGDir != "" {
		s, err := video.NewPNGSink(opts.PNGDir)
		if err != nil {
			return nil, nil, codedError(ExitCommandError, ErrCodeWriteFailed, "failed to create PNG directory", err)
		}
		sinks = append(sinks, s)
	}
	if opts.DryRun {
		// JSON output carries the digests in the response instead.
		w := cmd.OutOrStdout()
		if opts.Format == "json" {
			w = nil
		}
		digests = video.NewDigestSink(w, frameDigest)
		sinks = append(sinks, digests)
	}
	if opts.Output != "" {
		s, err := video.NewFFmpegSink(ctx, opts.Output, video.FFmpegOptions{
			Binary:    opts.FFmpeg,
			Codec:     opts.Codec,
			Width:     cfg.Width,
			Height:    cfg.Height,
			FrameRate: cfg.FrameRate,
		})
		if err != nil {
			_ = sinks.Close()
			return nil, nil, codedError(ExitFailure, ErrCodeRenderFailed, "failed to start encoder", err)
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 1 {
		return sinks[0], digests, nil
	}
	return sinks, digests, nil
}

func frameDigest(f video.Frame) string {
	return render.FrameDigest(f.Image)
}
