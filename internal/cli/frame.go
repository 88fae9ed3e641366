package cli

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/render"
)

// FrameOptions holds flags for the frame command.
type FrameOptions struct {
	*RootOptions
	Config ConfigFlags
	Source SourceFlags

	At     float64 // frame time in seconds
	Output string  // PNG path
}

// FrameResult is the frame command's result.
type FrameResult struct {
	Source  string  `json:"source"`
	At      float64 `json:"at"`
	Output  string  `json:"output"`
	Visible int     `json:"visible"`
	Digest  string  `json:"digest"`
}

func (r FrameResult) String() string {
	return fmt.Sprintf("Wrote frame t=%.3f (%d events) to %s", r.At, r.Visible, r.Output)
}

// NewFrameCommand creates the frame command.
func NewFrameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frame [trace-file]",
		Short: "Render a single frame to PNG",
		Long: `Render the frame at one point in time and write it as a PNG image.

Examples:
  blkbuster frame sda.txt --at 12.5 -o frame.png
  blkbuster frame --db traces.db --at 3 -o frame.png --theme amber`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(opts, args, cmd)
		},
	}

	opts.Config.register(cmd)
	opts.Source.register(cmd)
	cmd.Flags().Float64Var(&opts.At, "at", 0, "frame time in seconds")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output PNG file (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runFrame(opts *FrameOptions, args []string, cmd *cobra.Command) error {
	if opts.At < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--at must not be negative, got %v", opts.At))
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
	r, _, err := newRenderer(lt, cfg, th)
	if err != nil {
		return err
	}

	img := r.RenderFrame(opts.At)

	f, err := os.Create(opts.Output)
	if err != nil {
		return codedError(ExitCommandError, ErrCodeWriteFailed, "failed to create output", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return codedError(ExitFailure, ErrCodeWriteFailed, "failed to encode PNG", err)
	}
	if err := f.Close(); err != nil {
		return codedError(ExitFailure, ErrCodeWriteFailed, "failed to write output", err)
	}

	return newFormatter(opts.RootOptions, cmd).Success(FrameResult{
		Source:  lt.Source,
		At:      opts.At,
		Output:  opts.Output,
		Visible: len(r.Visible(opts.At)),
		Digest:  render.FrameDigest(img),
	})
}
