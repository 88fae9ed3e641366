package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// FFmpegOptions configures the encoder process.
type FFmpegOptions struct {
	Binary    string // defaults to "ffmpeg"
	Codec     string // defaults to "libx264"
	Width     int
	Height    int
	FrameRate float64
}

// FFmpegSink streams raw RGBA frames into ffmpeg's stdin.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *lockedBuffer
	width  int
	height int
}

// ffmpegArgs builds the command line: raw RGBA on stdin, H.264 in yuv420p out.
func ffmpegArgs(opts FFmpegOptions, output string) []string {
	codec := opts.Codec
	if codec == "" {
		codec = "libx264"
	}
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.FormatFloat(opts.FrameRate, 'f', -1, 64),
		"-i", "-",
		"-an",
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		output,
	}
}

// NewFFmpegSink starts ffmpeg writing to output. Cancelling ctx kills the
// process.
func NewFFmpegSink(ctx context.Context, output string, opts FFmpegOptions) (*FFmpegSink, error) {
	bin := opts.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	//nolint:gosec // running the configured encoder is the point
	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(opts, output)...)
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}
	return &FFmpegSink{cmd: cmd, stdin: stdin, stderr: stderr, width: opts.Width, height: opts.Height}, nil
}

func (s *FFmpegSink) WriteFrame(f Frame) error {
	b := f.Image.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("frame %d is %dx%d, encoder expects %dx%d", f.Index, b.Dx(), b.Dy(), s.width, s.height)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := f.Image.PixOffset(b.Min.X, y)
		if _, err := s.stdin.Write(f.Image.Pix[i : i+4*b.Dx()]); err != nil {
			return fmt.Errorf("ffmpeg write: %w%s", err, s.detail())
		}
	}
	return nil
}

// Close ends the input stream and waits for ffmpeg to finish the container.
func (s *FFmpegSink) Close() error {
	closeErr := s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w%s", err, s.detail())
	}
	return closeErr
}

func (s *FFmpegSink) detail() string {
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}

// lockedBuffer collects stderr while ffmpeg is still writing to it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
