package video

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// PNGSink writes frames as frame_000000.png, frame_000001.png, ... into a
// directory, numbered by frame index.
type PNGSink struct {
	dir string
	enc png.Encoder
}

// NewPNGSink creates dir if needed.
func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}
	return &PNGSink{dir: dir, enc: png.Encoder{CompressionLevel: png.BestSpeed}}, nil
}

// Path returns the file a frame index is written to.
func (s *PNGSink) Path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", index))
}

func (s *PNGSink) WriteFrame(f Frame) error {
	file, err := os.Create(s.Path(f.Index))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := s.enc.Encode(w, f.Image); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *PNGSink) Close() error { return nil }

// Digester computes a frame digest. render.FrameDigest is the usual choice.
type Digester func(f Frame) string

// DigestSink writes "index time digest" lines.
type DigestSink struct {
	w      io.Writer
	digest Digester

	mu      sync.Mutex
	digests []string
}

// NewDigestSink writes to w; a nil w only records digests.
func NewDigestSink(w io.Writer, digest Digester) *DigestSink {
	if digest == nil {
		digest = rawDigest
	}
	return &DigestSink{w: w, digest: digest}
}

func rawDigest(f Frame) string {
	sum := sha256.Sum256(f.Image.Pix)
	return hex.EncodeToString(sum[:])
}

func (s *DigestSink) WriteFrame(f Frame) error {
	d := s.digest(f)
	s.mu.Lock()
	s.digests = append(s.digests, d)
	s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	_, err := fmt.Fprintf(s.w, "%d %.6f %s\n", f.Index, f.Time, d)
	return err
}

// Digests returns the recorded digests in write order.
func (s *DigestSink) Digests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.digests))
	copy(out, s.digests)
	return out
}

func (s *DigestSink) Close() error { return nil }

// Tee fans frames out to several sinks.
type Tee []Sink

func (t Tee) WriteFrame(f Frame) error {
	for _, s := range t {
		if err := s.WriteFrame(f); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
