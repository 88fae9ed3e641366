package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/blkbuster/internal/testutil"
)

// smallFlags draw on a 100x50 canvas at 10 fps so the fixture trace renders
// in three frames.
var smallFlags = []string{"--width", "100", "--height", "50", "--stripes", "4", "--fps", "10"}

// writeTrace writes a three-event blkparse trace spanning 16 KiB over 0.2s.
func writeTrace(t *testing.T) string {
	t.Helper()
	l := testutil.NewEventLog()
	l.Read(0.0, 0, 4096)
	l.Write(0.05, 8192, 4096)
	l.Discard(0.2, 12288, 4096)

	path := filepath.Join(t.TempDir(), "sda.txt")
	require.NoError(t, os.WriteFile(path, []byte(testutil.Blkparse(l.Events(), 512)), 0644))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// runCLI executes the CLI and returns stdout, stderr and the exit code.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func withSmall(args ...string) []string {
	return append(args, smallFlags...)
}

// decodeResponse decodes a JSON CLIResponse and its data payload.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if data != nil && raw.Data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}
