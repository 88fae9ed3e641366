package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blkbuster/internal/store"
)

func ingest(t *testing.T, db, path string) IngestResult {
	t.Helper()
	stdout, stderr, code := runCLI(t, "ingest", path, "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code, "stderr: %s", stderr)
	var res IngestResult
	decodeResponse(t, stdout, &res)
	return res
}

func TestIngest_StoresTrace(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")

	res := ingest(t, db, path)
	assert.Len(t, res.ID, 36)
	assert.Equal(t, 3, res.Events)
	assert.Equal(t, path, res.Source)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	events, err := st.ReadEvents(context.Background(), res.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint64(12288), events[2].Offset)
}

func TestIngest_TextOutput(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")

	stdout, _, code := runCLI(t, "ingest", path, "--db", db)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Ingested "+path+" as ")
	assert.Contains(t, stdout, "(3 events,")
}

func TestIngest_EmptyTrace(t *testing.T) {
	path := writeFile(t, "empty.txt", "nothing here\n")
	db := filepath.Join(t.TempDir(), "traces.db")

	_, stderr, code := runCLI(t, "ingest", path, "--db", db)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Error [E003]")
}

func TestIngest_BadSectorSize(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")

	_, _, code := runCLI(t, "ingest", path, "--db", db, "--sector-size", "0")
	assert.Equal(t, ExitCommandError, code)
}

func TestRender_FromCacheMatchesFile(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")
	ingest(t, db, path)

	fromFile, _, code := runCLI(t, withSmall("render", path, "--dry-run")...)
	require.Equal(t, ExitSuccess, code)
	fromCache, _, code := runCLI(t, withSmall("render", "--db", db, "--dry-run")...)
	require.Equal(t, ExitSuccess, code)

	assert.Equal(t, digestLines(fromFile), digestLines(fromCache))
}

func TestRender_FromCacheByID(t *testing.T) {
	first := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")
	res := ingest(t, db, first)

	// A second, different trace becomes the latest.
	second := writeFile(t, "other.txt",
		"  8,0    1        1     0.000000000  4242  Q   W 0 + 64 [fio]\n")
	ingest(t, db, second)

	stdout, _, code := runCLI(t, withSmall("render", "--db", db, "--trace", res.ID, "--dry-run", "--format", "json")...)
	require.Equal(t, ExitSuccess, code)
	var summary RenderSummary
	decodeResponse(t, stdout, &summary)
	assert.Equal(t, res.ID, summary.TraceID)
	assert.Equal(t, 3, summary.Frames)

	stdout, _, code = runCLI(t, withSmall("render", "--db", db, "--dry-run", "--format", "json")...)
	require.Equal(t, ExitSuccess, code)
	decodeResponse(t, stdout, &summary)
	assert.Equal(t, second, summary.Source)
	assert.Equal(t, 1, summary.Frames)
}

func TestRender_FromCacheErrors(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")
	ingest(t, db, path)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown id", []string{"--db", db, "--trace", "missing"}, "no such trace"},
		{"missing db", []string{"--db", filepath.Join(t.TempDir(), "nope.db")}, "trace cache not found"},
		{"file and db", []string{path, "--db", db}, "not both"},
		{"trace without db", []string{path, "--trace", "x"}, "--trace requires --db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := withSmall(append([]string{"render", "--dry-run"}, tt.args...)...)
			_, stderr, code := runCLI(t, args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestTraces_List(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")
	a := ingest(t, db, path)
	b := ingest(t, db, path)

	stdout, _, code := runCLI(t, "traces", "--db", db, "--format", "json")
	require.Equal(t, ExitSuccess, code)
	var list TraceList
	decodeResponse(t, stdout, &list)
	require.Len(t, list.Traces, 2)
	assert.Equal(t, a.ID, list.Traces[0].ID)
	assert.Equal(t, b.ID, list.Traces[1].ID)

	stdout, _, code = runCLI(t, "traces", "--db", db)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, a.ID)
}

func TestTraces_Delete(t *testing.T) {
	path := writeTrace(t)
	db := filepath.Join(t.TempDir(), "traces.db")
	a := ingest(t, db, path)

	stdout, _, code := runCLI(t, "traces", "--db", db, "--delete", a.ID)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "No traces ingested.")

	_, _, code = runCLI(t, "traces", "--db", db, "--delete", a.ID)
	assert.Equal(t, ExitCommandError, code)
}

func TestTraces_MissingDatabase(t *testing.T) {
	_, stderr, code := runCLI(t, "traces", "--db", "/nonexistent/path/test.db")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Error [E002]")
}
