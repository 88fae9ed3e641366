package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore creates a temporary store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
