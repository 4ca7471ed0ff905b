package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quotedraft/internal/assessment"
	"github.com/roach88/quotedraft/internal/store"
	"github.com/roach88/quotedraft/internal/testutil"
)

// testRootOptions returns options pointing at a fresh SQLite file.
func testRootOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:   format,
		Backend:  "sqlite",
		Database: filepath.Join(t.TempDir(), "drafts.db"),
	}
}

// agedRecord returns a sample record written age before now.
func agedRecord(id, sessionID string, age time.Duration, manual bool) assessment.Record {
	rec := testutil.NewRecord(id, sessionID, 0, manual)
	rec.Metadata.UpdatedAt = time.Now().Add(-age).UnixMilli()
	return rec
}

// seedDrafts writes records into the database named by opts.
func seedDrafts(t *testing.T, opts *RootOptions, records ...assessment.Record) {
	t.Helper()
	s, err := store.Open(opts.Database)
	require.NoError(t, err)
	defer s.Close()

	for _, rec := range records {
		require.NoError(t, s.Put(context.Background(), rec))
	}
}

// countDrafts returns the number of records in the database named by opts.
func countDrafts(t *testing.T, opts *RootOptions) int {
	t.Helper()
	s, err := store.Open(opts.Database)
	require.NoError(t, err)
	defer s.Close()

	all, err := s.All(context.Background())
	require.NoError(t, err)
	return len(all)
}

// writeJSON marshals v into a temp file and returns its path.
func writeJSON(t *testing.T, name string, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

// execute runs cmd with args and returns stdout. Nil args would make cobra
// fall back to os.Args.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	if args == nil {
		args = []string{}
	}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
