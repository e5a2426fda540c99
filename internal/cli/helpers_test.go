package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// tempDB returns a --db flag pointing into a fresh temp dir.
func tempDB(t *testing.T) []string {
	t.Helper()
	return []string{"--db", filepath.Join(t.TempDir(), "test.db")}
}

func with(db []string, args ...string) []string {
	return append(append([]string{}, args...), db...)
}
