package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))

	err := cmd.Execute()
	return out.String(), err
}

func TestCleanup_Confirmed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))

	out, err := execute(t, "y\n", "cleanup", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Proceed with cleanup? (y/n): ")
	assert.Contains(t, out, "Deleted file: index.html")
	assert.NoFileExists(t, filepath.Join(dir, "index.html"))
}

func TestCleanup_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))

	out, err := execute(t, "n\n", "cleanup", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Cleanup cancelled.")
	assert.FileExists(t, filepath.Join(dir, "index.html"))
}

func TestCleanup_SkipPrompt(t *testing.T) {
	out, err := execute(t, "", "cleanup", "--yes", "--dir", t.TempDir())
	require.NoError(t, err)

	assert.NotContains(t, out, "Proceed with cleanup?")
	assert.Contains(t, out, "your project is clean!")
}

func TestConnTest_UnknownBackend(t *testing.T) {
	_, err := execute(t, "", "conntest", "--backend", "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestConnTest_MissingEnvironmentFails(t *testing.T) {
	for _, name := range []string{"NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_SERVICE_KEY", "WILLY_WEATHER_API_KEY"} {
		t.Setenv(name, "")
	}

	out, err := execute(t, "", "conntest")
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "NEXT_PUBLIC_SUPABASE_URL not found")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}
