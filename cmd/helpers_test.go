package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/project-time-tracker/internal/config"
	"github.com/Tiliavir/project-time-tracker/internal/logging"
	"github.com/Tiliavir/project-time-tracker/internal/storage"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// cli runs the real command tree against a database in a temp dir.
type cli struct {
	configPath string
	dbPath     string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{
		configPath: filepath.Join(dir, "config.json"),
		dbPath:     filepath.Join(dir, "data", "db.sqlite"),
	}
	require.NoError(t, config.Config{DBPath: c.dbPath}.Save(c.configPath))

	t.Setenv(config.EnvDBPath, "")
	t.Setenv(logging.EnvLevel, "debug")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return c
}

// run executes tt with args, feeding input to prompts, and returns everything
// written to stdout and stderr.
func (c *cli) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	root, rt := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(append([]string{"--config", c.configPath}, args...))

	err := root.ExecuteContext(context.Background())
	require.NoError(t, rt.close())
	return buf.String(), err
}

// mustRun is run for commands expected to succeed.
func (c *cli) mustRun(t *testing.T, input string, args ...string) string {
	t.Helper()
	output, err := c.run(t, input, args...)
	require.NoError(t, err, output)
	return output
}

// store opens the same database directly for assertions.
func (c *cli) store(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(context.Background(), c.dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
