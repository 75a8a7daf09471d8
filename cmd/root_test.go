package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/project-time-tracker/internal/config"
	"github.com/Tiliavir/project-time-tracker/internal/logging"
)

func TestReport(t *testing.T) {
	rt := &runtime{cfg: config.Config{DBPath: filepath.Join("var", "tt", "db.sqlite")}}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "internal error hides details",
			err:      rt.internal(errors.New("disk I/O error")),
			wantCode: 1,
			wantOut:  "Error: the operation failed unexpectedly (details in " + filepath.Join("var", "tt", logging.FileName) + ")\n",
		},
		{
			name:     "usage error is shown",
			err:      usageErrorf("invalid project id %q: expected a number", "abc"),
			wantCode: 2,
			wantOut:  "Error: invalid project id \"abc\": expected a number\n",
		},
		{
			name:     "missing input",
			err:      ErrInputRequired,
			wantCode: 2,
			wantOut:  "Error: input required\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, rt.report(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestNoInputFailsFast(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "Alpha\n", "--no-input", "project", "add")
	require.ErrorIs(t, err, ErrInputRequired)

	_, err = c.run(t, "", "--no-input", "time", "add")
	// no projects yet: nothing to pick, so no prompt is reached
	require.NoError(t, err)

	c.mustRun(t, "", "project", "add", "Alpha")
	_, err = c.run(t, "", "--no-input", "time", "add", "1")
	require.ErrorIs(t, err, ErrInputRequired)

	_, err = c.run(t, "", "--no-input", "project", "delete", "1")
	require.ErrorIs(t, err, ErrInputRequired)

	output := c.mustRun(t, "", "--no-input", "project", "delete", "1", "--yes")
	assert.Contains(t, output, "Project 1 deleted.")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "", "time", "list", "--bogus")
	var ue *usageError
	require.ErrorAs(t, err, &ue)
}

func TestEndToEndScenario(t *testing.T) {
	c := newCLI(t)

	c.mustRun(t, "", "project", "add", "Website")
	c.mustRun(t, "", "project", "add", "Backend")
	c.mustRun(t, "", "time", "add", "1", "90", "layout", "--date", "2024-03-01")
	c.mustRun(t, "", "time", "add", "1", "30", "review", "--date", "2024-03-02")
	c.mustRun(t, "", "time", "add", "2", "45", "api", "--date", "2024-03-02")

	output := c.mustRun(t, "", "time", "list", "--project-id", "1")
	assert.Contains(t, output, "Total time: 2h 0m (120 minutes)")

	c.mustRun(t, "", "time", "update", "2", "--duration", "60", "--description", "review", "--date", "2024-03-02")
	output = c.mustRun(t, "", "time", "summary")
	assert.Contains(t, output, "  Website: 2h 30m (150 minutes)")
	assert.Contains(t, output, "Grand total: 3h 15m (195 minutes)")

	c.mustRun(t, "", "project", "delete", "2", "--yes")
	output = c.mustRun(t, "", "time", "list")
	assert.NotContains(t, output, "api")
	assert.Contains(t, output, "Total time: 2h 30m (150 minutes)")

	path := filepath.Join(t.TempDir(), "report.csv")
	output = c.mustRun(t, "", "time", "export", path)
	assert.Contains(t, output, "(2 rows)")
}

func TestConfigCommand(t *testing.T) {
	c := newCLI(t)
	output := c.mustRun(t, "", "config")
	assert.Contains(t, output, "Config file: "+c.configPath)
	assert.Contains(t, output, "Database path: "+c.dbPath)
	assert.Contains(t, output, "Log file: "+filepath.Join(filepath.Dir(c.dbPath), logging.FileName))
}
