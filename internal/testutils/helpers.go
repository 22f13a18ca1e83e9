// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// ModelsCSV is a three row table with a textual, a numeric and a boolean
// column.
const ModelsCSV = "model,params,open\nalpha,7,true\nbeta,13,false\ngamma,70,true\n"

// ModelsHTML is a styled table as produced by a dataframe styler, with one
// styled cell.
const ModelsHTML = `<style type="text/css">
#T_x_row0_col1 { color: red; }
</style>
<table id="T_x">
<thead><tr><th class="blank level0">&nbsp;</th><th>model</th><th>params</th></tr></thead>
<tbody>
<tr><th>0</th><td id="T_x_row0_col0">alpha</td><td id="T_x_row0_col1">7</td></tr>
</tbody>
</table>`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	return WriteFileIn(t, t.TempDir(), name, content)
}

// WriteFileIn writes content to dir/name and returns the path.
func WriteFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Models returns the ModelsCSV table as a dataset.
func Models(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns(
		dataset.MustColumn("model", "alpha", "beta", "gamma"),
		dataset.MustColumn("params", 7, 13, 70),
		dataset.MustColumn("open", true, false, true),
	)
	require.NoError(t, err)
	return ds
}

// ServerConfig returns a host configuration accepting local origins.
func ServerConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           config.DefaultHost,
			AllowedOrigins: []string{"localhost:*", "127.0.0.1:*"},
		},
		Data: config.DataConfig{Format: "auto", Debounce: 20 * time.Millisecond},
		Log:  config.LogConfig{Level: "info", Format: "text"},
	}
}

// WaitForFileChange rewrites path and waits until its modification time
// moves, so watchers see a distinct event.
func WaitForFileChange(t *testing.T, path, content string) {
	t.Helper()
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return false
		}
		after, err := os.Stat(path)
		return err == nil && !after.ModTime().Equal(before.ModTime())
	}, 2*time.Second, 10*time.Millisecond)
}
