package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/internal/testutils"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

const componentYAML = `component:
  search: [model]
  filters:
    - params
    - column: open
      label: Open weights
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	inspectOutput = "table"
	convertFormat, convertOutput = "auto", ""
	convertInteractive, convertIndent = false, false
	versionFormat, versionShort, versionDetailed = "text", false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertCSV(t *testing.T) {
	dir := t.TempDir()
	csv := testutils.WriteFileIn(t, dir, "models.csv", testutils.ModelsCSV)

	out, _, err := execute(t, "convert", csv)
	require.NoError(t, err)

	var p leaderboard.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, []string{"model", "params", "open"}, p.Headers)
	require.Len(t, p.Data, 3)
	assert.Equal(t, []interface{}{"alpha", float64(7), true}, p.Data[0])
	assert.Nil(t, p.Metadata)
}

func TestConvertToFile(t *testing.T) {
	dir := t.TempDir()
	csv := testutils.WriteFileIn(t, dir, "models.csv", "model\n")
	target := filepath.Join(dir, "value.json")

	out, _, err := execute(t, "convert", csv, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"headers":["model"],"data":[[]],"metadata":null}`, string(data))
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "convert", "models.csv", "--format", "xlsx")
	assert.ErrorContains(t, err, `unsupported format "xlsx"`)
}

func TestInspectJSON(t *testing.T) {
	dir := t.TempDir()
	csv := testutils.WriteFileIn(t, dir, "models.csv", testutils.ModelsCSV)
	cfg := testutils.WriteFileIn(t, dir, "leaderboard.yml", componentYAML)

	out, _, err := execute(t, "inspect", csv, "--config", cfg, "-o", "json")
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(3), report["rows"])
	assert.Equal(t, "model", report["search_columns"].(map[string]interface{})["primary_column"])

	filters := report["filter_columns"].([]interface{})
	require.Len(t, filters, 2)
	params := filters[0].(map[string]interface{})
	assert.Equal(t, "slider", params["type"])
	def := params["default"].([]interface{})
	require.Len(t, def, 2)
	assert.InDelta(t, 10, def[0], 1e-9)
	assert.InDelta(t, 35.8, def[1], 1e-9)
	assert.Equal(t, float64(7), params["min"])
	assert.Equal(t, float64(70), params["max"])
	open := filters[1].(map[string]interface{})
	assert.Equal(t, "checkbox", open["type"])
	assert.Equal(t, "Open weights", open["label"])
}

func TestInspectTable(t *testing.T) {
	dir := t.TempDir()
	csv := testutils.WriteFileIn(t, dir, "models.csv", testutils.ModelsCSV)
	cfg := testutils.WriteFileIn(t, dir, "leaderboard.yml", componentYAML)

	out, _, err := execute(t, "inspect", csv, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "3 rows, 3 columns: model, params, open")
	assert.Contains(t, out, "Search: model")
	assert.Contains(t, out, "Column  Type")
	assert.Contains(t, out, "7 to 70")
}

func TestInspectYAML(t *testing.T) {
	dir := t.TempDir()
	csv := testutils.WriteFileIn(t, dir, "models.csv", testutils.ModelsCSV)

	out, _, err := execute(t, "inspect", csv, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "headers:\n  - model\n  - params\n  - open\n")
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "v1.5.0", info["min_styling_version"])
}

func TestVersionShort(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.NotContains(t, out, "Platform")
}

func TestWriteTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"column", "type"}, [][]string{{"名前", "dropdown"}, {"age", "slider"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Column  Type", lines[0])
	assert.Equal(t, "------  --------", lines[1])
	assert.Equal(t, "名前    dropdown", lines[2])
	assert.Equal(t, "age     slider", lines[3])
}
