package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/server"
	"github.com/conneroisu/leaderboard/internal/testutils"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path, format, want string
		wantErr            bool
	}{
		{path: "scores.csv", format: "auto", want: FormatCSV},
		{path: "scores.CSV", format: "", want: FormatCSV},
		{path: "scores.feather", format: "auto", want: FormatArrow},
		{path: "table.htm", format: "auto", want: FormatHTML},
		{path: "data.txt", format: "csv", want: FormatCSV},
		{path: "data.txt", format: "auto", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.format, func(t *testing.T) {
			got, err := DetectFormat(tt.path, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSource(t *testing.T) {
	v, err := LoadSource("", "auto")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = LoadSource("scores.csv", "auto")
	require.NoError(t, err)
	assert.Equal(t, leaderboard.CSVFile("scores.csv"), v)

	v, err = LoadSource("scores.arrow", "auto")
	require.NoError(t, err)
	assert.Equal(t, leaderboard.ArrowFile("scores.arrow"), v)

	v, err = LoadSource(testutils.WriteFile(t, "models.html", testutils.ModelsHTML), "auto")
	require.NoError(t, err)
	st, ok := v.(*styler.Styler)
	require.True(t, ok)
	assert.Equal(t, []string{"model", "params"}, st.Data().Names())

	_, err = LoadSource(filepath.Join(t.TempDir(), "missing.html"), "auto")
	assert.Error(t, err)
}

func TestBuildComponentConfig(t *testing.T) {
	cc := config.ComponentConfig{
		Datatype: []string{"str"},
		Search:   []interface{}{"model"},
		Select:   map[string]interface{}{"default_selection": []interface{}{"model", "params"}},
		Filters: []interface{}{
			"open",
			map[string]interface{}{"column": "params", "type": "slider"},
		},
		LatexDelimiters: []config.LatexDelimiter{{Left: "$", Right: "$"}},
		ColumnWidths:    []interface{}{120, "30%"},
	}

	lbc, err := BuildComponentConfig(cc, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Datatype{leaderboard.DatatypeStr}, lbc.Datatype)
	assert.Equal(t, []string{"120px", "30%"}, lbc.ColumnWidths)
	assert.Equal(t, []leaderboard.LatexDelimiter{{Left: "$", Right: "$"}}, lbc.LatexDelimiters)
	assert.Len(t, lbc.Filters, 2)

	empty, err := BuildComponentConfig(config.ComponentConfig{LatexDelimiters: []config.LatexDelimiter{}}, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.LatexDelimiters)
	assert.Empty(t, empty.LatexDelimiters)
}

func TestBuildComponentConfigRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		cc   config.ComponentConfig
	}{
		{name: "search", cc: config.ComponentConfig{Search: 42}},
		{name: "select", cc: config.ComponentConfig{Select: true}},
		{name: "filters", cc: config.ComponentConfig{Filters: "open"}},
		{name: "width", cc: config.ComponentConfig{ColumnWidths: []interface{}{1.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildComponentConfig(tt.cc, nil)
			assert.ErrorIs(t, err, leaderboard.ErrInvalidConfiguration)
		})
	}
}

func TestNewComponentFromCSV(t *testing.T) {
	cfg := &config.Config{
		Data: config.DataConfig{Path: testutils.WriteFile(t, "models.csv", testutils.ModelsCSV), Format: "auto"},
		Component: config.ComponentConfig{
			Filters: []interface{}{"params", "open"},
		},
	}

	lb, source, err := NewComponent(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, leaderboard.CSVFile(cfg.Data.Path), source)
	assert.Equal(t, []string{"model", "params", "open"}, lb.Headers())

	filters := lb.Filters()
	require.Len(t, filters, 2)
	assert.Equal(t, leaderboard.FilterSlider, filters[0].Kind)
	assert.Equal(t, 7.0, *filters[0].Min)
	assert.Equal(t, 70.0, *filters[0].Max)
	assert.Equal(t, leaderboard.FilterCheckbox, filters[1].Kind)
}

func TestNewComponentWithoutData(t *testing.T) {
	lb, source, err := NewComponent(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, source)
	assert.Equal(t, []string{"column 1"}, lb.Headers())
}

func TestNewComponentUnknownFilterColumn(t *testing.T) {
	cfg := &config.Config{
		Data:      config.DataConfig{Path: testutils.WriteFile(t, "models.csv", testutils.ModelsCSV)},
		Component: config.ComponentConfig{Filters: []interface{}{"missing"}},
	}
	_, _, err := NewComponent(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, leaderboard.ErrInvalidConfiguration)
}

func TestReload(t *testing.T) {
	path := testutils.WriteFile(t, "models.csv", testutils.ModelsCSV)
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", AllowedOrigins: []string{"localhost:*"}},
		Data:   config.DataConfig{Path: path, Format: "csv"},
	}
	svc := NewServeService(cfg, logging.NewNopLogger())

	lb, source, err := NewComponent(context.Background(), cfg, nil)
	require.NoError(t, err)
	srv, err := server.New(cfg, lb, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Update(context.Background(), source))

	require.NoError(t, os.WriteFile(path, []byte("model,params,open\ndelta,3,false\n"), 0o600))
	require.NoError(t, svc.reload(context.Background(), srv, nil))
	assert.Len(t, currentValue(t, srv).Data, 1)

	require.NoError(t, os.Remove(path))
	require.NoError(t, svc.reload(context.Background(), srv, nil))
	assert.Len(t, currentValue(t, srv).Data, 1)
}

func currentValue(t *testing.T, srv *server.Server) leaderboard.Payload {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/value", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p leaderboard.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestGetServerInfo(t *testing.T) {
	svc := NewServeService(&config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8080},
		Data:   config.DataConfig{Path: "models.csv", Watch: true},
	}, nil)

	info := svc.GetServerInfo()
	assert.Equal(t, "http://localhost:8080", info.ServerURL)
	assert.True(t, info.Watching)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := testutils.WriteFile(t, "models.csv", testutils.ModelsCSV)
	cfg := testutils.ServerConfig()
	cfg.Data.Path = path
	cfg.Data.Watch = true
	svc := NewServeService(cfg, logging.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lb, source, err := NewComponent(ctx, cfg, nil)
	require.NoError(t, err)
	srv, err := server.New(cfg, lb, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Update(ctx, source))

	fw, err := svc.watch(ctx, srv)
	require.NoError(t, err)
	defer fw.Stop()

	testutils.WaitForFileChange(t, path, "model,params,open\ndelta,3,false\n")
	require.Eventually(t, func() bool {
		return len(currentValue(t, srv).Data) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestStyledSourceKeepsMetadata(t *testing.T) {
	cfg := testutils.ServerConfig()
	cfg.Data.Path = testutils.WriteFile(t, "models.html", testutils.ModelsHTML)

	lb, source, err := NewComponent(context.Background(), cfg, nil)
	require.NoError(t, err)
	srv, err := server.New(cfg, lb, nil)
	require.NoError(t, err)
	require.NoError(t, srv.Update(context.Background(), source))

	p := currentValue(t, srv)
	require.NotNil(t, p.Metadata)
	assert.Equal(t, [][]string{{"", "color: red"}}, p.Metadata.Styling)
	assert.Equal(t, [][]string{{"alpha", "7"}}, p.Metadata.DisplayValue)
}
