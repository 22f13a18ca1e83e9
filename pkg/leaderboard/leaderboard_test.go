package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/pkg/dataset"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

func players(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromColumns(
		dataset.MustColumn("name", "Alice", "Bob", "Carol", "Dan", "Eve"),
		dataset.MustColumn("country", "US", "UK", "US", "FR", "UK"),
		dataset.MustColumn("age", 25, 31, 38, 22, 45),
		dataset.MustColumn("score", 120, 300, 95.5, 250, 180),
		dataset.MustColumn("registered", true, false, true, false, true),
	)
	require.NoError(t, err)
	return ds
}

func filterFor(t *testing.T, filters []ResolvedFilter, column string) ResolvedFilter {
	t.Helper()
	for _, f := range filters {
		if f.Column == column {
			return f
		}
	}
	t.Fatalf("no filter for column %q", column)
	return ResolvedFilter{}
}

func TestNewResolvesFullConfiguration(t *testing.T) {
	ds := players(t)
	lb, err := New(ds, Config{
		Search: SearchShorthand{"name"},
		Select: SelectColumns{
			DefaultSelection: []string{"name", "country", "score"},
			CantDeselect:     []string{"name"},
		},
		Filters: []FilterColumn{
			FilterName("name"),
			ColumnFilter{Column: "country", Kind: FilterDropdown},
			ColumnFilter{Column: "age", Kind: FilterSlider, Min: Float(20), Max: Float(40), Default: Range{Low: 25, High: 35}},
			ColumnFilter{Column: "score", Kind: FilterSlider, Min: Float(50), Max: Float(350)},
			FilterName("registered"),
		},
		Logger: logging.NewNopLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, SearchColumns{PrimaryColumn: "name", SecondaryColumns: []string{}}, lb.Search())
	assert.Equal(t, ColumnSelection{
		DefaultSelection: []string{"name", "country", "score"},
		CantDeselect:     []string{"name"},
		Allow:            true,
		ShowLabel:        true,
	}, lb.Selection())

	filters := lb.Filters()
	require.Len(t, filters, 5)
	assert.Equal(t, []string{"name", "country", "age", "score", "registered"},
		[]string{filters[0].Column, filters[1].Column, filters[2].Column, filters[3].Column, filters[4].Column})

	name := filterFor(t, filters, "name")
	assert.Equal(t, FilterCheckboxGroup, name.Kind)
	assert.Len(t, name.Choices, 5)

	country := filterFor(t, filters, "country")
	wantChoices := []Choice{{"US", "US"}, {"UK", "UK"}, {"FR", "FR"}}
	assert.Equal(t, FilterDropdown, country.Kind)
	assert.Equal(t, wantChoices, country.Choices)
	assert.Equal(t, Selection(wantChoices), country.Default)

	age := filterFor(t, filters, "age")
	ageCol, err := ds.Column("age")
	require.NoError(t, err)
	ageMin, ageMax, _ := ageCol.Bounds()
	assert.Equal(t, FilterSlider, age.Kind)
	assert.Equal(t, Range{Low: 25, High: 35}, age.Default)
	require.NotNil(t, age.Min)
	require.NotNil(t, age.Max)
	assert.Equal(t, ageMin, *age.Min)
	assert.Equal(t, ageMax, *age.Max)
	assert.Equal(t, 22.0, *age.Min)
	assert.Equal(t, 45.0, *age.Max)

	score := filterFor(t, filters, "score")
	assert.Equal(t, 95.5, *score.Min)
	assert.Equal(t, 300.0, *score.Max)
	scoreDefault, ok := score.Default.(Range)
	require.True(t, ok)
	assert.InDelta(t, 120.0, scoreDefault.Low, 1e-9)
	assert.InDelta(t, 236.0, scoreDefault.High, 1e-9)

	registered := filterFor(t, filters, "registered")
	assert.Equal(t, FilterCheckbox, registered.Kind)
	assert.Equal(t, Checked(false), registered.Default)
	assert.Empty(t, registered.Choices)
}

func TestNewDefaults(t *testing.T) {
	lb, err := New(players(t), Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	assert.False(t, lb.Search().Enabled())
	sel := lb.Selection()
	assert.False(t, sel.Allow)
	assert.Equal(t, []string{"name", "country", "age", "score", "registered"}, sel.DefaultSelection)
	assert.Empty(t, lb.Filters())

	fc := lb.FrontendConfig()
	assert.Equal(t, DefaultHeight, fc.Height)
	assert.Equal(t, DefaultMinWidth, fc.MinWidth)
	assert.True(t, fc.LineBreaks)
	assert.True(t, fc.ShowLabel)
	assert.True(t, fc.Visible)
	assert.Equal(t, DefaultLatexDelimiters(), fc.LatexDelimiters)
	assert.Equal(t, []Datatype{"str", "str", "str", "str", "str"}, fc.Datatype)
}

func TestNewNilValue(t *testing.T) {
	lb, err := New(nil, Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	assert.Equal(t, []string{"column 1"}, lb.Headers())
	assert.Equal(t, 0, lb.Value().NumRows())
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown filter type", Config{Filters: []FilterColumn{ColumnFilter{Column: "age", Kind: "radio"}}}},
		{"filter on missing column", Config{Filters: []FilterColumn{FilterName("height")}}},
		{"nil filter", Config{Filters: []FilterColumn{nil}}},
		{"unknown datatype", Config{Datatype: []Datatype{"json"}}},
		{"datatype count", Config{Datatype: []Datatype{"str", "number"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = logging.NewNopLogger()
			lb, err := New(players(t), tt.cfg)
			assert.Nil(t, lb)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestDisabledLatexDelimiters(t *testing.T) {
	lb, err := New(players(t), Config{LatexDelimiters: []LatexDelimiter{}, Logger: logging.NewNopLogger()})
	require.NoError(t, err)
	assert.Empty(t, lb.FrontendConfig().LatexDelimiters)
}

func TestPostprocessReplacesValue(t *testing.T) {
	lb, err := New(players(t), Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	next, err := dataset.FromColumns(dataset.MustColumn("x", 1, 2))
	require.NoError(t, err)

	p, err := lb.Postprocess(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, p.Headers)
	assert.Same(t, next, lb.Value())

	_, err = lb.Postprocess(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
	assert.Same(t, next, lb.Value(), "failed postprocess keeps the last good value")
}

func TestPostprocessCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("model,score\nalpha,0.9\nbeta,0.7\n"), 0o644))

	lb, err := New(nil, Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	for _, src := range []interface{}{CSVFile(path), path} {
		p, err := lb.Postprocess(context.Background(), src)
		require.NoError(t, err)
		want := Payload{
			Headers: []string{"model", "score"},
			Data:    [][]dataset.Value{{"alpha", 0.9}, {"beta", 0.7}},
		}
		if diff := cmp.Diff(want, p); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	}

	_, err = lb.Postprocess(context.Background(), CSVFile(filepath.Join(t.TempDir(), "missing.csv")))
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestInteractiveDiscardsStyles(t *testing.T) {
	rec := logging.NewRecorder()
	lb, err := New(nil, Config{Interactive: true, Logger: rec})
	require.NoError(t, err)

	st := styler.New(players(t))
	require.NoError(t, st.Set(0, "name", styler.Decl("color", "red")))

	p, err := lb.Postprocess(context.Background(), st)
	require.NoError(t, err)
	assert.Nil(t, p.Metadata)
	assert.Len(t, p.Data, 5)

	warnings := rec.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, ErrStyleDiscarded)
	assert.Equal(t, "leaderboard", warnings[0].Component)
}

func TestUnrecognizedColumnTypeWarns(t *testing.T) {
	ds, err := dataset.FromColumns(dataset.MustColumn("mixed", "a", 1, true, "a"))
	require.NoError(t, err)

	rec := logging.NewRecorder()
	lb, err := New(ds, Config{Filters: []FilterColumn{FilterName("mixed")}, Logger: rec})
	require.NoError(t, err)

	f := lb.Filters()[0]
	assert.Equal(t, FilterCheckboxGroup, f.Kind)
	assert.Equal(t, []Choice{{"a", "a"}, {"1", 1.0}, {"True", true}}, f.Choices)

	warnings := rec.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, ErrUnrecognizedColumnType)
}

func TestProcessExample(t *testing.T) {
	lb, err := New(nil, Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	rows, err := lb.ProcessExample(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)

	many := make([][]dataset.Value, 8)
	for i := range many {
		many[i] = []dataset.Value{float64(i)}
	}
	ds, err := dataset.New([]string{"n"}, many)
	require.NoError(t, err)

	rows, err = lb.ProcessExample(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, many[:5], rows)
	assert.Equal(t, 0, lb.Value().NumRows(), "examples do not replace the value")
}

func TestExamplePayloadAndValue(t *testing.T) {
	lb, err := New(nil, Config{Logger: logging.NewNopLogger()})
	require.NoError(t, err)

	want := Payload{Headers: []string{"a", "b"}, Data: [][]dataset.Value{{"foo", "bar"}}}
	assert.Equal(t, want, lb.ExamplePayload())

	v := lb.ExampleValue()
	assert.Equal(t, []string{"a", "b"}, v.Names())
	assert.Equal(t, [][]dataset.Value{{"foo", "bar"}}, v.Rows())
}

func TestFrontendConfigJSON(t *testing.T) {
	lb, err := New(players(t), Config{
		Datatype:     []Datatype{DatatypeMarkdown},
		Search:       SearchColumns{PrimaryColumn: "name", SecondaryColumns: []string{"country"}, Placeholder: "Search"},
		Filters:      []FilterColumn{FilterName("age"), FilterName("registered")},
		HideColumns:  []string{"registered"},
		ColumnWidths: []string{Pixels(200)},
		Logger:       logging.NewNopLogger(),
	})
	require.NoError(t, err)

	raw, err := json.Marshal(lb.FrontendConfig())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, []interface{}{5.0, "fixed"}, doc["row_count"])
	assert.Equal(t, []interface{}{5.0, "fixed"}, doc["col_count"])
	assert.Equal(t, []interface{}{"markdown", "markdown", "markdown", "markdown", "markdown"}, doc["datatype"])
	assert.Equal(t, []interface{}{"200px"}, doc["column_widths"])
	assert.Equal(t, []interface{}{"registered"}, doc["hide_columns"])

	search := doc["search_columns"].(map[string]interface{})
	assert.Equal(t, "name", search["primary_column"])
	assert.Equal(t, []interface{}{"country"}, search["secondary_columns"])
	assert.Equal(t, "Search", search["placeholder"])

	filters := doc["filter_columns"].([]interface{})
	require.Len(t, filters, 2)
	age := filters[0].(map[string]interface{})
	assert.Equal(t, "slider", age["type"])
	assert.Equal(t, 22.0, age["min"])
	assert.Equal(t, 45.0, age["max"])
	assert.Len(t, age["default"], 2)
	assert.Equal(t, []interface{}{}, age["choices"])

	registered := filters[1].(map[string]interface{})
	assert.Equal(t, "checkbox", registered["type"])
	assert.Equal(t, false, registered["default"])
	assert.Nil(t, registered["min"])

	value := doc["value"].(map[string]interface{})
	assert.Len(t, value["data"], 5)
}

func TestPixelsAndWidths(t *testing.T) {
	assert.Equal(t, "120px", Pixels(120))

	w, err := NormalizeWidth(80)
	require.NoError(t, err)
	assert.Equal(t, "80px", w)

	w, err = NormalizeWidth(float64(64))
	require.NoError(t, err)
	assert.Equal(t, "64px", w)

	w, err = NormalizeWidth("20%")
	require.NoError(t, err)
	assert.Equal(t, "20%", w)

	_, err = NormalizeWidth(true)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
