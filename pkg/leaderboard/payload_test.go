package leaderboard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/leaderboard/pkg/dataset"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

func TestDecodeEmptySentinel(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"headers":["a","b"],"data":[[]]}`), &p))

	ds, err := Decode(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())
	assert.Equal(t, 0, ds.NumRows())
}

func TestDecodePositionalHeaders(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"data":[["x",1,true],["y",2,false]]}`), &p))

	ds, err := Decode(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, ds.Names())
	assert.Equal(t, dataset.KindNumeric, ds.Columns()[1].Kind())
	assert.Equal(t, dataset.KindBoolean, ds.Columns()[2].Kind())
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
	}{
		{"ragged row", Payload{Headers: []string{"a", "b"}, Data: [][]dataset.Value{{"x"}}}},
		{"ragged without headers", Payload{Data: [][]dataset.Value{{"x", "y"}, {"z"}}}},
		{"nested cell", Payload{Headers: []string{"a"}, Data: [][]dataset.Value{{map[string]interface{}{}}}}},
		{"metadata rows", Payload{
			Headers:  []string{"a"},
			Data:     [][]dataset.Value{{"x"}},
			Metadata: &Metadata{DisplayValue: [][]string{{"x"}, {"y"}}},
		}},
		{"metadata width", Payload{
			Headers:  []string{"a"},
			Data:     [][]dataset.Value{{"x"}},
			Metadata: &Metadata{Styling: [][]string{{"", ""}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.p)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestEncodePlainDataset(t *testing.T) {
	ds := players(t)
	p, err := Encode(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, ds.Names(), p.Headers)
	assert.Equal(t, ds.Rows(), p.Data)
	assert.Nil(t, p.Metadata)
}

func TestEncodeZeroRows(t *testing.T) {
	p, err := Encode(context.Background(), dataset.Empty("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, Payload{Headers: []string{"a", "b"}, Data: [][]dataset.Value{{}}}, p)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"headers":["a","b"],"data":[[]],"metadata":null}`, string(raw))
}

func TestEncodeNil(t *testing.T) {
	p, err := Encode(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Payload{Headers: []string{"column 1"}, Data: [][]dataset.Value{{}}}, p)

	var ds *dataset.Dataset
	p, err = Encode(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"column 1"}, p.Headers)
}

func TestEncodeUnsupportedSource(t *testing.T) {
	_, err := Encode(context.Background(), []int{1, 2})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestEncodeStyled(t *testing.T) {
	ds, err := dataset.FromColumns(
		dataset.MustColumn("model", "alpha", "beta"),
		dataset.MustColumn("score", 0.91234, 0.5),
	)
	require.NoError(t, err)

	st := styler.New(ds)
	st.Precision(2)
	require.NoError(t, st.Set(0, "model", styler.Decl("color", "red")))
	require.NoError(t, st.Set(1, "score", styler.Decl("font-weight", "bold"), styler.Decl("color", "green")))

	p, err := Encode(context.Background(), st)
	require.NoError(t, err)
	require.NotNil(t, p.Metadata)

	want := &Metadata{
		DisplayValue: [][]string{{"alpha", "0.91"}, {"beta", "0.50"}},
		Styling:      [][]string{{"color: red", ""}, {"", "font-weight: bold; color: green"}},
	}
	if diff := cmp.Diff(want, p.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ds.Rows(), p.Data)
	assert.NoError(t, p.Validate())
}

func TestEncodeStyledZeroRows(t *testing.T) {
	p, err := Encode(context.Background(), styler.New(dataset.Empty("a")))
	require.NoError(t, err)
	assert.Equal(t, [][]dataset.Value{{}}, p.Data)
	require.NotNil(t, p.Metadata)
	assert.Empty(t, p.Metadata.DisplayValue)
	assert.Empty(t, p.Metadata.Styling)
}

// oldStyler reports an engine version below the supported minimum.
type oldStyler struct {
	*styler.Styler
	version string
}

func (o oldStyler) EngineVersion() string { return o.version }

func TestEncodeStyledVersionGate(t *testing.T) {
	base := styler.New(players(t))

	tests := []struct {
		version string
		ok      bool
	}{
		{"v1.5.0", true},
		{"1.5.0", true},
		{"v2.0.1", true},
		{"v1.5", true},
		{"v1.4.9", false},
		{"1.3.0", false},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := Encode(context.Background(), oldStyler{Styler: base, version: tt.version})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnsupportedDependencyVersion)
		})
	}
}

func TestEncodeArrowRecord(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "model", Type: arrow.BinaryTypes.String},
		{Name: "wins", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"alpha", "beta"}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{3, 7}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	p, err := Encode(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "wins"}, p.Headers)
	assert.Equal(t, [][]dataset.Value{{"alpha", 3.0}, {"beta", 7.0}}, p.Data)
}

func TestRoundTrip(t *testing.T) {
	ds := players(t)
	p, err := Encode(context.Background(), ds)
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var back Payload
	require.NoError(t, json.Unmarshal(raw, &back))

	got, err := Decode(back)
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), got.Names())
	assert.Equal(t, ds.Rows(), got.Rows())
}
