// Package dataset provides the in-memory table the leaderboard component
// works on: ordered, named columns of scalar cells with a column kind that is
// fixed when the data is ingested.
//
// A Dataset is never mutated after construction. Callers that need different
// data build a new Dataset and replace the old one wholesale.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a single cell. It holds nil (missing), string, float64, bool or
// time.Time. Use Normalize to coerce other Go scalars into one of these.
type Value = interface{}

// Column is a named, ordered sequence of cells with a kind derived from its
// non-missing values.
type Column struct {
	name   string
	kind   ColumnKind
	values []Value
}

// NewColumn builds a column, normalizing every value.
func NewColumn(name string, values ...Value) (Column, error) {
	normalized := make([]Value, len(values))
	for i, v := range values {
		nv, err := Normalize(v)
		if err != nil {
			return Column{}, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		normalized[i] = nv
	}

	return Column{
		name:   name,
		kind:   KindOf(normalized),
		values: normalized,
	}, nil
}

// MustColumn is NewColumn that panics on error. Intended for tests and
// literals in demo code.
func MustColumn(name string, values ...Value) Column {
	col, err := NewColumn(name, values...)
	if err != nil {
		panic(err)
	}
	return col
}

// Name returns the column header.
func (c Column) Name() string { return c.name }

// Kind returns the kind detected at ingestion.
func (c Column) Kind() ColumnKind { return c.kind }

// Len returns the number of cells.
func (c Column) Len() int { return len(c.values) }

// At returns the cell at row i.
func (c Column) At(i int) Value { return c.values[i] }

// Values returns a copy of the column cells.
func (c Column) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// Dataset is an ordered set of equal-length columns.
type Dataset struct {
	columns []Column
	rows    int
}

// New builds a dataset from headers and row-major cells. Every row must have
// exactly len(headers) cells.
func New(headers []string, rows [][]Value) (*Dataset, error) {
	raw := make([][]Value, len(headers))
	for i := range raw {
		raw[i] = make([]Value, len(rows))
	}

	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedRow, r, len(row), len(headers))
		}
		for c, cell := range row {
			raw[c][r] = cell
		}
	}

	cols := make([]Column, len(headers))
	for i, name := range headers {
		col, err := NewColumn(name, raw[i]...)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	return FromColumns(cols...)
}

// FromColumns builds a dataset from already constructed columns. All columns
// must have the same length.
func FromColumns(cols ...Column) (*Dataset, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for _, col := range cols {
		if col.Len() != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, col.name, col.Len(), rows)
		}
	}

	owned := make([]Column, len(cols))
	copy(owned, cols)

	return &Dataset{columns: owned, rows: rows}, nil
}

// Empty returns a dataset with the given headers and no rows.
func Empty(headers ...string) *Dataset {
	cols := make([]Column, len(headers))
	for i, name := range headers {
		cols[i] = Column{name: name, kind: KindOther}
	}
	return &Dataset{columns: cols}
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Names returns the column headers in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.name
	}
	return names
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Column returns the first column called name.
func (d *Dataset) Column(name string) (Column, error) {
	for _, col := range d.columns {
		if col.name == name {
			return col, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// Has reports whether a column called name exists.
func (d *Dataset) Has(name string) bool {
	_, err := d.Column(name)
	return err == nil
}

// Kind returns the kind of the named column.
func (d *Dataset) Kind(name string) (ColumnKind, error) {
	col, err := d.Column(name)
	if err != nil {
		return KindOther, err
	}
	return col.kind, nil
}

// Rows returns a row-major copy of the cells.
func (d *Dataset) Rows() [][]Value {
	rows := make([][]Value, d.rows)
	for r := range rows {
		row := make([]Value, len(d.columns))
		for c, col := range d.columns {
			row[c] = col.values[r]
		}
		rows[r] = row
	}
	return rows
}

// Head returns a dataset holding at most the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n >= d.rows {
		return d
	}
	if n < 0 {
		n = 0
	}

	cols := make([]Column, len(d.columns))
	for i, col := range d.columns {
		values := make([]Value, n)
		copy(values, col.values[:n])
		cols[i] = Column{name: col.name, kind: KindOf(values), values: values}
	}
	return &Dataset{columns: cols, rows: n}
}

// Normalize coerces a Go scalar into one of the supported cell types.
// Integers and float32 become float64, json.Number is parsed. NaN is treated
// as missing.
func Normalize(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool:
		return x, nil
	case time.Time:
		return x, nil
	case float64:
		if math.IsNaN(x) {
			return nil, nil
		}
		return x, nil
	case float32:
		if math.IsNaN(float64(x)) {
			return nil, nil
		}
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Format renders a cell the way the payload display strings expect.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
