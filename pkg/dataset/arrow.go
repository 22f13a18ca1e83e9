package dataset

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// FromArrow converts an Arrow record batch into a dataset. Integer and
// floating point columns become numeric, dates and timestamps become
// time.Time cells.
func FromArrow(rec arrow.Record) (*Dataset, error) {
	schema := rec.Schema()
	cols := make([]Column, 0, int(rec.NumCols()))

	for i, field := range schema.Fields() {
		values, err := arrowValues(rec.Column(i))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		col, err := NewColumn(field.Name, values...)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return FromColumns(cols...)
}

// ReadArrowIPC loads every record batch of an Arrow IPC file and
// concatenates them into one dataset.
func ReadArrowIPC(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rdr, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("reading arrow file %s: %w", path, err)
	}
	defer rdr.Close()

	names := make([]string, 0, len(rdr.Schema().Fields()))
	for _, field := range rdr.Schema().Fields() {
		names = append(names, field.Name)
	}

	var rows [][]Value
	for i := 0; i < rdr.NumRecords(); i++ {
		rec, err := rdr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("reading record %d of %s: %w", i, path, err)
		}
		batch, err := FromArrow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch.Rows()...)
	}

	return New(names, rows)
}

func arrowValues(arr arrow.Array) ([]Value, error) {
	out := make([]Value, arr.Len())

	for i := range out {
		if arr.IsNull(i) {
			continue
		}

		switch a := arr.(type) {
		case *array.Boolean:
			out[i] = a.Value(i)
		case *array.Int8:
			out[i] = float64(a.Value(i))
		case *array.Int16:
			out[i] = float64(a.Value(i))
		case *array.Int32:
			out[i] = float64(a.Value(i))
		case *array.Int64:
			out[i] = float64(a.Value(i))
		case *array.Uint8:
			out[i] = float64(a.Value(i))
		case *array.Uint16:
			out[i] = float64(a.Value(i))
		case *array.Uint32:
			out[i] = float64(a.Value(i))
		case *array.Uint64:
			out[i] = float64(a.Value(i))
		case *array.Float32:
			out[i] = float64(a.Value(i))
		case *array.Float64:
			out[i] = a.Value(i)
		case *array.String:
			out[i] = a.Value(i)
		case *array.LargeString:
			out[i] = a.Value(i)
		case *array.Date32:
			out[i] = a.Value(i).ToTime()
		case *array.Date64:
			out[i] = a.Value(i).ToTime()
		case *array.Timestamp:
			unit := a.DataType().(*arrow.TimestampType).Unit
			out[i] = a.Value(i).ToTime(unit)
		default:
			return nil, fmt.Errorf("%w: arrow type %s", ErrUnsupportedValue, arr.DataType())
		}
	}

	return out, nil
}
