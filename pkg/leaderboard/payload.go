package leaderboard

import (
	"strconv"

	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// Payload is the wire representation of a table exchanged with the front
// end. A table with no rows is sent as a single empty row, [[]].
type Payload struct {
	Headers  []string          `json:"headers"`
	Data     [][]dataset.Value `json:"data"`
	Metadata *Metadata         `json:"metadata"`
}

// Metadata carries per-cell display strings and CSS for styled tables.
// Both grids have one entry per data cell; row heading cells are excluded.
type Metadata struct {
	DisplayValue [][]string `json:"display_value"`
	Styling      [][]string `json:"styling"`
}

// emptyRows is the zero-row sentinel.
func emptyRows() [][]dataset.Value {
	return [][]dataset.Value{{}}
}

func isEmptySentinel(data [][]dataset.Value) bool {
	return len(data) == 1 && len(data[0]) == 0
}

// RowCount returns the number of data rows, treating the sentinel as zero.
func (p Payload) RowCount() int {
	if isEmptySentinel(p.Data) {
		return 0
	}
	return len(p.Data)
}

// Validate checks that every row, and every metadata row, matches the header
// width. Missing headers take the width of the first row.
func (p Payload) Validate() error {
	rows := p.Data
	if isEmptySentinel(rows) {
		rows = nil
	}

	width := len(p.Headers)
	if p.Headers == nil && len(rows) > 0 {
		width = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != width {
			return ErrInvalidPayload.Detail("row %d has %d cells, want %d", i, len(row), width)
		}
	}

	if p.Metadata == nil {
		return nil
	}
	for name, grid := range map[string][][]string{
		"display_value": p.Metadata.DisplayValue,
		"styling":       p.Metadata.Styling,
	} {
		if grid == nil {
			continue
		}
		if len(grid) != len(rows) {
			return ErrInvalidPayload.Detail("metadata %s has %d rows, want %d", name, len(grid), len(rows))
		}
		for i, row := range grid {
			if len(row) != width {
				return ErrInvalidPayload.Detail("metadata %s row %d has %d cells, want %d", name, i, len(row), width)
			}
		}
	}
	return nil
}

// Decode turns an inbound payload into a dataset. Without headers, columns
// are named by position: "0", "1", and so on. Metadata is ignored.
func Decode(p Payload) (*dataset.Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows := p.Data
	if isEmptySentinel(rows) {
		rows = nil
	}

	headers := p.Headers
	if headers == nil {
		width := 0
		if len(rows) > 0 {
			width = len(rows[0])
		}
		headers = make([]string, width)
		for i := range headers {
			headers[i] = strconv.Itoa(i)
		}
	}

	ds, err := dataset.New(headers, rows)
	if err != nil {
		return nil, ErrInvalidPayload.Detail("%v", err)
	}
	return ds, nil
}

// EncodeDataset builds the plain payload of ds, without metadata.
func EncodeDataset(ds *dataset.Dataset) Payload {
	data := ds.Rows()
	if len(data) == 0 {
		data = emptyRows()
	}
	return Payload{Headers: ds.Names(), Data: data}
}
