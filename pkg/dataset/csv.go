package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// missingMarkers are the cell spellings read as missing values.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"#N/A": {},
	"#NA":  {},
	"<NA>": {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"n/a":  {},
}

// ReadCSV loads a comma separated file whose first record is the header.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// ParseCSV reads a delimited table from r. Column cells are typed as a
// whole: a column whose present cells all parse as numbers becomes numeric,
// one whose cells are all True/False becomes boolean, anything else stays
// text.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return Empty(), nil
	}

	headers := records[0]
	body := records[1:]

	cols := make([]Column, len(headers))
	for c, name := range headers {
		raw := make([]string, len(body))
		for r, record := range body {
			raw[r] = record[c]
		}
		col, err := NewColumn(name, ParseColumn(raw)...)
		if err != nil {
			return nil, err
		}
		cols[c] = col
	}

	return FromColumns(cols...)
}

// ParseColumn types a column of raw text cells.
func ParseColumn(raw []string) []Value {
	out := make([]Value, len(raw))

	allNumbers, allBools, present := true, true, 0
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if isMissing(s) {
			continue
		}
		present++
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allNumbers = false
		}
		if _, ok := parseBool(s); !ok {
			allBools = false
		}
	}

	for i, s := range raw {
		trimmed := strings.TrimSpace(s)
		if isMissing(trimmed) {
			out[i] = nil
			continue
		}
		switch {
		case present > 0 && allNumbers:
			f, _ := strconv.ParseFloat(trimmed, 64)
			out[i] = f
		case present > 0 && allBools:
			b, _ := parseBool(trimmed)
			out[i] = b
		default:
			out[i] = s
		}
	}
	return out
}

func isMissing(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	default:
		return false, false
	}
}
