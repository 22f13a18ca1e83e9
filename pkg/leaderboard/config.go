package leaderboard

import (
	"fmt"

	"github.com/conneroisu/leaderboard/internal/logging"
)

// Datatype is the front-end rendering type of a column.
type Datatype string

const (
	DatatypeStr      Datatype = "str"
	DatatypeNumber   Datatype = "number"
	DatatypeBool     Datatype = "bool"
	DatatypeDate     Datatype = "date"
	DatatypeMarkdown Datatype = "markdown"
	DatatypeHTML     Datatype = "html"
)

func (d Datatype) valid() bool {
	switch d {
	case DatatypeStr, DatatypeNumber, DatatypeBool, DatatypeDate, DatatypeMarkdown, DatatypeHTML:
		return true
	default:
		return false
	}
}

// LatexDelimiter marks a span of markdown cell text to render as math.
type LatexDelimiter struct {
	Left    string `json:"left" mapstructure:"left"`
	Right   string `json:"right" mapstructure:"right"`
	Display bool   `json:"display" mapstructure:"display"`
}

// DefaultLatexDelimiters renders $$...$$ spans on their own line.
func DefaultLatexDelimiters() []LatexDelimiter {
	return []LatexDelimiter{{Left: "$$", Right: "$$", Display: true}}
}

// Config is the construction-time configuration of a Leaderboard. The zero
// value is usable: no search, no column selection, no filters.
type Config struct {
	// Datatype holds one tag applied to every column, or one tag per column.
	// Empty means "str" everywhere.
	Datatype []Datatype

	Search  SearchConfig
	Select  SelectConfig
	Filters []FilterColumn

	// BoolCheckboxGroupLabel labels the group of boolean checkbox filters.
	BoolCheckboxGroupLabel string

	// HideColumns are hidden from display but stay searchable and filterable.
	HideColumns []string

	// LatexDelimiters applies to markdown columns. nil selects
	// DefaultLatexDelimiters; an empty non-nil slice disables math rendering.
	LatexDelimiters []LatexDelimiter

	// Presentation knobs passed through to the host unchanged.
	Label        string
	ShowLabel    *bool
	Height       int
	Scale        *int
	MinWidth     int
	Interactive  bool
	Visible      *bool
	ElemID       string
	ElemClasses  []string
	Wrap         bool
	LineBreaks   *bool
	ColumnWidths []string

	// Logger receives non-fatal diagnostics. nil uses a stderr logger.
	Logger logging.Logger
}

// Bool returns a pointer to v, for the optional fields of Config,
// SelectColumns and ColumnFilter.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Pixels converts a pixel count into a column width.
func Pixels(n int) string {
	return fmt.Sprintf("%dpx", n)
}

// NormalizeWidth accepts a width from a loosely typed configuration source:
// integers become pixel widths, strings are used as-is.
func NormalizeWidth(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return Pixels(x), nil
	case int64:
		return Pixels(int(x)), nil
	case float64:
		if x != float64(int(x)) {
			return "", ErrInvalidConfiguration.Detail("column width %v is not a whole number of pixels", x)
		}
		return Pixels(int(x)), nil
	default:
		return "", ErrInvalidConfiguration.Detail("column width: unsupported shape %T", v)
	}
}

func resolveDatatypes(tags []Datatype, columns int) ([]Datatype, error) {
	if len(tags) == 0 {
		tags = []Datatype{DatatypeStr}
	}
	for _, tag := range tags {
		if !tag.valid() {
			return nil, ErrInvalidConfiguration.Detail("unknown datatype %q", tag)
		}
	}

	switch len(tags) {
	case columns:
		out := make([]Datatype, columns)
		copy(out, tags)
		return out, nil
	case 1:
		out := make([]Datatype, columns)
		for i := range out {
			out[i] = tags[0]
		}
		return out, nil
	default:
		return nil, ErrInvalidConfiguration.Detail("%d datatypes given for %d columns", len(tags), columns)
	}
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
