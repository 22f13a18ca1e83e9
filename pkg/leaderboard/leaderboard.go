// Package leaderboard implements the server side of a leaderboard table
// component: it normalizes search, column selection and filter
// configuration, infers filter widgets from the data, and converts tables
// to and from the payload exchanged with the front end.
package leaderboard

import (
	"context"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// Presentation defaults.
const (
	DefaultHeight   = 500
	DefaultMinWidth = 160
)

// exampleRows is the number of rows shown for a dataset used as an example.
const exampleRows = 5

// Leaderboard holds a table and its resolved configuration. A Leaderboard is
// not safe for concurrent use; Postprocess replaces the current value.
type Leaderboard struct {
	value    *dataset.Dataset
	datatype []Datatype

	search    SearchColumns
	selection ColumnSelection
	filters   []ResolvedFilter

	hideColumns            []string
	boolCheckboxGroupLabel string
	latexDelimiters        []LatexDelimiter

	label        string
	showLabel    bool
	height       int
	scale        *int
	minWidth     int
	interactive  bool
	visible      bool
	elemID       string
	elemClasses  []string
	wrap         bool
	lineBreaks   bool
	columnWidths []string

	logger logging.Logger
}

// New resolves cfg against value. A nil value is treated as an empty table
// with a single column. Unrecognized configuration shapes fail with
// ErrInvalidConfiguration; columns whose type cannot be inferred are logged
// as warnings.
func New(value *dataset.Dataset, cfg Config) (*Leaderboard, error) {
	if value == nil {
		value = dataset.Empty(emptyColumn)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	logger = logger.WithComponent("leaderboard")

	datatype, err := resolveDatatypes(cfg.Datatype, value.NumColumns())
	if err != nil {
		return nil, err
	}

	l := &Leaderboard{
		value:                  value,
		datatype:               datatype,
		search:                 normalizeSearch(cfg.Search),
		selection:              normalizeSelect(cfg.Select, value.Names()),
		hideColumns:            append([]string{}, cfg.HideColumns...),
		boolCheckboxGroupLabel: cfg.BoolCheckboxGroupLabel,
		latexDelimiters:        cfg.LatexDelimiters,
		label:                  cfg.Label,
		showLabel:              boolOr(cfg.ShowLabel, true),
		height:                 cfg.Height,
		scale:                  cfg.Scale,
		minWidth:               cfg.MinWidth,
		interactive:            cfg.Interactive,
		visible:                boolOr(cfg.Visible, true),
		elemID:                 cfg.ElemID,
		elemClasses:            append([]string{}, cfg.ElemClasses...),
		wrap:                   cfg.Wrap,
		lineBreaks:             boolOr(cfg.LineBreaks, true),
		columnWidths:           append([]string{}, cfg.ColumnWidths...),
		logger:                 logger,
	}
	if l.latexDelimiters == nil {
		l.latexDelimiters = DefaultLatexDelimiters()
	}
	if l.height == 0 {
		l.height = DefaultHeight
	}
	if l.minWidth == 0 {
		l.minWidth = DefaultMinWidth
	}

	filters, err := l.resolveFilters(context.Background(), cfg.Filters)
	if err != nil {
		return nil, err
	}
	l.filters = filters

	return l, nil
}

func (l *Leaderboard) resolveFilters(ctx context.Context, columns []FilterColumn) ([]ResolvedFilter, error) {
	out := make([]ResolvedFilter, 0, len(columns))
	for i, fc := range columns {
		if fc == nil {
			return nil, ErrInvalidConfiguration.Detail("filter columns: entry %d is nil", i)
		}
		partial := fc.columnFilter()

		col, err := l.value.Column(partial.Column)
		if err != nil {
			return nil, ErrInvalidConfiguration.Detail("filter on unknown column %q", partial.Column).WithColumn(partial.Column)
		}

		f, err := resolveFilter(partial, inferFilter(ctx, col, l.logger))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Search returns the resolved search configuration.
func (l *Leaderboard) Search() SearchColumns {
	return l.search.resolveSearch()
}

// Selection returns the resolved column selection.
func (l *Leaderboard) Selection() ColumnSelection {
	out := l.selection
	out.DefaultSelection = append([]string{}, l.selection.DefaultSelection...)
	out.CantDeselect = append([]string{}, l.selection.CantDeselect...)
	return out
}

// Filters returns the resolved filters in configuration order.
func (l *Leaderboard) Filters() []ResolvedFilter {
	out := make([]ResolvedFilter, len(l.filters))
	for i, f := range l.filters {
		f.Choices = append([]Choice{}, f.Choices...)
		if sel, ok := f.Default.(Selection); ok {
			f.Default = append(Selection{}, sel...)
		}
		f.Min = copyFloat(f.Min)
		f.Max = copyFloat(f.Max)
		out[i] = f
	}
	return out
}

// Value returns the current table.
func (l *Leaderboard) Value() *dataset.Dataset {
	return l.value
}

// Headers returns the column names of the current table.
func (l *Leaderboard) Headers() []string {
	return l.value.Names()
}

// Interactive reports whether the component accepts edits.
func (l *Leaderboard) Interactive() bool {
	return l.interactive
}

// Preprocess decodes a payload sent by the front end.
func (l *Leaderboard) Preprocess(p Payload) (*dataset.Dataset, error) {
	return Decode(p)
}

// Postprocess encodes value for the front end and, on success, makes its
// table the current value. Styles of a StyledTable are dropped with a
// warning when the component is interactive.
func (l *Leaderboard) Postprocess(ctx context.Context, value interface{}) (Payload, error) {
	p, ds, err := l.encoder().encode(ctx, value)
	if err != nil {
		return Payload{}, err
	}
	l.value = ds
	return p, nil
}

// ProcessExample returns the first rows of value for display in an examples
// gallery. A nil value yields nil.
func (l *Leaderboard) ProcessExample(ctx context.Context, value interface{}) ([][]dataset.Value, error) {
	if value == nil {
		return nil, nil
	}
	_, ds, err := l.encoder().encode(ctx, value)
	if err != nil {
		return nil, err
	}
	return ds.Head(exampleRows).Rows(), nil
}

// ExamplePayload returns a small payload for documentation and API
// discovery.
func (l *Leaderboard) ExamplePayload() Payload {
	return Payload{
		Headers: []string{"a", "b"},
		Data:    [][]dataset.Value{{"foo", "bar"}},
	}
}

// ExampleValue returns the dataset decoded from ExamplePayload.
func (l *Leaderboard) ExampleValue() *dataset.Dataset {
	ds, err := Decode(l.ExamplePayload())
	if err != nil {
		panic(err)
	}
	return ds
}

func (l *Leaderboard) encoder() encoder {
	return encoder{interactive: l.interactive, logger: l.logger}
}
