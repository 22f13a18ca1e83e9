// Package styler pairs a dataset with per-cell presentation: display string
// overrides and CSS-like declarations attached to cell ids.
//
// The leaderboard codec only consumes the capability surface (CellGrid,
// StyleRulesFor, Data, EngineVersion); Styler is the implementation shipped
// with this module, and ParseHTML builds one from a rendered HTML table.
package styler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// Version is the styling engine version reported by Styler.
const Version = "v1.5.0"

// CellKind distinguishes header cells from data cells in the grid.
type CellKind string

const (
	// KindHeader marks row and column heading cells.
	KindHeader CellKind = "th"
	// KindData marks body cells holding dataset values.
	KindData CellKind = "td"
)

// Cell is one entry of the computed cell grid.
type Cell struct {
	Kind         CellKind
	ID           string
	DisplayValue string
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// String renders the declaration as "prop: value".
func (d Declaration) String() string {
	return d.Property + ": " + d.Value
}

// Decl is a shorthand constructor for a Declaration.
func Decl(property, value string) Declaration {
	return Declaration{Property: property, Value: value}
}

// Rule attaches declarations to every cell id listed in Selectors.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Formatter turns a cell into its display string.
type Formatter func(dataset.Value) string

type cellKey struct {
	row, col int
}

// Styler is a dataset plus presentation rules.
type Styler struct {
	data       *dataset.Dataset
	formatters map[int]Formatter
	display    map[cellKey]string
	precision  int
	rules      []Rule
	version    string
}

// New wraps ds with no presentation rules.
func New(ds *dataset.Dataset) *Styler {
	return &Styler{
		data:       ds,
		formatters: make(map[int]Formatter),
		display:    make(map[cellKey]string),
		precision:  -1,
		version:    Version,
	}
}

// Data returns the underlying dataset.
func (s *Styler) Data() *dataset.Dataset { return s.data }

// EngineVersion returns the styling engine version.
func (s *Styler) EngineVersion() string { return s.version }

// Rules returns the rules in declaration order.
func (s *Styler) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Precision sets the number of decimals used to display numeric cells that
// have no column formatter. A negative value restores the default.
func (s *Styler) Precision(digits int) {
	s.precision = digits
}

// Format installs a display formatter for a column.
func (s *Styler) Format(column string, fn Formatter) error {
	idx, err := s.columnIndex(column)
	if err != nil {
		return err
	}
	s.formatters[idx] = fn
	return nil
}

// AddRule appends a rule. Rules are evaluated in the order they were added.
func (s *Styler) AddRule(selectors []string, decls ...Declaration) {
	sel := make([]string, len(selectors))
	copy(sel, selectors)
	d := make([]Declaration, len(decls))
	copy(d, decls)
	s.rules = append(s.rules, Rule{Selectors: sel, Declarations: d})
}

// Set attaches declarations to a single data cell.
func (s *Styler) Set(row int, column string, decls ...Declaration) error {
	idx, err := s.columnIndex(column)
	if err != nil {
		return err
	}
	if row < 0 || row >= s.data.NumRows() {
		return fmt.Errorf("row %d out of range [0, %d)", row, s.data.NumRows())
	}
	s.AddRule([]string{CellID(row, idx)}, decls...)
	return nil
}

// Map calls fn for every cell of column and attaches the returned
// declarations, if any, to that cell.
func (s *Styler) Map(column string, fn func(dataset.Value) []Declaration) error {
	col, err := s.data.Column(column)
	if err != nil {
		return err
	}
	idx, _ := s.columnIndex(column)
	for r := 0; r < col.Len(); r++ {
		if decls := fn(col.At(r)); len(decls) > 0 {
			s.AddRule([]string{CellID(r, idx)}, decls...)
		}
	}
	return nil
}

// CellGrid computes one row per dataset row: a row heading cell followed by
// one data cell per column.
func (s *Styler) CellGrid() [][]Cell {
	cols := s.data.Columns()
	grid := make([][]Cell, s.data.NumRows())

	for r := range grid {
		row := make([]Cell, 0, len(cols)+1)
		row = append(row, Cell{
			Kind:         KindHeader,
			ID:           fmt.Sprintf("level0_row%d", r),
			DisplayValue: strconv.Itoa(r),
		})
		for c, col := range cols {
			row = append(row, Cell{
				Kind:         KindData,
				ID:           CellID(r, c),
				DisplayValue: s.displayValue(r, c, col.At(r)),
			})
		}
		grid[r] = row
	}

	return grid
}

// StyleRulesFor returns the declarations of every rule that targets id, in
// rule order.
func (s *Styler) StyleRulesFor(id string) []Declaration {
	var out []Declaration
	for _, rule := range s.rules {
		for _, sel := range rule.Selectors {
			if sel == id {
				out = append(out, rule.Declarations...)
				break
			}
		}
	}
	return out
}

// CellID is the id of the data cell at row, col.
func CellID(row, col int) string {
	return fmt.Sprintf("row%d_col%d", row, col)
}

// JoinDeclarations renders declarations as "prop: value; prop: value".
func JoinDeclarations(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}

func (s *Styler) displayValue(row, col int, v dataset.Value) string {
	if text, ok := s.display[cellKey{row, col}]; ok {
		return text
	}
	if fn, ok := s.formatters[col]; ok {
		return fn(v)
	}
	if f, ok := v.(float64); ok && s.precision >= 0 {
		return strconv.FormatFloat(f, 'f', s.precision, 64)
	}
	return dataset.Format(v)
}

func (s *Styler) columnIndex(column string) (int, error) {
	for i, name := range s.data.Names() {
		if name == column {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, column)
}
