package leaderboard

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// FilterKind is the front-end widget used for a column filter.
type FilterKind string

const (
	FilterSlider        FilterKind = "slider"
	FilterDropdown      FilterKind = "dropdown"
	FilterCheckboxGroup FilterKind = "checkboxgroup"
	FilterCheckbox      FilterKind = "checkbox"

	// FilterBoolean is accepted as an alias of FilterCheckbox.
	FilterBoolean FilterKind = "boolean"
)

func (k FilterKind) valid() bool {
	switch k {
	case FilterSlider, FilterDropdown, FilterCheckboxGroup, FilterCheckbox:
		return true
	default:
		return false
	}
}

// Choice is a selectable filter option, sent as [label, value].
type Choice struct {
	Label string
	Value dataset.Value
}

// ChoiceOf builds a choice whose label is the formatted value.
func ChoiceOf(v dataset.Value) Choice {
	return Choice{Label: dataset.Format(v), Value: v}
}

// MarshalJSON encodes the choice as a two element array.
func (c Choice) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{c.Label, c.Value})
}

// UnmarshalJSON accepts [label, value] or a bare value.
func (c *Choice) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	choice, err := decodeChoice(raw)
	if err != nil {
		return err
	}
	*c = choice
	return nil
}

// FilterDefault is the initial state of a filter widget: Checked, Range or
// Selection.
type FilterDefault interface {
	isFilterDefault()
}

// Checked is the default of a checkbox filter.
type Checked bool

// Range is the default of a slider filter.
type Range struct {
	Low  float64
	High float64
}

// MarshalJSON encodes the range as [low, high].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

// Selection is the default of a dropdown or checkbox group filter.
type Selection []Choice

func (Checked) isFilterDefault()   {}
func (Range) isFilterDefault()     {}
func (Selection) isFilterDefault() {}

// FilterColumn is an entry of Config.Filters: a FilterName or a ColumnFilter.
type FilterColumn interface {
	columnFilter() ColumnFilter
}

// FilterName filters a column with every setting inferred from its data.
type FilterName string

// ColumnFilter configures one filter. Zero fields are inferred from the
// column data.
type ColumnFilter struct {
	Column      string
	Kind        FilterKind
	Default     FilterDefault
	Choices     []Choice
	Label       string
	ShowLabel   *bool
	Info        string
	GreaterThan bool

	// Min and Max are replaced by the data bounds when the column is
	// numeric.
	Min *float64
	Max *float64
}

func (n FilterName) columnFilter() ColumnFilter { return ColumnFilter{Column: string(n)} }

func (f ColumnFilter) columnFilter() ColumnFilter { return f }

// ResolvedFilter is a filter with every field decided.
type ResolvedFilter struct {
	Column      string        `json:"column"`
	Kind        FilterKind    `json:"type"`
	Default     FilterDefault `json:"default"`
	Choices     []Choice      `json:"choices"`
	Label       string        `json:"label,omitempty"`
	ShowLabel   bool          `json:"show_label"`
	Info        string        `json:"info,omitempty"`
	GreaterThan bool          `json:"greater_than"`
	Min         *float64      `json:"min"`
	Max         *float64      `json:"max"`
}

// resolveFilter merges the caller's partial filter with the settings
// inferred from the data. Values the caller set win, except that slider
// bounds always come from the data. Neither argument is modified.
func resolveFilter(partial ColumnFilter, inf inferred) (ResolvedFilter, error) {
	kind := partial.Kind
	if kind == FilterBoolean {
		kind = FilterCheckbox
	}
	if kind == "" {
		kind = inf.Kind
	}
	if !kind.valid() {
		return ResolvedFilter{}, ErrInvalidConfiguration.Detail("unknown filter type %q", partial.Kind).WithColumn(partial.Column)
	}

	out := ResolvedFilter{
		Column:      partial.Column,
		Kind:        kind,
		Default:     partial.Default,
		Label:       partial.Label,
		ShowLabel:   boolOr(partial.ShowLabel, true),
		Info:        partial.Info,
		GreaterThan: partial.GreaterThan,
		Min:         copyFloat(partial.Min),
		Max:         copyFloat(partial.Max),
	}
	if out.Default == nil {
		out.Default = inf.Default
	}
	if partial.Choices != nil {
		out.Choices = append([]Choice{}, partial.Choices...)
	} else {
		out.Choices = append([]Choice{}, inf.Choices...)
	}
	if inf.Kind == FilterSlider {
		out.Min = copyFloat(inf.Min)
		out.Max = copyFloat(inf.Max)
	}
	return out, nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DecodeFilters converts a loosely typed list into filter columns. Entries
// are column names or objects with the keys of ResolvedFilter.
func DecodeFilters(v interface{}) ([]FilterColumn, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []FilterColumn:
		return x, nil
	case []string:
		out := make([]FilterColumn, len(x))
		for i, name := range x {
			out[i] = FilterName(name)
		}
		return out, nil
	case []interface{}:
		out := make([]FilterColumn, 0, len(x))
		for i, item := range x {
			f, err := decodeFilter(item)
			if err != nil {
				return nil, ErrInvalidConfiguration.Detail("filter columns: entry %d: %v", i, err)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, ErrInvalidConfiguration.Detail("filter columns: unsupported shape %T", v)
	}
}

type rawFilter struct {
	Column      string        `mapstructure:"column"`
	Type        string        `mapstructure:"type"`
	Default     interface{}   `mapstructure:"default"`
	Choices     []interface{} `mapstructure:"choices"`
	Label       string        `mapstructure:"label"`
	ShowLabel   *bool         `mapstructure:"show_label"`
	Info        string        `mapstructure:"info"`
	GreaterThan bool          `mapstructure:"greater_than"`
	Min         *float64      `mapstructure:"min"`
	Max         *float64      `mapstructure:"max"`
}

func decodeFilter(item interface{}) (FilterColumn, error) {
	switch x := item.(type) {
	case string:
		return FilterName(x), nil
	case FilterColumn:
		return x, nil
	case map[string]interface{}:
		var raw rawFilter
		if err := decodeStrict(x, &raw); err != nil {
			return nil, err
		}
		if raw.Column == "" {
			return nil, fmt.Errorf("missing column")
		}

		def, err := decodeDefault(raw.Default)
		if err != nil {
			return nil, err
		}
		var choices []Choice
		if raw.Choices != nil {
			choices = make([]Choice, 0, len(raw.Choices))
			for _, c := range raw.Choices {
				choice, err := decodeChoice(c)
				if err != nil {
					return nil, err
				}
				choices = append(choices, choice)
			}
		}

		return ColumnFilter{
			Column:      raw.Column,
			Kind:        FilterKind(raw.Type),
			Default:     def,
			Choices:     choices,
			Label:       raw.Label,
			ShowLabel:   raw.ShowLabel,
			Info:        raw.Info,
			GreaterThan: raw.GreaterThan,
			Min:         raw.Min,
			Max:         raw.Max,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported shape %T", item)
	}
}

// decodeDefault maps true/false to Checked, a pair of numbers to Range and
// any other list to Selection.
func decodeDefault(v interface{}) (FilterDefault, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case FilterDefault:
		return x, nil
	case bool:
		return Checked(x), nil
	case string:
		return Selection{ChoiceOf(x)}, nil
	case []interface{}:
		if len(x) == 2 {
			lo, okLo := number(x[0])
			hi, okHi := number(x[1])
			if okLo && okHi {
				return Range{Low: lo, High: hi}, nil
			}
		}
		sel := make(Selection, 0, len(x))
		for _, item := range x {
			choice, err := decodeChoice(item)
			if err != nil {
				return nil, err
			}
			sel = append(sel, choice)
		}
		return sel, nil
	default:
		return nil, fmt.Errorf("unsupported default %T", v)
	}
}

func decodeChoice(v interface{}) (Choice, error) {
	if pair, ok := v.([]interface{}); ok {
		if len(pair) != 2 {
			return Choice{}, fmt.Errorf("choice must be [label, value], got %d entries", len(pair))
		}
		label, ok := pair[0].(string)
		if !ok {
			return Choice{}, fmt.Errorf("choice label is %T, want string", pair[0])
		}
		value, err := dataset.Normalize(pair[1])
		if err != nil {
			return Choice{}, err
		}
		return Choice{Label: label, Value: value}, nil
	}

	value, err := dataset.Normalize(v)
	if err != nil {
		return Choice{}, err
	}
	return ChoiceOf(value), nil
}

func number(v interface{}) (float64, bool) {
	n, err := dataset.Normalize(v)
	if err != nil {
		return 0, false
	}
	f, ok := n.(float64)
	return f, ok
}
