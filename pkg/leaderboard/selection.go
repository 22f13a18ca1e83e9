package leaderboard

// SelectConfig is one of the accepted column selection shapes:
// nil (every column shown, picker hidden), SelectShorthand or SelectColumns.
type SelectConfig interface {
	resolveSelect(columns []string) ColumnSelection
}

// SelectShorthand lists the columns shown by default. The picker is enabled.
type SelectShorthand []string

// SelectColumns is the canonical column selection configuration. Nil
// pointers take their defaults: Allow and ShowLabel default to true.
type SelectColumns struct {
	DefaultSelection []string `mapstructure:"default_selection"`
	CantDeselect     []string `mapstructure:"cant_deselect"`
	Allow            *bool    `mapstructure:"allow"`
	Label            string   `mapstructure:"label"`
	ShowLabel        *bool    `mapstructure:"show_label"`
	Info             string   `mapstructure:"info"`
}

// ColumnSelection is the resolved selection sent to the front end. Every
// column in CantDeselect is also in DefaultSelection.
type ColumnSelection struct {
	DefaultSelection []string `json:"default_selection"`
	CantDeselect     []string `json:"cant_deselect"`
	Allow            bool     `json:"allow"`
	Label            string   `json:"label,omitempty"`
	ShowLabel        bool     `json:"show_label"`
	Info             string   `json:"info,omitempty"`
}

func (s SelectShorthand) resolveSelect(columns []string) ColumnSelection {
	return ColumnSelection{
		DefaultSelection: append([]string{}, s...),
		CantDeselect:     []string{},
		Allow:            true,
		ShowLabel:        true,
	}
}

func (c SelectColumns) resolveSelect(columns []string) ColumnSelection {
	out := ColumnSelection{
		DefaultSelection: append([]string{}, c.DefaultSelection...),
		CantDeselect:     append([]string{}, c.CantDeselect...),
		Allow:            boolOr(c.Allow, true),
		Label:            c.Label,
		ShowLabel:        boolOr(c.ShowLabel, true),
		Info:             c.Info,
	}
	if len(out.DefaultSelection) == 0 {
		out.DefaultSelection = append(out.DefaultSelection, columns...)
	}
	return out
}

func normalizeSelect(cfg SelectConfig, columns []string) ColumnSelection {
	var out ColumnSelection
	if p, ok := cfg.(*SelectColumns); cfg == nil || (ok && p == nil) {
		out = ColumnSelection{
			DefaultSelection: append([]string{}, columns...),
			CantDeselect:     []string{},
			ShowLabel:        true,
		}
	} else {
		out = cfg.resolveSelect(columns)
	}

	// Columns that cannot be deselected must start out selected.
	shown := make(map[string]bool, len(out.DefaultSelection))
	for _, name := range out.DefaultSelection {
		shown[name] = true
	}
	for _, name := range out.CantDeselect {
		if !shown[name] {
			out.DefaultSelection = append(out.DefaultSelection, name)
			shown[name] = true
		}
	}
	return out
}

// DecodeSelect converts a loosely typed value into a SelectConfig.
func DecodeSelect(v interface{}) (SelectConfig, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case SelectConfig:
		return x, nil
	case []string:
		return SelectShorthand(x), nil
	case []interface{}:
		names, err := stringList(x, "select columns")
		if err != nil {
			return nil, err
		}
		return SelectShorthand(names), nil
	case map[string]interface{}:
		var out SelectColumns
		if err := decodeStrict(x, &out); err != nil {
			return nil, ErrInvalidConfiguration.Detail("select columns: %v", err)
		}
		return out, nil
	default:
		return nil, ErrInvalidConfiguration.Detail("select columns: unsupported shape %T", v)
	}
}
