package leaderboard

import (
	"github.com/go-viper/mapstructure/v2"
)

// SearchConfig is one of the accepted search configuration shapes:
// nil (no search), SearchShorthand or SearchColumns.
type SearchConfig interface {
	resolveSearch() SearchColumns
}

// SearchShorthand lists the searched columns. The first one is the primary
// column and the rest are secondary. An empty list means no search.
type SearchShorthand []string

// SearchColumns is the canonical search configuration.
type SearchColumns struct {
	PrimaryColumn    string   `json:"primary_column" mapstructure:"primary_column"`
	SecondaryColumns []string `json:"secondary_columns" mapstructure:"secondary_columns"`
	Label            string   `json:"label,omitempty" mapstructure:"label"`
	Placeholder      string   `json:"placeholder,omitempty" mapstructure:"placeholder"`
}

// Enabled reports whether the configuration names a column to search.
func (c SearchColumns) Enabled() bool {
	return c.PrimaryColumn != ""
}

func (s SearchShorthand) resolveSearch() SearchColumns {
	if len(s) == 0 {
		return SearchColumns{SecondaryColumns: []string{}}
	}
	secondary := make([]string, len(s)-1)
	copy(secondary, s[1:])
	return SearchColumns{PrimaryColumn: s[0], SecondaryColumns: secondary}
}

func (c SearchColumns) resolveSearch() SearchColumns {
	out := c
	out.SecondaryColumns = make([]string, len(c.SecondaryColumns))
	copy(out.SecondaryColumns, c.SecondaryColumns)
	return out
}

func normalizeSearch(cfg SearchConfig) SearchColumns {
	if cfg == nil {
		return SearchColumns{SecondaryColumns: []string{}}
	}
	if p, ok := cfg.(*SearchColumns); ok && p == nil {
		return SearchColumns{SecondaryColumns: []string{}}
	}
	return cfg.resolveSearch()
}

// DecodeSearch converts a loosely typed value, as produced by a YAML or JSON
// decoder, into a SearchConfig.
func DecodeSearch(v interface{}) (SearchConfig, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case SearchConfig:
		return x, nil
	case []string:
		return SearchShorthand(x), nil
	case []interface{}:
		names, err := stringList(x, "search columns")
		if err != nil {
			return nil, err
		}
		return SearchShorthand(names), nil
	case map[string]interface{}:
		var out SearchColumns
		if err := decodeStrict(x, &out); err != nil {
			return nil, ErrInvalidConfiguration.Detail("search columns: %v", err)
		}
		return out, nil
	default:
		return nil, ErrInvalidConfiguration.Detail("search columns: unsupported shape %T", v)
	}
}

func decodeStrict(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func stringList(items []interface{}, what string) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, ErrInvalidConfiguration.Detail("%s: entry %d is %T, want string", what, i, item)
		}
		out[i] = s
	}
	return out, nil
}
