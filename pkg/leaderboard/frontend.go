package leaderboard

// FrontendConfig is the configuration document sent to the front end when
// the component is mounted.
type FrontendConfig struct {
	RowCount               []interface{}    `json:"row_count"`
	ColCount               []interface{}    `json:"col_count"`
	Headers                []string         `json:"headers"`
	Datatype               []Datatype       `json:"datatype"`
	SearchColumns          SearchColumns    `json:"search_columns"`
	SelectColumns          ColumnSelection  `json:"select_columns"`
	FilterColumns          []ResolvedFilter `json:"filter_columns"`
	HideColumns            []string         `json:"hide_columns"`
	BoolCheckboxGroupLabel string           `json:"bool_checkboxgroup_label,omitempty"`
	LatexDelimiters        []LatexDelimiter `json:"latex_delimiters"`
	Label                  string           `json:"label,omitempty"`
	ShowLabel              bool             `json:"show_label"`
	Height                 int              `json:"height"`
	Scale                  *int             `json:"scale"`
	MinWidth               int              `json:"min_width"`
	Interactive            bool             `json:"interactive"`
	Visible                bool             `json:"visible"`
	ElemID                 string           `json:"elem_id,omitempty"`
	ElemClasses            []string         `json:"elem_classes"`
	Wrap                   bool             `json:"wrap"`
	LineBreaks             bool             `json:"line_breaks"`
	ColumnWidths           []string         `json:"column_widths"`
	Value                  Payload          `json:"value"`
}

// FrontendConfig returns the mount configuration for the current value.
func (l *Leaderboard) FrontendConfig() FrontendConfig {
	return FrontendConfig{
		RowCount:               []interface{}{l.value.NumRows(), "fixed"},
		ColCount:               []interface{}{l.value.NumColumns(), "fixed"},
		Headers:                l.value.Names(),
		Datatype:               l.columnDatatypes(),
		SearchColumns:          l.Search(),
		SelectColumns:          l.Selection(),
		FilterColumns:          l.Filters(),
		HideColumns:            append([]string{}, l.hideColumns...),
		BoolCheckboxGroupLabel: l.boolCheckboxGroupLabel,
		LatexDelimiters:        append([]LatexDelimiter{}, l.latexDelimiters...),
		Label:                  l.label,
		ShowLabel:              l.showLabel,
		Height:                 l.height,
		Scale:                  l.scale,
		MinWidth:               l.minWidth,
		Interactive:            l.interactive,
		Visible:                l.visible,
		ElemID:                 l.elemID,
		ElemClasses:            append([]string{}, l.elemClasses...),
		Wrap:                   l.wrap,
		LineBreaks:             l.lineBreaks,
		ColumnWidths:           append([]string{}, l.columnWidths...),
		Value:                  EncodeDataset(l.value),
	}
}

// columnDatatypes fits the configured tags to the current column count,
// which changes when Postprocess swaps in a table of a different width.
func (l *Leaderboard) columnDatatypes() []Datatype {
	n := l.value.NumColumns()
	if len(l.datatype) == n {
		return append([]Datatype{}, l.datatype...)
	}
	fill := DatatypeStr
	if uniform(l.datatype) {
		fill = l.datatype[0]
	}
	out := make([]Datatype, n)
	for i := range out {
		out[i] = fill
		if i < len(l.datatype) {
			out[i] = l.datatype[i]
		}
	}
	return out
}

func uniform(tags []Datatype) bool {
	if len(tags) == 0 {
		return false
	}
	for _, t := range tags[1:] {
		if t != tags[0] {
			return false
		}
	}
	return true
}
