package services

import (
	"context"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/pkg/dataset"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

// BuildComponentConfig turns the loosely typed component section into a
// leaderboard.Config. Shape errors are reported as
// leaderboard.ErrInvalidConfiguration.
func BuildComponentConfig(cc config.ComponentConfig, logger logging.Logger) (leaderboard.Config, error) {
	search, err := leaderboard.DecodeSearch(cc.Search)
	if err != nil {
		return leaderboard.Config{}, err
	}
	sel, err := leaderboard.DecodeSelect(cc.Select)
	if err != nil {
		return leaderboard.Config{}, err
	}
	filters, err := leaderboard.DecodeFilters(cc.Filters)
	if err != nil {
		return leaderboard.Config{}, err
	}

	var widths []string
	for _, w := range cc.ColumnWidths {
		width, err := leaderboard.NormalizeWidth(w)
		if err != nil {
			return leaderboard.Config{}, err
		}
		widths = append(widths, width)
	}

	var datatypes []leaderboard.Datatype
	for _, d := range cc.Datatype {
		datatypes = append(datatypes, leaderboard.Datatype(d))
	}

	var delimiters []leaderboard.LatexDelimiter
	if cc.LatexDelimiters != nil {
		delimiters = make([]leaderboard.LatexDelimiter, 0, len(cc.LatexDelimiters))
		for _, d := range cc.LatexDelimiters {
			delimiters = append(delimiters, leaderboard.LatexDelimiter{Left: d.Left, Right: d.Right, Display: d.Display})
		}
	}

	return leaderboard.Config{
		Datatype:               datatypes,
		Search:                 search,
		Select:                 sel,
		Filters:                filters,
		BoolCheckboxGroupLabel: cc.BoolCheckboxGroupLabel,
		HideColumns:            cc.HideColumns,
		LatexDelimiters:        delimiters,
		Label:                  cc.Label,
		ShowLabel:              cc.ShowLabel,
		Height:                 cc.Height,
		Scale:                  cc.Scale,
		MinWidth:               cc.MinWidth,
		Interactive:            cc.Interactive,
		Visible:                cc.Visible,
		ElemID:                 cc.ElemID,
		ElemClasses:            cc.ElemClasses,
		Wrap:                   cc.Wrap,
		LineBreaks:             cc.LineBreaks,
		ColumnWidths:           widths,
		Logger:                 logger,
	}, nil
}

// NewComponent loads the configured data file and builds the component over
// it. The returned source is the loaded value, ready for Postprocess.
func NewComponent(ctx context.Context, cfg *config.Config, logger logging.Logger) (*leaderboard.Leaderboard, interface{}, error) {
	lbConfig, err := BuildComponentConfig(cfg.Component, logger)
	if err != nil {
		return nil, nil, err
	}

	source, err := LoadSource(cfg.Data.Path, cfg.Data.Format)
	if err != nil {
		return nil, nil, err
	}

	ds, err := datasetOf(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	lb, err := leaderboard.New(ds, lbConfig)
	if err != nil {
		return nil, nil, err
	}
	return lb, source, nil
}

// datasetOf reads the table behind a source. Styles are irrelevant here;
// filters are inferred from the raw values.
func datasetOf(ctx context.Context, source interface{}) (*dataset.Dataset, error) {
	if source == nil {
		return nil, nil
	}
	p, err := leaderboard.Encode(ctx, source)
	if err != nil {
		return nil, err
	}
	return leaderboard.Decode(p)
}
