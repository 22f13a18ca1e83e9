package leaderboard

import (
	"context"
	"math"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/pkg/dataset"
)

// Quantiles used for the default range of an inferred slider.
const (
	sliderLowQuantile  = 0.25
	sliderHighQuantile = 0.70
)

// inferred holds the filter settings derived from a column's data.
type inferred struct {
	Kind    FilterKind
	Default FilterDefault
	Choices []Choice
	Min     *float64
	Max     *float64
}

// inferFilter derives widget kind, default, choices and bounds from the
// values of col.
func inferFilter(ctx context.Context, col dataset.Column, logger logging.Logger) inferred {
	switch col.Kind() {
	case dataset.KindBoolean:
		return inferred{Kind: FilterCheckbox, Default: Checked(false), Choices: []Choice{}}

	case dataset.KindNumeric:
		lo, hi, ok := col.Bounds()
		if !ok {
			lo, hi = 0, 0
		}
		nums := col.Numbers()
		return inferred{
			Kind:    FilterSlider,
			Default: Range{Low: quantileOrZero(nums, sliderLowQuantile), High: quantileOrZero(nums, sliderHighQuantile)},
			Choices: []Choice{},
			Min:     &lo,
			Max:     &hi,
		}

	case dataset.KindTextual:
		choices := distinctChoices(col)
		return inferred{Kind: FilterCheckboxGroup, Default: Selection(choices), Choices: choices}

	case dataset.KindOther:
	}

	logger.Warn(ctx, ErrUnrecognizedColumnType.Detail("column type %s is not numeric or textual, assuming checkboxgroup filter", col.Kind()).WithColumn(col.Name()),
		"unrecognized column type", "column", col.Name())
	choices := distinctChoices(col)
	return inferred{Kind: FilterCheckboxGroup, Default: Selection(choices), Choices: choices}
}

func distinctChoices(col dataset.Column) []Choice {
	values := col.Distinct()
	choices := make([]Choice, len(values))
	for i, v := range values {
		choices[i] = ChoiceOf(v)
	}
	return choices
}

func quantileOrZero(values []float64, q float64) float64 {
	v := dataset.Quantile(values, q)
	if math.IsNaN(v) {
		return 0
	}
	return v
}
