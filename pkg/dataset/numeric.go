package dataset

import (
	"math"
	"sort"
)

// Numbers returns the non-missing numeric cells of the column in row order.
func (c Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}

// Bounds returns the minimum and maximum numeric cell. ok is false when the
// column holds no numbers.
func (c Column) Bounds() (min, max float64, ok bool) {
	numbers := c.Numbers()
	if len(numbers) == 0 {
		return 0, 0, false
	}
	min, max = numbers[0], numbers[0]
	for _, f := range numbers[1:] {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	return min, max, true
}

// Distinct returns the distinct non-missing cells in first-seen order.
func (c Column) Distinct() []Value {
	seen := make(map[Value]struct{}, len(c.values))
	out := make([]Value, 0)
	for _, v := range c.values {
		if v == nil {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. It returns NaN for an empty input.
// The input slice is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	switch {
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
