package dataset

import (
	"fmt"
	"time"
)

// ColumnKind classifies a column for filter inference.
type ColumnKind int

const (
	// KindOther covers dates, mixed columns and columns with no values.
	KindOther ColumnKind = iota
	// KindBoolean means every non-missing cell is a bool.
	KindBoolean
	// KindNumeric means every non-missing cell is a float64.
	KindNumeric
	// KindTextual means every non-missing cell is a string.
	KindTextual
)

// String returns the string representation of a ColumnKind.
func (k ColumnKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindBoolean:
		return "boolean"
	case KindNumeric:
		return "numeric"
	case KindTextual:
		return "textual"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// KindOf derives the kind of a normalized column.
func KindOf(values []Value) ColumnKind {
	var bools, numbers, texts, others int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case bool:
			bools++
		case float64:
			numbers++
		case string:
			texts++
		case time.Time:
			others++
		default:
			others++
		}
	}

	total := bools + numbers + texts + others
	switch {
	case total == 0:
		return KindOther
	case bools == total:
		return KindBoolean
	case numbers == total:
		return KindNumeric
	case texts == total:
		return KindTextual
	default:
		return KindOther
	}
}
