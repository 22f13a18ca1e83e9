package leaderboard

import (
	"github.com/conneroisu/leaderboard/internal/errors"
)

// Fatal errors. Match them with errors.Is; returned errors carry a detailed
// message but compare equal to these sentinels.
var (
	// ErrInvalidConfiguration is returned by New when search, select, filter
	// or presentation configuration has an unrecognized shape.
	ErrInvalidConfiguration = errors.NewConfigError("invalid_configuration", "invalid configuration")

	// ErrUnsupportedDependencyVersion is returned when a styled table comes
	// from a styling engine older than MinStylingVersion.
	ErrUnsupportedDependencyVersion = errors.NewDependencyError("unsupported_dependency_version",
		"styled tables require styling engine "+MinStylingVersion+" or newer")

	// ErrInvalidPayload is returned when an inbound payload is malformed.
	ErrInvalidPayload = errors.NewValidationError("invalid_payload", "invalid payload")

	// ErrUnsupportedSource is returned when Postprocess receives a value it
	// cannot turn into a table.
	ErrUnsupportedSource = errors.NewValidationError("unsupported_source", "unsupported value source")
)

// Diagnostics. These are logged as warnings and never returned.
var (
	// ErrUnrecognizedColumnType is logged when a filtered column is neither
	// boolean, numeric nor textual.
	ErrUnrecognizedColumnType = errors.NewValidationError("unrecognized_column_type",
		"column type is not numeric or textual, assuming checkboxgroup filter")

	// ErrStyleDiscarded is logged when a styled table is shown by an
	// interactive component.
	ErrStyleDiscarded = errors.NewValidationError("style_discarded",
		"cannot display styled table in interactive mode, showing plain data instead")
)
