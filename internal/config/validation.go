package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator"

	"github.com/conneroisu/leaderboard/internal/validation"
)

// ValidationIssue describes a configuration problem.
type ValidationIssue struct {
	Field   string
	Value   interface{}
	Message string
}

func (vi ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", vi.Field, vi.Message)
}

// ValidationResult holds the errors and warnings found in a configuration.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any error was found.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// Err returns the errors as a single error, or nil.
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	parts := make([]string, len(vr.Errors))
	for i, issue := range vr.Errors {
		parts[i] = issue.String()
	}
	return errors.New(strings.Join(parts, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("safehost", func(fl validator.FieldLevel) bool {
		return validation.ValidateHostname(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("safepath", func(fl validator.FieldLevel) bool {
		path := fl.Field().String()
		return path == "" || validation.ValidatePath(path) == nil
	})
	return v
}

// ValidateConfig checks struct tags and reports warnings for settings that
// are valid but likely unintended.
func ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{}

	if err := newValidator().Struct(config); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			result.Errors = append(result.Errors, ValidationIssue{Field: "config", Message: err.Error()})
			return result
		}
		for _, fe := range verrs {
			result.Errors = append(result.Errors, ValidationIssue{
				Field:   fieldPath(fe.Namespace()),
				Value:   fe.Value(),
				Message: describe(fe),
			})
		}
	}

	if config.Server.Port > 0 && config.Server.Port < 1024 {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   "server.port",
			Value:   config.Server.Port,
			Message: "port below 1024 requires elevated privileges",
		})
	}
	if config.Data.Path != "" && !pathExists(config.Data.Path) {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   "data.path",
			Value:   config.Data.Path,
			Message: "file does not exist yet",
		})
	}
	if config.Data.Watch && config.Data.Path == "" {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   "data.watch",
			Value:   true,
			Message: "nothing to watch without data.path",
		})
	}

	return result
}

func validateConfig(config *Config) error {
	return ValidateConfig(config).Err()
}

// fieldPath turns "Config.Server.Port" into "server.port".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "required":
		return "is required"
	case "safehost":
		if err := validation.ValidateHostname(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
		return "invalid hostname"
	case "safepath":
		if err := validation.ValidatePath(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
		return "invalid path"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
