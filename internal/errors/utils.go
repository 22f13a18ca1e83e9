package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating an Error if the input
// is not already one.
func Wrap(err error, errType ErrorType, code, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already an Error, preserve its properties but update the message
	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       e,
			Context:     e.Context,
			Column:      e.Column,
			Recoverable: e.Recoverable,
		}
	}

	return &Error{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation,
	}
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *Error {
	wrapped := Wrap(err, ErrorTypeConfig, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *Error {
	wrapped := Wrap(err, ErrorTypeIO, code, message)
	if wrapped != nil {
		wrapped.Recoverable = false
	}
	return wrapped
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// GetErrorContext extracts context information from an Error
func GetErrorContext(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		context := make(map[string]interface{})
		for k, v := range e.Context {
			context[k] = v
		}
		if e.Column != "" {
			context["column"] = e.Column
		}
		context["type"] = string(e.Type)
		context["code"] = e.Code
		context["recoverable"] = e.Recoverable
		return context
	}

	return map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}
}
