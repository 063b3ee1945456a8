package common

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Error Classes
// --------------------------------------------------------------------------

var (
	// ErrValidation is matched by every *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrMalformedStream indicates truncated or corrupt binary input
	ErrMalformedStream = errors.New("malformed stream")
	// ErrUnsupportedVersion indicates a negotiated version outside the known range
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrInvalidState indicates that a message cannot be encoded because a required field is unset
	ErrInvalidState = errors.New("invalid state")
	// ErrFieldTypeMismatch indicates a text field whose value has the wrong shape
	ErrFieldTypeMismatch = errors.New("field type mismatch")
	// ErrMalformedContent indicates text input that is not a well-formed object
	ErrMalformedContent = errors.New("malformed content")
)

// --------------------------------------------------------------------------
// Validation Error
// --------------------------------------------------------------------------

// ValidationError collects all violations found while validating a message.
// A nil *ValidationError means the message is valid.
type ValidationError struct {
	Errors []string
}

// AddValidationError appends msg to err and returns it. If err is nil a new
// ValidationError is created.
func AddValidationError(msg string, err *ValidationError) *ValidationError {
	if err == nil {
		err = &ValidationError{}
	}
	err.Errors = append(err.Errors, msg)
	return err
}

// Error renders all violations as "validation failed: 1: first; 2: second;"
func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrValidation.Error())
	sb.WriteString(":")
	for i, msg := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %d: %s;", i+1, msg))
	}
	return sb.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// --------------------------------------------------------------------------
// Version Error
// --------------------------------------------------------------------------

// VersionError is returned when a codec is asked to work with a version it does not know
type VersionError struct {
	Version  Version
	Min, Max Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: %s (supported %s - %s)", ErrUnsupportedVersion, e.Version, e.Min, e.Max)
}

func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}

// --------------------------------------------------------------------------
// Field Error
// --------------------------------------------------------------------------

// FieldError is returned when a text field cannot be read as the expected shape
type FieldError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field [%s] expected %s, got %s", ErrFieldTypeMismatch, e.Field, e.Expected, e.Actual)
}

func (e *FieldError) Unwrap() error {
	return ErrFieldTypeMismatch
}
