package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures a rejected value. Field holds the dotted path of the
// offending value (for example "columns[1].links[0].href") so editors can show
// the message inline next to the right control.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ResolutionError reports a section type that could not be resolved against a
// theme's component path prefix.
type ResolutionError struct {
	SectionType string
	PathPrefix  string
	Err         error
}

// NewResolutionError constructs a ResolutionError.
func NewResolutionError(sectionType, pathPrefix string, err error) error {
	return &ResolutionError{SectionType: sectionType, PathPrefix: pathPrefix, Err: err}
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return ""
	}
	target := e.SectionType
	if e.PathPrefix != "" {
		target = e.PathPrefix + "/" + e.SectionType
	}
	if e.Err == nil {
		return fmt.Sprintf("resolution error [%s]", target)
	}
	return fmt.Sprintf("resolution error [%s]: %v", target, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InvariantError is returned when a command would break a builder invariant.
// It signals a programming-contract violation by the caller; the state the
// command was applied to is left untouched.
type InvariantError struct {
	Command string
	Message string
}

// NewInvariantError constructs an InvariantError for the named command.
func NewInvariantError(command, message string) error {
	return &InvariantError{Command: command, Message: message}
}

func (e *InvariantError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("invariant violation in %s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("invariant violation: %s", e.Message)
}
