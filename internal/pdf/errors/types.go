package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ReportError is a fatal report assembly failure with its kind and context
type ReportError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Err       error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorType represents the categories of report assembly failures
type ErrorType int

const (
	ErrorTypeRender ErrorType = iota
	ErrorTypeTemplateFetch
	ErrorTypeTemplateParse
	ErrorTypeMerge
	ErrorTypeDataConsistency
	ErrorTypeLayout
	ErrorTypeInvalidInput
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityFatal
)

// Error implements the error interface
func (e *ReportError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *ReportError) Unwrap() error {
	return e.Err
}

// Is matches another *ReportError of the same type, so sentinel kinds can
// be tested with errors.Is.
func (e *ReportError) Is(target error) bool {
	t, ok := target.(*ReportError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// String returns the wire name of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTemplateFetch:
		return "template-fetch-failed"
	case ErrorTypeTemplateParse:
		return "template-parse-failed"
	case ErrorTypeMerge:
		return "merge-failed"
	case ErrorTypeDataConsistency:
		return "data-consistency-fault"
	case ErrorTypeLayout:
		return "layout-overflow"
	case ErrorTypeInvalidInput:
		return "invalid-input"
	default:
		return "generic-render-failure"
	}
}

// GetSeverity returns the severity level for a given error type
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeInvalidInput:
		return SeverityError
	default:
		return SeverityFatal
	}
}

// Guidance returns a short remediation hint for end users
func (et ErrorType) Guidance() string {
	switch et {
	case ErrorTypeTemplateFetch:
		return "The report templates could not be loaded. If the form was opened from a local file, serve it over HTTP instead."
	case ErrorTypeTemplateParse:
		return "A report template is not a valid PDF document. Replace the template file."
	case ErrorTypeMerge:
		return "The report pages could not be combined into one document."
	case ErrorTypeInvalidInput:
		return "The submitted answers could not be read."
	default:
		return "The report could not be generated. Please try again."
	}
}

// New creates a ReportError of the given type
func New(errorType ErrorType, message string) *ReportError {
	return &ReportError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps err as a ReportError of the given type
func Wrap(errorType ErrorType, message string, err error) *ReportError {
	e := New(errorType, message)
	e.Err = err
	return e
}

// WithContext adds context to an existing ReportError
func (e *ReportError) WithContext(context string) *ReportError {
	e.Context = context
	return e
}

// WithPhase records the assembly phase the error occurred in
func (e *ReportError) WithPhase(phase string) *ReportError {
	e.Phase = phase
	return e
}

// Kind returns a sentinel of the given type for use with errors.Is
func Kind(errorType ErrorType) *ReportError {
	return &ReportError{Type: errorType}
}

// TypeOf returns the type of the first ReportError in err's chain, or
// ErrorTypeRender when err carries none.
func TypeOf(err error) ErrorType {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Type
	}
	return ErrorTypeRender
}

// As reports whether err carries a ReportError and returns it
func As(err error) (*ReportError, bool) {
	var re *ReportError
	ok := stderrors.As(err, &re)
	return re, ok
}
