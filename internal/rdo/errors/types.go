package errors

import (
	"fmt"
)

// RDOError describes a problem found while importing attendance, reconciling rosters
// or laying out a report. Most of them are recoverable: the offending record, row or
// content is skipped and the rest of the operation carries on.
type RDOError struct {
	Kind        ErrorKind `json:"kind" yaml:"kind"`
	Message     string    `json:"message" yaml:"message"`
	Context     string    `json:"context,omitempty" yaml:"context,omitempty"`
	Line        int       `json:"line,omitempty" yaml:"line,omitempty"`
	DayIndex    int       `json:"day_index,omitempty" yaml:"day_index,omitempty"`
	Recoverable bool      `json:"recoverable" yaml:"recoverable"`
	Err         error     `json:"-" yaml:"-"`
}

// ErrorKind categorises RDO problems
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedInput
	KindMissingHeader
	KindNoMatch
	KindStructuralMismatch
	KindLayoutOverflow
	KindResourceNotFound
	KindInvalidDocument
)

// ErrorSeverity indicates how critical a problem is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Error implements the error interface
func (e *RDOError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause
func (e *RDOError) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can write errors.Is(err, errors.New(KindMissingHeader, ""))
func (e *RDOError) Is(target error) bool {
	t, ok := target.(*RDOError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindMalformedInput:
		return "MALFORMED_INPUT"
	case KindMissingHeader:
		return "MISSING_HEADER"
	case KindNoMatch:
		return "NO_MATCH"
	case KindStructuralMismatch:
		return "STRUCTURAL_MISMATCH"
	case KindLayoutOverflow:
		return "LAYOUT_OVERFLOW"
	case KindResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindInvalidDocument:
		return "INVALID_DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// Severity returns the severity level for a given kind
func (k ErrorKind) Severity() ErrorSeverity {
	switch k {
	case KindNoMatch:
		return SeverityInfo
	case KindMalformedInput, KindStructuralMismatch, KindLayoutOverflow, KindResourceNotFound:
		return SeverityWarning
	case KindMissingHeader, KindInvalidDocument:
		return SeverityFatal
	default:
		return SeverityError
	}
}

// IsRecoverable reports whether processing can continue past this kind of problem
func (k ErrorKind) IsRecoverable() bool {
	switch k {
	case KindMissingHeader, KindInvalidDocument, KindUnknown:
		return false
	default:
		return true
	}
}

// New creates an RDOError of the given kind
func New(kind ErrorKind, message string) *RDOError {
	return &RDOError{
		Kind:        kind,
		Message:     message,
		Recoverable: kind.IsRecoverable(),
	}
}

// Newf creates an RDOError with a formatted message
func Newf(kind ErrorKind, format string, args ...any) *RDOError {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap wraps a standard error as an RDOError
func Wrap(kind ErrorKind, message string, err error) *RDOError {
	e := New(kind, message)
	e.Err = err
	return e
}

// WithContext adds context to an existing RDOError
func (e *RDOError) WithContext(context string) *RDOError {
	e.Context = context
	return e
}

// WithLine records the input line the problem was found on
func (e *RDOError) WithLine(line int) *RDOError {
	e.Line = line
	return e
}

// WithDay records the day the problem belongs to
func (e *RDOError) WithDay(dayIndex int) *RDOError {
	e.DayIndex = dayIndex
	return e
}

// Severity returns the severity of this specific error
func (e *RDOError) Severity() ErrorSeverity {
	return e.Kind.Severity()
}

// Collection gathers the recoverable problems of one operation
type Collection struct {
	Errors   []*RDOError `json:"errors"`
	Warnings []*RDOError `json:"warnings"`
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		Errors:   make([]*RDOError, 0),
		Warnings: make([]*RDOError, 0),
	}
}

// Add files the error under errors or warnings depending on its severity
func (c *Collection) Add(err *RDOError) {
	switch err.Severity() {
	case SeverityInfo, SeverityWarning:
		c.Warnings = append(c.Warnings, err)
	default:
		c.Errors = append(c.Errors, err)
	}
}

// Count returns the number of errors and warnings
func (c *Collection) Count() (errors, warnings int) {
	return len(c.Errors), len(c.Warnings)
}

// Empty reports whether nothing was collected
func (c *Collection) Empty() bool {
	return len(c.Errors) == 0 && len(c.Warnings) == 0
}

// Summary returns a text summary of all errors and warnings
func (c *Collection) Summary() string {
	errorCount, warningCount := c.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
