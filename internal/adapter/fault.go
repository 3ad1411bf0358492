package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrUnsupported marks an operation the wrapped library cannot
// perform. Harness code matches it with errors.Is.
var ErrUnsupported = errors.New("operation not supported")

// Unsupportedf wraps ErrUnsupported with detail.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupported)...)
}

// Category classifies a fault by its probable origin.
type Category string

// Fault categories.
const (
	// CategoryDataMismatch: the library read or wrote wrong data.
	CategoryDataMismatch Category = "data_mismatch"

	// CategoryInvalidInput: the library rejected input it should
	// accept.
	CategoryInvalidInput Category = "invalid_input"

	// CategoryInternal: the library failed internally (panic,
	// timeout, unexpected error).
	CategoryInternal Category = "internal"

	// CategoryUnsupported: the library does not implement the
	// feature. Expected for lighter libraries, hence a warning.
	CategoryUnsupported Category = "unsupported_feature"

	// CategoryParse: the library could not parse the workbook.
	CategoryParse Category = "parse"

	// CategoryFileIO: the workbook could not be accessed at all.
	CategoryFileIO Category = "file_io"
)

// Severity grades a fault.
type Severity string

// Fault severities. Unsupported features are warnings; everything
// else is an error.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Location pins a fault to one grid invocation.
type Location struct {
	Feature string `json:"feature,omitempty"`
	Op      string `json:"op,omitempty"`
	CaseID  string `json:"test_case_id,omitempty"`
	Sheet   string `json:"sheet,omitempty"`
	Cell    string `json:"cell,omitempty"`
}

// Fault is a classified failure of one invocation.
type Fault struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Location Location `json:"location"`

	// Message is the adapter's error text.
	Message string `json:"message"`

	// Cause is a short hint at the probable root cause.
	Cause string `json:"probable_cause,omitempty"`
}

// severityFor applies the one severity rule.
func severityFor(c Category) Severity {
	if c == CategoryUnsupported {
		return SeverityWarning
	}
	return SeverityError
}

// NewFault builds a fault with the category's severity.
func NewFault(c Category, loc Location, message string) *Fault {
	return &Fault{Category: c, Severity: severityFor(c), Location: loc, Message: message}
}

// inferRule maps error text patterns to a category. First match
// wins; order is most-specific first.
type inferRule struct {
	category Category
	cause    string
	patterns []string
}

var inferRules = []inferRule{
	{CategoryUnsupported, "feature not implemented by the library",
		[]string{"not supported", "unsupported", "not implemented", "no support for"}},
	{CategoryParse, "workbook structure not understood",
		[]string{"zip", "corrupt", "unexpected eof", "not a valid", "bad file", "malformed", "xml syntax"}},
	{CategoryFileIO, "file inaccessible",
		[]string{"no such file", "permission denied", "is a directory", "file does not exist"}},
	{CategoryInvalidInput, "library rejected the input",
		[]string{"invalid", "out of range", "out of bounds", "nil ", "must be", "cannot be empty", "exceeds", "negative"}},
}

// Classify turns an adapter error into a fault. Sentinel checks run
// before message patterns so wrapped errors classify reliably.
func Classify(err error, loc Location) *Fault {
	if err == nil {
		return nil
	}

	f := &Fault{Location: loc, Message: err.Error()}

	switch {
	case errors.Is(err, ErrUnsupported):
		f.Category = CategoryUnsupported
		f.Cause = "feature not implemented by the library"
	case errors.Is(err, context.DeadlineExceeded):
		f.Category = CategoryInternal
		f.Cause = "invocation timed out"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		f.Category = CategoryFileIO
		f.Cause = "file inaccessible"
	default:
		f.Category = CategoryInternal
		msg := strings.ToLower(f.Message)
		for _, rule := range inferRules {
			if matchesAny(msg, rule.patterns) {
				f.Category = rule.category
				f.Cause = rule.cause
				break
			}
		}
	}

	f.Severity = severityFor(f.Category)
	return f
}

func matchesAny(msg string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
