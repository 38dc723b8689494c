/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: faults.go
Description: Typed failure taxonomy for the Akaylee Templater. Every failure in the
generation and scoring pipelines is local and recoverable; the strategy selector falls
through on strategy failures and the batch driver aggregates unit failures into stats.
*/

package interfaces

import "fmt"

// FailureKind classifies a recoverable failure in the pipeline.
type FailureKind int

const (
	InvalidGrammar FailureKind = iota
	ExtractionFailure
	NoQualityRows
	NoFilldownCaptured
	HeaderLineNotFound
	DataLineNotFound
	InsufficientValues
	NoPatternsGenerated
	TemplateExecutionError
	ValidationFailed
	Timeout
)

// String returns the failure kind name used in logs and batch reports.
func (k FailureKind) String() string {
	switch k {
	case InvalidGrammar:
		return "invalid_grammar"
	case ExtractionFailure:
		return "extraction_failure"
	case NoQualityRows:
		return "no_quality_rows"
	case NoFilldownCaptured:
		return "no_filldown_captured"
	case HeaderLineNotFound:
		return "header_line_not_found"
	case DataLineNotFound:
		return "data_line_not_found"
	case InsufficientValues:
		return "insufficient_values"
	case NoPatternsGenerated:
		return "no_patterns_generated"
	case TemplateExecutionError:
		return "template_execution_error"
	case ValidationFailed:
		return "validation_failed"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Failure is the error type carried by every recoverable pipeline failure.
// It records the kind, a human-readable message, and an optional cause.
type Failure struct {
	Kind    FailureKind // Classification for aggregation and fall-through
	Message string      // Human-readable detail
	Cause   error       // Wrapped underlying error, if any
}

// NewFailure creates a failure of the given kind.
func NewFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapFailure creates a failure of the given kind wrapping a cause.
func WrapFailure(kind FailureKind, cause error, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// KindOf extracts the FailureKind from an error chain. The boolean is false
// when the error is not a pipeline failure.
func KindOf(err error) (FailureKind, bool) {
	for e := err; e != nil; {
		if f, ok := e.(*Failure); ok {
			return f.Kind, true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return 0, false
		}
		e = u.Unwrap()
	}
	return 0, false
}
