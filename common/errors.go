package common

import "fmt"

type ErrorCode int

const (
	// UnresolvedColumn indicates a column reference that names no column of
	// the current row, or an unqualified reference matching more than one.
	UnresolvedColumn ErrorCode = iota
	// TypeMismatch indicates incompatible non-NULL operand types in an
	// arithmetic or comparison expression. NULL operands never raise this;
	// they propagate as NULL instead.
	TypeMismatch
	// InvalidAggregateContext indicates an aggregate reference evaluated
	// outside a grouped-aggregation projection or HAVING clause.
	InvalidAggregateContext
	// RowSourceFailure marks a failure surfaced by an external row source.
	// The engine performs no retries; the failure aborts the query.
	RowSourceFailure
	// NoSuchTable indicates a scan of a table the catalog does not know.
	NoSuchTable
	// DuplicateTable indicates an attempt to register a table name twice.
	DuplicateTable
)

func (ec ErrorCode) String() string {
	switch ec {
	case UnresolvedColumn:
		return "UnresolvedColumn"
	case TypeMismatch:
		return "TypeMismatch"
	case InvalidAggregateContext:
		return "InvalidAggregateContext"
	case RowSourceFailure:
		return "RowSourceFailure"
	case NoSuchTable:
		return "NoSuchTable"
	case DuplicateTable:
		return "DuplicateTable"
	}
	return "unknown"
}

// EngineError is the custom error type for the query engine. It pairs an
// ErrorCode with a detailed message so callers can branch on the failure
// taxonomy without string matching.
//
// Every EngineError aborts the whole query; there is no partial-result
// recovery. NULL propagation is the sole "soft" absence-of-value mechanism
// and is never represented as an error.
type EngineError struct {
	Code      ErrorCode
	ErrString string
}

func (e EngineError) Error() string {
	return fmt.Sprintf("err: %s; msg: %s", e.Code.String(), e.ErrString)
}

// Errorf builds an EngineError with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) EngineError {
	return EngineError{Code: code, ErrString: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from an error, if it is an EngineError.
func CodeOf(err error) (ErrorCode, bool) {
	if ee, ok := err.(EngineError); ok {
		return ee.Code, true
	}
	return 0, false
}
