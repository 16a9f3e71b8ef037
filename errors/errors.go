package errors

import (
	"fmt"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	InvalidConfiguration
	UnsupportedColumnType
	UnsupportedLogicalType
	InvariantViolation
	ValueOutOfRange
)

// NewUnsupportedColumnTypeError is returned when a Postgres type identifier is outside
// the exhaustive mapping. There is no silent coercion - the enclosing scan is expected
// to abort the batch.
func NewUnsupportedColumnTypeError(typeID uint32) PgDuckError {
	return NewPgDuckErrorf(UnsupportedColumnType, "Unsupported Postgres type: %d", typeID)
}

// NewUnsupportedLogicalTypeError is the columnar-side counterpart of
// NewUnsupportedColumnTypeError.
func NewUnsupportedLogicalTypeError(typeID int) PgDuckError {
	return NewPgDuckErrorf(UnsupportedLogicalType, "Unsupported DuckDB type: %d", typeID)
}

// NewInvariantViolationError signals a code path that is unreachable given a well-formed
// filter tree or value. It indicates a programming defect, not a user error.
func NewInvariantViolationError(context string) PgDuckError {
	return NewPgDuckErrorf(InvariantViolation, "Internal invariant violation: %s", context)
}

func NewValueOutOfRangeError(msg string) PgDuckError {
	return NewPgDuckErrorf(ValueOutOfRange, "Value out of range. %s", msg)
}

func NewInvalidConfigurationError(msg string) PgDuckError {
	return NewPgDuckErrorf(InvalidConfiguration, "Invalid configuration: %s", msg)
}

func NewInternalError(errRef string) PgDuckError {
	return NewPgDuckErrorf(InternalError, "Internal error - reference: %s please consult server logs for details", errRef)
}

func NewPgDuckErrorf(errorCode ErrorCode, msgFormat string, args ...interface{}) PgDuckError {
	msg := fmt.Sprintf(fmt.Sprintf("PGD%04d - %s", errorCode, msgFormat), args...)
	return PgDuckError{Code: errorCode, Msg: msg}
}

func NewPgDuckError(errorCode ErrorCode, msg string) PgDuckError {
	return PgDuckError{Code: errorCode, Msg: msg}
}

// PgDuckError is any kind of error that is exposed to the caller via the conversion and
// filter interfaces
type PgDuckError struct {
	Code ErrorCode
	Msg  string
}

func (u PgDuckError) Error() string {
	return u.Msg
}
