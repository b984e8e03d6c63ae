package asqlite

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Reason identifies the category of a failed operation. Engine-reported
// failures carry the reason corresponding to their SQLite primary result
// code; failures raised by this library before the engine is involved use
// the bridge-level reasons at the end of the enumeration.
type Reason int

const (
	// ReasonUnknown represents an engine result code this library does not
	// recognize. The raw code is preserved in Error.Code.
	ReasonUnknown Reason = iota
	// ReasonGeneric represents SQLITE_ERROR, the engine's generic failure
	// code, including SQL syntax and semantic errors reported at prepare.
	ReasonGeneric
	// ReasonInternal represents SQLITE_INTERNAL
	ReasonInternal
	// ReasonPermission represents SQLITE_PERM
	ReasonPermission
	// ReasonAbort represents SQLITE_ABORT
	ReasonAbort
	// ReasonBusy represents SQLITE_BUSY
	ReasonBusy
	// ReasonLocked represents SQLITE_LOCKED
	ReasonLocked
	// ReasonNoMemory represents SQLITE_NOMEM
	ReasonNoMemory
	// ReasonReadOnly represents SQLITE_READONLY
	ReasonReadOnly
	// ReasonInterrupt represents SQLITE_INTERRUPT
	ReasonInterrupt
	// ReasonIO represents SQLITE_IOERR
	ReasonIO
	// ReasonCorrupt represents SQLITE_CORRUPT
	ReasonCorrupt
	// ReasonNotFound represents SQLITE_NOTFOUND
	ReasonNotFound
	// ReasonFull represents SQLITE_FULL
	ReasonFull
	// ReasonCantOpen represents SQLITE_CANTOPEN
	ReasonCantOpen
	// ReasonProtocol represents SQLITE_PROTOCOL
	ReasonProtocol
	// ReasonEmpty represents SQLITE_EMPTY
	ReasonEmpty
	// ReasonSchema represents SQLITE_SCHEMA
	ReasonSchema
	// ReasonTooBig represents SQLITE_TOOBIG
	ReasonTooBig
	// ReasonConstraint represents SQLITE_CONSTRAINT
	ReasonConstraint
	// ReasonMismatch represents SQLITE_MISMATCH
	ReasonMismatch
	// ReasonMisuse represents SQLITE_MISUSE
	ReasonMisuse
	// ReasonNoLFS represents SQLITE_NOLFS
	ReasonNoLFS
	// ReasonAuth represents SQLITE_AUTH
	ReasonAuth
	// ReasonFormat represents SQLITE_FORMAT
	ReasonFormat
	// ReasonRange represents SQLITE_RANGE
	ReasonRange
	// ReasonNotADB represents SQLITE_NOTADB
	ReasonNotADB

	// ReasonClosed indicates an operation was attempted on a connection or
	// statement that has already been closed.
	ReasonClosed
	// ReasonCancelled indicates the caller's context was cancelled before
	// the operation was dispatched to the connection's worker.
	ReasonCancelled
	// ReasonBind indicates the supplied parameter values do not satisfy the
	// placeholders referenced by the statement.
	ReasonBind
)

var reasonNames = map[Reason]string{
	ReasonUnknown:    "unknown engine error",
	ReasonGeneric:    "generic error",
	ReasonInternal:   "internal error",
	ReasonPermission: "permission denied",
	ReasonAbort:      "aborted",
	ReasonBusy:       "database busy",
	ReasonLocked:     "database locked",
	ReasonNoMemory:   "out of memory",
	ReasonReadOnly:   "database read-only",
	ReasonInterrupt:  "interrupted",
	ReasonIO:         "I/O error",
	ReasonCorrupt:    "database corrupt",
	ReasonNotFound:   "not found",
	ReasonFull:       "database full",
	ReasonCantOpen:   "cannot open database",
	ReasonProtocol:   "protocol error",
	ReasonEmpty:      "database empty",
	ReasonSchema:     "schema changed",
	ReasonTooBig:     "value too big",
	ReasonConstraint: "constraint violation",
	ReasonMismatch:   "datatype mismatch",
	ReasonMisuse:     "library misuse",
	ReasonNoLFS:      "no large file support",
	ReasonAuth:       "authorization denied",
	ReasonFormat:     "format error",
	ReasonRange:      "bind index out of range",
	ReasonNotADB:     "not a database file",
	ReasonClosed:     "connection closed",
	ReasonCancelled:  "cancelled before dispatch",
	ReasonBind:       "bind failure",
}

// String returns a short human-readable name for the reason.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Error represents a structured failure from the engine or the bridge
// layer. It always carries a symbolic Reason for programmatic branching
// plus the original diagnostic message for reporting.
type Error struct {
	// Reason is the symbolic category of the failure.
	Reason Reason
	// Message is the human-readable diagnostic, verbatim from the engine
	// where the engine produced one.
	Message string
	// Code is the raw engine result code (extended when the engine reported
	// one), or zero for failures raised by this library.
	Code int
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Reason == ReasonUnknown && e.Code != 0 {
		return fmt.Sprintf("asqlite: %s (code %d): %s", e.Reason, e.Code, e.Message)
	}
	return fmt.Sprintf("asqlite: %s: %s", e.Reason, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsReason checks if the error is of a specific reason.
func (e *Error) IsReason(reason Reason) bool {
	return e.Reason == reason
}

// reasonForCode maps an SQLite primary result code to its Reason. Extended
// result codes must be folded to their primary code by the caller.
func reasonForCode(code int) Reason {
	switch sqlite3.ErrNo(code) {
	case sqlite3.ErrError:
		return ReasonGeneric
	case sqlite3.ErrInternal:
		return ReasonInternal
	case sqlite3.ErrPerm:
		return ReasonPermission
	case sqlite3.ErrAbort:
		return ReasonAbort
	case sqlite3.ErrBusy:
		return ReasonBusy
	case sqlite3.ErrLocked:
		return ReasonLocked
	case sqlite3.ErrNomem:
		return ReasonNoMemory
	case sqlite3.ErrReadonly:
		return ReasonReadOnly
	case sqlite3.ErrInterrupt:
		return ReasonInterrupt
	case sqlite3.ErrIoErr:
		return ReasonIO
	case sqlite3.ErrCorrupt:
		return ReasonCorrupt
	case sqlite3.ErrNotFound:
		return ReasonNotFound
	case sqlite3.ErrFull:
		return ReasonFull
	case sqlite3.ErrCantOpen:
		return ReasonCantOpen
	case sqlite3.ErrProtocol:
		return ReasonProtocol
	case sqlite3.ErrEmpty:
		return ReasonEmpty
	case sqlite3.ErrSchema:
		return ReasonSchema
	case sqlite3.ErrTooBig:
		return ReasonTooBig
	case sqlite3.ErrConstraint:
		return ReasonConstraint
	case sqlite3.ErrMismatch:
		return ReasonMismatch
	case sqlite3.ErrMisuse:
		return ReasonMisuse
	case sqlite3.ErrNoLFS:
		return ReasonNoLFS
	case sqlite3.ErrAuth:
		return ReasonAuth
	case sqlite3.ErrFormat:
		return ReasonFormat
	case sqlite3.ErrRange:
		return ReasonRange
	case sqlite3.ErrNotADB:
		return ReasonNotADB
	default:
		return ReasonUnknown
	}
}

// mapEngineError translates an error returned by the engine binding into a
// structured *Error. Non-engine errors are categorized as unknown with the
// failing operation named in the message.
func mapEngineError(op string, err error) *Error {
	var engineErr sqlite3.Error
	if errors.As(err, &engineErr) {
		code := int(engineErr.Code)
		if engineErr.ExtendedCode != 0 {
			code = int(engineErr.ExtendedCode)
		}
		return &Error{
			// Extended codes carry the primary code in their low byte.
			Reason:  reasonForCode(code & 0xff),
			Message: engineErr.Error(),
			Code:    code,
			Cause:   err,
		}
	}
	return &Error{
		Reason:  ReasonUnknown,
		Message: fmt.Sprintf("%s: %v", op, err),
		Cause:   err,
	}
}

// newClosedError creates an Error for an operation on a closed connection
// or statement.
func newClosedError(op string) *Error {
	return &Error{
		Reason:  ReasonClosed,
		Message: fmt.Sprintf("%s on closed connection", op),
	}
}

// newCancelledError creates an Error for an operation cancelled before it
// was dispatched to the connection's worker.
func newCancelledError(op string, cause error) *Error {
	return &Error{
		Reason:  ReasonCancelled,
		Message: fmt.Sprintf("%s cancelled before dispatch", op),
		Cause:   cause,
	}
}

// newBindError creates an Error for a parameter binding arity mismatch.
func newBindError(want, got int) *Error {
	return &Error{
		Reason:  ReasonBind,
		Message: fmt.Sprintf("statement references %d parameter(s) but %d supplied", want, got),
	}
}

// newMisuseError creates an Error for an API misuse detected by this
// library before reaching the engine.
func newMisuseError(message string) *Error {
	return &Error{
		Reason:  ReasonMisuse,
		Message: message,
	}
}

// ReasonOf extracts the symbolic reason from an error returned by this
// library. It reports false for nil and for errors of other types.
func ReasonOf(err error) (Reason, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return ReasonUnknown, false
}

// IsClosed checks if an error indicates use of a closed connection or
// statement.
func IsClosed(err error) bool {
	reason, ok := ReasonOf(err)
	return ok && reason == ReasonClosed
}

// IsCancelled checks if an error indicates pre-dispatch cancellation.
func IsCancelled(err error) bool {
	reason, ok := ReasonOf(err)
	return ok && reason == ReasonCancelled
}

// IsBindError checks if an error indicates a parameter binding failure.
func IsBindError(err error) bool {
	reason, ok := ReasonOf(err)
	return ok && reason == ReasonBind
}

// IsBusy checks if an error indicates the database was busy or locked.
func IsBusy(err error) bool {
	reason, ok := ReasonOf(err)
	return ok && (reason == ReasonBusy || reason == ReasonLocked)
}

// IsConstraintViolation checks if an error indicates a constraint
// violation.
func IsConstraintViolation(err error) bool {
	reason, ok := ReasonOf(err)
	return ok && reason == ReasonConstraint
}
