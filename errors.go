// Package condrv implements a user-mode server for the Windows console
// driver (ConDrv): it accepts I/O packets from the driver on behalf of a
// client process, translates them into screen-buffer mutations, and
// delivers synthesized input events back.
package condrv

import (
	"errors"
	"fmt"
)

// ErrorCode is a high-level error category: one of the four kinds this
// server's contract distinguishes (transport, invalid-state, invalid-data,
// invalid-handle), plus kernel-not-supported for platforms without ConDrv.
type ErrorCode string

const (
	// ErrCodeTransport marks any failure of a device-control call. Carries
	// the native error code. Surfaced to the dispatcher, which maps it to a
	// native failure status on the in-flight request.
	ErrCodeTransport ErrorCode = "transport"

	// ErrCodeInvalidState marks an operation attempted on a message whose
	// comm reference is absent. Always a programming error.
	ErrCodeInvalidState ErrorCode = "invalid state"

	// ErrCodeInvalidData marks an offset/length violating a descriptor's
	// declared sizes, or completion information exceeding the output
	// buffer. Reported before any I/O is performed.
	ErrCodeInvalidData ErrorCode = "invalid data"

	// ErrCodeInvalidHandle marks construction of a Port from a null or
	// sentinel handle.
	ErrCodeInvalidHandle ErrorCode = "invalid handle"

	// ErrCodeKernelNotSupported marks a Port operation attempted on a
	// platform without a ConDrv driver (non-Windows builds).
	ErrCodeKernelNotSupported ErrorCode = "kernel does not support condrv"
)

// Error is a structured ConDrv error with operation context and an
// optional wrapped native error.
type Error struct {
	Op    string    // operation that failed (e.g. "ReadNextIO", "ReleaseMessageBuffers")
	Code  ErrorCode // high-level error category
	Msg   string    // human-readable message
	Inner error     // wrapped error, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("condrv: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("condrv: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is supports errors.Is comparison against another *Error by error code.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewTransportError builds an ErrCodeTransport error wrapping a native
// transport failure.
func NewTransportError(op string, inner error) *Error {
	return &Error{Op: op, Code: ErrCodeTransport, Msg: errMsg(inner), Inner: inner}
}

// NewInvalidStateError builds an ErrCodeInvalidState error.
func NewInvalidStateError(op, msg string) *Error {
	return &Error{Op: op, Code: ErrCodeInvalidState, Msg: msg}
}

// NewInvalidDataError builds an ErrCodeInvalidData error.
func NewInvalidDataError(op, msg string) *Error {
	return &Error{Op: op, Code: ErrCodeInvalidData, Msg: msg}
}

// NewInvalidHandleError builds an ErrCodeInvalidHandle error.
func NewInvalidHandleError(op, msg string) *Error {
	return &Error{Op: op, Code: ErrCodeInvalidHandle, Msg: msg}
}

// NewKernelNotSupportedError builds an ErrCodeKernelNotSupported error.
func NewKernelNotSupportedError(op string) *Error {
	return &Error{Op: op, Code: ErrCodeKernelNotSupported, Msg: string(ErrCodeKernelNotSupported)}
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsCode reports whether err is (or wraps) a *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
