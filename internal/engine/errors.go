package engine

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why an engine attempt did not produce output.
type FailureKind int

const (
	// KindUnavailable: the engine's prerequisites are missing on this host.
	KindUnavailable FailureKind = iota
	// KindTimeout: the bounded wall-clock ceiling was exceeded.
	KindTimeout
	// KindFailure: the engine ran and reported failure.
	KindFailure
	// KindEmptyOutput: the engine reported success but left a missing or
	// zero-byte file.
	KindEmptyOutput
	// KindCSSCompat: the engine choked on stylesheet syntax it cannot parse,
	// distinguishable so the fallback chain can log it as such.
	KindCSSCompat
)

func (k FailureKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindFailure:
		return "failure"
	case KindEmptyOutput:
		return "empty output"
	case KindCSSCompat:
		return "css compatibility"
	}
	return "unknown"
}

// Error is the uniform failure signal adapters translate engine-specific exit
// codes, exceptions, and stderr text into. Detail carries the captured
// diagnostic output.
type Error struct {
	Method Method
	Kind   FailureKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Method, e.Kind)
	if e.Detail != "" {
		msg += ": " + strings.TrimSpace(e.Detail)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

func unavailableErr(m Method, missing, hint string) *Error {
	return &Error{
		Method: m,
		Kind:   KindUnavailable,
		Detail: fmt.Sprintf("%s is not installed. Install from: %s", missing, hint),
	}
}
