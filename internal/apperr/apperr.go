// Package apperr defines the user-actionable failures reported by skillsctl.
//
// Every fatal condition the reconciliation engine can detect maps to one of
// four kinds. The CLI prints the summary line followed by any detail lines and
// exits with status 1.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not created by this package.
	KindUnknown Kind = iota
	// KindValidation covers malformed ids, manifest lines, config or catalog documents.
	KindValidation
	// KindPrecondition covers on-disk states that need operator action first.
	KindPrecondition
	// KindExternalTool covers a missing git binary or a non-zero git exit.
	KindExternalTool
	// KindNotFound covers unknown skill ids and missing target paths.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindExternalTool:
		return "external-tool"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Error is a classified failure with a one-line summary and optional detail.
type Error struct {
	Kind   Kind
	Msg    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Msg
	}
	return e.Msg + "\n" + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validationf returns a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Preconditionf returns a KindPrecondition error.
func Preconditionf(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a KindNotFound error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// ExternalTool reports a failed external command. The tool's stderr is kept
// verbatim as the detail so the operator sees what git actually said.
func ExternalTool(command string, stderr string, err error) *Error {
	return &Error{
		Kind:   KindExternalTool,
		Msg:    fmt.Sprintf("command failed: %s", command),
		Detail: strings.TrimSpace(stderr),
		Err:    err,
	}
}

// WithDetail returns a copy of e carrying the given detail text.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

// KindOf reports the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
