// Package errors defines the code-tagged errors shared by the termmap
// libraries, the CLI and the API server.
//
// Every failure a caller may want to branch on carries a [Code]. The codes
// fall into classes, and each class maps to one HTTP status
// ([HTTPStatus]) and one process exit status ([ExitCode]):
//
//	class        codes                                        http  exit
//	input        INVALID_*, PARSE_ERROR, UNRESOLVED_VARIABLE  400   2
//	not found    NOT_FOUND, MACRO_NOT_FOUND, FILE_NOT_FOUND   404   3
//	budget       RESOURCE_EXHAUSTED                           422   4
//	timeout      TIMEOUT                                      504   4
//	unsupported  UNSUPPORTED                                  501   1
//	other        STORAGE_ERROR, INTERNAL_ERROR, untagged      500   1
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "unexpected %q at offset %d", tok, pos)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // report the syntax error
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, cause, "put macro %s", name)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidVizType Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidMacro   Code = "INVALID_MACRO"

	ErrCodeParse              Code = "PARSE_ERROR"
	ErrCodeInvalidTerm        Code = "INVALID_TERM"
	ErrCodeUnresolvedVariable Code = "UNRESOLVED_VARIABLE"

	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"
	ErrCodeTimeout           Code = "TIMEOUT"

	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeMacroNotFound Code = "MACRO_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Exit statuses returned by [ExitCode].
const (
	ExitFailure   = 1
	ExitInput     = 2
	ExitNotFound  = 3
	ExitExhausted = 4
)

type class struct {
	status int
	exit   int
}

var (
	classInput    = class{http.StatusBadRequest, ExitInput}
	classNotFound = class{http.StatusNotFound, ExitNotFound}
	classOther    = class{http.StatusInternalServerError, ExitFailure}
)

var classes = map[Code]class{
	ErrCodeInvalidInput:       classInput,
	ErrCodeInvalidFormat:      classInput,
	ErrCodeInvalidVizType:     classInput,
	ErrCodeInvalidPath:        classInput,
	ErrCodeInvalidMacro:       classInput,
	ErrCodeParse:              classInput,
	ErrCodeInvalidTerm:        classInput,
	ErrCodeUnresolvedVariable: classInput,
	ErrCodeNotFound:           classNotFound,
	ErrCodeMacroNotFound:      classNotFound,
	ErrCodeFileNotFound:       classNotFound,
	ErrCodeResourceExhausted:  {http.StatusUnprocessableEntity, ExitExhausted},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, ExitExhausted},
	ErrCodeUnsupported:        {http.StatusNotImplemented, ExitFailure},
}

func classOf(err error) class {
	if c, ok := classes[GetCode(err)]; ok {
		return c
	}
	return classOther
}

// Error is a structured error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for untagged errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API server responds with.
func HTTPStatus(err error) int { return classOf(err).status }

// ExitCode maps err to the status the termmap binary exits with. nil maps
// to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return classOf(err).exit
}
