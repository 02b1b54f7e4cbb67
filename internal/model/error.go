package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	ENOTFOUND     = "NOT_FOUND"
	EINVALID      = "INVALID"
	EUNAUTHORIZED = "UNAUTHORIZED"
	ECONFLICT     = "CONFLICT"
	EINTERNAL     = "INTERNAL"
)

// Sentinels for errors.Is. Matching against one of these compares codes only.
var (
	Unauthorized = &Error{EUNAUTHORIZED, "unauthorized"}
	Internal     = &Error{EINTERNAL, "internal error"}
	NotFound     = &Error{ENOTFOUND, "not found"}
	Invalid      = &Error{EINVALID, "invalid"}
	Conflict     = &Error{ECONFLICT, "conflict"}
)

// Error is an application error as reported by the API or raised by client-side validation.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Is(target error) bool {
	switch target {
	case NotFound, Unauthorized, Internal, Invalid, Conflict:
		// prefix match so INVALID also matches INVALID_NAME
		code := ErrCode(target)
		return e.Code == code || strings.HasPrefix(e.Code, code)
	}
	t, ok := target.(*Error)
	return ok && t != nil && e.Code == t.Code && e.Message == t.Message
}

func Err(code string, tmpl string, args ...interface{}) error {
	if code == "" {
		panic("code cannot be empty")
	}
	return &Error{Code: code, Message: fmt.Sprintf(tmpl, args...)}
}

// ErrCode extracts the code from err. Errors that are not an *Error are EINTERNAL.
func ErrCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrMessage extracts a human-readable message from err.
func ErrMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// StatusCode returns the HTTP status for an error code.
func StatusCode(err error) int {
	switch ErrCode(err) {
	case ECONFLICT:
		return http.StatusConflict
	case EINVALID:
		return http.StatusBadRequest
	case ENOTFOUND:
		return http.StatusNotFound
	case EUNAUTHORIZED:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// ErrCodeFromStatus returns the error code for an HTTP status.
func ErrCodeFromStatus(code int) string {
	switch code {
	case http.StatusConflict:
		return ECONFLICT
	case http.StatusNotFound:
		return ENOTFOUND
	case http.StatusBadRequest:
		return EINVALID
	case http.StatusUnauthorized:
		return EUNAUTHORIZED
	}
	return EINTERNAL
}
