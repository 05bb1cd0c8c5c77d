package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of its HTTP status.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindUpstream         Kind = "upstream"
	KindMethodNotAllowed Kind = "method_not_allowed"
)

// Error is the application error returned across package boundaries and
// rendered by utils.RespondWithError.
type Error struct {
	Code    int                    `json:"-"`
	Kind    Kind                   `json:"-"`
	Message string                 `json:"error"`
	Op      string                 `json:"-"`
	Err     error                  `json:"-"`
	Details map[string]interface{} `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches an extra field to the rendered error body.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func E(op string, err error, message string, code int, kind Kind) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *Error {
	return E(op, err, message, http.StatusBadRequest, KindValidation)
}

func NotFound(op string, err error, message string) *Error {
	return E(op, err, message, http.StatusNotFound, KindNotFound)
}

func Upstream(op string, err error, message string) *Error {
	return E(op, err, message, http.StatusInternalServerError, KindUpstream)
}

func MethodNotAllowed(op string, method string) *Error {
	return E(op, nil, fmt.Sprintf("Method %s not allowed", method), http.StatusMethodNotAllowed, KindMethodNotAllowed)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// CodeOf returns the HTTP status carried by err, or 500 for foreign errors.
func CodeOf(err error) int {
	if appErr, ok := As(err); ok && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
