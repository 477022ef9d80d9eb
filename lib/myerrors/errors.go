package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type httpError struct {
	httpCode int
	err      error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) error {
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) error {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewNotFoundError(err error) error {
	return newError(http.StatusNotFound, err)
}

func NewNotFoundErrorf(format string, args ...any) error {
	return NewNotFoundError(fmt.Errorf(format, args...))
}

func NewMethodNotAllowedError(err error) error {
	return newError(http.StatusMethodNotAllowed, err)
}

func NewInternalError(err error) error {
	// keep the most specific status when already classified
	var coder httpErrorCoder
	if errors.As(err, &coder) {
		return err
	}
	return newError(http.StatusInternalServerError, err)
}

func NewUnavailableError(err error) error {
	return newError(http.StatusServiceUnavailable, err)
}

// GetHTTPStatus returns the status carried by err (or anything it wraps),
// 500 when it carries none.
func GetHTTPStatus(err error) int {
	var coder httpErrorCoder
	if err != nil && errors.As(err, &coder) {
		return coder.GetHTTPErrorCode()
	}
	return http.StatusInternalServerError
}
