// Package httperr carries an HTTP status alongside a client-facing message.
// Every API error body is {"message": string}; the status travels with the
// error value so handlers never pick codes themselves.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	pkglog "github.com/moonchanyong/arom-server/pkg/log"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func NotAcceptable(format string, args ...interface{}) *Error {
	return New(http.StatusNotAcceptable, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, fmt.Sprintf(format, args...))
}

func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, fmt.Sprintf(format, args...))
}

type response struct {
	Message string `json:"message"`
}

// ErrorHandler renders every error as {"message": ...} with its carried
// status. Unrecognized errors are logged and reported as a plain 500.
func ErrorHandler(logger pkglog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal Server Error"

		var apiErr *Error
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
			status = apiErr.Status
			message = apiErr.Message
		case errors.As(err, &echoErr):
			status = echoErr.Code
			message = fmt.Sprintf("%v", echoErr.Message)
		default:
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, response{Message: message})
	}
}
