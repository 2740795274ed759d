package fakeapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// クライアントは {message} を読む
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
}

var (
	errUnauthorized = NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	errForbidden    = NewHTTPError(http.StatusForbidden, "Forbidden")
	errNotFound     = NewHTTPError(http.StatusNotFound, "Not found")
)

func badRequest(msg string) error { return NewHTTPError(http.StatusBadRequest, msg) }

func conflict(msg string) error { return NewHTTPError(http.StatusConflict, msg) }

func notFound(msg string) error { return NewHTTPError(http.StatusNotFound, msg) }
