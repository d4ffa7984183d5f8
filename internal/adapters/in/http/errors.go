package http

import (
	"errors"
	"log/slog"
	"net/http"

	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps a use case error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrCartIsEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err with StatusFor. Internal errors are logged and their message hidden.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			slog.String("route", ctx.Path()),
			slog.Any("error", err))
		message = http.StatusText(status)
	}

	return ctx.JSON(status, Error{Code: status, Message: message})
}

// badRequest renders a 400 for input rejected before any use case runs.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// ErrorHandler renders errors that escape the handlers (unknown routes,
// rejected tokens, panics) with the same body as use case failures.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", slog.Any("error", err))
		}

		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(status)
		} else {
			err = ctx.JSON(status, Error{Code: status, Message: message})
		}
		if err != nil {
			logger.ErrorContext(ctx.Request().Context(), "write error response", slog.Any("error", err))
		}
	}
}
