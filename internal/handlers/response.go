package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/apperr"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Response{Success: true, Message: message, Data: data})
}

// NewHTTPErrorHandler translates the error taxonomy to status codes in
// one place. Clients always see {"detail": ...}; internal detail stays
// in the logs.
func NewHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		detail := "Internal server error"

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Kind.HTTPStatus()
			detail = ae.Message
		case errors.As(err, &he):
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				detail = msg
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request_failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"error", err,
			)
			detail = "Internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"detail": detail})
	}
}
