package handler // handler translates HTTP requests into storage calls and shapes the responses

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/forwarding-portal/internal/schema"
)

// dbTimeout bounds every storage call made on behalf of a request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// bindAndValidate decodes the body into req, normalizes it and runs the
// schema rules.  On failure the 400 response has already been written and
// ok is false.
func bindAndValidate(c echo.Context, req interface{ Normalize() }) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, message(c, http.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := c.Validate(req); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			return false, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid data", "errors": ve.Fields})
		}
		return false, message(c, http.StatusBadRequest, "invalid data")
	}
	return true, nil
}

// internalError logs the cause and answers with a generic 500.
func internalError(c echo.Context, logger *zap.Logger, msg string, err error) error {
	logger.Error(msg, zap.Error(err), zap.String("method", c.Request().Method), zap.String("path", c.Path()))
	return message(c, http.StatusInternalServerError, "internal server error")
}
