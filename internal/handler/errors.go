package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripease/internal/apperr"
	"github.com/dharmasatrya/tripease/internal/catalog"
	"github.com/dharmasatrya/tripease/internal/models"
)

// respondError writes err as an ErrorResponse. Catalog outages are the only
// search failure that reaches here; provider failures never do.
func respondError(c echo.Context, err error) error {
	var ce *catalog.CatalogError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "catalog_unavailable",
			Message: "Local trip catalog is unavailable",
			Code:    http.StatusServiceUnavailable,
		})
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.HTTPStatus()
		return c.JSON(status, models.ErrorResponse{
			Error:   errorCode(ae.Kind),
			Message: ae.Message,
			Code:    status,
		})
	}

	if errors.Is(err, context.Canceled) {
		// client went away; nobody reads this
		return c.NoContent(statusClientClosed)
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "Unexpected server error",
		Code:    http.StatusInternalServerError,
	})
}

const statusClientClosed = 499

func badRequest(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func errorCode(kind apperr.Kind) string {
	switch kind {
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindValidation:
		return "validation_error"
	case apperr.KindBadRequest:
		return "invalid_request"
	case apperr.KindUnavailable:
		return "service_unavailable"
	default:
		return "internal_error"
	}
}

// HTTPErrorHandler renders echo's own errors (unknown route, bad method,
// panics recovered by middleware) in the same envelope as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = respondError(c, err)
		return
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	}
	_ = c.JSON(he.Code, models.ErrorResponse{
		Error:   errorCodeForStatus(he.Code),
		Message: message,
		Code:    he.Code,
	})
}

func errorCodeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusBadRequest:
		return "invalid_request"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "request_error"
}
