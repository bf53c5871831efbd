package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/adapters/in/http/resource"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	msgNotFound     = "The resource you were looking for could not be found."
	msgUnauthorized = "The access token is invalid"
	msgForbidden    = "You are not authorized to perform that action."
	msgInternal     = "Something went wrong"
	msgUnavailable  = "The order is busy, try again"
)

// errorHandler writes every error returned by a handler in the error shape
// of the API.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := renderError(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}

func renderError(err error) (int, resource.ErrorBody) {
	var (
		httpErr    *echo.HTTPError
		verrs      *errs.ValidationErrors
		transition *errs.StateTransitionError
		authErr    *errs.AuthorizationError
	)

	switch {
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, resource.NewError(msg)

	case errors.Is(err, resource.ErrMalformedBody):
		return http.StatusBadRequest, resource.NewError(err.Error())

	case errors.As(err, &authErr):
		if authErr.Forbidden {
			return http.StatusForbidden, resource.NewError(msgForbidden)
		}
		msg := authErr.Reason
		if msg == "" {
			msg = msgUnauthorized
		}
		return http.StatusUnauthorized, resource.NewError(msg)

	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity, resource.ErrorBody{
			Error:  transition.Error(),
			Errors: map[string][]string{"state": transition.Preconditions},
		}

	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, resource.NewValidationError(verrs)

	case errors.Is(err, services.ErrPaymentDeclined):
		fields := errs.NewValidationErrors()
		fields.Add("base", err.Error())
		return http.StatusUnprocessableEntity, resource.NewValidationError(fields)

	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, resource.NewError(msgNotFound)

	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		fields := errs.NewValidationErrors()
		fields.AddError("base", err)
		return http.StatusUnprocessableEntity, resource.NewValidationError(fields)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, resource.NewError(msgUnavailable)

	default:
		return http.StatusInternalServerError, resource.NewError(msgInternal)
	}
}
