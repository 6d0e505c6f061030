package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
	"github.com/iliyamo/cinema-booking-web/internal/validation"
)

var errBadRequest = errors.New("bad request")

// bind decodes the request body into v and validates it.  On failure the
// 400 response has already been written and errBadRequest is returned so
// the handler can bail out with that response.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return badRequest(c, echo.Map{"error": "invalid body"})
	}
	return validate(c, v)
}

func validate(c echo.Context, v any) error {
	if err := c.Validate(v); err != nil {
		if fields := validation.FieldErrors(err); fields != nil {
			return badRequest(c, echo.Map{"error": "validation failed", "fields": fields})
		}
		return badRequest(c, echo.Map{"error": err.Error()})
	}
	return nil
}

func badRequest(c echo.Context, body echo.Map) error {
	if err := c.JSON(http.StatusBadRequest, body); err != nil {
		return err
	}
	return errBadRequest
}

// done maps the sentinel returned by bind to a nil handler error.
func done(err error) error {
	if errors.Is(err, errBadRequest) {
		return nil
	}
	return err
}

// backendError answers with the backend's status and message.  Network
// failures become 502.
func backendError(c echo.Context, err error) error {
	status := apiclient.StatusOf(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Warnf("backend call failed: %v", err)
	}
	return c.JSON(status, echo.Map{"error": apiclient.MessageOf(err)})
}

func data(c echo.Context, status int, v any) error {
	return c.JSON(status, echo.Map{"data": v})
}

func sessionID(c echo.Context) string { return middleware.SessionID(c) }
