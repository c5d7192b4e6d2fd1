package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskpilot/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type body map[string]any

// Every response, failures included, is HTTP 200 with success flagged
// in-body. Clients branch on the flag, not the status code.
func ok(c echo.Context, fields body) error {
	payload := body{"success": true}
	for key, value := range fields {
		payload[key] = value
	}
	return c.JSON(http.StatusOK, payload)
}

func okMessage(c echo.Context, message string) error {
	return ok(c, body{"message": message})
}

func fail(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, body{"success": false, "message": message})
}

var userFacingErrors = []error{
	service.ErrMissingDetails,
	service.ErrEmailTaken,
	service.ErrInvalidCredentials,
	service.ErrAlreadyVerified,
	service.ErrOtpInvalid,
	service.ErrOtpExpired,
	service.ErrUserNotFound,
	service.ErrTitleRequired,
	service.ErrTaskNotFound,
}

// writeServiceError surfaces known domain failures verbatim and hides
// everything else behind a generic message; the underlying error only
// goes to the log.
func writeServiceError(c echo.Context, logger logrus.FieldLogger, err error) error {
	for _, known := range userFacingErrors {
		if errors.Is(err, known) {
			return fail(c, err.Error())
		}
	}
	logger.WithError(err).Error("unhandled service error")
	return fail(c, "something went wrong")
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
