package handler

import (
	"taskpilot/api/middleware"
	"taskpilot/internal/dto"
	"taskpilot/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	Service *service.AuthService
	Logger  logrus.FieldLogger
}

func NewUserHandler(svc *service.AuthService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Service: svc, Logger: logger}
}

func (h *UserHandler) GetUserData(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	user, err := h.Service.GetUserData(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return ok(c, body{"userData": dto.UserDataFromEntity(user)})
}
