package handler

import (
	"net/http"
	"time"

	"taskpilot/api/middleware"
	"taskpilot/internal/dto"
	"taskpilot/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	Logger        logrus.FieldLogger
	CookieName    string
	CookieDomain  string
	SecureCookies bool
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Validate:      validate,
		Logger:        logger,
		CookieName:    "token",
		SecureCookies: true,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.validate(req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	input := service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	result, err := h.Service.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	h.setTokenCookie(c, result)
	return ok(c, body{"token": result.Token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.validate(req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	input := service.LoginInput{Email: req.Email, Password: req.Password, IPAddress: stringPtr(c.RealIP())}
	result, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	h.setTokenCookie(c, result)
	return ok(c, body{"token": result.Token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearTokenCookie(c)
	return okMessage(c, "logged out")
}

func (h *AuthHandler) SendVerifyOtp(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	if err := h.Service.SendVerifyOtp(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return okMessage(c, "verification otp sent on email")
}

func (h *AuthHandler) VerifyAccount(c echo.Context) error {
	userID, found := middleware.UserIDFromContext(c)
	if !found {
		return fail(c, "not authorized, login again")
	}
	var req dto.VerifyAccountRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, service.ErrOtpInvalid.Error())
	}
	if err := h.validate(req); err != nil {
		return fail(c, service.ErrOtpInvalid.Error())
	}
	if err := h.Service.VerifyAccount(c.Request().Context(), userID, req.Otp); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return okMessage(c, "email verified successfully")
}

func (h *AuthHandler) IsAuth(c echo.Context) error {
	return ok(c, nil)
}

func (h *AuthHandler) SendResetOtp(c echo.Context) error {
	var req dto.SendResetOtpRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.validate(req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.Service.SendResetOtp(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return okMessage(c, "otp sent to your email")
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.validate(req); err != nil {
		return fail(c, service.ErrMissingDetails.Error())
	}
	if err := h.Service.ResetPassword(c.Request().Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return okMessage(c, "password has been reset successfully")
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

// The cookie is cross-site by design: the frontend lives on another
// origin, so SameSite=None with Secure is required for it to be sent.
func (h *AuthHandler) setTokenCookie(c echo.Context, result *service.AuthResult) {
	maxAge := int(result.ExpiresIn)
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    result.Token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
