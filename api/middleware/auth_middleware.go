package middleware

import (
	"net/http"
	"strings"

	"taskpilot/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// credentialExtractor is one strategy for locating the signed
// credential on a request. Extractors are tried in order; the first
// non-empty result wins.
type credentialExtractor func(c echo.Context) string

type AuthMiddleware struct {
	JWT        *utils.JWTManager
	CookieName string

	extractors []credentialExtractor
}

func NewAuthMiddleware(jwt *utils.JWTManager, cookieName string) AuthMiddleware {
	m := AuthMiddleware{JWT: jwt, CookieName: cookieName}
	m.extractors = []credentialExtractor{m.fromCookie, fromBearerHeader}
	return m
}

// RequireAuth is a pure gate: it attaches the resolved user id to the
// request context or stops with an in-body authorization failure.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil {
			return unauthorized(c)
		}
		token := m.extract(c)
		if token == "" {
			return unauthorized(c)
		}
		rawUserID, err := m.JWT.Parse(token)
		if err != nil {
			return unauthorized(c)
		}
		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			return unauthorized(c)
		}
		SetAuthContext(c, userID)
		return next(c)
	}
}

func (m AuthMiddleware) extract(c echo.Context) string {
	for _, extractor := range m.extractors {
		if token := extractor(c); token != "" {
			return token
		}
	}
	return ""
}

func (m AuthMiddleware) fromCookie(c echo.Context) string {
	name := m.CookieName
	if name == "" {
		name = "token"
	}
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func fromBearerHeader(c echo.Context) string {
	authorization := c.Request().Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Domain failures are signaled in-body with HTTP 200, authorization
// included.
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": false,
		"message": "not authorized, login again",
	})
}
