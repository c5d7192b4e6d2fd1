package routes

import (
	"net/http"
	"time"

	"taskpilot/api/handler"
	"taskpilot/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Task           *handler.TaskHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		User:           userHandler,
		Task:           taskHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API working fine")
	})

	auth := e.Group("/api/auth")
	auth.POST("/register", r.Auth.Register, r.AuthRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/logout", r.Auth.Logout)
	auth.POST("/send-verify-otp", r.Auth.SendVerifyOtp, requireAuth)
	auth.POST("/verify-account", r.Auth.VerifyAccount, requireAuth)
	auth.GET("/is-auth", r.Auth.IsAuth, requireAuth)
	auth.POST("/send-reset-otp", r.Auth.SendResetOtp, r.LoginRate.Middleware())
	auth.POST("/reset-password", r.Auth.ResetPassword, r.LoginRate.Middleware())

	e.GET("/api/user/data", r.User.GetUserData, requireAuth)

	tasks := e.Group("/api/tasks", requireAuth)
	tasks.GET("", r.Task.List)
	tasks.POST("", r.Task.Create)
	tasks.GET("/stats", r.Task.Stats)
	tasks.GET("/:id", r.Task.Get)
	tasks.PUT("/:id", r.Task.Update)
	tasks.DELETE("/:id", r.Task.Delete)
}
