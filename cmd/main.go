package main

import (
	"net/http"
	"os"
	"time"

	"taskpilot/api/handler"
	apiMiddleware "taskpilot/api/middleware"
	"taskpilot/api/routes"
	"taskpilot/config"
	"taskpilot/internal/repository"
	"taskpilot/internal/service"
	"taskpilot/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	validate := validator.New()

	authCfg := service.DefaultAuthConfig()
	tokenManager := utils.JWTManager{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		TokenTTL: authCfg.TokenTTL,
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.SenderEmail, cfg.AppName)

	authService := service.NewAuthService(
		userRepo,
		auditRepo,
		emailSender,
		service.BcryptPasswordHasher{},
		service.JWTTokenIssuer{Manager: &tokenManager},
		service.RealClock{},
		authCfg,
		logger,
	)
	taskService := service.NewTaskService(taskRepo)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.SecureCookies
	userHandler := handler.NewUserHandler(authService, logger)
	taskHandler := handler.NewTaskHandler(taskService, validate, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.NewAuthMiddleware(&tokenManager, authHandler.CookieName)
	router := routes.NewRouter(app, authHandler, userHandler, taskHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.Addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
