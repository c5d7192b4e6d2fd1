package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is built once at startup and injected; nothing reads the
// environment after Load returns.
type Config struct {
	Addr           string
	DatabaseURL    string
	JWTSecret      string
	JWTIssuer      string
	ResendAPIKey   string
	SenderEmail    string
	AppName        string
	CookieDomain   string
	SecureCookies  bool
	AllowedOrigins []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %s", err)
	}

	c := &Config{
		Addr:           getEnv("HTTP_ADDR", ":4000"),
		DatabaseURL:    mustEnv("DATABASE_URL"),
		JWTSecret:      mustEnv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "taskpilot"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		AppName:        getEnv("APP_NAME", "Taskpilot"),
		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		SecureCookies:  os.Getenv("COOKIE_SECURE") != "false",
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}
	return c
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("missing env: %s", key)
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
