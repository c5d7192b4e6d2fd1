package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	TokenTTL     time.Duration
	VerifyOtpTTL time.Duration
	ResetOtpTTL  time.Duration
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		TokenTTL:     7 * 24 * time.Hour,
		VerifyOtpTTL: 24 * time.Hour,
		ResetOtpTTL:  15 * time.Minute,
	}
}

type EmailSender interface {
	SendWelcomeEmail(ctx context.Context, email string, name string) error
	SendVerifyOtpEmail(ctx context.Context, email string, code string) error
	SendResetOtpEmail(ctx context.Context, email string, code string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Duration, error)
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
