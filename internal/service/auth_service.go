package service

import (
	"context"
	"encoding/json"
	"strings"

	"taskpilot/internal/entity"
	"taskpilot/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Compared against on the unknown-email path so login timing does not
// reveal whether the address is registered.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users  repository.UserRepository
	audits repository.AuditLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       TokenIssuer
	clock        Clock
	config       AuthConfig
	logger       logrus.FieldLogger
}

func NewAuthService(
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	clock Clock,
	config AuthConfig,
	logger logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:        users,
		audits:       audits,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		tokens:       tokens,
		clock:        clock,
		config:       config,
		logger:       logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Password) == "" {
		return nil, ErrMissingDetails
	}

	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, ttl, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	_ = s.logAudit(ctx, &user.ID, nil, entity.EventRegister, map[string]any{"email": user.Email})

	// Best-effort side channel: the account already exists, so a relay
	// fault must not fail the registration.
	if err := s.emailSender.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.logger.WithError(err).Warn("welcome email failed")
	}

	return &AuthResult{Token: token, ExpiresIn: int64(ttl.Seconds())}, nil
}

// Login deliberately reports the same rejection for an unknown email
// and a wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrMissingDetails
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logAudit(ctx, nil, input.IPAddress, entity.EventLoginFailed, map[string]any{"email": input.Email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.EventLoginFailed, map[string]any{"email": input.Email})
		return nil, ErrInvalidCredentials
	}

	token, ttl, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	_ = s.logAudit(ctx, &user.ID, input.IPAddress, entity.EventLoginSuccess, nil)
	return &AuthResult{Token: token, ExpiresIn: int64(ttl.Seconds())}, nil
}

// SendVerifyOtp issues a fresh verification code, overwriting any
// previous one, and mails it. The persisted code stands even if the
// mail relay fails.
func (s *AuthService) SendVerifyOtp(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsAccountVerified {
		return ErrAlreadyVerified
	}

	code, err := generateOtp()
	if err != nil {
		return err
	}
	user.VerifyOtp = code
	user.VerifyOtpExpireAt = s.clock.Now().Add(s.config.VerifyOtpTTL).UnixMilli()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.emailSender.SendVerifyOtpEmail(ctx, user.Email, code)
}

// VerifyAccount checks the code against the stored value before the
// expiry, so an expired-but-matching code is reported as expired, not
// invalid. A consumed code is cleared together with its expiry.
func (s *AuthService) VerifyAccount(ctx context.Context, userID uuid.UUID, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrOtpInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.VerifyOtp == "" || user.VerifyOtp != code {
		return ErrOtpInvalid
	}
	if user.VerifyOtpExpireAt < s.clock.Now().UnixMilli() {
		return ErrOtpExpired
	}

	user.IsAccountVerified = true
	user.VerifyOtp = ""
	user.VerifyOtpExpireAt = 0
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	_ = s.logAudit(ctx, &user.ID, nil, entity.EventAccountVerified, nil)
	return nil
}

func (s *AuthService) SendResetOtp(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrMissingDetails
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := generateOtp()
	if err != nil {
		return err
	}
	user.ResetOtp = code
	user.ResetOtpExpireAt = s.clock.Now().Add(s.config.ResetOtpTTL).UnixMilli()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.emailSender.SendResetOtpEmail(ctx, user.Email, code)
}

func (s *AuthService) ResetPassword(ctx context.Context, email string, code string, newPassword string) error {
	if strings.TrimSpace(email) == "" ||
		strings.TrimSpace(code) == "" ||
		strings.TrimSpace(newPassword) == "" {
		return ErrMissingDetails
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.ResetOtp == "" || user.ResetOtp != code {
		return ErrOtpInvalid
	}
	if user.ResetOtpExpireAt < s.clock.Now().UnixMilli() {
		return ErrOtpExpired
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetOtp = ""
	user.ResetOtpExpireAt = 0
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	_ = s.logAudit(ctx, &user.ID, nil, entity.EventPasswordReset, nil)
	return nil
}

func (s *AuthService) GetUserData(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) logAudit(ctx context.Context, userID *uuid.UUID, ip *string, event entity.AuditEvent, details map[string]any) error {
	if s.audits == nil {
		return nil
	}
	log := &entity.AuditLog{
		UserID:    userID,
		IPAddress: ip,
		Event:     event,
	}
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		log.Details = datatypes.JSON(payload)
	}
	return s.audits.Log(ctx, log)
}
