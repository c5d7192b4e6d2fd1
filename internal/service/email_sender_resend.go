package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers transactional mail through the Resend API.
// Email-template HTML stays out of scope; bodies are plain text.
type ResendEmailSender struct {
	Client  *resend.Client
	From    string
	AppName string
}

func NewResendEmailSender(apiKey string, from string, appName string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{AppName: appName}
	}
	return &ResendEmailSender{
		Client:  resend.NewClient(apiKey),
		From:    from,
		AppName: appName,
	}
}

func (s *ResendEmailSender) SendWelcomeEmail(ctx context.Context, email string, name string) error {
	subject := fmt.Sprintf("Welcome to %s", s.appName())
	text := fmt.Sprintf(
		"Hello %s,\n\nThanks for creating an account! Your account was created with email id: %s.",
		name, email,
	)
	return s.send(ctx, email, subject, text)
}

func (s *ResendEmailSender) SendVerifyOtpEmail(ctx context.Context, email string, code string) error {
	subject := "Account Verification OTP"
	text := fmt.Sprintf(
		"Your OTP for account verification is %s. Verify your account using this OTP. It is valid for 24 hours.",
		code,
	)
	return s.send(ctx, email, subject, text)
}

func (s *ResendEmailSender) SendResetOtpEmail(ctx context.Context, email string, code string) error {
	subject := "Password Reset OTP"
	text := fmt.Sprintf(
		"OTP for resetting your password is %s. Use this OTP to proceed with resetting your password. It is valid for 15 minutes.",
		code,
	)
	return s.send(ctx, email, subject, text)
}

func (s *ResendEmailSender) appName() string {
	if s.AppName == "" {
		return "Taskpilot"
	}
	return s.AppName
}

func (s *ResendEmailSender) send(_ context.Context, to string, subject string, text string) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	}
	if _, err := s.Client.Emails.Send(params); err != nil {
		return err
	}
	return nil
}
