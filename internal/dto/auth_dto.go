package dto

import "taskpilot/internal/entity"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyAccountRequest struct {
	Otp string `json:"otp" validate:"required"`
}

type SendResetOtpRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Otp         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type UserData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

func UserDataFromEntity(user *entity.User) UserData {
	return UserData{
		Name:              user.Name,
		IsAccountVerified: user.IsAccountVerified,
	}
}
