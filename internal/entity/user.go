package entity

import (
	"time"

	"github.com/google/uuid"
)

// User carries both account identity and the OTP state for the two
// one-time-code flows. An OTP column and its paired expiry column are
// always written together: "" / 0 means no active code.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`

	IsAccountVerified bool `gorm:"not null;default:false"`

	// Expiry columns are absolute timestamps in milliseconds since epoch.
	VerifyOtp         string `gorm:"type:varchar(6);not null;default:''"`
	VerifyOtpExpireAt int64  `gorm:"not null;default:0"`
	ResetOtp          string `gorm:"type:varchar(6);not null;default:''"`
	ResetOtpExpireAt  int64  `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Tasks []Task
}
