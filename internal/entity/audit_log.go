package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditEvent string

const (
	EventRegister        AuditEvent = "register"
	EventLoginSuccess    AuditEvent = "login_success"
	EventLoginFailed     AuditEvent = "login_failed"
	EventAccountVerified AuditEvent = "account_verified"
	EventPasswordReset   AuditEvent = "password_reset"
)

// AuditLog records auth events best-effort; writes never gate the
// operation that produced them.
type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string    `gorm:"type:varchar(45)"`
	Event     AuditEvent `gorm:"type:varchar(40);not null"`

	Details datatypes.JSON

	CreatedAt time.Time
}
