package service

import (
	"time"

	"taskpilot/internal/utils"

	"github.com/google/uuid"
)

type JWTTokenIssuer struct {
	Manager *utils.JWTManager
}

func (i JWTTokenIssuer) Issue(userID uuid.UUID) (string, time.Duration, error) {
	return i.Manager.Issue(userID.String())
}
