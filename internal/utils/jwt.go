package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies the compact credential carrying a user
// id. Rotating Secret invalidates every outstanding token.
type JWTManager struct {
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration
}

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func (m JWTManager) Issue(userID string) (string, time.Duration, error) {
	ttl := m.TokenTTL
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

// Parse returns the embedded user id if the signature is valid and the
// token unexpired.
func (m JWTManager) Parse(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
