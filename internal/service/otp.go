package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpMax = big.NewInt(1000000)

// generateOtp returns a uniformly random 6-digit code as a string,
// leading zeros preserved.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
