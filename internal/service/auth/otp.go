package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateOTP returns a 6-digit numeric code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
