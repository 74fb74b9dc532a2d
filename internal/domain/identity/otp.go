package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultOTPTTL is how long a password reset code stays valid
const DefaultOTPTTL = 10 * time.Minute

// OTPStore keeps one pending reset code per email with a TTL. Issue
// replaces any earlier code for the same email; Verify consumes the
// code on success so it cannot be replayed.
type OTPStore interface {
	Issue(ctx context.Context, email, code string, ttl time.Duration) error
	Verify(ctx context.Context, email, code string) (bool, error)
	Invalidate(ctx context.Context, email string) error
}

// GenerateOTP returns a random numeric code of the given length
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
