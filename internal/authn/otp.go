package authn

import (
	"crypto/rand"
	"math/big"
)

const otpDigits = 6

// GenerateOTP returns a 6-digit numeric OTP string (e.g. "123456").
// Uses crypto/rand for randomness; every digit is uniformly distributed.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	s := make([]byte, otpDigits)
	v := n.Int64()
	for i := otpDigits - 1; i >= 0; i-- {
		s[i] = '0' + byte(v%10)
		v /= 10
	}
	return string(s), nil
}
