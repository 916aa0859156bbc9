package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"
)

// phoneRegex matches E.164 numbers (+ followed by 7..15 digits, no leading zero).
var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// IsValidPhone reports whether the string is a valid E.164 phone number.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// GenerateOTP returns a 6-digit one-time code from crypto/rand.
func GenerateOTP() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		x, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return ""
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String()
}

// GenerateRandomToken generates an unguessable hex token. Used for invite
// links, which act as capabilities.
func GenerateRandomToken(byteLen int) string {
	bytes := make([]byte, byteLen)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
