package utils

import "golang.org/x/crypto/bcrypt"

// HashOTP hashes a one-time code before it is stored. Codes are short-lived so
// a moderate cost keeps verification fast.
func HashOTP(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckOTP compares a stored hash against a candidate code.
func CheckOTP(hash, code string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	return err == nil
}
