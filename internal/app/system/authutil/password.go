// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6 // runes
	// MaxPasswordBytes is bcrypt's input limit. Longer input is rejected
	// rather than silently truncated.
	MaxPasswordBytes = 72
	BcryptCost       = 12
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters.")
	ErrPasswordTooLong  = errors.New("Password is too long.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
	ErrPasswordPersonal = errors.New("Password must not contain your email name or student ID.")
)

// commonPasswords are rejected case-insensitively.
var commonPasswords = map[string]bool{
	"123456":     true,
	"1234567":    true,
	"12345678":   true,
	"123456789":  true,
	"1234567890": true,
	"111111":     true,
	"000000":     true,
	"123123":     true,
	"654321":     true,
	"abc123":     true,
	"abcdef":     true,
	"qwerty":     true,
	"qwerty123":  true,
	"password":   true,
	"password1":  true,
	"iloveyou":   true,
	"letmein":    true,
	"welcome":    true,
	"admin":      true,
	"admin123":   true,
	"student":    true,
	"student1":   true,
	"club123":    true,
	"strataclub": true,
}

// PasswordRules describes the password policy for clients.
func PasswordRules() string {
	return "Password must be at least 6 characters, must not be a common password, and must not contain your email name or student ID."
}

// ValidatePassword checks password against the policy. personal holds values
// the password must not contain, such as the account's email and student ID.
// For an email only the part before "@" is checked, and values shorter than
// four characters are ignored.
func ValidatePassword(password string, personal ...string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	if commonPasswords[lower] {
		return ErrPasswordCommon
	}
	for _, p := range personal {
		p = strings.ToLower(strings.TrimSpace(p))
		if at := strings.IndexByte(p, '@'); at >= 0 {
			p = p[:at]
		}
		if len(p) >= 4 && strings.Contains(lower, p) {
			return ErrPasswordPersonal
		}
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
// The password should be validated with ValidatePassword first.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
