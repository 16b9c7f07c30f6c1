package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var (
	ErrUsernameLength  = errors.New("username must be 3-20 characters")
	ErrUsernameCharset = errors.New("username must be alphanumeric")
	ErrPasswordLength  = errors.New("password must be at least 6 characters")
)

func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 20 {
		return ErrUsernameLength
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return ErrUsernameCharset
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordLength
	}
	return nil
}

func RandString(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:n], nil
}

func NowUTC() time.Time {
	return time.Now().UTC()
}
