package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt carries its own per-hash salt; the config pepper is appended to
// the password before hashing so leaked rows alone are not crackable.

func HashPassword(password, pepper string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func MustHashPassword(password, pepper string) string {
	hash, err := HashPassword(password, pepper)
	if err != nil {
		panic(err)
	}
	return hash
}

func VerifyPassword(password, pepper, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+pepper)) == nil
}
