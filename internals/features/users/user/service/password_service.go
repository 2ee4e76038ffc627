package service

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once per service so that unknown users pay the
// same bcrypt cost as wrong passwords.
const dummyPassword = "librarian-dummy-password"

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
