package usecase

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignora o que passa de 72 bytes e a lib recusa a senha.
const maxPasswordBytes = 72

func hashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// checkPassword accepts bcrypt hashes and, for records written by the old
// app, plaintext passwords.
func checkPassword(stored, plain string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	return stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
