package services

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/genepreston69/uplift-frame/internal/middleware"
)

// AdminService exchanges the staff passphrase for an admin token. Only
// the bcrypt hash of the passphrase ever reaches the process.
type AdminService struct {
	passphraseHash []byte
	jwt            *middleware.JWTAuth
}

func NewAdminService(passphraseHash string, jwt *middleware.JWTAuth) *AdminService {
	return &AdminService{
		passphraseHash: []byte(passphraseHash),
		jwt:            jwt,
	}
}

func (s *AdminService) Login(passphrase string) (string, error) {
	if passphrase == "" {
		return "", &ValidationError{Fields: map[string]string{"password": "Password is required"}}
	}

	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(passphrase)); err != nil {
		return "", &UnauthorizedError{Message: "Incorrect password"}
	}

	token, err := s.jwt.GenerateAdminToken()
	if err != nil {
		return "", err
	}
	return token, nil
}
