package services

import (
	"crypto/subtle"

	"service-review-server/config"
)

// AuthService is the single authorization capability behind both admin gates:
// the session-backed browser panel and the token-backed JSON API. Credentials
// come from the immutable config loaded at startup.
type AuthService struct {
	admin config.AdminConfig
}

func NewAuthService(admin config.AdminConfig) *AuthService {
	return &AuthService{admin: admin}
}

// CheckPassword verifies the admin panel password.
func (s *AuthService) CheckPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
}

// CheckToken verifies the static API bearer token.
func (s *AuthService) CheckToken(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.admin.APIToken)) == 1
}
