package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier checks an admin username/password pair. The storefront
// only needs a single admin identity today, but keeping this behind an
// interface lets real credential storage slot in without touching handlers.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// EnvVerifier verifies against a fixed username and a bcrypt hash, both
// supplied through configuration.
type EnvVerifier struct {
	Username     string
	PasswordHash string
}

func (v EnvVerifier) Verify(username, password string) bool {
	if v.Username == "" || v.PasswordHash == "" {
		return false
	}
	if username != v.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(password)) == nil
}
