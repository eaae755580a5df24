package session

import "golang.org/x/crypto/bcrypt"

// AdminCredential guards the REST admin API (internal/api),
// not Mojang authentication — Minecraft accounts have no
// password this core ever sees. One credential covers the single
// operator account the admin surface needs.
type AdminCredential struct {
	Username     string
	passwordHash string
}

// NewAdminCredential hashes password with bcrypt's default cost.
func NewAdminCredential(username, password string) (*AdminCredential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminCredential{Username: username, passwordHash: string(hash)}, nil
}

// NewAdminCredentialFromHash builds an AdminCredential from an
// already-hashed password, for loading the operator account from config
// instead of prompting for a plaintext password at startup.
func NewAdminCredentialFromHash(username, hash string) *AdminCredential {
	return &AdminCredential{Username: username, passwordHash: hash}
}

// Check reports whether username/password match this credential
// (constant-time bcrypt comparison).
func (a *AdminCredential) Check(username, password string) bool {
	if a == nil || username != a.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)) == nil
}
