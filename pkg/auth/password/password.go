// Package password hashes and verifies account passwords using bcrypt.
// Raw passwords exist only transiently in the login and registration
// flows; only the hash is ever persisted.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a bcrypt hash from a raw password at the default cost.
func Hash(raw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether raw matches the stored bcrypt hash.
func Verify(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
