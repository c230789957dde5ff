package users

import "golang.org/x/crypto/bcrypt"

// User is the credential record owned by the remote user store. Password
// carries the bcrypt hash on the wire; it is never logged or returned to
// clients.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password,omitempty"`
}

// NewUser is a signup request before the user store has assigned an id.
type NewUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password"`
}

// HashPassword hashes a plaintext password with bcrypt. The cost factor is
// deliberate: hashing must stay slow so at-rest credentials survive a user
// store compromise.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password against a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
