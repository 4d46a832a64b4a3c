package accounts

import (
	"fmt"
	"time"

	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Account is the identity of a user. ID is immutable and assigned at
// creation. UserName and Email are unique across all accounts
// (case-insensitive). SecurityStamp is an opaque version marker that is
// regenerated on every credential-affecting change (password set, email
// confirmed); tokens issued against an older stamp are thereby invalidated.
type Account struct {
	ID             string    `json:"id,omitempty"`              // Unique identifier for the account
	UserName       string    `json:"user_name,omitempty"`       // Unique username
	Email          string    `json:"email,omitempty"`           // Account's email address
	PasswordHash   string    `json:"-"`                         // Hashed version of the password - never serialize
	EmailConfirmed bool      `json:"email_confirmed,omitempty"` // Set true exactly once by a successful email confirmation
	SecurityStamp  string    `json:"-"`                         // Credential version marker - never serialize
	CreatedAt      time.Time `json:"created_at,omitempty"`      // Date and time when the account was registered
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password against a bcrypt hash.
// bcrypt's comparison is constant-time; the plaintext is never retained.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
