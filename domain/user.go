// Package dmn holds the domain models persisted by the service.
package dmn

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordStrengthScore = 3

	usernamePattern   = `^[a-zA-Z0-9_]+$` // Alphanumeric with underscores
	minUsernameLength = 3
	maxUsernameLength = 20

	bcryptCost = 12
)

var (
	usernameRegex = regexp.MustCompile(usernamePattern)

	ErrUsernameTooShort = errors.New("username too short")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrUsernameFormat   = errors.New("invalid username format")
	ErrWeakPassword     = errors.New("weak password")
)

// User is a maze-service account as stored in the database.
type User struct {
	ID           uuid.UUID `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
}

// UserConfig holds parameters for creating a User from a plain password.
type UserConfig struct {
	ID            uuid.UUID
	Username      string
	PlainPassword string
}

// NewUser validates the configuration and creates a User with a hashed password.
func NewUser(config UserConfig) (*User, error) {
	if err := validateUsername(config.Username); err != nil {
		return nil, err
	}

	if err := validatePassword(config.PlainPassword); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(config.PlainPassword)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           config.ID,
		Username:     config.Username,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword verifies if the given password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrUsernameFormat
	}
	return nil
}

func validatePassword(password string) error {
	result := zxcvbn.PasswordStrength(password, nil)
	if result.Score < minPasswordStrengthScore {
		return ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}
