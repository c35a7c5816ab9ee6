package service

import (
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid username or password")

// Auth registers users and signs them in with access tokens.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
}

// NewAuthService creates an Auth service.
func NewAuthService(ur i.UserRepo, t i.Tokenizer) (*Auth, error) {
	if ur == nil || t == nil {
		return nil, errors.New("user repo and tokenizer are required")
	}
	return &Auth{
		userRepo:  ur,
		tokenizer: t,
	}, nil
}

// Register creates and stores a new user.
func (a *Auth) Register(username, password string) error {
	userConfig := dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	}

	user, err := dmn.NewUser(userConfig)
	if err != nil {
		return err
	}

	return a.userRepo.Save(user)
}

// SignIn checks the credentials and returns the user with a fresh token.
func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID.String(),
		"username": user.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
