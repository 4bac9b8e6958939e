package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/model"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService checks a single configured credential pair. It is a stand-in
// until a real identity provider is wired up; nothing here is a security
// boundary.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	cfg config.AuthConfig
}

func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "user logged in", "username", username)

	return &model.User{
		ID:       1,
		Username: s.cfg.Username,
		Name:     s.cfg.DisplayName,
	}, nil
}
