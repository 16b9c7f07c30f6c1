package auth

import (
	"context"
	"errors"
	"strings"

	"osprey-mdi/config"
	"osprey-mdi/core/store"
)

// The two failure modes stay distinguishable here for audit detail; the
// HTTP layer collapses both into one generic message so usernames cannot
// be enumerated.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Authenticator struct {
	users store.UsersStore
	cfg   *config.AppConfig
}

func NewAuthenticator(users store.UsersStore, cfg *config.AppConfig) *Authenticator {
	return &Authenticator{users: users, cfg: cfg}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (*Identity, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !VerifyPassword(password, a.pepper(), user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (a *Authenticator) Register(ctx context.Context, username, password, role string) (*Identity, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if role == "" {
		role = "general"
	}
	hash, err := HashPassword(password, a.pepper())
	if err != nil {
		return nil, err
	}
	user := &store.User{Username: username, PasswordHash: hash, Role: role}
	id, err := a.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: id, Username: username, Role: role}, nil
}

func (a *Authenticator) pepper() string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.Pepper
}
