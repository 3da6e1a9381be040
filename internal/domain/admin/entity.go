package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"zolta/internal/pkg/password"
)

var ErrMissingUsername = errors.New("username is required")

type Admin struct {
	id           uuid.UUID
	username     string
	passwordHash string
	createdAt    time.Time
}

func NewAdmin(username, plainPassword string, now time.Time) (*Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingUsername
	}

	hash, err := password.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	return &Admin{
		id:           uuid.New(),
		username:     username,
		passwordHash: hash,
		createdAt:    now,
	}, nil
}

func ReconstructAdmin(id uuid.UUID, username, passwordHash string, createdAt time.Time) *Admin {
	return &Admin{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

func (a *Admin) VerifyPassword(plain string) error {
	return password.ComparePassword(a.passwordHash, plain)
}

func (a *Admin) ID() uuid.UUID        { return a.id }
func (a *Admin) Username() string     { return a.username }
func (a *Admin) PasswordHash() string { return a.passwordHash }
func (a *Admin) CreatedAt() time.Time { return a.createdAt }
