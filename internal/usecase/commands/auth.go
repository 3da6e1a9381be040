package commands

import (
	"context"
	"log/slog"

	"zolta/internal/domain/admin"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/errs"
	"zolta/internal/pkg/jwt"
	"zolta/internal/usecase/shared"
)

type AuthCommands interface {
	Login(ctx context.Context, username, password string) (string, error)
	// EnsureDefaultAdmin seeds the configured admin account when the admins
	// table is empty, so a fresh deployment is reachable.
	EnsureDefaultAdmin(ctx context.Context) error
}

type authCommandsImpl struct {
	uow      shared.UnitOfWork
	tokens   *jwt.Service
	clock    clock.Clock
	adminCfg config.AdminConfig
}

func NewAuthCommands(uow shared.UnitOfWork, tokens *jwt.Service, clk clock.Clock, adminCfg config.AdminConfig) AuthCommands {
	return &authCommandsImpl{uow: uow, tokens: tokens, clock: clk, adminCfg: adminCfg}
}

func (c *authCommandsImpl) Login(ctx context.Context, username, password string) (string, error) {
	a, err := c.uow.Reads().AdminByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return "", errs.ErrInvalidCredentials
		}
		return "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := a.VerifyPassword(password); err != nil {
		return "", errs.ErrInvalidCredentials
	}

	token, err := c.tokens.GenerateAdminToken(a.ID(), a.Username())
	if err != nil {
		return "", errs.Wrap(err, "failed to generate access token")
	}
	return token, nil
}

func (c *authCommandsImpl) EnsureDefaultAdmin(ctx context.Context) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		count, err := tx.Admins().Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		a, err := admin.NewAdmin(c.adminCfg.Username, c.adminCfg.Password, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Admins().Create(ctx, a); err != nil {
			return err
		}
		slog.Info("seeded default admin account", "username", a.Username())
		return nil
	})
}
