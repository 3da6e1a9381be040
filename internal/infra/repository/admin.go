package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zolta/internal/domain/admin"
	"zolta/internal/infra"
	"zolta/internal/infra/db"
)

type AdminRepository struct {
	db db.DBTX
}

func NewAdminRepository(dbtx db.DBTX) *AdminRepository {
	return &AdminRepository{db: dbtx}
}

func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO admins (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		a.ID(), a.Username(), a.PasswordHash(), a.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create admin", err)
	}
	return nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	var (
		id           uuid.UUID
		passwordHash string
		createdAt    time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, password_hash, created_at
		FROM admins WHERE username = $1`, username,
	).Scan(&id, &passwordHash, &createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find admin", err)
	}
	return admin.ReconstructAdmin(id, username, passwordHash, createdAt), nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count admins", err)
	}
	return count, nil
}
