package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresOpsUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOpsUserRepository(pool *pgxpool.Pool) (*PostgresOpsUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresOpsUserRepository{pool: pool}, nil
}

// FindByEmail ищет оператора по email в нижнем регистре.
func (r *PostgresOpsUserRepository) FindByEmail(ctx context.Context, email string) (*domain.OpsUser, error) {
	var user domain.OpsUser
	query := `SELECT id, email, password_hash, created_at FROM ops_users WHERE email = $1`
	err := r.pool.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to find ops user", err, port.Fields{
			"component": "PostgresOpsUserRepository",
			"method":    "FindByEmail",
		})
		return nil, fmt.Errorf("failed to find ops user: %w", err)
	}
	return &user, nil
}
