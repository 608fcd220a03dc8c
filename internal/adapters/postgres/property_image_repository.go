package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresPropertyImageRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPropertyImageRepository(pool *pgxpool.Pool) (*PostgresPropertyImageRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPropertyImageRepository{pool: pool}, nil
}

func (r *PostgresPropertyImageRepository) Create(ctx context.Context, propertyID uuid.UUID, path string) (*domain.PropertyImage, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyImageRepository",
		"method":      "Create",
		"property_id": propertyID,
		"path":        path,
	})

	img := domain.PropertyImage{PropertyID: propertyID, Path: path}
	query := `INSERT INTO property_images (property_id, path) VALUES ($1, $2) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, propertyID, path).Scan(&img.ID, &img.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				// объявление удалили между проверкой и вставкой
				repoLogger.Warn("Property vanished before image row insert", nil)
				return nil, fmt.Errorf("failed to insert property image: %w", domain.ErrPropertyNotFound)
			case pgUniqueViolation:
				repoLogger.Warn("Image path already recorded", nil)
				return nil, fmt.Errorf("failed to insert property image: %w", domain.ErrObjectExists)
			}
		}
		repoLogger.Error("Failed to insert property image", err, nil)
		return nil, fmt.Errorf("failed to insert property image: %w", err)
	}

	repoLogger.Debug("Property image recorded", port.Fields{"image_id": img.ID})
	return &img, nil
}

// ListByProperty возвращает изображения объявления, новые первыми.
func (r *PostgresPropertyImageRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.PropertyImage, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyImageRepository",
		"method":      "ListByProperty",
		"property_id": propertyID,
	})

	query := `SELECT id, property_id, path, created_at FROM property_images WHERE property_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		repoLogger.Error("Failed to query property images", err, nil)
		return nil, fmt.Errorf("failed to query property images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.PropertyImage, 0)
	for rows.Next() {
		var img domain.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.Path, &img.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan property image", err, nil)
			return nil, fmt.Errorf("failed to scan property image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during property images iteration", err, nil)
		return nil, fmt.Errorf("error during property images iteration: %w", err)
	}
	return images, nil
}
