package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyColumns = `p.id, p.title, p.description, p.city, p.state, p.pincode, p.price, p.hero_url, p.verification, p.status, p.created_at`

// PostgresPropertyRepository - реализация порта для таблицы properties.
type PostgresPropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPropertyRepository(pool *pgxpool.Pool) (*PostgresPropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPropertyRepository{pool: pool}, nil
}

// scanProperty читает строку в порядке propertyColumns.
// Колонка verification nullable, состояние вычисляется здесь один раз.
func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		p            domain.Property
		verification *bool
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.City, &p.State, &p.Pincode,
		&p.Price, &p.HeroURL, &verification, &p.LegacyStatus, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Verification = domain.VerificationFromColumn(verification)
	return &p, nil
}

// Create вставляет объявление. Новая строка всегда verification = false.
func (r *PostgresPropertyRepository) Create(ctx context.Context, listing domain.NewListing) (*domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "Create",
	})

	query := `
		INSERT INTO properties AS p (title, description, city, state, pincode, price, hero_url, verification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		RETURNING ` + propertyColumns

	p, err := scanProperty(r.pool.QueryRow(ctx, query,
		listing.Title, listing.Description, listing.City, listing.State,
		listing.Pincode, listing.Price, listing.HeroURL,
	))
	if err != nil {
		repoLogger.Error("Failed to insert property", err, nil)
		return nil, fmt.Errorf("failed to insert property: %w", err)
	}

	repoLogger.Debug("Property inserted", port.Fields{"property_id": p.ID})
	return p, nil
}

// GetByID возвращает nil, nil, если объявления нет.
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "GetByID",
		"property_id": id,
	})

	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1`
	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to get property", err, nil)
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

func (r *PostgresPropertyRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to check property existence", err, port.Fields{
			"component":   "PostgresPropertyRepository",
			"method":      "Exists",
			"property_id": id,
		})
		return false, fmt.Errorf("failed to check property existence: %w", err)
	}
	return exists, nil
}

// Find выполняет подсчет и выборку страницы в одной транзакции.
func (r *PostgresPropertyRepository) Find(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "Find",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args, nextArg := applyFilters(filters)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var totalCount int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM properties p %s`, whereClause)
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	properties := make([]domain.Property, 0, limit)
	if totalCount > 0 && offset < totalCount {
		dataQuery := fmt.Sprintf(`SELECT %s FROM properties p %s %s LIMIT $%d OFFSET $%d`,
			propertyColumns, whereClause, orderBy(filters.Sort), nextArg, nextArg+1)

		rows, err := tx.Query(ctx, dataQuery, append(args, limit, offset)...)
		if err != nil {
			repoLogger.Error("Failed to query properties", err, port.Fields{"query": dataQuery})
			return nil, fmt.Errorf("failed to query properties: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProperty(rows)
			if err != nil {
				repoLogger.Error("Failed to scan property row", err, nil)
				return nil, fmt.Errorf("failed to scan property: %w", err)
			}
			properties = append(properties, *p)
		}
		if err := rows.Err(); err != nil {
			repoLogger.Error("Error during properties iteration", err, nil)
			return nil, fmt.Errorf("error during properties iteration: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Properties found", port.Fields{"total_count": totalCount, "found_on_page": len(properties)})
	return &domain.PaginatedProperties{
		Properties: properties,
		TotalCount: totalCount,
	}, nil
}

// FindSummariesByIDs возвращает краткие данные найденных объявлений; отсутствующие id пропускаются.
func (r *PostgresPropertyRepository) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.PropertySummary, error) {
	if len(ids) == 0 {
		return []domain.PropertySummary{}, nil
	}
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "FindSummariesByIDs",
		"ids_count": len(ids),
	})

	query := `SELECT id, title, city, state, verification FROM properties WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		repoLogger.Error("Failed to query property summaries", err, nil)
		return nil, fmt.Errorf("failed to query property summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.PropertySummary, 0, len(ids))
	for rows.Next() {
		var (
			s            domain.PropertySummary
			verification *bool
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.City, &s.State, &verification); err != nil {
			repoLogger.Error("Failed to scan property summary", err, nil)
			return nil, fmt.Errorf("failed to scan property summary: %w", err)
		}
		s.Verification = domain.VerificationFromColumn(verification)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during property summaries iteration", err, nil)
		return nil, fmt.Errorf("error during property summaries iteration: %w", err)
	}
	return summaries, nil
}

func (r *PostgresPropertyRepository) SetVerification(ctx context.Context, id uuid.UUID, verified bool) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "PostgresPropertyRepository",
		"method":       "SetVerification",
		"property_id":  id,
		"verification": verified,
	})

	cmdTag, err := r.pool.Exec(ctx, `UPDATE properties SET verification = $2 WHERE id = $1`, id, verified)
	if err != nil {
		repoLogger.Error("Failed to update verification", err, nil)
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to verify a property that does not exist", nil)
		return domain.ErrPropertyNotFound
	}

	repoLogger.Debug("Verification updated", nil)
	return nil
}
