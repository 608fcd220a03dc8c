package postgres_adapter

import (
	"context"
	"fmt"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLeadRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLeadRepository(pool *pgxpool.Pool) (*PostgresLeadRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresLeadRepository{pool: pool}, nil
}

// Create сохраняет заявку. Внешнего ключа на properties нет.
func (r *PostgresLeadRepository) Create(ctx context.Context, lead domain.NewLead) (*domain.Lead, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresLeadRepository",
		"method":      "Create",
		"property_id": lead.PropertyID,
	})

	created := domain.Lead{PropertyID: lead.PropertyID, FullName: lead.FullName, Phone: lead.Phone}
	query := `INSERT INTO leads (property_id, full_name, phone) VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := r.pool.QueryRow(ctx, query, lead.PropertyID, lead.FullName, lead.Phone).Scan(&created.ID, &created.CreatedAt); err != nil {
		repoLogger.Error("Failed to insert lead", err, nil)
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}

	repoLogger.Debug("Lead inserted", port.Fields{"lead_id": created.ID})
	return &created, nil
}

func (r *PostgresLeadRepository) ListRecent(ctx context.Context, limit int) ([]domain.Lead, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresLeadRepository",
		"method":    "ListRecent",
		"limit":     limit,
	})

	query := `SELECT id, property_id, full_name, phone, created_at FROM leads ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		repoLogger.Error("Failed to query leads", err, nil)
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0, limit)
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.FullName, &l.Phone, &l.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan lead", err, nil)
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during leads iteration", err, nil)
		return nil, fmt.Errorf("error during leads iteration: %w", err)
	}
	return leads, nil
}
