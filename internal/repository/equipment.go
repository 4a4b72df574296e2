package repository

import (
	"context"
	"fmt"

	"epsol/importer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EquipmentRepository stores equipment records and assigns their identity.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, record *domain.EquipmentRecord) (string, error)
}

type equipmentRepository struct {
	db *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{
		db: db,
	}
}

// EnsureSchema creates the equipment table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	query := `
	CREATE TABLE IF NOT EXISTS equipment (
		id             UUID PRIMARY KEY,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL,
		subcategory    TEXT NOT NULL,
		description    TEXT,
		price          DOUBLE PRECISION NOT NULL DEFAULT 0,
		currency       VARCHAR(3) NOT NULL DEFAULT 'RUB',
		brand          TEXT,
		model          TEXT,
		specifications JSONB,
		availability   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create equipment table: %w", err)
	}
	return nil
}

func (r *equipmentRepository) CreateEquipment(ctx context.Context, record *domain.EquipmentRecord) (string, error) {
	if err := record.Validate(); err != nil {
		return "", err
	}

	id := uuid.New()

	// A nil map must reach the column as SQL NULL, not as the JSON literal null.
	var specs any
	if len(record.Specifications) > 0 {
		specs = record.Specifications
	}

	query := `
	INSERT INTO equipment (id, name, category, subcategory, description, price, currency, brand, model, specifications, availability)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		id,
		record.Name,
		record.Category,
		record.Subcategory,
		record.Description,
		record.Price,
		record.Currency,
		record.Brand,
		record.Model,
		specs,
		record.Availability,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save equipment %q: %w", record.Name, err)
	}

	return id.String(), nil
}
