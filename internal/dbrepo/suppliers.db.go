package dbrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type SupplierRepo struct {
	db *pgxpool.Pool
}

func NewSupplierRepo(db *pgxpool.Pool) *SupplierRepo {
	return &SupplierRepo{db: db}
}

func (r *SupplierRepo) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, margin_percent, created_at, updated_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers failed: %w", err)
	}
	defer rows.Close()

	suppliers := make([]models.Supplier, 0)
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.MarginPercent, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return suppliers, nil
}

func (r *SupplierRepo) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.QueryRow(ctx, `
		SELECT id, name, margin_percent, created_at, updated_at
		FROM suppliers WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.MarginPercent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch supplier failed: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepo) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	if s.MarginPercent < 0 {
		return fmt.Errorf("margin percent must not be negative")
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers(name, margin_percent, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`, strings.TrimSpace(s.Name), s.MarginPercent).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier failed: %w", err)
	}
	return nil
}

// UpdateSupplier saves the supplier. A margin change takes effect on the
// next price computation; it never rewrites amounts on past sale lines.
func (r *SupplierRepo) UpdateSupplier(ctx context.Context, s *models.Supplier) error {
	if s.MarginPercent < 0 {
		return fmt.Errorf("margin percent must not be negative")
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET name = $1, margin_percent = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, strings.TrimSpace(s.Name), s.MarginPercent, s.ID)
	if err != nil {
		return fmt.Errorf("update supplier failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) DeleteSupplier(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreateSupplierByName finds a supplier by exact name or inserts it
// with the given margin. Used by the Excel import.
func (r *SupplierRepo) GetOrCreateSupplierByName(ctx context.Context, name string, marginPercent float64) (*models.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}
	if marginPercent < 0 {
		return nil, fmt.Errorf("margin percent must not be negative")
	}

	var s models.Supplier
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers(name, margin_percent, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET updated_at = suppliers.updated_at
		RETURNING id, name, margin_percent, created_at, updated_at
	`, name, marginPercent).Scan(&s.ID, &s.Name, &s.MarginPercent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create supplier failed: %w", err)
	}
	return &s, nil
}
