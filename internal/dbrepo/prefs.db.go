package dbrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

// PreferenceRepo stores per-user working state, such as the supplier a
// user last selected while browsing the catalog. One row per user.
type PreferenceRepo struct {
	db *pgxpool.Pool
}

func NewPreferenceRepo(db *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

func (r *PreferenceRepo) GetPreference(ctx context.Context, userID int64) (*models.SupplierPreference, error) {
	var p models.SupplierPreference
	err := r.db.QueryRow(ctx, `
		SELECT p.user_id, p.default_supplier_id, COALESCE(s.name, ''), p.updated_at
		FROM user_preferences p
		LEFT JOIN suppliers s ON s.id = p.default_supplier_id
		WHERE p.user_id = $1
	`, userID).Scan(&p.UserID, &p.SupplierID, &p.SupplierName, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch preference failed: %w", err)
	}
	return &p, nil
}

// SetPreference records the user's default supplier, replacing any
// previous choice.
func (r *PreferenceRepo) SetPreference(ctx context.Context, userID, supplierID int64) (*models.SupplierPreference, error) {
	var p models.SupplierPreference
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_preferences(user_id, default_supplier_id, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET default_supplier_id = EXCLUDED.default_supplier_id, updated_at = CURRENT_TIMESTAMP
		RETURNING user_id, default_supplier_id, updated_at
	`, userID, supplierID).Scan(&p.UserID, &p.SupplierID, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("set preference failed: %w", err)
	}
	return &p, nil
}

// ClearPreference removes the user's default supplier. Clearing a user
// with no stored preference is not an error.
func (r *PreferenceRepo) ClearPreference(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear preference failed: %w", err)
	}
	return nil
}
