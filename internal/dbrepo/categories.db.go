package dbrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type CategoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepo(db *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories failed: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepo) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch category failed: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories(name, created_at, updated_at)
		VALUES ($1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`, strings.TrimSpace(c.Name)).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category failed: %w", err)
	}
	return nil
}

func (r *CategoryRepo) UpdateCategory(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
	`, strings.TrimSpace(c.Name), c.ID)
	if err != nil {
		return fmt.Errorf("update category failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreateCategoryByName finds a category by exact name or inserts it.
// Used by the Excel import.
func (r *CategoryRepo) GetOrCreateCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var c models.Category
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories(name, created_at, updated_at)
		VALUES ($1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET updated_at = categories.updated_at
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create category failed: %w", err)
	}
	return &c, nil
}
