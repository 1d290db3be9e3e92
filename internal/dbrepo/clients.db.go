package dbrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type ClientRepo struct {
	db *pgxpool.Pool
}

func NewClientRepo(db *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{db: db}
}

// GetClients returns clients matching the optional name/phone search,
// newest first.
func (r *ClientRepo) GetClients(ctx context.Context, search string) ([]models.Client, error) {
	query := `
		SELECT id, name, phone, address, created_at, updated_at
		FROM clients
	`
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+s+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query clients failed: %w", err)
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return clients, nil
}

func (r *ClientRepo) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	err := r.db.QueryRow(ctx, `
		SELECT id, name, phone, address, created_at, updated_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch client failed: %w", err)
	}
	return &c, nil
}

func (r *ClientRepo) CreateClient(ctx context.Context, c *models.Client) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO clients(name, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`, strings.TrimSpace(c.Name), c.Phone, c.Address).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert client failed: %w", err)
	}
	return nil
}

func (r *ClientRepo) UpdateClient(ctx context.Context, c *models.Client) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clients
		SET name = $1, phone = $2, address = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, strings.TrimSpace(c.Name), c.Phone, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("update client failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClientRepo) DeleteClient(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetClientOutstanding sums the unpaid balance across the client's
// unsettled credit sales.
func (r *ClientRepo) GetClientOutstanding(ctx context.Context, id int64) (float64, error) {
	var due float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total - paid_amount), 0)
		FROM sales
		WHERE client_id = $1 AND is_settled = FALSE
	`, id).Scan(&due)
	if err != nil {
		return 0, fmt.Errorf("fetch client outstanding failed: %w", err)
	}
	return due, nil
}
