package dbrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type AuditRepo struct {
	db *pgxpool.Pool
}

func NewAuditRepo(db *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append inserts an audit entry. The log is append-only: there is no
// update or delete counterpart anywhere in the repo.
func (r *AuditRepo) Append(ctx context.Context, e *models.AuditEntry) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO audit_log(user_id, action, entity, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, at
	`, e.UserID, e.Action, e.Entity, e.Detail).Scan(&e.ID, &e.At)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// AppendAuditTx inserts an audit entry within an existing transaction, so
// workflow mutations and their trail commit together.
func AppendAuditTx(ctx context.Context, tx pgx.Tx, e *models.AuditEntry) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO audit_log(user_id, action, entity, detail)
		VALUES ($1, $2, $3, $4)
		RETURNING id, at
	`, e.UserID, e.Action, e.Entity, e.Detail).Scan(&e.ID, &e.At)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.at, a.user_id, COALESCE(u.name, '') AS user_name, a.action, a.entity, a.detail
		FROM audit_log a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log failed: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0)
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.At, &e.UserID, &e.UserName, &e.Action, &e.Entity, &e.Detail); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
