package dbrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
)

type RateRepo struct {
	db *pgxpool.Pool
}

func NewRateRepo(db *pgxpool.Pool) *RateRepo {
	return &RateRepo{db: db}
}

func (r *RateRepo) ListRates(ctx context.Context) ([]models.ExchangeRate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, currency_code, fc_amount, updated_at
		FROM exchange_rates
		ORDER BY currency_code
	`)
	if err != nil {
		return nil, fmt.Errorf("query exchange rates failed: %w", err)
	}
	defer rows.Close()

	rates := make([]models.ExchangeRate, 0)
	for rows.Next() {
		var e models.ExchangeRate
		if err := rows.Scan(&e.ID, &e.CurrencyCode, &e.FCAmount, &e.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return rates, nil
}

func (r *RateRepo) GetRateByCurrency(ctx context.Context, code string) (*models.ExchangeRate, error) {
	var e models.ExchangeRate
	err := r.db.QueryRow(ctx, `
		SELECT id, currency_code, fc_amount, updated_at
		FROM exchange_rates WHERE currency_code = $1
	`, strings.ToUpper(strings.TrimSpace(code))).Scan(&e.ID, &e.CurrencyCode, &e.FCAmount, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch exchange rate failed: %w", err)
	}
	return &e, nil
}

// UpsertRate sets the rate for a currency, replacing any previous value.
// One row per currency code.
func (r *RateRepo) UpsertRate(ctx context.Context, e *models.ExchangeRate) error {
	code := strings.ToUpper(strings.TrimSpace(e.CurrencyCode))
	if code == "" {
		return fmt.Errorf("currency code is required")
	}
	if e.FCAmount <= 0 {
		return fmt.Errorf("exchange amount must be positive")
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO exchange_rates(currency_code, fc_amount, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (currency_code) DO UPDATE
		SET fc_amount = EXCLUDED.fc_amount, updated_at = CURRENT_TIMESTAMP
		RETURNING id, currency_code, updated_at
	`, code, e.FCAmount).Scan(&e.ID, &e.CurrencyCode, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert exchange rate failed: %w", err)
	}
	return nil
}

func (r *RateRepo) DeleteRate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exchange_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exchange rate failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
