package dbrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/pricing"
)

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `
	p.id, p.name, p.purchase_price, p.sale_price_usd,
	p.stock_qty, p.initial_qty, p.alert_qty,
	p.expiry_alert_days, p.expiry_date,
	p.supplier_id, s.name, s.margin_percent,
	p.category_id, c.name,
	p.created_at, p.updated_at
`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.PurchasePrice, &p.SalePriceUSD,
		&p.StockQty, &p.InitialQty, &p.AlertQty,
		&p.ExpiryAlertDays, &p.ExpiryDate,
		&p.SupplierID, &p.SupplierName, &p.MarginPercent,
		&p.CategoryID, &p.CategoryName,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// decorate fills the computed fields: sale price and alert flags.
func (r *ProductRepo) decorate(p *models.Product, rate *models.ExchangeRate) {
	p.SalePrice = pricing.SalePrice(p, rate)
	p.LowStock = p.StockQty <= p.AlertQty
	if p.ExpiryDate != nil {
		daysLeft := int64(time.Until(*p.ExpiryDate).Hours() / 24)
		p.ExpiringSoon = daysLeft <= p.ExpiryAlertDays
	}
}

// usdRate returns the active USD rate, or nil when none is configured.
func (r *ProductRepo) usdRate(ctx context.Context) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.QueryRow(ctx, `
		SELECT id, currency_code, fc_amount, updated_at
		FROM exchange_rates WHERE currency_code = $1
	`, models.DEFAULT_CURRENCY).Scan(&rate.ID, &rate.CurrencyCode, &rate.FCAmount, &rate.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch exchange rate: %w", err)
	}
	return &rate, nil
}

// GetProducts fetches all products with supplier and category names resolved.
func (r *ProductRepo) GetProducts(ctx context.Context) ([]*models.Product, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM products p
        JOIN suppliers s ON s.id = p.supplier_id
        JOIN categories c ON c.id = p.category_id
        ORDER BY p.name;
    `, productColumns)

	rate, err := r.usdRate(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		r.decorate(p, rate)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// GetProductByID fetches a single product
func (r *ProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM products p
        JOIN suppliers s ON s.id = p.supplier_id
        JOIN categories c ON c.id = p.category_id
        WHERE p.id = $1;
    `, productColumns)

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch product failed: %w", err)
	}

	rate, err := r.usdRate(ctx)
	if err != nil {
		return nil, err
	}
	r.decorate(p, rate)
	return p, nil
}

// CreateProduct inserts a product. Stock starts at the initial quantity
// unless an explicit stock level is given.
func (r *ProductRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.StockQty == 0 {
		p.StockQty = p.InitialQty
	}
	if p.AlertQty == 0 {
		p.AlertQty = 10
	}
	if p.ExpiryAlertDays == 0 {
		p.ExpiryAlertDays = 30
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO products(
			name, purchase_price, sale_price_usd, stock_qty, initial_qty,
			alert_qty, expiry_alert_days, expiry_date, supplier_id, category_id,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`,
		p.Name, p.PurchasePrice, p.SalePriceUSD, p.StockQty, p.InitialQty,
		p.AlertQty, p.ExpiryAlertDays, p.ExpiryDate, p.SupplierID, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product failed: %w", err)
	}
	return nil
}

// UpdateProduct updates the catalog fields of a product. Stock is not
// touched here: only the sale workflow moves stock.
func (r *ProductRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			name = $1, purchase_price = $2, sale_price_usd = $3,
			initial_qty = $4, alert_qty = $5, expiry_alert_days = $6,
			expiry_date = $7, supplier_id = $8, category_id = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
	`,
		p.Name, p.PurchasePrice, p.SalePriceUSD,
		p.InitialQty, p.AlertQty, p.ExpiryAlertDays,
		p.ExpiryDate, p.SupplierID, p.CategoryID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product. Referential integrity blocks deleting
// anything referenced by sale lines; the handler translates that error.
func (r *ProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetLowStockProducts lists products at or below their alert quantity.
func (r *ProductRepo) GetLowStockProducts(ctx context.Context) ([]*models.Product, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM products p
        JOIN suppliers s ON s.id = p.supplier_id
        JOIN categories c ON c.id = p.category_id
        WHERE p.stock_qty <= p.alert_qty
        ORDER BY p.stock_qty ASC;
    `, productColumns)

	return r.queryProducts(ctx, query)
}

// GetExpiringProducts lists products expiring within the given window.
func (r *ProductRepo) GetExpiringProducts(ctx context.Context, within time.Duration) ([]*models.Product, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM products p
        JOIN suppliers s ON s.id = p.supplier_id
        JOIN categories c ON c.id = p.category_id
        WHERE p.expiry_date IS NOT NULL AND p.expiry_date <= $1
        ORDER BY p.expiry_date ASC;
    `, productColumns)

	return r.queryProducts(ctx, query, time.Now().Add(within))
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*models.Product, error) {
	rate, err := r.usdRate(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		r.decorate(p, rate)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}
