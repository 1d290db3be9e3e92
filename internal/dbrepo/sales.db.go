package dbrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/pricing"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrEmptySale is returned when a checkout ends up with no valid line.
	ErrEmptySale = errors.New("sale must contain at least one line")
	// ErrInvalidSale is returned when a checkout payload fails validation.
	ErrInvalidSale = errors.New("invalid sale request")

	// Business-rule sentinels live with the types that enforce them.
	ErrInsufficientStock = models.ErrInsufficientStock
	ErrInvalidQuantity   = models.ErrInvalidQuantity
	ErrPaymentOutOfRange = models.ErrPaymentOutOfRange
)

type SaleRepo struct {
	db *pgxpool.Pool
}

func NewSaleRepo(db *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{db: db}
}

// decrementStockTx applies the stock check and decrement as one conditional
// update. Zero rows affected means the product is missing or short on stock.
func decrementStockTx(ctx context.Context, tx pgx.Tx, productID, quantity int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock_qty = stock_qty - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND stock_qty >= $1
	`, quantity, productID)
	if err != nil {
		return false, fmt.Errorf("decrement stock for product %d: %w", productID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// restoreStockTx puts a line's quantity back on the shelf. Plain addition,
// no upper bound.
func restoreStockTx(ctx context.Context, tx pgx.Tx, productID, quantity int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE products
		SET stock_qty = stock_qty + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, quantity, productID)
	if err != nil {
		return fmt.Errorf("restore stock for product %d: %w", productID, err)
	}
	return nil
}

// unitPriceTx snapshots the product's current computed sale price.
func unitPriceTx(ctx context.Context, tx pgx.Tx, productID int64) (string, float64, error) {
	var p models.Product
	err := tx.QueryRow(ctx, `
		SELECT p.name, p.purchase_price, p.sale_price_usd, s.margin_percent
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = $1
	`, productID).Scan(&p.Name, &p.PurchasePrice, &p.SalePriceUSD, &p.MarginPercent)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("fetch product %d: %w", productID, err)
	}

	var rate *models.ExchangeRate
	if p.SalePriceUSD > 0 {
		var r models.ExchangeRate
		err = tx.QueryRow(ctx, `
			SELECT id, currency_code, fc_amount, updated_at
			FROM exchange_rates WHERE currency_code = $1
		`, models.DEFAULT_CURRENCY).Scan(&r.ID, &r.CurrencyCode, &r.FCAmount, &r.UpdatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return "", 0, fmt.Errorf("fetch exchange rate: %w", err)
		}
		if err == nil {
			rate = &r
		}
	}

	return p.Name, pricing.SalePrice(&p, rate), nil
}

// recomputeTotalsTx re-sums the sale total from its current lines. A sale
// already marked settled stays settled even if a later line edit raises
// the total past what was paid.
func recomputeTotalsTx(ctx context.Context, tx pgx.Tx, saleID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE sales SET
			total = COALESCE((SELECT SUM(line_amount) FROM sale_lines WHERE sale_id = $1), 0),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, saleID)
	if err != nil {
		return fmt.Errorf("recompute sale total: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE sales SET is_settled = is_settled OR (paid_amount >= total) WHERE id = $1
	`, saleID)
	if err != nil {
		return fmt.Errorf("recompute settlement: %w", err)
	}
	return nil
}

// CreateSale inserts a sale with its lines, decrementing product stock as
// each line is accepted. Lines short on stock are skipped and reported as
// warnings; a sale with zero accepted lines is rejected and nothing is
// persisted. The whole checkout runs in a single transaction.
func (r *SaleRepo) CreateSale(ctx context.Context, req *models.SaleRequest, seller *models.JWT) (*models.SaleResult, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptySale
	}
	if req.PaymentMode != models.PAYMENT_CASH && req.PaymentMode != models.PAYMENT_CREDIT {
		return nil, fmt.Errorf("%w: unknown payment mode %q", ErrInvalidSale, req.PaymentMode)
	}
	if req.SaleType == "" {
		req.SaleType = models.SALE_RETAIL
	}
	if req.SaleType != models.SALE_RETAIL && req.SaleType != models.SALE_WHOLESALE {
		return nil, fmt.Errorf("%w: unknown sale type %q", ErrInvalidSale, req.SaleType)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// --------------------
	// Step 1: Resolve the client (optionally created inline)
	// --------------------
	var clientID *int64
	if req.ClientID > 0 {
		clientID = &req.ClientID
	} else if name := strings.TrimSpace(req.NewClientName); name != "" {
		var id int64
		err = tx.QueryRow(ctx, `
			INSERT INTO clients(name, phone, address, created_at, updated_at)
			VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING id
		`, name, strings.TrimSpace(req.NewClientPhone), strings.TrimSpace(req.NewClientAddress)).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("create client failed: %w", err)
		}
		clientID = &id
	}

	// --------------------
	// Step 2: Insert sale header
	// --------------------
	sale := &models.Sale{
		Reference:   utils.GenerateReference(),
		ClientID:    clientID,
		SellerID:    seller.ID,
		SellerName:  seller.Name,
		SaleType:    req.SaleType,
		PaymentMode: req.PaymentMode,
		Note:        req.Note,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales(reference, client_id, seller_id, sale_type, payment_mode, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at
	`, sale.Reference, clientID, seller.ID, req.SaleType, req.PaymentMode, req.Note).Scan(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert sale failed: %w", err)
	}

	// --------------------
	// Step 3: Process line requests in input order
	// --------------------
	var warnings []string
	for _, lr := range req.Lines {
		var p models.Product
		err := tx.QueryRow(ctx, `SELECT name, stock_qty FROM products WHERE id = $1`, lr.ProductID).Scan(&p.Name, &p.StockQty)
		if err == pgx.ErrNoRows {
			warnings = append(warnings, fmt.Sprintf("product %d not found", lr.ProductID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch product %d: %w", lr.ProductID, err)
		}
		if derr := p.Deduct(lr.Quantity); derr != nil {
			warnings = append(warnings, derr.Error())
			continue
		}

		// the conditional update is the atomic guard against a
		// concurrent sale draining stock after the read above
		ok, err := decrementStockTx(ctx, tx, lr.ProductID, lr.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("insufficient stock for %s", p.Name))
			continue
		}

		// unit price snapshotted at line-creation time, never recomputed
		name, unitPrice, err := unitPriceTx(ctx, tx, lr.ProductID)
		if err != nil {
			return nil, err
		}

		line := models.SaleLine{
			SaleID:      sale.ID,
			ProductID:   lr.ProductID,
			ProductName: name,
			Quantity:    lr.Quantity,
			UnitPrice:   unitPrice,
			LineAmount:  pricing.LineAmount(lr.Quantity, unitPrice),
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO sale_lines(sale_id, product_id, quantity, unit_price, line_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.LineAmount).Scan(&line.ID)
		if err != nil {
			return nil, fmt.Errorf("insert sale line failed: %w", err)
		}

		sale.Lines = append(sale.Lines, line)
		sale.Total += line.LineAmount
	}

	if len(sale.Lines) == 0 {
		return nil, ErrEmptySale
	}

	// --------------------
	// Step 4: Payment fields
	// --------------------
	if req.PaymentMode == models.PAYMENT_CASH {
		sale.PaidAmount = sale.Total
		sale.IsSettled = true
	} else {
		sale.PaidAmount = 0
		sale.IsSettled = false
	}

	_, err = tx.Exec(ctx, `
		UPDATE sales SET
			total = $1, paid_amount = $2, is_settled = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, sale.Total, sale.PaidAmount, sale.IsSettled, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("update sale totals failed: %w", err)
	}

	// --------------------
	// Step 5: Audit entry
	// --------------------
	err = AppendAuditTx(ctx, tx, &models.AuditEntry{
		UserID: &seller.ID,
		Action: models.AUDIT_CREATE,
		Entity: "sale",
		Detail: fmt.Sprintf("Sale #%d - total %.2f (%s)", sale.ID, sale.Total, sale.PaymentMode),
	})
	if err != nil {
		return nil, fmt.Errorf("append audit entry failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale failed: %w", err)
	}

	return &models.SaleResult{Sale: sale, Warnings: warnings}, nil
}

// AddLine appends one line to an existing sale. A stock shortfall aborts
// this call only, reporting the available quantity.
func (r *SaleRepo) AddLine(ctx context.Context, saleID, productID, quantity int64) (*models.SaleLine, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// lock sale row
	var exists int64
	err = tx.QueryRow(ctx, `SELECT id FROM sales WHERE id = $1 FOR UPDATE`, saleID).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock sale failed: %w", err)
	}

	var p models.Product
	err = tx.QueryRow(ctx, `SELECT name, stock_qty FROM products WHERE id = $1`, productID).Scan(&p.Name, &p.StockQty)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch product %d: %w", productID, err)
	}
	if err := p.Deduct(quantity); err != nil {
		return nil, err
	}

	// the conditional update is the atomic guard against a concurrent
	// sale draining stock after the read above
	ok, err := decrementStockTx(ctx, tx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
	}

	name, unitPrice, err := unitPriceTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	line := &models.SaleLine{
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineAmount:  pricing.LineAmount(quantity, unitPrice),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO sale_lines(sale_id, product_id, quantity, unit_price, line_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.LineAmount).Scan(&line.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sale line failed: %w", err)
	}

	if err := recomputeTotalsTx(ctx, tx, saleID); err != nil {
		return nil, err
	}

	return line, tx.Commit(ctx)
}

// RemoveLine deletes a line and restores its quantity to the product's stock.
func (r *SaleRepo) RemoveLine(ctx context.Context, saleID, lineID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var productID, quantity int64
	err = tx.QueryRow(ctx, `
		SELECT product_id, quantity FROM sale_lines
		WHERE id = $1 AND sale_id = $2
	`, lineID, saleID).Scan(&productID, &quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("fetch sale line failed: %w", err)
	}

	if err := restoreStockTx(ctx, tx, productID, quantity); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `DELETE FROM sale_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete sale line failed: %w", err)
	}

	if err := recomputeTotalsTx(ctx, tx, saleID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteSale restores every line's quantity to stock, then deletes the sale
// (lines removed by cascade).
func (r *SaleRepo) DeleteSale(ctx context.Context, saleID int64, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var total float64
	err = tx.QueryRow(ctx, `SELECT total FROM sales WHERE id = $1 FOR UPDATE`, saleID).Scan(&total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("lock sale failed: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT product_id, quantity FROM sale_lines WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("fetch sale lines failed: %w", err)
	}
	type restock struct{ productID, quantity int64 }
	var restocks []restock
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return err
		}
		restocks = append(restocks, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	for _, rs := range restocks {
		if err := restoreStockTx(ctx, tx, rs.productID, rs.quantity); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale failed: %w", err)
	}

	err = AppendAuditTx(ctx, tx, &models.AuditEntry{
		UserID: &userID,
		Action: models.AUDIT_DELETE,
		Entity: "sale",
		Detail: fmt.Sprintf("Sale #%d - total %.2f", saleID, total),
	})
	if err != nil {
		return fmt.Errorf("append audit entry failed: %w", err)
	}

	return tx.Commit(ctx)
}

// RecordCreditPayment applies a payment against a credit sale's outstanding
// balance. Once settled, a sale never reverts to unsettled here.
func (r *SaleRepo) RecordCreditPayment(ctx context.Context, saleID int64, amount float64, userID int64) (*models.Sale, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sale := &models.Sale{ID: saleID}
	err = tx.QueryRow(ctx, `
		SELECT total, paid_amount, is_settled, payment_mode
		FROM sales WHERE id = $1 FOR UPDATE
	`, saleID).Scan(&sale.Total, &sale.PaidAmount, &sale.IsSettled, &sale.PaymentMode)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock sale failed: %w", err)
	}

	if err := sale.ApplyPayment(amount); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE sales SET paid_amount = $1, is_settled = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, sale.PaidAmount, sale.IsSettled, saleID)
	if err != nil {
		return nil, fmt.Errorf("update sale payment failed: %w", err)
	}

	err = AppendAuditTx(ctx, tx, &models.AuditEntry{
		UserID: &userID,
		Action: models.AUDIT_UPDATE,
		Entity: "sale",
		Detail: fmt.Sprintf("Sale #%d - payment %.2f (paid %.2f of %.2f)", saleID, amount, sale.PaidAmount, sale.Total),
	})
	if err != nil {
		return nil, fmt.Errorf("append audit entry failed: %w", err)
	}

	return sale, tx.Commit(ctx)
}

// GetSales returns a paginated, filtered sale list with its total count.
func (r *SaleRepo) GetSales(ctx context.Context, search, status string, page, limit int) ([]models.Sale, int, error) {
	baseQuery := `
        FROM sales sl
        LEFT JOIN clients c ON c.id = sl.client_id
        JOIN users u ON u.id = sl.seller_id
    `

	var conditions []string
	var args []interface{}
	argPos := 1

	search = strings.TrimSpace(search)
	if search != "" {
		searchTerm := "%" + search + "%"
		conditions = append(conditions, fmt.Sprintf(`
            (
                c.name ILIKE $%d OR
                c.phone ILIKE $%d OR
                u.name ILIKE $%d
            )
        `, argPos, argPos, argPos))
		args = append(args, searchTerm)
		argPos++
	}

	switch status {
	case "settled":
		conditions = append(conditions, "sl.is_settled = TRUE")
	case "credit":
		conditions = append(conditions, "sl.is_settled = FALSE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var totalCount int
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", baseQuery, whereClause)
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales failed: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}
	if page < 0 {
		page = 0
	}
	offset := page * limit

	dataQuery := fmt.Sprintf(`
        SELECT
            sl.id, sl.reference, sl.client_id, COALESCE(c.name, 'Walk-in') AS client_name,
            sl.seller_id, u.name AS seller_name,
            sl.sale_type, sl.payment_mode,
            sl.total, sl.paid_amount, sl.is_settled,
            sl.note, sl.created_at, sl.updated_at
        %s
        %s
        ORDER BY sl.created_at DESC
        LIMIT $%d OFFSET $%d
    `, baseQuery, whereClause, argPos, argPos+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query sales failed: %w", err)
	}
	defer rows.Close()

	sales := make([]models.Sale, 0)
	for rows.Next() {
		var s models.Sale
		err := rows.Scan(
			&s.ID, &s.Reference, &s.ClientID, &s.ClientName,
			&s.SellerID, &s.SellerName,
			&s.SaleType, &s.PaymentMode,
			&s.Total, &s.PaidAmount, &s.IsSettled,
			&s.Note, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
	}

	return sales, totalCount, nil
}

// GetSaleDetailsByID fetches a sale header together with its lines.
func (r *SaleRepo) GetSaleDetailsByID(ctx context.Context, saleID int64) (*models.Sale, error) {
	var sale models.Sale

	err := r.db.QueryRow(ctx, `
		SELECT
			sl.id, sl.reference, sl.client_id, COALESCE(c.name, 'Walk-in') AS client_name,
			sl.seller_id, u.name AS seller_name,
			sl.sale_type, sl.payment_mode,
			sl.total, sl.paid_amount, sl.is_settled,
			sl.note, sl.created_at, sl.updated_at
		FROM sales sl
		LEFT JOIN clients c ON c.id = sl.client_id
		JOIN users u ON u.id = sl.seller_id
		WHERE sl.id = $1
	`, saleID).Scan(
		&sale.ID, &sale.Reference, &sale.ClientID, &sale.ClientName,
		&sale.SellerID, &sale.SellerName,
		&sale.SaleType, &sale.PaymentMode,
		&sale.Total, &sale.PaidAmount, &sale.IsSettled,
		&sale.Note, &sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch sale failed: %w", err)
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT
			ln.id, ln.sale_id, ln.product_id, p.name,
			ln.quantity, ln.unit_price, ln.line_amount
		FROM sale_lines ln
		JOIN products p ON p.id = ln.product_id
		WHERE ln.sale_id = $1
		ORDER BY ln.id
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("fetch sale lines failed: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var ln models.SaleLine
		if err := lineRows.Scan(
			&ln.ID, &ln.SaleID, &ln.ProductID, &ln.ProductName,
			&ln.Quantity, &ln.UnitPrice, &ln.LineAmount,
		); err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, ln)
	}

	return &sale, nil
}
