package dbrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type ReportRepo struct {
	db       *pgxpool.Pool
	products *ProductRepo
	sales    *SaleRepo
}

func NewReportRepo(db *pgxpool.Pool, products *ProductRepo, sales *SaleRepo) *ReportRepo {
	return &ReportRepo{db: db, products: products, sales: sales}
}

// GetDashboardReport builds the aggregate projection behind the home
// screen: entity counts, sales figures for today/week/month, unpaid
// credit, alert lists and the five most recent sales.
func (r *ReportRepo) GetDashboardReport(ctx context.Context) (*models.DashboardReport, error) {
	report := &models.DashboardReport{}

	// --------------------
	// Step 1: entity counts
	// --------------------
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM suppliers),
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM sales)
	`).Scan(
		&report.TotalProducts,
		&report.TotalCategories,
		&report.TotalSuppliers,
		&report.TotalClients,
		&report.TotalSales,
	)
	if err != nil {
		return nil, fmt.Errorf("count entities failed: %w", err)
	}

	// --------------------
	// Step 2: sales figures per period
	// --------------------
	today := utils.Today()
	weekday := int(today.Weekday())
	weekStart := today.AddDate(0, 0, -weekday)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	periods := []struct {
		start  time.Time
		amount *float64
		count  *int64
	}{
		{today, &report.SalesToday, &report.SalesTodayCount},
		{weekStart, &report.SalesWeek, &report.SalesWeekCount},
		{monthStart, &report.SalesMonth, &report.SalesMonthCount},
	}
	for _, p := range periods {
		err = r.db.QueryRow(ctx, `
			SELECT COALESCE(SUM(total), 0), COUNT(*)
			FROM sales
			WHERE created_at >= $1
		`, p.start).Scan(p.amount, p.count)
		if err != nil {
			return nil, fmt.Errorf("sum sales failed: %w", err)
		}
	}

	// --------------------
	// Step 3: unpaid credit across unsettled sales
	// --------------------
	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total - paid_amount), 0)
		FROM sales
		WHERE is_settled = FALSE
	`).Scan(&report.OutstandingCredit)
	if err != nil {
		return nil, fmt.Errorf("sum outstanding credit failed: %w", err)
	}

	// --------------------
	// Step 4: alert lists
	// --------------------
	report.LowStockProducts, err = r.products.GetLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	report.ExpiringProducts, err = r.products.GetExpiringProducts(ctx, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	// --------------------
	// Step 5: recent sales
	// --------------------
	recent, _, err := r.sales.GetSales(ctx, "", "", 0, 5)
	if err != nil {
		return nil, err
	}
	report.RecentSales = make([]*models.Sale, 0, len(recent))
	for i := range recent {
		report.RecentSales = append(report.RecentSales, &recent[i])
	}

	return report, nil
}

// GetSalesBetween returns sales created within [from, to], newest
// first, with their lines loaded. Used by the PDF sales report.
func (r *ReportRepo) GetSalesBetween(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.reference, s.client_id, COALESCE(c.name, 'Walk-in'),
		       s.seller_id, u.name, s.sale_type, s.payment_mode,
		       s.total, s.paid_amount, s.is_settled, s.note, s.created_at, s.updated_at
		FROM sales s
		LEFT JOIN clients c ON c.id = s.client_id
		JOIN users u ON u.id = s.seller_id
		WHERE s.created_at BETWEEN $1 AND $2
		ORDER BY s.created_at DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sales failed: %w", err)
	}
	defer rows.Close()

	sales := []*models.Sale{}
	for rows.Next() {
		var s models.Sale
		err := rows.Scan(
			&s.ID, &s.Reference, &s.ClientID, &s.ClientName,
			&s.SellerID, &s.SellerName, &s.SaleType, &s.PaymentMode,
			&s.Total, &s.PaidAmount, &s.IsSettled, &s.Note, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, s := range sales {
		full, err := r.sales.GetSaleDetailsByID(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = full.Lines
	}
	return sales, nil
}
