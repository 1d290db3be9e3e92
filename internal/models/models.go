package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	APPName    = "Ndosi Pharmacy"
	APPVersion = "1.0"
)

// User roles
const (
	ROLE_ADMIN   = "admin"
	ROLE_MANAGER = "manager"
	ROLE_SELLER  = "seller"
	ROLE_AUDITOR = "auditor"
)

// Sale types
const (
	SALE_RETAIL    = "retail"
	SALE_WHOLESALE = "wholesale"
)

// Payment modes
const (
	PAYMENT_CASH   = "cash"
	PAYMENT_CREDIT = "credit"
)

// Audit actions
const (
	AUDIT_CREATE = "create"
	AUDIT_UPDATE = "update"
	AUDIT_DELETE = "delete"
	AUDIT_LOGIN  = "login"
)

// DEFAULT_CURRENCY is the exchange-rate code consulted when a product
// carries a USD sale price.
const DEFAULT_CURRENCY = "USD"

// Response is the type for response
type Response struct {
	Error   bool   `json:"error"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JWT holds the authenticated user info carried in the token
type JWT struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Issuer    string `json:"iss"`
	Audience  string `json:"aud"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
	Algorithm string
	Expiry    time.Duration
}

type DBConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type LogConfig struct {
	Level string
}

type Config struct {
	Port  int64
	Env   string
	JWT   JWTConfig
	DB    DBConfig
	Redis RedisConfig
	Log   LogConfig
}

// User model
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"` // hashed
	Role      string    `json:"role"`               // admin, manager, seller, auditor
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category represents the categories table
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Supplier represents the suppliers table
type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	MarginPercent float64   `json:"margin_percent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Product represents the products table. SalePrice is computed, never stored.
type Product struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	PurchasePrice   float64    `json:"purchase_price"`
	SalePriceUSD    float64    `json:"sale_price_usd"`
	SalePrice       float64    `json:"sale_price"`
	StockQty        int64      `json:"stock_qty"`
	InitialQty      int64      `json:"initial_qty"`
	AlertQty        int64      `json:"alert_qty"`
	ExpiryAlertDays int64      `json:"expiry_alert_days"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	SupplierID      int64      `json:"supplier_id"`
	SupplierName    string     `json:"supplier_name,omitempty"`
	MarginPercent   float64    `json:"margin_percent,omitempty"`
	CategoryID      int64      `json:"category_id"`
	CategoryName    string     `json:"category_name,omitempty"`
	LowStock        bool       `json:"low_stock"`
	ExpiringSoon    bool       `json:"expiring_soon"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var (
	// ErrInsufficientStock is returned when a requested quantity exceeds
	// the product's current stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for a zero or negative quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Deduct takes qty units out of stock. A quantity covering the entire
// remaining stock is allowed and leaves zero; anything beyond it is
// rejected and the level stays untouched.
func (p *Product) Deduct(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w %d for %s", ErrInvalidQuantity, qty, p.Name)
	}
	if qty > p.StockQty {
		return fmt.Errorf("%w for %s (available: %d)", ErrInsufficientStock, p.Name, p.StockQty)
	}
	p.StockQty -= qty
	return nil
}

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExchangeRate holds one active rate per currency code.
// FCAmount is the local-currency amount for one unit of the currency.
type ExchangeRate struct {
	ID           int64     `json:"id"`
	CurrencyCode string    `json:"currency_code"`
	FCAmount     float64   `json:"fc_amount"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuditEntry is an append-only record of user actions
type AuditEntry struct {
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
	UserID   *int64    `json:"user_id,omitempty"`
	UserName string    `json:"user_name,omitempty"`
	Action   string    `json:"action"` // create, update, delete, login
	Entity   string    `json:"entity"`
	Detail   string    `json:"detail"`
}

// SupplierPreference is the per-user default supplier used to prefill
// the product form. Explicit record, not session state.
type SupplierPreference struct {
	UserID       int64     `json:"user_id"`
	SupplierID   *int64    `json:"supplier_id,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DashboardReport is the aggregate projection behind the dashboard screen
type DashboardReport struct {
	TotalProducts   int64 `json:"total_products"`
	TotalCategories int64 `json:"total_categories"`
	TotalSuppliers  int64 `json:"total_suppliers"`
	TotalClients    int64 `json:"total_clients"`
	TotalSales      int64 `json:"total_sales"`

	SalesToday      float64 `json:"sales_today"`
	SalesTodayCount int64   `json:"sales_today_count"`
	SalesWeek       float64 `json:"sales_week"`
	SalesWeekCount  int64   `json:"sales_week_count"`
	SalesMonth      float64 `json:"sales_month"`
	SalesMonthCount int64   `json:"sales_month_count"`

	OutstandingCredit float64 `json:"outstanding_credit"`

	LowStockProducts []*Product `json:"low_stock_products"`
	ExpiringProducts []*Product `json:"expiring_products"`
	RecentSales      []*Sale    `json:"recent_sales"`
}
