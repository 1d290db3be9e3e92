package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	handlers "github.com/FBNTech/ndosiphar/api/handlers"
	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/models"
)

// Handlers bundles one handler per resource.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Category   *handlers.CategoryHandler
	Supplier   *handlers.SupplierHandler
	Client     *handlers.ClientHandler
	Product    *handlers.ProductHandler
	Rate       *handlers.RateHandler
	Preference *handlers.PreferenceHandler
	Sale       *handlers.SaleHandler
	Report     *handlers.ReportHandler
	Audit      *handlers.AuditHandler
	Excel      *handlers.ExcelHandler
	User       *handlers.UserHandler
}

type Application struct {
	Config   models.Config
	Log      *zap.SugaredLogger
	Redis    *redis.Client
	Handlers Handlers
}

// NewApplication wires repositories and handlers onto a database pool.
// redisClient may be nil; everything that depends on it degrades to a
// pass-through.
func NewApplication(cfg models.Config, db *pgxpool.Pool, redisClient *redis.Client, log *zap.SugaredLogger) *Application {
	auditRepo := dbrepo.NewAuditRepo(db)
	categoryRepo := dbrepo.NewCategoryRepo(db)
	supplierRepo := dbrepo.NewSupplierRepo(db)
	clientRepo := dbrepo.NewClientRepo(db)
	productRepo := dbrepo.NewProductRepo(db)
	rateRepo := dbrepo.NewRateRepo(db)
	prefRepo := dbrepo.NewPreferenceRepo(db)
	saleRepo := dbrepo.NewSaleRepo(db)
	userRepo := dbrepo.NewUserRepo(db)
	reportRepo := dbrepo.NewReportRepo(db, productRepo, saleRepo)

	return &Application{
		Config: cfg,
		Log:    log,
		Redis:  redisClient,
		Handlers: Handlers{
			Auth:       handlers.NewAuthHandler(userRepo, auditRepo, cfg.JWT, log),
			Category:   handlers.NewCategoryHandler(categoryRepo, auditRepo, log),
			Supplier:   handlers.NewSupplierHandler(supplierRepo, auditRepo, log),
			Client:     handlers.NewClientHandler(clientRepo, auditRepo, log),
			Product:    handlers.NewProductHandler(productRepo, auditRepo, log),
			Rate:       handlers.NewRateHandler(rateRepo, auditRepo, log),
			Preference: handlers.NewPreferenceHandler(prefRepo, log),
			Sale:       handlers.NewSaleHandler(saleRepo, log),
			Report:     handlers.NewReportHandler(reportRepo, log),
			Audit:      handlers.NewAuditHandler(auditRepo, log),
			Excel:      handlers.NewExcelHandler(categoryRepo, supplierRepo, clientRepo, productRepo, reportRepo, auditRepo, log),
			User:       handlers.NewUserHandler(userRepo, auditRepo, log),
		},
	}
}
