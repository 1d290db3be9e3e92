package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

func (app *Application) Routes() http.Handler {
	mux := chi.NewRouter()

	// --- Global middlewares ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(app.Logger)
	mux.Use(app.Metrics)

	// --- Public Routes ---
	mux.With(app.RateLimitSignin).Post("/api/v1/signin", app.Handlers.Auth.Signin)

	mux.Handle("/metrics", promhttp.Handler())

	// --- Health check ---
	mux.Get("/api/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"status":  "live",
			"app":     models.APPName,
			"version": models.APPVersion,
		}
		utils.WriteJSON(w, http.StatusOK, resp)
	})

	// --- Protected Routes ---
	protected := chi.NewRouter()
	protected.Use(app.AuthUser)

	// Anyone signed in can read; sellers stop here.
	anyRole := app.RequireRoles(models.ROLE_ADMIN, models.ROLE_MANAGER, models.ROLE_SELLER, models.ROLE_AUDITOR)
	// Catalog and client mutations are closed to sellers.
	nonSeller := app.RequireRoles(models.ROLE_ADMIN, models.ROLE_MANAGER, models.ROLE_AUDITOR)
	adminOnly := app.RequireRoles(models.ROLE_ADMIN)

	// -------------------- Catalog Routes --------------------
	protected.Route("/api/v1/categories", func(r chi.Router) {
		r.With(anyRole).Get("/", app.Handlers.Category.ListCategories)
		r.With(anyRole).Get("/{id}", app.Handlers.Category.GetCategoryByID)
		r.With(nonSeller).Post("/new", app.Handlers.Category.AddCategory)
		r.With(nonSeller).Put("/update/{id}", app.Handlers.Category.UpdateCategory)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Category.DeleteCategory)
	})

	protected.Route("/api/v1/suppliers", func(r chi.Router) {
		r.With(anyRole).Get("/", app.Handlers.Supplier.ListSuppliers)
		r.With(anyRole).Get("/{id}", app.Handlers.Supplier.GetSupplierByID)
		r.With(nonSeller).Post("/new", app.Handlers.Supplier.AddSupplier)
		r.With(nonSeller).Put("/update/{id}", app.Handlers.Supplier.UpdateSupplier)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Supplier.DeleteSupplier)
	})

	protected.Route("/api/v1/products", func(r chi.Router) {
		r.With(anyRole).Get("/", app.Handlers.Product.GetProducts)
		r.With(anyRole).Get("/alerts/stock", app.Handlers.Product.GetLowStockProducts)
		r.With(anyRole).Get("/alerts/expiry", app.Handlers.Product.GetExpiringProducts)
		r.With(anyRole).Get("/{id}", app.Handlers.Product.GetProductByID)
		r.With(anyRole).Get("/{id}/info", app.Handlers.Product.GetProductInfo)
		r.With(nonSeller).Post("/new", app.Handlers.Product.AddProduct)
		r.With(nonSeller).Put("/update/{id}", app.Handlers.Product.UpdateProduct)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Product.DeleteProduct)
	})

	// -------------------- Client Routes --------------------
	protected.Route("/api/v1/clients", func(r chi.Router) {
		r.With(anyRole).Get("/", app.Handlers.Client.GetClients)
		r.With(anyRole).Get("/{id}", app.Handlers.Client.GetClientByID)
		r.With(anyRole).Post("/new", app.Handlers.Client.AddClient)
		r.With(nonSeller).Put("/update/{id}", app.Handlers.Client.UpdateClient)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Client.DeleteClient)
	})

	// -------------------- Exchange Rate Routes --------------------
	protected.Route("/api/v1/rates", func(r chi.Router) {
		r.With(anyRole).Get("/", app.Handlers.Rate.ListRates)
		r.With(nonSeller).Put("/", app.Handlers.Rate.SetRate)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Rate.DeleteRate)
	})

	// -------------------- Preference Routes --------------------
	protected.Route("/api/v1/preferences", func(r chi.Router) {
		r.With(anyRole).Get("/supplier", app.Handlers.Preference.GetPreference)
		r.With(anyRole).Put("/supplier", app.Handlers.Preference.SetPreference)
		r.With(anyRole).Delete("/supplier", app.Handlers.Preference.ClearPreference)
	})

	// -------------------- Sale Routes --------------------
	protected.Route("/api/v1/sales", func(r chi.Router) {
		r.With(anyRole).Post("/new", app.Handlers.Sale.Checkout)
		r.With(anyRole).Get("/", app.Handlers.Sale.GetSales)
		r.With(anyRole).Get("/{id}", app.Handlers.Sale.GetSaleDetailsByID)
		r.With(anyRole).Get("/{id}/invoice", app.Handlers.Sale.Invoice)
		r.With(anyRole).Post("/{id}/lines", app.Handlers.Sale.AddLine)
		r.With(anyRole).Post("/{id}/payments", app.Handlers.Sale.RecordPayment)
		r.With(nonSeller).Delete("/{id}/lines/{line_id}", app.Handlers.Sale.RemoveLine)
		r.With(nonSeller).Delete("/{id}", app.Handlers.Sale.DeleteSale)
	})

	// -------------------- Report Routes --------------------
	protected.Route("/api/v1/reports", func(r chi.Router) {
		r.With(anyRole).Get("/dashboard", app.Handlers.Report.GetDashboard)
		r.With(nonSeller).Get("/sales", app.Handlers.Report.GetSalesReportPDF)
	})

	// -------------------- Admin Routes --------------------
	protected.Route("/api/v1/audit", func(r chi.Router) {
		r.With(adminOnly).Get("/", app.Handlers.Audit.ListEntries)
	})

	protected.Route("/api/v1/users", func(r chi.Router) {
		r.With(adminOnly).Get("/", app.Handlers.User.ListUsers)
		r.With(adminOnly).Post("/new", app.Handlers.User.AddUser)
		r.With(adminOnly).Put("/update/{id}", app.Handlers.User.UpdateUser)
		r.With(adminOnly).Delete("/{id}", app.Handlers.User.DeleteUser)
	})

	protected.Route("/api/v1/excel", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/categories", app.Handlers.Excel.ExportCategories)
		r.Get("/suppliers", app.Handlers.Excel.ExportSuppliers)
		r.Get("/products", app.Handlers.Excel.ExportProducts)
		r.Get("/clients", app.Handlers.Excel.ExportClients)
		r.Get("/sales", app.Handlers.Excel.ExportSales)
		r.Post("/categories", app.Handlers.Excel.ImportCategories)
		r.Post("/suppliers", app.Handlers.Excel.ImportSuppliers)
		r.Post("/products", app.Handlers.Excel.ImportProducts)
		r.Post("/clients", app.Handlers.Excel.ImportClients)
	})

	// Mount protected routes
	mux.Mount("/", protected)

	return mux
}
