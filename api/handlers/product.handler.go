package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type ProductHandler struct {
	DB     *dbrepo.ProductRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewProductHandler(db *dbrepo.ProductRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *ProductHandler {
	return &ProductHandler{DB: db, Audit: audit, logger: logger}
}

// GetProducts handles GET /api/v1/products
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.GetProducts(r.Context())
	if err != nil {
		h.logger.Errorw("list products", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"products": products,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetProductByID handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid product id"))
		return
	}

	product, err := h.DB.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Product not found")
			return
		}
		h.logger.Errorw("get product", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"product": product,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetProductInfo handles GET /api/v1/products/{id}/info. Lightweight
// payload for the checkout screen.
func (h *ProductHandler) GetProductInfo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid product id"))
		return
	}

	product, err := h.DB.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Product not found")
			return
		}
		h.logger.Errorw("get product info", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"name":       product.Name,
		"sale_price": product.SalePrice,
		"stock_qty":  product.StockQty,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddProduct handles POST /api/v1/products/new
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := utils.ReadJSON(w, r, &product); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if product.Name == "" {
		utils.BadRequest(w, errors.New("product name is required"))
		return
	}
	if product.SupplierID == 0 || product.CategoryID == 0 {
		utils.BadRequest(w, errors.New("supplier and category are required"))
		return
	}

	if err := h.DB.CreateProduct(r.Context(), &product); err != nil {
		if utils.IsUniqueViolation(err, "products_name_key") {
			utils.BadRequest(w, errors.New("a product with this name already exists"))
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("unknown supplier or category"))
			return
		}
		h.logger.Errorw("create product", "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_CREATE, fmt.Sprintf("Product %q (stock %d)", product.Name, product.StockQty))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Product added successfully",
		"product": product,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateProduct handles PUT /api/v1/products/update/{id}. Stock is not
// editable here; only the sale workflow moves stock.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid product id"))
		return
	}

	var product models.Product
	if err := utils.ReadJSON(w, r, &product); err != nil {
		utils.BadRequest(w, err)
		return
	}
	product.ID = id
	if product.Name == "" {
		utils.BadRequest(w, errors.New("product name is required"))
		return
	}

	if err := h.DB.UpdateProduct(r.Context(), &product); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Product not found")
			return
		}
		if utils.IsUniqueViolation(err, "products_name_key") {
			utils.BadRequest(w, errors.New("a product with this name already exists"))
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("unknown supplier or category"))
			return
		}
		h.logger.Errorw("update product", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_UPDATE, fmt.Sprintf("Product #%d %q", id, product.Name))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Product updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid product id"))
		return
	}

	if err := h.DB.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Product not found")
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("this product appears on sales and cannot be deleted"))
			return
		}
		h.logger.Errorw("delete product", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_DELETE, fmt.Sprintf("Product #%d", id))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Product deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetLowStockProducts handles GET /api/v1/products/alerts/stock
func (h *ProductHandler) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.DB.GetLowStockProducts(r.Context())
	if err != nil {
		h.logger.Errorw("list low stock products", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"products": products,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetExpiringProducts handles GET /api/v1/products/alerts/expiry?days=30
func (h *ProductHandler) GetExpiringProducts(w http.ResponseWriter, r *http.Request) {
	days := int64(30)
	if d := utils.GetURLParam(r, "days"); d != "" {
		parsed, err := strconv.ParseInt(d, 10, 64)
		if err != nil || parsed < 0 {
			utils.BadRequest(w, errors.New("invalid days parameter"))
			return
		}
		days = parsed
	}

	products, err := h.DB.GetExpiringProducts(r.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.logger.Errorw("list expiring products", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"products": products,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) audit(r *http.Request, action, detail string) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: action,
		Entity: "product",
		Detail: detail,
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}
}
