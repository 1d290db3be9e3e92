package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type SupplierHandler struct {
	DB     *dbrepo.SupplierRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewSupplierHandler(db *dbrepo.SupplierRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *SupplierHandler {
	return &SupplierHandler{DB: db, Audit: audit, logger: logger}
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.DB.ListSuppliers(r.Context())
	if err != nil {
		h.logger.Errorw("list suppliers", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":     false,
		"status":    "success",
		"suppliers": suppliers,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetSupplierByID handles GET /api/v1/suppliers/{id}
func (h *SupplierHandler) GetSupplierByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid supplier id"))
		return
	}

	supplier, err := h.DB.GetSupplierByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Supplier not found")
			return
		}
		h.logger.Errorw("get supplier", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"supplier": supplier,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddSupplier handles POST /api/v1/suppliers/new
func (h *SupplierHandler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier models.Supplier
	if err := utils.ReadJSON(w, r, &supplier); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if supplier.Name == "" {
		utils.BadRequest(w, errors.New("supplier name is required"))
		return
	}

	if err := h.DB.CreateSupplier(r.Context(), &supplier); err != nil {
		if utils.IsUniqueViolation(err, "suppliers_name_key") {
			utils.BadRequest(w, errors.New("a supplier with this name already exists"))
			return
		}
		h.logger.Errorw("create supplier", "error", err)
		utils.BadRequest(w, err)
		return
	}

	h.audit(r, models.AUDIT_CREATE, fmt.Sprintf("Supplier %q (margin %.2f%%)", supplier.Name, supplier.MarginPercent))

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"message":  "Supplier added successfully",
		"supplier": supplier,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateSupplier handles PUT /api/v1/suppliers/update/{id}
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid supplier id"))
		return
	}

	var supplier models.Supplier
	if err := utils.ReadJSON(w, r, &supplier); err != nil {
		utils.BadRequest(w, err)
		return
	}
	supplier.ID = id
	if supplier.Name == "" {
		utils.BadRequest(w, errors.New("supplier name is required"))
		return
	}

	if err := h.DB.UpdateSupplier(r.Context(), &supplier); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Supplier not found")
			return
		}
		if utils.IsUniqueViolation(err, "suppliers_name_key") {
			utils.BadRequest(w, errors.New("a supplier with this name already exists"))
			return
		}
		h.logger.Errorw("update supplier", "id", id, "error", err)
		utils.BadRequest(w, err)
		return
	}

	h.audit(r, models.AUDIT_UPDATE, fmt.Sprintf("Supplier #%d %q (margin %.2f%%)", id, supplier.Name, supplier.MarginPercent))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Supplier updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{id}
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid supplier id"))
		return
	}

	if err := h.DB.DeleteSupplier(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Supplier not found")
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("this supplier still has products and cannot be deleted"))
			return
		}
		h.logger.Errorw("delete supplier", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_DELETE, fmt.Sprintf("Supplier #%d", id))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Supplier deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *SupplierHandler) audit(r *http.Request, action, detail string) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: action,
		Entity: "supplier",
		Detail: detail,
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}
}
