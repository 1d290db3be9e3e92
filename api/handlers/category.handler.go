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

type CategoryHandler struct {
	DB     *dbrepo.CategoryRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewCategoryHandler(db *dbrepo.CategoryRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{DB: db, Audit: audit, logger: logger}
}

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.DB.ListCategories(r.Context())
	if err != nil {
		h.logger.Errorw("list categories", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":      false,
		"status":     "success",
		"categories": categories,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetCategoryByID handles GET /api/v1/categories/{id}
func (h *CategoryHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid category id"))
		return
	}

	category, err := h.DB.GetCategoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Category not found")
			return
		}
		h.logger.Errorw("get category", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"category": category,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddCategory handles POST /api/v1/categories/new
func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := utils.ReadJSON(w, r, &category); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if category.Name == "" {
		utils.BadRequest(w, errors.New("category name is required"))
		return
	}

	if err := h.DB.CreateCategory(r.Context(), &category); err != nil {
		if utils.IsUniqueViolation(err, "categories_name_key") {
			utils.BadRequest(w, errors.New("a category with this name already exists"))
			return
		}
		h.logger.Errorw("create category", "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_CREATE, fmt.Sprintf("Category %q", category.Name))

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"message":  "Category added successfully",
		"category": category,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateCategory handles PUT /api/v1/categories/update/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid category id"))
		return
	}

	var category models.Category
	if err := utils.ReadJSON(w, r, &category); err != nil {
		utils.BadRequest(w, err)
		return
	}
	category.ID = id
	if category.Name == "" {
		utils.BadRequest(w, errors.New("category name is required"))
		return
	}

	if err := h.DB.UpdateCategory(r.Context(), &category); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Category not found")
			return
		}
		if utils.IsUniqueViolation(err, "categories_name_key") {
			utils.BadRequest(w, errors.New("a category with this name already exists"))
			return
		}
		h.logger.Errorw("update category", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_UPDATE, fmt.Sprintf("Category #%d %q", id, category.Name))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Category updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid category id"))
		return
	}

	if err := h.DB.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Category not found")
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("this category still has products and cannot be deleted"))
			return
		}
		h.logger.Errorw("delete category", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_DELETE, fmt.Sprintf("Category #%d", id))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Category deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *CategoryHandler) audit(r *http.Request, action, detail string) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: action,
		Entity: "category",
		Detail: detail,
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}
}
