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

type UserHandler struct {
	DB     *dbrepo.UserRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewUserHandler(db *dbrepo.UserRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{DB: db, Audit: audit, logger: logger}
}

func validRole(role string) bool {
	switch role {
	case models.ROLE_ADMIN, models.ROLE_MANAGER, models.ROLE_SELLER, models.ROLE_AUDITOR:
		return true
	}
	return false
}

// ListUsers handles GET /api/v1/users?role=seller
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context(), utils.GetURLParam(r, "role"))
	if err != nil {
		h.logger.Errorw("list users", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":  false,
		"status": "success",
		"users":  users,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddUser handles POST /api/v1/users/new
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.BadRequest(w, errors.New("username and password are required"))
		return
	}
	if !validRole(req.Role) {
		utils.BadRequest(w, errors.New("unknown role"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.logger.Errorw("hash password", "error", err)
		utils.ServerError(w, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Password: hashed,
		Role:     req.Role,
	}
	if err := h.DB.CreateUser(r.Context(), user); err != nil {
		h.logger.Errorw("create user", "username", req.Username, "error", err)
		utils.BadRequest(w, err)
		return
	}

	h.audit(r, models.AUDIT_CREATE, fmt.Sprintf("User %q (%s)", user.Username, user.Role))

	user.Password = ""
	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "User added successfully",
		"user":    user,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateUser handles PUT /api/v1/users/update/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid user id"))
		return
	}

	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if !validRole(req.Role) {
		utils.BadRequest(w, errors.New("unknown role"))
		return
	}

	user := &models.User{
		ID:       id,
		Name:     req.Name,
		Username: req.Username,
		Role:     req.Role,
	}
	if err := h.DB.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "User not found")
			return
		}
		h.logger.Errorw("update user", "id", id, "error", err)
		utils.BadRequest(w, err)
		return
	}

	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			h.logger.Errorw("hash password", "error", err)
			utils.ServerError(w, err)
			return
		}
		if err := h.DB.UpdateUserPassword(r.Context(), id, hashed); err != nil {
			h.logger.Errorw("update password", "id", id, "error", err)
			utils.ServerError(w, err)
			return
		}
	}

	h.audit(r, models.AUDIT_UPDATE, fmt.Sprintf("User #%d %q (%s)", id, user.Username, user.Role))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "User updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteUser handles DELETE /api/v1/users/{id}. A user cannot delete
// their own account.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid user id"))
		return
	}
	if id == utils.GetUserID(r) {
		utils.BadRequest(w, errors.New("you cannot delete your own account"))
		return
	}

	if err := h.DB.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "User not found")
			return
		}
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("this user has recorded sales and cannot be deleted"))
			return
		}
		h.logger.Errorw("delete user", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_DELETE, fmt.Sprintf("User #%d", id))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "User deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) audit(r *http.Request, action, detail string) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: action,
		Entity: "user",
		Detail: detail,
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}
}
