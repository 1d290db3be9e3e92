package api

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type AuthHandler struct {
	Users  *dbrepo.UserRepo
	Audit  *dbrepo.AuditRepo
	JWT    models.JWTConfig
	logger *zap.SugaredLogger
}

func NewAuthHandler(users *dbrepo.UserRepo, audit *dbrepo.AuditRepo, jwtCfg models.JWTConfig, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Users: users, Audit: audit, JWT: jwtCfg, logger: logger}
}

// Signin handles POST /api/v1/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := utils.ReadJSON(w, r, &creds); err != nil {
		utils.BadRequest(w, err)
		return
	}

	user, err := h.Users.GetUserByUsername(r.Context(), creds.Username)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.Unauthorized(w, "Invalid username or password")
			return
		}
		h.logger.Errorw("signin lookup", "username", creds.Username, "error", err)
		utils.ServerError(w, err)
		return
	}

	if !utils.CheckPassword(creds.Password, user.Password) {
		h.logger.Infow("signin rejected", "username", creds.Username)
		utils.Unauthorized(w, "Invalid username or password")
		return
	}

	claims := models.JWT{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}
	token, err := utils.GenerateJWT(claims, h.JWT)
	if err != nil {
		h.logger.Errorw("generate token", "username", creds.Username, "error", err)
		utils.ServerError(w, err)
		return
	}

	err = h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &user.ID,
		Action: models.AUDIT_LOGIN,
		Entity: "user",
		Detail: fmt.Sprintf("%s signed in", user.Username),
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}

	user.Password = ""
	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Signed in successfully",
		"token":   token,
		"user":    user,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
