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

type RateHandler struct {
	DB     *dbrepo.RateRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewRateHandler(db *dbrepo.RateRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *RateHandler {
	return &RateHandler{DB: db, Audit: audit, logger: logger}
}

// ListRates handles GET /api/v1/rates
func (h *RateHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.DB.ListRates(r.Context())
	if err != nil {
		h.logger.Errorw("list rates", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":  false,
		"status": "success",
		"rates":  rates,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// SetRate handles PUT /api/v1/rates. One row per currency code; a
// repeat submission replaces the previous value.
func (h *RateHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	var rate models.ExchangeRate
	if err := utils.ReadJSON(w, r, &rate); err != nil {
		utils.BadRequest(w, err)
		return
	}

	if err := h.DB.UpsertRate(r.Context(), &rate); err != nil {
		h.logger.Errorw("upsert rate", "currency", rate.CurrencyCode, "error", err)
		utils.BadRequest(w, err)
		return
	}

	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: models.AUDIT_UPDATE,
		Entity: "exchange_rate",
		Detail: fmt.Sprintf("%s = %.2f", rate.CurrencyCode, rate.FCAmount),
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Exchange rate saved",
		"rate":    rate,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteRate handles DELETE /api/v1/rates/{id}
func (h *RateHandler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid rate id"))
		return
	}

	if err := h.DB.DeleteRate(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Exchange rate not found")
			return
		}
		h.logger.Errorw("delete rate", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Exchange rate deleted",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
