package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

// PreferenceHandler exposes the caller's stored default supplier, used
// by the product form to prefill its supplier field.
type PreferenceHandler struct {
	DB     *dbrepo.PreferenceRepo
	logger *zap.SugaredLogger
}

func NewPreferenceHandler(db *dbrepo.PreferenceRepo, logger *zap.SugaredLogger) *PreferenceHandler {
	return &PreferenceHandler{DB: db, logger: logger}
}

// GetPreference handles GET /api/v1/preferences/supplier
func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	pref, err := h.DB.GetPreference(r.Context(), utils.GetUserID(r))
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.WriteJSON(w, http.StatusOK, map[string]any{
				"error":      false,
				"status":     "success",
				"preference": nil,
			})
			return
		}
		h.logger.Errorw("get preference", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":      false,
		"status":     "success",
		"preference": pref,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// SetPreference handles PUT /api/v1/preferences/supplier
func (h *PreferenceHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SupplierID int64 `json:"supplier_id"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if req.SupplierID == 0 {
		utils.BadRequest(w, errors.New("supplier_id is required"))
		return
	}

	pref, err := h.DB.SetPreference(r.Context(), utils.GetUserID(r), req.SupplierID)
	if err != nil {
		if utils.IsForeignKeyViolation(err) {
			utils.BadRequest(w, errors.New("unknown supplier"))
			return
		}
		h.logger.Errorw("set preference", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":      false,
		"status":     "success",
		"message":    "Default supplier saved",
		"preference": pref,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// ClearPreference handles DELETE /api/v1/preferences/supplier
func (h *PreferenceHandler) ClearPreference(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.ClearPreference(r.Context(), utils.GetUserID(r)); err != nil {
		h.logger.Errorw("clear preference", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Default supplier cleared",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
