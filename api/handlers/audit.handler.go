package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type AuditHandler struct {
	DB     *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewAuditHandler(db *dbrepo.AuditRepo, logger *zap.SugaredLogger) *AuditHandler {
	return &AuditHandler{DB: db, logger: logger}
}

// ListEntries handles GET /api/v1/audit?limit=200, newest first.
func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if l := utils.GetURLParam(r, "limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.DB.List(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("list audit entries", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"entries": entries,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
