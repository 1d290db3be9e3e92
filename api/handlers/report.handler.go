package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/pdf"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type ReportHandler struct {
	DB     *dbrepo.ReportRepo
	logger *zap.SugaredLogger
}

func NewReportHandler(db *dbrepo.ReportRepo, logger *zap.SugaredLogger) *ReportHandler {
	return &ReportHandler{DB: db, logger: logger}
}

// GetDashboard handles GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := h.DB.GetDashboardReport(r.Context())
	if err != nil {
		h.logger.Errorw("dashboard report", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":  false,
		"status": "success",
		"report": report,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetSalesReportPDF handles GET /api/v1/reports/sales?start_date=&end_date=
// and returns a downloadable PDF covering the range.
func (h *ReportHandler) GetSalesReportPDF(w http.ResponseWriter, r *http.Request) {
	startStr := utils.GetURLParam(r, "start_date")
	endStr := utils.GetURLParam(r, "end_date")
	if startStr == "" || endStr == "" {
		utils.BadRequest(w, errors.New("start_date and end_date are required"))
		return
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		utils.BadRequest(w, errors.New("invalid start_date format (expected YYYY-MM-DD)"))
		return
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		utils.BadRequest(w, errors.New("invalid end_date format (expected YYYY-MM-DD)"))
		return
	}
	// include the whole end day
	end = end.AddDate(0, 0, 1).Add(-time.Second)

	sales, err := h.DB.GetSalesBetween(r.Context(), start, end)
	if err != nil {
		h.logger.Errorw("sales report query", "error", err)
		utils.ServerError(w, err)
		return
	}

	out, err := pdf.BuildSalesReport(sales, start, end)
	if err != nil {
		h.logger.Errorw("render sales report", "error", err)
		utils.ServerError(w, err)
		return
	}

	filename := fmt.Sprintf("sales_%s_%s.pdf", startStr, endStr)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
