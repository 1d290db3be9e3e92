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
	"github.com/FBNTech/ndosiphar/internal/pdf"
	"github.com/FBNTech/ndosiphar/internal/utils"
)

type SaleHandler struct {
	DB     *dbrepo.SaleRepo
	logger *zap.SugaredLogger
}

func NewSaleHandler(db *dbrepo.SaleRepo, logger *zap.SugaredLogger) *SaleHandler {
	return &SaleHandler{DB: db, logger: logger}
}

// clientFault reports whether a sale error is the caller's doing and
// should come back as a 400. Anything else is a server error.
func clientFault(err error) bool {
	return errors.Is(err, dbrepo.ErrEmptySale) ||
		errors.Is(err, dbrepo.ErrInvalidSale) ||
		errors.Is(err, dbrepo.ErrInvalidQuantity) ||
		errors.Is(err, dbrepo.ErrInsufficientStock) ||
		errors.Is(err, dbrepo.ErrPaymentOutOfRange)
}

// Checkout handles POST /api/v1/sales/new. Lines short on stock are
// skipped and reported back as warnings; a fully short checkout is a
// 400 with nothing persisted.
func (h *SaleHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.SaleRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	seller := utils.GetUser(r)
	if seller == nil {
		utils.Unauthorized(w, "")
		return
	}

	result, err := h.DB.CreateSale(r.Context(), &req, seller)
	if err != nil {
		if clientFault(err) {
			utils.BadRequest(w, err)
			return
		}
		h.logger.Errorw("checkout", "seller", seller.Username, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.logger.Infow("sale created",
		"sale_id", result.Sale.ID,
		"seller", seller.Username,
		"total", result.Sale.Total,
		"warnings", len(result.Warnings),
	)

	resp := map[string]any{
		"error":    false,
		"status":   "success",
		"message":  "Sale recorded successfully",
		"sale":     result.Sale,
		"warnings": result.Warnings,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// GetSales handles GET /api/v1/sales?search=&status=&pageIndex=&pageLength=
func (h *SaleHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("pageIndex"))
	limit, _ := strconv.Atoi(query.Get("pageLength"))
	search := query.Get("search")
	status := query.Get("status")

	sales, totalCount, err := h.DB.GetSales(r.Context(), search, status, page, limit)
	if err != nil {
		h.logger.Errorw("list sales", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":       false,
		"status":      "success",
		"sales":       sales,
		"total_count": totalCount,
		"page":        page,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetSaleDetailsByID handles GET /api/v1/sales/{id}
func (h *SaleHandler) GetSaleDetailsByID(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}

	sale, err := h.DB.GetSaleDetailsByID(r.Context(), saleID)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale not found")
			return
		}
		h.logger.Errorw("get sale", "id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":  false,
		"status": "success",
		"sale":   sale,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteSale handles DELETE /api/v1/sales/{id}, restoring each line's
// quantity to stock.
func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}

	if err := h.DB.DeleteSale(r.Context(), saleID, utils.GetUserID(r)); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale not found")
			return
		}
		h.logger.Errorw("delete sale", "id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Sale deleted and stock restored",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddLine handles POST /api/v1/sales/{id}/lines. Unlike checkout, a
// stock shortfall here is a hard failure.
func (h *SaleHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}

	var req models.SaleLineRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	line, err := h.DB.AddLine(r.Context(), saleID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale or product not found")
			return
		}
		if clientFault(err) {
			utils.BadRequest(w, err)
			return
		}
		h.logger.Errorw("add sale line", "sale_id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Line added successfully",
		"line":    line,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// RemoveLine handles DELETE /api/v1/sales/{id}/lines/{line_id}
func (h *SaleHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}
	lineID, err := strconv.ParseInt(chi.URLParam(r, "line_id"), 10, 64)
	if err != nil || lineID == 0 {
		utils.BadRequest(w, errors.New("invalid line id"))
		return
	}

	if err := h.DB.RemoveLine(r.Context(), saleID, lineID); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale line not found")
			return
		}
		h.logger.Errorw("remove sale line", "sale_id", saleID, "line_id", lineID, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Line removed and stock restored",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// RecordPayment handles POST /api/v1/sales/{id}/payments against a
// credit sale's outstanding balance.
func (h *SaleHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	sale, err := h.DB.RecordCreditPayment(r.Context(), saleID, req.Amount, utils.GetUserID(r))
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale not found")
			return
		}
		if clientFault(err) {
			utils.BadRequest(w, err)
			return
		}
		h.logger.Errorw("record payment", "sale_id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":       false,
		"status":      "success",
		"message":     "Payment recorded successfully",
		"paid_amount": sale.PaidAmount,
		"outstanding": sale.Outstanding(),
		"is_settled":  sale.IsSettled,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Invoice handles GET /api/v1/sales/{id}/invoice, returning the sale as
// a downloadable PDF.
func (h *SaleHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || saleID == 0 {
		utils.BadRequest(w, errors.New("invalid sale id"))
		return
	}

	sale, err := h.DB.GetSaleDetailsByID(r.Context(), saleID)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Sale not found")
			return
		}
		h.logger.Errorw("get sale for invoice", "id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	out, err := pdf.BuildInvoice(sale)
	if err != nil {
		h.logger.Errorw("render invoice", "id", saleID, "error", err)
		utils.ServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", saleID))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
