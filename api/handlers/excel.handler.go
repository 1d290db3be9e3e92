package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/FBNTech/ndosiphar/internal/dbrepo"
	"github.com/FBNTech/ndosiphar/internal/models"
	"github.com/FBNTech/ndosiphar/internal/utils"
	"github.com/FBNTech/ndosiphar/internal/xlsx"
)

const maxImportSize = 10 << 20 // 10MB upload cap

type ExcelHandler struct {
	Categories *dbrepo.CategoryRepo
	Suppliers  *dbrepo.SupplierRepo
	Clients    *dbrepo.ClientRepo
	Products   *dbrepo.ProductRepo
	Reports    *dbrepo.ReportRepo
	Audit      *dbrepo.AuditRepo
	logger     *zap.SugaredLogger
}

func NewExcelHandler(
	categories *dbrepo.CategoryRepo,
	suppliers *dbrepo.SupplierRepo,
	clients *dbrepo.ClientRepo,
	products *dbrepo.ProductRepo,
	reports *dbrepo.ReportRepo,
	audit *dbrepo.AuditRepo,
	logger *zap.SugaredLogger,
) *ExcelHandler {
	return &ExcelHandler{
		Categories: categories,
		Suppliers:  suppliers,
		Clients:    clients,
		Products:   products,
		Reports:    reports,
		Audit:      audit,
		logger:     logger,
	}
}

func (h *ExcelHandler) serveWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := f.WriteTo(w); err != nil {
		h.logger.Errorw("stream workbook", "filename", filename, "error", err)
	}
}

// ExportCategories handles GET /api/v1/excel/categories
func (h *ExcelHandler) ExportCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.ListCategories(r.Context())
	if err != nil {
		utils.ServerError(w, err)
		return
	}
	f, err := xlsx.BuildCategoriesWorkbook(categories)
	if err != nil {
		h.logger.Errorw("build categories workbook", "error", err)
		utils.ServerError(w, err)
		return
	}
	h.serveWorkbook(w, f, "categories.xlsx")
}

// ExportSuppliers handles GET /api/v1/excel/suppliers
func (h *ExcelHandler) ExportSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Suppliers.ListSuppliers(r.Context())
	if err != nil {
		utils.ServerError(w, err)
		return
	}
	f, err := xlsx.BuildSuppliersWorkbook(suppliers)
	if err != nil {
		h.logger.Errorw("build suppliers workbook", "error", err)
		utils.ServerError(w, err)
		return
	}
	h.serveWorkbook(w, f, "suppliers.xlsx")
}

// ExportClients handles GET /api/v1/excel/clients
func (h *ExcelHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.GetClients(r.Context(), "")
	if err != nil {
		utils.ServerError(w, err)
		return
	}
	f, err := xlsx.BuildClientsWorkbook(clients)
	if err != nil {
		h.logger.Errorw("build clients workbook", "error", err)
		utils.ServerError(w, err)
		return
	}
	h.serveWorkbook(w, f, "clients.xlsx")
}

// ExportProducts handles GET /api/v1/excel/products
func (h *ExcelHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.GetProducts(r.Context())
	if err != nil {
		utils.ServerError(w, err)
		return
	}
	f, err := xlsx.BuildProductsWorkbook(products)
	if err != nil {
		h.logger.Errorw("build products workbook", "error", err)
		utils.ServerError(w, err)
		return
	}
	h.serveWorkbook(w, f, "products.xlsx")
}

// ExportSales handles GET /api/v1/excel/sales
func (h *ExcelHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Reports.GetSalesBetween(r.Context(), time.Time{}, time.Now())
	if err != nil {
		utils.ServerError(w, err)
		return
	}
	f, err := xlsx.BuildSalesWorkbook(sales)
	if err != nil {
		h.logger.Errorw("build sales workbook", "error", err)
		utils.ServerError(w, err)
		return
	}
	h.serveWorkbook(w, f, "sales.xlsx")
}

// openUpload pulls the worksheet rows out of a multipart upload,
// dropping the header row.
func openUpload(r *http.Request) ([][]string, error) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		return nil, errors.New("invalid multipart upload")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing 'file' field in upload")
	}
	defer file.Close()

	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, errors.New("could not read workbook")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}

func (h *ExcelHandler) respondImport(w http.ResponseWriter, r *http.Request, entity string, summary xlsx.ImportSummary) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: models.AUDIT_CREATE,
		Entity: entity,
		Detail: fmt.Sprintf("Excel import: %d processed, %d skipped", summary.Processed, summary.Skipped),
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}

	resp := map[string]any{
		"error":     false,
		"status":    "success",
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// ImportCategories handles POST /api/v1/excel/categories
func (h *ExcelHandler) ImportCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := openUpload(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var summary xlsx.ImportSummary
	for _, row := range rows {
		parsed, err := xlsx.ParseCategoryRow(row)
		if err != nil {
			summary.Skipped++
			continue
		}
		if _, err := h.Categories.GetOrCreateCategoryByName(r.Context(), parsed.Name); err != nil {
			h.logger.Errorw("import category", "name", parsed.Name, "error", err)
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	h.respondImport(w, r, "category", summary)
}

// ImportSuppliers handles POST /api/v1/excel/suppliers. A row with a
// blank or invalid margin is skipped and counted, never inserted.
func (h *ExcelHandler) ImportSuppliers(w http.ResponseWriter, r *http.Request) {
	rows, err := openUpload(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var summary xlsx.ImportSummary
	for _, row := range rows {
		parsed, err := xlsx.ParseSupplierRow(row)
		if err != nil {
			summary.Skipped++
			continue
		}
		if _, err := h.Suppliers.GetOrCreateSupplierByName(r.Context(), parsed.Name, parsed.MarginPercent); err != nil {
			h.logger.Errorw("import supplier", "name", parsed.Name, "error", err)
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	h.respondImport(w, r, "supplier", summary)
}

// ImportClients handles POST /api/v1/excel/clients
func (h *ExcelHandler) ImportClients(w http.ResponseWriter, r *http.Request) {
	rows, err := openUpload(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var summary xlsx.ImportSummary
	for _, row := range rows {
		parsed, err := xlsx.ParseClientRow(row)
		if err != nil {
			summary.Skipped++
			continue
		}
		client := &models.Client{Name: parsed.Name, Phone: parsed.Phone, Address: parsed.Address}
		if err := h.Clients.CreateClient(r.Context(), client); err != nil {
			h.logger.Errorw("import client", "name", parsed.Name, "error", err)
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	h.respondImport(w, r, "client", summary)
}

// ImportProducts handles POST /api/v1/excel/products. Supplier and
// category are resolved by name, created on the fly when missing.
func (h *ExcelHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := openUpload(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var summary xlsx.ImportSummary
	for _, row := range rows {
		parsed, err := xlsx.ParseProductRow(row)
		if err != nil {
			summary.Skipped++
			continue
		}

		supplier, err := h.Suppliers.GetOrCreateSupplierByName(r.Context(), parsed.SupplierName, 0)
		if err != nil {
			h.logger.Errorw("import product supplier", "name", parsed.SupplierName, "error", err)
			summary.Skipped++
			continue
		}
		category, err := h.Categories.GetOrCreateCategoryByName(r.Context(), parsed.CategoryName)
		if err != nil {
			h.logger.Errorw("import product category", "name", parsed.CategoryName, "error", err)
			summary.Skipped++
			continue
		}

		product := &models.Product{
			Name:            parsed.Name,
			PurchasePrice:   parsed.PurchasePrice,
			SalePriceUSD:    parsed.SalePriceUSD,
			StockQty:        parsed.StockQty,
			InitialQty:      parsed.InitialQty,
			AlertQty:        parsed.AlertQty,
			ExpiryAlertDays: parsed.ExpiryAlertDays,
			ExpiryDate:      parsed.ExpiryDate,
			SupplierID:      supplier.ID,
			CategoryID:      category.ID,
		}
		if err := h.Products.CreateProduct(r.Context(), product); err != nil {
			h.logger.Errorw("import product", "name", parsed.Name, "error", err)
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	h.respondImport(w, r, "product", summary)
}
