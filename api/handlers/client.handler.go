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

type ClientHandler struct {
	DB     *dbrepo.ClientRepo
	Audit  *dbrepo.AuditRepo
	logger *zap.SugaredLogger
}

func NewClientHandler(db *dbrepo.ClientRepo, audit *dbrepo.AuditRepo, logger *zap.SugaredLogger) *ClientHandler {
	return &ClientHandler{DB: db, Audit: audit, logger: logger}
}

// GetClients handles GET /api/v1/clients?search=xxx
func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	search := utils.GetURLParam(r, "search")

	clients, err := h.DB.GetClients(r.Context(), search)
	if err != nil {
		h.logger.Errorw("list clients", "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"clients": clients,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetClientByID handles GET /api/v1/clients/{id}; the response includes
// the client's outstanding credit balance.
func (h *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid client id"))
		return
	}

	client, err := h.DB.GetClientByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Client not found")
			return
		}
		h.logger.Errorw("get client", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	outstanding, err := h.DB.GetClientOutstanding(r.Context(), id)
	if err != nil {
		h.logger.Errorw("get client outstanding", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	resp := map[string]any{
		"error":       false,
		"status":      "success",
		"client":      client,
		"outstanding": outstanding,
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// AddClient handles POST /api/v1/clients/new
func (h *ClientHandler) AddClient(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := utils.ReadJSON(w, r, &client); err != nil {
		utils.BadRequest(w, err)
		return
	}
	if client.Name == "" {
		utils.BadRequest(w, errors.New("client name is required"))
		return
	}

	if err := h.DB.CreateClient(r.Context(), &client); err != nil {
		h.logger.Errorw("create client", "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_CREATE, fmt.Sprintf("Client %q", client.Name))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Client added successfully",
		"client":  client,
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateClient handles PUT /api/v1/clients/update/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid client id"))
		return
	}

	var client models.Client
	if err := utils.ReadJSON(w, r, &client); err != nil {
		utils.BadRequest(w, err)
		return
	}
	client.ID = id
	if client.Name == "" {
		utils.BadRequest(w, errors.New("client name is required"))
		return
	}

	if err := h.DB.UpdateClient(r.Context(), &client); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Client not found")
			return
		}
		h.logger.Errorw("update client", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_UPDATE, fmt.Sprintf("Client #%d %q", id, client.Name))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Client updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteClient handles DELETE /api/v1/clients/{id}. Past sales keep
// their history; the storage layer detaches them from the client.
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(w, errors.New("invalid client id"))
		return
	}

	if err := h.DB.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, dbrepo.ErrNotFound) {
			utils.NotFound(w, "Client not found")
			return
		}
		h.logger.Errorw("delete client", "id", id, "error", err)
		utils.ServerError(w, err)
		return
	}

	h.audit(r, models.AUDIT_DELETE, fmt.Sprintf("Client #%d", id))

	resp := map[string]any{
		"error":   false,
		"status":  "success",
		"message": "Client deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *ClientHandler) audit(r *http.Request, action, detail string) {
	userID := utils.GetUserID(r)
	err := h.Audit.Append(r.Context(), &models.AuditEntry{
		UserID: &userID,
		Action: action,
		Entity: "client",
		Detail: detail,
	})
	if err != nil {
		h.logger.Errorw("append audit entry", "error", err)
	}
}
