package handlers

import (
	"encoding/json"
	"net/http"

	"erp-project/backend/models"
	"erp-project/backend/services"
	"erp-project/backend/utils"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Admin *services.AdminService
	Users *services.UserService
}

func NewAdminHandler(admin *services.AdminService, users *services.UserService) *AdminHandler {
	return &AdminHandler{Admin: admin, Users: users}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, stats)
}

func (h *AdminHandler) AllData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Admin.AllData(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, data)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, users)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.Admin.Delete(r.Context(), vars["type"], vars["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondMessage(w, http.StatusOK, "Deleted successfully")
}

type roleRequest struct {
	Role        models.Role     `json:"role"`
	Permissions map[string]bool `json:"permissions"`
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user, err := h.Users.SetRole(r.Context(), mux.Vars(r)["id"], req.Role, req.Permissions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}
