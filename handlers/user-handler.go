package handlers

import (
	"net/http"

	"erp-project/backend/auth"
	"erp-project/backend/services"
	"erp-project/backend/utils"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Sync registers the caller on first login.
func (h *UserHandler) Sync(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Authorization token missing")
		return
	}
	user, err := h.Users.Sync(r.Context(), identity.Session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Authorization token missing")
		return
	}
	utils.RespondData(w, http.StatusOK, h.Users.Me(identity))
}
