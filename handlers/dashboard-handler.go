package handlers

import (
	"net/http"

	"erp-project/backend/services"
	"erp-project/backend/utils"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Dashboard.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, dashboard)
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
