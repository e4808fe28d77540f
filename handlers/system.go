package handlers

import (
	"net/http"

	"gorm.io/gorm"
)

// SystemHandler serves liveness checks.
type SystemHandler struct {
	DB *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{DB: db}
}

// GET /healthz
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
