package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
)

type GuidelinesResponse struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message,omitempty"`
	Guidelines *models.GuidelineVersion `json:"guidelines,omitempty"`
}

// GetGuidelines returns the active community guidelines. Public endpoint.
func GetGuidelines(w http.ResponseWriter, r *http.Request) {
	gv, err := services.ActiveGuidelines(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GuidelinesResponse{Success: true, Guidelines: gv})
}

// PublishGuidelines publishes a new guideline version, deactivating the
// current one. Admin only.
func PublishGuidelines(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(r); !ok {
		writeError(w, http.StatusUnauthorized, "Admin authentication required")
		return
	}

	var gv models.GuidelineVersion
	if err := json.NewDecoder(r.Body).Decode(&gv); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	published, err := services.PublishGuidelines(r.Context(), &gv)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, GuidelinesResponse{
		Success:    true,
		Message:    "Guidelines published",
		Guidelines: published,
	})
}
