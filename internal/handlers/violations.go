package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ViolationResponse struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message,omitempty"`
	Violation *models.UserViolation `json:"violation,omitempty"`
}

type ViolationListResponse struct {
	Success    bool                   `json:"success"`
	Violations []models.UserViolation `json:"violations"`
	Strikes    int                    `json:"strikes"`
	Total      int                    `json:"total"`
}

// GetMyViolations returns the caller's own violation history along with their
// current rolling strike count.
func GetMyViolations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeViolationList(w, r, userID)
}

// GetUserViolations returns any user's violation history, for moderators.
func GetUserViolations(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReviewer(r); !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	writeViolationList(w, r, userID)
}

func writeViolationList(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	activeOnly := r.URL.Query().Get("active") == "true"

	violations, err := services.GetUserViolations(r.Context(), userID, activeOnly)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	strikes, err := services.UserStrikeCount(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ViolationListResponse{
		Success:    true,
		Violations: violations,
		Strikes:    strikes,
		Total:      len(violations),
	})
}

// AppealViolation files an appeal against one of the caller's violations.
func AppealViolation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	violationID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid violation id")
		return
	}

	var req AppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	violation, err := services.FileViolationAppeal(r.Context(), violationID, userID, req.Reason)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ViolationResponse{
		Success:   true,
		Message:   "Appeal filed",
		Violation: violation,
	})
}

// ReviewViolationAppeal decides a pending appeal on a violation.
func ReviewViolationAppeal(w http.ResponseWriter, r *http.Request) {
	modID, ok := requireReviewer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	violationID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid violation id")
		return
	}

	var req ReviewAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	violation, err := services.ReviewViolationAppeal(r.Context(), violationID, modID.String(), req.Uphold, req.Notes)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ViolationResponse{
		Success:   true,
		Message:   "Appeal reviewed",
		Violation: violation,
	})
}
