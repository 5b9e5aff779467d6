package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Case    *models.ModerationCase `json:"case,omitempty"`
}

type CaseListResponse struct {
	Success bool                    `json:"success"`
	Cases   []models.ModerationCase `json:"cases"`
	Total   int                     `json:"total"`
}

// GetCasesRequiringReview returns unreviewed cases flagged for human review.
func GetCasesRequiringReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReviewer(r); !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	cases, err := services.CasesRequiringReview(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaseListResponse{
		Success: true,
		Cases:   cases,
		Total:   len(cases),
	})
}

// GetHighRiskCases returns cases at or above an automated risk threshold.
func GetHighRiskCases(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReviewer(r); !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	minScore := 85
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 100 {
			minScore = n
		}
	}

	cases, err := services.HighRiskCases(r.Context(), minScore, queryLimit(r, 50))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaseListResponse{
		Success: true,
		Cases:   cases,
		Total:   len(cases),
	})
}

// GetCase returns a single moderation case.
func GetCase(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReviewer(r); !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	caseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid case id")
		return
	}

	mc, err := services.CaseByID(r.Context(), caseID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaseResponse{Success: true, Case: mc})
}

type DecideCaseRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// DecideCase records a moderator decision on a case and applies the resulting
// visibility.
func DecideCase(w http.ResponseWriter, r *http.Request) {
	modID, ok := requireReviewer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	caseID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid case id")
		return
	}

	var req DecideCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Decision == "" {
		writeError(w, http.StatusBadRequest, "decision is required")
		return
	}

	mc, err := services.DecideCase(r.Context(), caseID, modID.String(), models.CaseDecision(req.Decision), req.Reason, req.Notes)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CaseResponse{
		Success: true,
		Message: "Case decided",
		Case:    mc,
	})
}
