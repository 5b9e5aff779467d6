package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
	"github.com/AnshRaj112/sentinel-backend/pkg/clientip"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubmitReportRequest struct {
	ContentType  string            `json:"content_type"`
	ContentID    string            `json:"content_id"`
	ContentOwner string            `json:"content_owner"`
	Reason       string            `json:"reason"`
	Subcategory  string            `json:"subcategory,omitempty"`
	Description  string            `json:"description,omitempty"`
	Evidence     []models.Evidence `json:"evidence,omitempty"`
}

type ReportResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Report  *models.ContentReport `json:"report,omitempty"`
}

type ReportListResponse struct {
	Success bool                   `json:"success"`
	Reports []models.ContentReport `json:"reports"`
	Total   int                    `json:"total"`
}

// SubmitReport files a report against a piece of content.
func SubmitReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ContentType == "" || req.ContentID == "" || req.ContentOwner == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "content_type, content_id, content_owner and reason are required")
		return
	}

	contentID, err := primitive.ObjectIDFromHex(req.ContentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content_id")
		return
	}
	contentOwner, err := primitive.ObjectIDFromHex(req.ContentOwner)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid content_owner")
		return
	}

	report, err := services.SubmitReport(r.Context(), services.SubmitReportInput{
		Reporter: userID,
		Content: models.ContentRef{
			ContentType:  models.ContentType(req.ContentType),
			ContentID:    contentID,
			ContentOwner: contentOwner,
		},
		Reason:      models.ReportReason(req.Reason),
		Subcategory: req.Subcategory,
		Description: req.Description,
		Evidence:    req.Evidence,
		IPAddress:   clientip.RealClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ReportResponse{
		Success: true,
		Message: "Report submitted",
		Report:  report,
	})
}

// GetMyReports returns the caller's own reports, newest first.
func GetMyReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	reports, err := services.ReportsByReporter(r.Context(), userID, queryLimit(r, 50))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReportListResponse{
		Success: true,
		Reports: reports,
		Total:   len(reports),
	})
}

// GetReportQueue returns the prioritized review queue for moderators.
func GetReportQueue(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireReviewer(r); !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	reports, err := services.PendingReports(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReportListResponse{
		Success: true,
		Reports: reports,
		Total:   len(reports),
	})
}

// GetReport returns a single report. Moderators see any report; users only
// their own.
func GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	_, isModerator := requireReviewer(r)
	userID, isUser := requireUser(r)
	if !isModerator && !isUser {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	report, err := services.ReportByID(r.Context(), reportID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if !isModerator && report.Reporter != userID && report.ReportedContent.ContentOwner != userID {
		writeEngineError(w, models.ErrNotAuthorized())
		return
	}

	writeJSON(w, http.StatusOK, ReportResponse{Success: true, Report: report})
}

type ReviewReportRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

type ReviewReportResponse struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Report    *models.ContentReport `json:"report,omitempty"`
	Violation *models.UserViolation `json:"violation,omitempty"`
}

// ReviewReport resolves a report with a moderator decision.
func ReviewReport(w http.ResponseWriter, r *http.Request) {
	modID, ok := requireReviewer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	var req ReviewReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	report, violation, err := services.ResolveReport(r.Context(), services.ResolveReportInput{
		ReportID:   reportID,
		ReviewerID: modID.String(),
		Action:     models.ResolutionAction(req.Action),
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReviewReportResponse{
		Success:   true,
		Message:   "Report resolved",
		Report:    report,
		Violation: violation,
	})
}

type AppealRequest struct {
	Reason string `json:"reason"`
}

// AppealReport files an appeal against a report decision.
func AppealReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
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

	report, err := services.FileReportAppeal(r.Context(), reportID, userID, req.Reason)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReportResponse{
		Success: true,
		Message: "Appeal filed",
		Report:  report,
	})
}

type ReviewAppealRequest struct {
	Uphold bool   `json:"uphold"`
	Notes  string `json:"notes,omitempty"`
}

// ReviewReportAppeal decides a pending appeal on a report decision.
func ReviewReportAppeal(w http.ResponseWriter, r *http.Request) {
	modID, ok := requireReviewer(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Moderator authentication required")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	var req ReviewAppealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := services.ReviewReportAppeal(r.Context(), reportID, modID.String(), req.Uphold, req.Notes)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReportResponse{
		Success: true,
		Message: "Appeal reviewed",
		Report:  report,
	})
}

// queryLimit parses a ?limit= parameter with a default and a hard ceiling.
func queryLimit(r *http.Request, def int64) int64 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	if n > 200 {
		return 200
	}
	return n
}
