package handlers

import (
	"net/http"

	"github.com/AnshRaj112/sentinel-backend/internal/services"
)

type EvidenceUploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}

// UploadEvidence stores a reporter-supplied screenshot or recording and
// returns its URL for inclusion in a report's evidence list.
func UploadEvidence(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(r); !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	uploader := services.Evidence()
	if uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Evidence uploads are not configured")
		return
	}

	// 10MB cap per upload
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}

	url, err := uploader.UploadFromHeader(r.Context(), header)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, EvidenceUploadResponse{
		Success: true,
		Message: "Evidence uploaded",
		URL:     url,
	})
}
