package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
	"github.com/AnshRaj112/sentinel-backend/pkg/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// extractBearerToken pulls the token out of an Authorization header.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// requireUser validates the caller's session token and returns their user ID.
func requireUser(r *http.Request) (primitive.ObjectID, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return primitive.NilObjectID, false
	}
	userID, ok := services.ValidateUserSession(r.Context(), token)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// requireModerator validates a moderator session and returns the moderator's
// ID and role.
func requireModerator(r *http.Request) (uuid.UUID, string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return uuid.Nil, "", false
	}
	return services.ValidateModeratorSession(r.Context(), token)
}

// requireReviewer accepts any active moderator.
func requireReviewer(r *http.Request) (uuid.UUID, bool) {
	modID, _, ok := requireModerator(r)
	return modID, ok
}

// requireAdmin accepts only moderators with the admin role.
func requireAdmin(r *http.Request) (uuid.UUID, bool) {
	modID, role, ok := requireModerator(r)
	if !ok || role != services.RoleAdmin {
		return uuid.Nil, false
	}
	return modID, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ErrorResponse is the error body shape shared by all endpoints.
type ErrorResponse struct {
	Success      bool   `json:"success"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message"`
	CurrentState string `json:"current_state,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeEngineError maps engine error codes onto HTTP statuses. Anything that
// is not an EngineError is an internal failure.
func writeEngineError(w http.ResponseWriter, err error) {
	ee, ok := models.AsEngineError(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch ee.Code {
	case models.CodeNotFound:
		status = http.StatusNotFound
	case models.CodeConflict:
		status = http.StatusConflict
	case models.CodeNotAuthorized:
		status = http.StatusForbidden
	case models.CodeInvalidTransition:
		status = http.StatusUnprocessableEntity
	case models.CodeUpstreamDegraded:
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, ErrorResponse{
		Success:      false,
		Code:         string(ee.Code),
		Message:      ee.Message,
		CurrentState: ee.CurrentState,
	})
}

type ModeratorSigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ModeratorSigninResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
}

// ModeratorSignin authenticates a moderator against the identity store and
// issues a session token.
func ModeratorSignin(w http.ResponseWriter, r *http.Request) {
	var req ModeratorSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var modID uuid.UUID
	var passwordHash string
	var role string
	err := database.PostgresDB.QueryRow(`
		SELECT id, password_hash, role FROM moderators
		WHERE username = $1 AND is_active = TRUE
	`, req.Username).Scan(&modID, &passwordHash, &role)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := services.CreateModeratorSession(modID, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, ModeratorSigninResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Role:    role,
	})
}

// ModeratorSignout invalidates all of the calling moderator's sessions.
func ModeratorSignout(w http.ResponseWriter, r *http.Request) {
	modID, _, ok := requireModerator(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	services.InvalidateModeratorSessions(r.Context(), modID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Signed out",
	})
}
