package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/google/uuid"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for platform-user sessions
	// (written by the identity service into the shared Redis).
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
	// ModSessionKeyPrefix is the Redis key prefix for moderator sessions
	ModSessionKeyPrefix = "mod_session:"
	// ModToSessionKeyPrefix is the Redis key prefix for moderator->session mapping
	ModToSessionKeyPrefix = "mod_to_session:"
)

// Moderator roles.
const (
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// ValidateUserSession checks a platform user's session token and returns the
// user id (hex). Suspended and banned accounts fail validation even when the
// session key still exists: the account store is consulted on every check so
// stale cached sessions never outlive an enforcement action.
func ValidateUserSession(ctx context.Context, sessionToken string) (string, bool) {
	if sessionToken == "" {
		return "", false
	}

	userID, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil || userID == "" {
		return "", false
	}

	status, _, err := AccountStatus(ctx, userID)
	if err != nil {
		// Identity store unavailable: fail closed for enforcement-relevant
		// statuses is impossible to decide, so reject.
		return "", false
	}
	if status == AccountBanned || status == AccountSuspended {
		return "", false
	}

	return userID, true
}

// InvalidateUserSessions removes a user's session so a suspension or ban
// takes effect immediately.
func InvalidateUserSessions(ctx context.Context, userID string) {
	token, err := database.RedisClient.Get(ctx, UserSessionKeyPrefix+userID).Result()
	if err == nil && token != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+token)
	}
	database.RedisClient.Del(ctx, UserSessionKeyPrefix+userID)
}

// CreateModeratorSession creates a session for a reviewer/admin and stores it
// in Redis. An existing session for the moderator is replaced so the 7-day
// timer resets from the current sign-in.
func CreateModeratorSession(modID uuid.UUID, role string) (string, error) {
	ctx := context.Background()
	InvalidateModeratorSessions(ctx, modID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	value := modID.String() + "|" + role
	if err := database.RedisClient.Set(ctx, ModSessionKeyPrefix+sessionToken, value, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, ModToSessionKeyPrefix+modID.String(), sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateModeratorSession checks a moderator session token and returns the
// moderator id and role.
func ValidateModeratorSession(ctx context.Context, sessionToken string) (uuid.UUID, string, bool) {
	if sessionToken == "" {
		return uuid.Nil, "", false
	}

	value, err := database.RedisClient.Get(ctx, ModSessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, "", false
	}

	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return uuid.Nil, "", false
	}

	modID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", false
	}

	return modID, parts[1], true
}

// InvalidateModeratorSessions removes any existing session for a moderator.
func InvalidateModeratorSessions(ctx context.Context, modID uuid.UUID) {
	token, err := database.RedisClient.Get(ctx, ModToSessionKeyPrefix+modID.String()).Result()
	if err == nil && token != "" {
		database.RedisClient.Del(ctx, ModSessionKeyPrefix+token)
	}
	database.RedisClient.Del(ctx, ModToSessionKeyPrefix+modID.String())
}
