package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
)

// Account statuses communicated to the identity/session layer.
const (
	AccountActive    = "active"
	AccountSuspended = "suspended"
	AccountBanned    = "banned"
)

// AccountStatus returns the current status for a user id. A suspension whose
// end has passed is flipped back to active on read, so an expired restriction
// is never enforced even when the sweep has not caught up yet.
func AccountStatus(ctx context.Context, userID string) (string, *time.Time, error) {
	var status string
	var until sql.NullTime

	err := database.PostgresDB.QueryRowContext(ctx,
		`SELECT status, suspended_until FROM accounts WHERE user_id = $1`, userID).
		Scan(&status, &until)
	if err == sql.ErrNoRows {
		return AccountActive, nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	if status == AccountSuspended && until.Valid && !until.Time.After(time.Now()) {
		if err := setAccountStatus(ctx, userID, AccountActive, nil); err != nil {
			return "", nil, err
		}
		return AccountActive, nil, nil
	}

	if until.Valid {
		u := until.Time
		return status, &u, nil
	}
	return status, nil, nil
}

func setAccountStatus(ctx context.Context, userID, status string, until *time.Time) error {
	_, err := database.PostgresDB.ExecContext(ctx,
		`INSERT INTO accounts (user_id, status, suspended_until, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET status = $2, suspended_until = $3, updated_at = NOW()`,
		userID, status, until)
	return err
}

// SuspendAccount places a time-boxed suspension on the account and kills any
// live session.
func SuspendAccount(ctx context.Context, userID string, until time.Time) error {
	if err := setAccountStatus(ctx, userID, AccountSuspended, &until); err != nil {
		return err
	}
	InvalidateUserSessions(ctx, userID)
	return nil
}

// BanAccount moves the account to the terminal disabled state.
func BanAccount(ctx context.Context, userID string) error {
	if err := setAccountStatus(ctx, userID, AccountBanned, nil); err != nil {
		return err
	}
	InvalidateUserSessions(ctx, userID)
	return nil
}

// ReinstateAccount restores an account after an overturned appeal or an
// expired suspension.
func ReinstateAccount(ctx context.Context, userID string) error {
	return setAccountStatus(ctx, userID, AccountActive, nil)
}
