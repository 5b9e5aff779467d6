package services

import (
	"testing"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestActionSeverityTable(t *testing.T) {
	assert.Equal(t, models.SeverityLow, actionSeverity[models.ActionUserWarned])
	assert.Equal(t, models.SeverityMedium, actionSeverity[models.ActionContentRemoved])
	assert.Equal(t, models.SeverityHigh, actionSeverity[models.ActionUserRestricted])
	assert.Equal(t, models.SeverityHigh, actionSeverity[models.ActionUserSuspended])
	assert.Equal(t, models.SeverityCritical, actionSeverity[models.ActionUserBanned])
}

func TestActionEnforcementTable(t *testing.T) {
	assert.Equal(t, models.EnforcementWarning, actionEnforcement[models.ActionUserWarned])
	assert.Equal(t, models.EnforcementContentRemoval, actionEnforcement[models.ActionContentRemoved])
	assert.Equal(t, models.EnforcementFeatureRestriction, actionEnforcement[models.ActionUserRestricted])
	assert.Equal(t, models.EnforcementTemporarySuspension, actionEnforcement[models.ActionUserSuspended])
	assert.Equal(t, models.EnforcementPermanentBan, actionEnforcement[models.ActionUserBanned])

	// Non-punitive actions issue no violation.
	for _, a := range []models.ResolutionAction{
		models.ActionNoAction,
		models.ActionContentWarningAdded,
		models.ActionEscalatedToLegal,
	} {
		_, punitive := actionEnforcement[a]
		assert.False(t, punitive, "action %s", a)
	}
}

func TestReasonViolationType(t *testing.T) {
	assert.Equal(t, models.ViolationHateSpeech, reasonViolationType(models.ReasonHateSpeech))
	assert.Equal(t, models.ViolationTerrorism, reasonViolationType(models.ReasonTerrorism))
	assert.Equal(t, models.ViolationChildSafety, reasonViolationType(models.ReasonChildSafety))

	// "other" has no category of its own.
	assert.Equal(t, models.ViolationCommunityStandards, reasonViolationType(models.ReasonOther))
}

func violationAt(age time.Duration, strikes int) models.UserViolation {
	return models.UserViolation{
		CreatedAt:   time.Now().UTC().Add(-age),
		StrikeCount: strikes,
	}
}

func TestRollingStrikeCountWindow(t *testing.T) {
	window := 90 * 24 * time.Hour
	now := time.Now().UTC()

	violations := []models.UserViolation{
		violationAt(10*24*time.Hour, 1),
		violationAt(50*24*time.Hour, 1),
		violationAt(100*24*time.Hour, 1), // outside the window
	}

	assert.Equal(t, 2, RollingStrikeCount(violations, now, window))
}

func TestRollingStrikeCountExclusions(t *testing.T) {
	window := 90 * 24 * time.Hour
	now := time.Now().UTC()

	expired := violationAt(5*24*time.Hour, 1)
	expired.IsExpired = true

	overturned := violationAt(5*24*time.Hour, 1)
	overturned.Appeal = &models.Appeal{IsAppealed: true, Status: models.AppealStatusOverturned}

	violations := []models.UserViolation{
		violationAt(5*24*time.Hour, 1),
		expired,
		overturned,
	}

	assert.Equal(t, 1, RollingStrikeCount(violations, now, window))
}

func TestRollingStrikeCountZeroWeightDefaultsToOne(t *testing.T) {
	window := 90 * 24 * time.Hour
	now := time.Now().UTC()

	// Legacy records without an explicit weight still count as one strike.
	violations := []models.UserViolation{violationAt(time.Hour, 0)}
	assert.Equal(t, 1, RollingStrikeCount(violations, now, window))
}

func TestLadderEscalationAcrossOffenses(t *testing.T) {
	ladder := []models.LadderTier{
		{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
		{Tier: 2, Action: models.EnforcementFeatureRestriction, Appealable: true},
		{Tier: 3, Action: models.EnforcementTemporarySuspension, Appealable: true},
	}

	// The strike count handed to tier selection includes the violation being
	// issued: first offense lands on tier 1, fourth offense stays on tier 3.
	for offense, wantTier := range map[int]int{1: 1, 2: 2, 3: 3, 4: 3, 9: 3} {
		tier, ok := models.SelectTier(ladder, offense)
		assert.True(t, ok)
		assert.Equal(t, wantTier, tier.Tier, "offense %d", offense)
	}
}
