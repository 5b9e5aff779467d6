package services

import (
	"testing"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCaseNeedsRestore(t *testing.T) {
	tests := []struct {
		status models.CaseStatus
		want   bool
	}{
		{models.CaseStatusRemoved, true},
		{models.CaseStatusApproved, false},
		{models.CaseStatusFlagged, false},
		{models.CaseStatusPending, false},
		{models.CaseStatusUnderReview, false},
	}

	for _, tt := range tests {
		mc := &models.ModerationCase{Status: tt.status}
		assert.Equal(t, tt.want, caseNeedsRestore(mc), "status %s", tt.status)
	}

	assert.False(t, caseNeedsRestore(nil))
}

func TestReinstatesAccount(t *testing.T) {
	assert.True(t, reinstatesAccount(models.EnforcementTemporarySuspension))
	assert.True(t, reinstatesAccount(models.EnforcementPermanentBan))

	assert.False(t, reinstatesAccount(models.EnforcementWarning))
	assert.False(t, reinstatesAccount(models.EnforcementContentRemoval))
	assert.False(t, reinstatesAccount(models.EnforcementFeatureRestriction))
}

// A removal applied through report resolution must count as the case's
// review, so a later case decision cannot flip removed content back to
// public. Only an overturned appeal restores it.
func TestRemovedCaseUpdateClosesReview(t *testing.T) {
	now := time.Now().UTC()
	update := removedCaseUpdate("mod-1", "hate speech", now)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, models.CaseStatusRemoved, set["status"])
	assert.Equal(t, models.VisibilityRemoved, set["visibility"])
	assert.Equal(t, true, set["human_review.reviewed"])
	assert.Equal(t, "mod-1", set["human_review.reviewed_by"])
	assert.Equal(t, models.DecisionRemoved, set["human_review.decision"])

	push, ok := update["$push"].(bson.M)
	require.True(t, ok)
	action, ok := push["actions_taken"].(models.CaseAction)
	require.True(t, ok)
	assert.Equal(t, "content_removed", action.Action)
	assert.Equal(t, "mod-1", action.TakenBy)
}
