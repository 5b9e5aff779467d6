package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCaseOutcome(t *testing.T) {
	tests := []struct {
		decision   CaseDecision
		status     CaseStatus
		visibility Visibility
	}{
		{DecisionApproved, CaseStatusApproved, VisibilityPublic},
		{DecisionRemoved, CaseStatusRemoved, VisibilityRemoved},
		{DecisionWarningAdded, CaseStatusFlagged, VisibilityLimited},
		{DecisionAgeRestricted, CaseStatusFlagged, VisibilityLimited},
		{DecisionRequiresContext, CaseStatusFlagged, VisibilityLimited},
	}
	for _, tt := range tests {
		status, visibility := CaseOutcome(tt.decision)
		assert.Equal(t, tt.status, status, "decision %s", tt.decision)
		assert.Equal(t, tt.visibility, visibility, "decision %s", tt.decision)
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 4, PriorityRank(PriorityCritical))
	assert.Equal(t, 3, PriorityRank(PriorityHigh))
	assert.Equal(t, 2, PriorityRank(PriorityMedium))
	assert.Equal(t, 1, PriorityRank(PriorityLow))
	assert.Equal(t, 0, PriorityRank(ReportPriority("bogus")))
}

func TestReportOpen(t *testing.T) {
	open := []ReportStatus{ReportStatusPending, ReportStatusUnderReview, ReportStatusEscalated}
	for _, s := range open {
		r := ContentReport{Status: s}
		assert.True(t, r.Open(), "status %s", s)
	}
	for _, s := range []ReportStatus{ReportStatusResolved, ReportStatusDismissed} {
		r := ContentReport{Status: s}
		assert.False(t, r.Open(), "status %s", s)
	}
}

func TestSelectTierClamping(t *testing.T) {
	ladder := []LadderTier{
		{Tier: 1, Action: EnforcementWarning, Appealable: true},
		{Tier: 2, Action: EnforcementFeatureRestriction, Appealable: true},
		{Tier: 3, Action: EnforcementTemporarySuspension, Appealable: true},
	}

	tier, ok := SelectTier(ladder, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, tier.Tier)

	tier, _ = SelectTier(ladder, 3)
	assert.Equal(t, 3, tier.Tier)

	// Past the last rung the last tier keeps applying.
	tier, _ = SelectTier(ladder, 7)
	assert.Equal(t, 3, tier.Tier)

	// Degenerate counts clamp to the first rung.
	tier, _ = SelectTier(ladder, 0)
	assert.Equal(t, 1, tier.Tier)

	_, ok = SelectTier(nil, 1)
	assert.False(t, ok)
}

func TestCountsTowardStrikes(t *testing.T) {
	now := time.Now().UTC()
	window := 90 * 24 * time.Hour

	fresh := UserViolation{CreatedAt: now.Add(-24 * time.Hour)}
	assert.True(t, fresh.CountsTowardStrikes(now, window))

	stale := UserViolation{CreatedAt: now.Add(-91 * 24 * time.Hour)}
	assert.False(t, stale.CountsTowardStrikes(now, window))

	boundary := UserViolation{CreatedAt: now.Add(-window)}
	assert.True(t, boundary.CountsTowardStrikes(now, window))

	expired := UserViolation{CreatedAt: now, IsExpired: true}
	assert.False(t, expired.CountsTowardStrikes(now, window))

	overturned := UserViolation{
		CreatedAt: now,
		Appeal:    &Appeal{IsAppealed: true, Status: AppealStatusOverturned},
	}
	assert.False(t, overturned.CountsTowardStrikes(now, window))

	upheld := UserViolation{
		CreatedAt: now,
		Appeal:    &Appeal{IsAppealed: true, Status: AppealStatusUpheld},
	}
	assert.True(t, upheld.CountsTowardStrikes(now, window))
}

func TestSeverityOfUnknownCategory(t *testing.T) {
	gv := GuidelineVersion{
		Categories: []GuidelineCategory{
			{Name: "spam", SeverityDefault: SeverityLow},
		},
	}
	assert.Equal(t, SeverityLow, gv.SeverityOf("spam"))
	assert.Equal(t, SeverityMedium, gv.SeverityOf("unheard_of"))
}
