package services

import (
	"testing"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReportDedupeKeyDeterministic(t *testing.T) {
	reporter := primitive.NewObjectID()
	ref := models.ContentRef{
		ContentType: models.ContentTypePost,
		ContentID:   primitive.NewObjectID(),
	}

	a := reportDedupeKey(reporter, ref, models.ReasonSpam)
	b := reportDedupeKey(reporter, ref, models.ReasonSpam)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
}

func TestReportDedupeKeyVariesByInput(t *testing.T) {
	reporter := primitive.NewObjectID()
	ref := models.ContentRef{
		ContentType: models.ContentTypePost,
		ContentID:   primitive.NewObjectID(),
	}

	base := reportDedupeKey(reporter, ref, models.ReasonSpam)

	assert.NotEqual(t, base, reportDedupeKey(primitive.NewObjectID(), ref, models.ReasonSpam))
	assert.NotEqual(t, base, reportDedupeKey(reporter, ref, models.ReasonHateSpeech))

	other := ref
	other.ContentID = primitive.NewObjectID()
	assert.NotEqual(t, base, reportDedupeKey(reporter, other, models.ReasonSpam))

	comment := ref
	comment.ContentType = models.ContentTypeComment
	assert.NotEqual(t, base, reportDedupeKey(reporter, comment, models.ReasonSpam))
}

func TestEscalationReasonsDefault(t *testing.T) {
	s := defaultSettings()

	for _, r := range []models.ReportReason{
		models.ReasonTerrorism,
		models.ReasonChildSafety,
		models.ReasonSelfHarm,
	} {
		assert.True(t, s.EscalationReasons[r], "reason %s", r)
	}
	assert.False(t, s.EscalationReasons[models.ReasonSpam])
}

func TestContentCollectionMapping(t *testing.T) {
	assert.Equal(t, "posts", contentCollectionFor(models.ContentTypePost))
	assert.Equal(t, "comments", contentCollectionFor(models.ContentTypeComment))
	assert.Equal(t, "messages", contentCollectionFor(models.ContentTypeMessage))
	assert.Equal(t, "stories", contentCollectionFor(models.ContentTypeStory))
	assert.Equal(t, "users", contentCollectionFor(models.ContentTypeUserProfile))
	assert.Equal(t, "", contentCollectionFor(models.ContentType("webhook")))
}

func TestClassifySubmissionEscalationOverride(t *testing.T) {
	tests := []struct {
		reason       models.ReportReason
		base         models.ReportPriority
		wantPriority models.ReportPriority
		wantStatus   models.ReportStatus
	}{
		// Escalation reasons force critical/escalated even when the
		// guidelines rank the category lower.
		{models.ReasonTerrorism, models.PriorityHigh, models.PriorityCritical, models.ReportStatusEscalated},
		{models.ReasonChildSafety, models.PriorityLow, models.PriorityCritical, models.ReportStatusEscalated},
		{models.ReasonSelfHarm, models.PriorityMedium, models.PriorityCritical, models.ReportStatusEscalated},
		{models.ReasonSpam, models.PriorityLow, models.PriorityLow, models.ReportStatusPending},
		{models.ReasonHateSpeech, models.PriorityHigh, models.PriorityHigh, models.ReportStatusPending},
		{models.ReasonOther, models.PriorityMedium, models.PriorityMedium, models.ReportStatusPending},
	}

	for _, tt := range tests {
		priority, status := classifySubmission(tt.reason, tt.base)
		assert.Equal(t, tt.wantPriority, priority, "reason %s", tt.reason)
		assert.Equal(t, tt.wantStatus, status, "reason %s", tt.reason)
	}
}
