package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const reportDedupePrefix = "report:dedupe:"

// SubmitReportInput carries everything the intake endpoint collects.
type SubmitReportInput struct {
	Reporter    primitive.ObjectID
	Content     models.ContentRef
	Reason      models.ReportReason
	Subcategory string
	Description string
	Evidence    []models.Evidence
	IPAddress   string
	UserAgent   string
}

// SubmitReport files a report, captures an immutable snapshot of the content,
// converges concurrent reports onto one moderation case and kicks off
// automated scoring in the background. Identical retried submissions within
// the dedupe window return the original report instead of a duplicate.
func SubmitReport(ctx context.Context, in SubmitReportInput) (*models.ContentReport, error) {
	if !models.ValidReportReasons[in.Reason] {
		return nil, models.ErrInvalidTransition("unknown report reason", string(in.Reason))
	}
	if contentCollectionFor(in.Content.ContentType) == "" {
		return nil, models.ErrInvalidTransition("unknown content type", string(in.Content.ContentType))
	}

	now := time.Now().UTC()

	report := models.ContentReport{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		Reporter:          in.Reporter,
		ReportedContent:   in.Content,
		ContentSnapshot:   snapshotContent(ctx, in.Content),
		ReportReason:      in.Reason,
		ReportSubcategory: in.Subcategory,
		Description:       in.Description,
		Evidence:          in.Evidence,
		IPAddress:         in.IPAddress,
		UserAgent:         in.UserAgent,
		DedupeKey:         reportDedupeKey(in.Reporter, in.Content, in.Reason),
	}

	report.Priority, report.Status = classifySubmission(in.Reason, priorityForReason(ctx, in.Reason))
	report.PriorityRank = models.PriorityRank(report.Priority)

	if existing := claimDedupeSlot(ctx, &report); existing != nil {
		return existing, nil
	}

	if _, err := database.DB.Collection(reportsCollection).InsertOne(ctx, report); err != nil {
		releaseDedupeSlot(ctx, report.DedupeKey)
		return nil, err
	}

	mc, err := EnsureCase(ctx, in.Content)
	if err != nil {
		log.Printf("failed to ensure moderation case for report %s: %v", report.ID.Hex(), err)
	} else if !mc.Automated.Processed {
		go scoreCase(mc.ID, in.Content, report.ContentSnapshot)
	} else {
		// Case already scored; carry the known risk onto the new report.
		_, err := database.DB.Collection(reportsCollection).UpdateOne(ctx,
			bson.M{"_id": report.ID},
			bson.M{"$set": bson.M{"risk_score": mc.Automated.RiskScore}},
		)
		if err == nil {
			report.RiskScore = mc.Automated.RiskScore
		}
	}

	PublishModerationEvent(ctx, EventReportSubmitted, in.Content.ContentOwner.Hex(), map[string]interface{}{
		"report_id": report.ID.Hex(),
		"reason":    report.ReportReason,
		"priority":  report.Priority,
	})
	if report.Status == models.ReportStatusEscalated {
		PublishModerationEvent(ctx, EventReportEscalated, in.Content.ContentOwner.Hex(), map[string]interface{}{
			"report_id": report.ID.Hex(),
			"reason":    report.ReportReason,
		})
	}

	return &report, nil
}

// scoreCase runs the automated scorer detached from the submitting request.
func scoreCase(caseID primitive.ObjectID, ref models.ContentRef, snapshot models.ContentSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), settings.ScorerTimeout+5*time.Second)
	defer cancel()

	res := ScoreWithTimeout(ctx, DefaultScorer, snapshot)
	if err := ApplyAutomatedScore(ctx, caseID, ref, res); err != nil {
		log.Printf("failed to record automated score for case %s: %v", caseID.Hex(), err)
	}
}

// classifySubmission applies the hard-escalation override to a report's
// guideline-derived priority. Escalation reasons enter the queue critical
// and already escalated, regardless of how the guidelines rank the category.
func classifySubmission(reason models.ReportReason, base models.ReportPriority) (models.ReportPriority, models.ReportStatus) {
	if settings.EscalationReasons[reason] {
		return models.PriorityCritical, models.ReportStatusEscalated
	}
	return base, models.ReportStatusPending
}

// priorityForReason derives the initial queue priority from the active
// guidelines' default severity for the matching category.
func priorityForReason(ctx context.Context, reason models.ReportReason) models.ReportPriority {
	gv, err := ActiveGuidelines(ctx)
	if err != nil {
		return models.PriorityMedium
	}
	switch gv.SeverityOf(string(reason)) {
	case models.SeverityCritical:
		return models.PriorityCritical
	case models.SeverityHigh:
		return models.PriorityHigh
	case models.SeverityLow:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

// snapshotContent captures the content's current text and media. Deleted or
// unreachable content yields an empty snapshot; the report still stands.
func snapshotContent(ctx context.Context, ref models.ContentRef) models.ContentSnapshot {
	snap := models.ContentSnapshot{Timestamp: time.Now().UTC()}

	coll := contentCollectionFor(ref.ContentType)
	if coll == "" {
		return snap
	}

	var doc struct {
		Content   string   `bson:"content"`
		Text      string   `bson:"text"`
		Bio       string   `bson:"bio"`
		MediaURLs []string `bson:"media_urls"`
	}
	err := database.DB.Collection(coll).
		FindOne(ctx, bson.M{"_id": ref.ContentID}).
		Decode(&doc)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("failed to snapshot %s %s: %v", ref.ContentType, ref.ContentID.Hex(), err)
		}
		return snap
	}

	snap.Text = doc.Content
	if snap.Text == "" {
		snap.Text = doc.Text
	}
	if snap.Text == "" {
		snap.Text = doc.Bio
	}
	snap.MediaURLs = doc.MediaURLs
	return snap
}

func reportDedupeKey(reporter primitive.ObjectID, ref models.ContentRef, reason models.ReportReason) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%s",
		reporter.Hex(), ref.ContentType, ref.ContentID.Hex(), reason)))
	return hex.EncodeToString(sum[:])
}

// claimDedupeSlot reserves the dedupe key for this report. When an identical
// submission already holds the slot, the original report is returned. Redis
// being down fails open; a duplicate report beats a rejected one.
func claimDedupeSlot(ctx context.Context, report *models.ContentReport) *models.ContentReport {
	key := reportDedupePrefix + report.DedupeKey

	set, err := database.RedisClient.SetNX(ctx, key, report.ID.Hex(), settings.ReportDedupeTTL).Result()
	if err != nil {
		log.Printf("report dedupe check failed: %v", err)
		return nil
	}
	if set {
		return nil
	}

	existingID, err := database.RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(existingID)
	if err != nil {
		return nil
	}

	var existing models.ContentReport
	if err := database.DB.Collection(reportsCollection).
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(&existing); err != nil {
		return nil
	}
	return &existing
}

func releaseDedupeSlot(ctx context.Context, dedupeKey string) {
	if err := database.RedisClient.Del(ctx, reportDedupePrefix+dedupeKey).Err(); err != nil {
		log.Printf("failed to release report dedupe slot: %v", err)
	}
}
