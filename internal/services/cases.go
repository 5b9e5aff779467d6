package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	casesCollection   = "moderation_cases"
	reportsCollection = "content_reports"

	systemActor = "system"
)

// contentCollectionFor maps a content type to the collection holding the live
// content document. User profiles live on the users collection itself.
func contentCollectionFor(ct models.ContentType) string {
	switch ct {
	case models.ContentTypePost:
		return "posts"
	case models.ContentTypeComment:
		return "comments"
	case models.ContentTypeMessage:
		return "messages"
	case models.ContentTypeStory:
		return "stories"
	case models.ContentTypeUserProfile:
		return "users"
	default:
		return ""
	}
}

// EnsureCase returns the single moderation case for the given content,
// creating it atomically if none exists yet. Concurrent reports of the same
// content converge on one case.
func EnsureCase(ctx context.Context, ref models.ContentRef) (*models.ModerationCase, error) {
	now := time.Now().UTC()

	filter := bson.M{
		"content.content_type": ref.ContentType,
		"content.content_id":   ref.ContentID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"created_at":     now,
			"updated_at":     now,
			"content":        ref,
			"automated":      models.AutomatedScore{},
			"human_review":   models.HumanReview{},
			"status":         models.CaseStatusPending,
			"visibility":     models.VisibilityPublic,
			"age_restricted": false,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var mc models.ModerationCase
	err := database.DB.Collection(casesCollection).
		FindOneAndUpdate(ctx, filter, update, opts).
		Decode(&mc)
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

func CaseByID(ctx context.Context, id primitive.ObjectID) (*models.ModerationCase, error) {
	var mc models.ModerationCase
	err := database.DB.Collection(casesCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&mc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound("moderation case")
	}
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

func CaseForContent(ctx context.Context, ct models.ContentType, contentID primitive.ObjectID) (*models.ModerationCase, error) {
	var mc models.ModerationCase
	err := database.DB.Collection(casesCollection).
		FindOne(ctx, bson.M{
			"content.content_type": ct,
			"content.content_id":   contentID,
		}).
		Decode(&mc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound("moderation case")
	}
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

// ApplyAutomatedScore records the scorer's output on the case and mirrors the
// risk score onto still-open reports of the same content so the review queue
// sorts without a lookup. A degraded result always forces human review.
func ApplyAutomatedScore(ctx context.Context, caseID primitive.ObjectID, ref models.ContentRef, res *ScoreResult) error {
	now := time.Now().UTC()

	needsReview := res.Degraded ||
		res.Recommendation == models.RecommendReview ||
		res.Recommendation == models.RecommendRemove ||
		res.RiskScore >= settings.ReviewThreshold

	update := bson.M{
		"$set": bson.M{
			"automated": models.AutomatedScore{
				Processed:      true,
				ProcessedAt:    &now,
				Signals:        res.Signals,
				RiskScore:      res.RiskScore,
				Recommendation: res.Recommendation,
				Degraded:       res.Degraded,
			},
			"updated_at": now,
		},
	}
	if needsReview {
		update["$set"].(bson.M)["human_review.required"] = true
		update["$push"] = bson.M{
			"actions_taken": models.CaseAction{
				Action:  "flagged_for_review",
				Reason:  fmt.Sprintf("automated risk score %d", res.RiskScore),
				TakenBy: systemActor,
				TakenAt: now,
			},
		}
	}

	_, err := database.DB.Collection(casesCollection).
		UpdateOne(ctx, bson.M{"_id": caseID}, update)
	if err != nil {
		return err
	}

	_, err = database.DB.Collection(reportsCollection).UpdateMany(ctx,
		bson.M{
			"reported_content.content_type": ref.ContentType,
			"reported_content.content_id":   ref.ContentID,
			"status": bson.M{"$in": []models.ReportStatus{
				models.ReportStatusPending,
				models.ReportStatusUnderReview,
				models.ReportStatusEscalated,
			}},
		},
		bson.M{"$set": bson.M{"risk_score": res.RiskScore, "updated_at": now}},
	)
	if err != nil {
		log.Printf("failed to mirror risk score onto reports: %v", err)
	}
	return nil
}

// DecideCase records a reviewer's decision on a case. The first decision wins:
// the update is conditional on the case being unreviewed, so two racing
// reviewers produce exactly one decision and a conflict for the loser.
func DecideCase(ctx context.Context, caseID primitive.ObjectID, reviewerID string, decision models.CaseDecision, reason, notes string) (*models.ModerationCase, error) {
	if !models.ValidCaseDecisions[decision] {
		return nil, models.ErrInvalidTransition("unknown case decision", string(decision))
	}

	now := time.Now().UTC()
	status, visibility := models.CaseOutcome(decision)

	set := bson.M{
		"human_review.reviewed":        true,
		"human_review.reviewed_by":     reviewerID,
		"human_review.reviewed_at":     now,
		"human_review.decision":        decision,
		"human_review.decision_reason": reason,
		"human_review.review_notes":    notes,
		"status":                       status,
		"visibility":                   visibility,
		"updated_at":                   now,
	}
	if decision == models.DecisionAgeRestricted {
		set["age_restricted"] = true
		set["minimum_age"] = 18
	}

	update := bson.M{
		"$set": set,
		"$push": bson.M{
			"actions_taken": models.CaseAction{
				Action:  string(decision),
				Reason:  reason,
				TakenBy: reviewerID,
				TakenAt: now,
			},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mc models.ModerationCase
	err := database.DB.Collection(casesCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": caseID, "human_review.reviewed": false}, update, opts).
		Decode(&mc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, lookupErr := CaseByID(ctx, caseID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		conflict := models.ErrConflict("case already decided")
		conflict.CurrentState = string(existing.Status)
		return nil, conflict
	}
	if err != nil {
		return nil, err
	}

	applyContentVisibility(ctx, mc.Content, visibility)

	PublishModerationEvent(ctx, EventCaseDecided, mc.Content.ContentOwner.Hex(), map[string]interface{}{
		"case_id":    mc.ID.Hex(),
		"decision":   decision,
		"status":     status,
		"visibility": visibility,
	})

	return &mc, nil
}

// CasesRequiringReview lists unreviewed cases flagged for human review,
// riskiest first.
func CasesRequiringReview(ctx context.Context, limit int64) ([]models.ModerationCase, error) {
	filter := bson.M{
		"human_review.required": true,
		"human_review.reviewed": false,
	}
	opts := options.Find().
		SetSort(bson.D{
			{Key: "automated.risk_score", Value: -1},
			{Key: "created_at", Value: 1},
		}).
		SetLimit(limit)

	cursor, err := database.DB.Collection(casesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cases := []models.ModerationCase{}
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// HighRiskCases lists cases at or above the given automated risk score,
// regardless of review state.
func HighRiskCases(ctx context.Context, minScore int, limit int64) ([]models.ModerationCase, error) {
	filter := bson.M{"automated.risk_score": bson.M{"$gte": minScore}}
	opts := options.Find().
		SetSort(bson.D{{Key: "automated.risk_score", Value: -1}}).
		SetLimit(limit)

	cursor, err := database.DB.Collection(casesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cases := []models.ModerationCase{}
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// markCaseRemoved flips a case to removed as part of a report resolution that
// removed the content. The resolution counts as the case's human review, so
// the case cannot be decided back to public afterwards; only an overturned
// appeal restores it. Runs inside the caller's transaction context.
func markCaseRemoved(ctx context.Context, ref models.ContentRef, actor string, reason string) error {
	_, err := database.DB.Collection(casesCollection).UpdateOne(ctx,
		bson.M{
			"content.content_type": ref.ContentType,
			"content.content_id":   ref.ContentID,
		},
		removedCaseUpdate(actor, reason, time.Now().UTC()),
	)
	return err
}

// removedCaseUpdate builds the update applied when a report resolution takes
// content down. It records the removal as a completed review so the
// first-decision-wins filter in DecideCase never matches the case again.
func removedCaseUpdate(actor, reason string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"status":                       models.CaseStatusRemoved,
			"visibility":                   models.VisibilityRemoved,
			"human_review.required":        true,
			"human_review.reviewed":        true,
			"human_review.reviewed_by":     actor,
			"human_review.reviewed_at":     now,
			"human_review.decision":        models.DecisionRemoved,
			"human_review.decision_reason": reason,
			"updated_at":                   now,
		},
		"$push": bson.M{
			"actions_taken": models.CaseAction{
				Action:  "content_removed",
				Reason:  reason,
				TakenBy: actor,
				TakenAt: now,
			},
		},
	}
}

// restoreCaseVisibility puts a case back to approved/public after an
// overturned appeal. Runs inside the caller's transaction context.
func restoreCaseVisibility(ctx context.Context, caseID primitive.ObjectID, actor string) (*models.ModerationCase, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mc models.ModerationCase
	err := database.DB.Collection(casesCollection).
		FindOneAndUpdate(ctx,
			bson.M{"_id": caseID},
			bson.M{
				"$set": bson.M{
					"status":     models.CaseStatusApproved,
					"visibility": models.VisibilityPublic,
					"updated_at": now,
				},
				"$push": bson.M{
					"actions_taken": models.CaseAction{
						Action:  "appeal_overturned",
						Reason:  "decision reversed on appeal",
						TakenBy: actor,
						TakenAt: now,
					},
				},
			},
			opts,
		).
		Decode(&mc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound("moderation case")
	}
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

// applyContentVisibility mirrors a case's visibility onto the live content
// document. The content store belongs to the product services; failures are
// logged, the case remains the source of truth.
func applyContentVisibility(ctx context.Context, ref models.ContentRef, visibility models.Visibility) {
	coll := contentCollectionFor(ref.ContentType)
	if coll == "" {
		return
	}

	_, err := database.DB.Collection(coll).UpdateOne(ctx,
		bson.M{"_id": ref.ContentID},
		bson.M{"$set": bson.M{
			"moderation.visibility": visibility,
			"moderation.updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		log.Printf("failed to apply visibility %s to %s %s: %v", visibility, ref.ContentType, ref.ContentID.Hex(), err)
		return
	}

	PublishModerationEvent(ctx, EventVisibilityChanged, ref.ContentOwner.Hex(), map[string]interface{}{
		"content_type": ref.ContentType,
		"content_id":   ref.ContentID.Hex(),
		"visibility":   visibility,
	})
}
