package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileReportAppeal files a one-shot appeal against a report decision. Only
// the owner of the penalized content may appeal, exactly once, before the
// decision's appeal deadline.
func FileReportAppeal(ctx context.Context, reportID, userID primitive.ObjectID, reason string) (*models.ContentReport, error) {
	report, err := ReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.ReportedContent.ContentOwner != userID {
		return nil, models.ErrNotAuthorized()
	}
	if report.Decision == nil {
		return nil, models.ErrInvalidTransition("report has no decision to appeal", string(report.Status))
	}

	now := time.Now().UTC()
	if now.After(report.Decision.AppealDeadline) {
		return nil, models.ErrInvalidTransition("appeal deadline has passed", string(report.Status))
	}

	appeal := models.Appeal{
		IsAppealed: true,
		Reason:     reason,
		AppealedAt: now,
		Status:     models.AppealStatusPending,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.ContentReport
	err = database.DB.Collection(reportsCollection).
		FindOneAndUpdate(ctx,
			bson.M{
				"_id":                reportID,
				"decision":           bson.M{"$ne": nil},
				"appeal.is_appealed": bson.M{"$ne": true},
			},
			bson.M{"$set": bson.M{"appeal": appeal, "updated_at": now}},
			opts,
		).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrConflict("report decision already appealed")
	}
	if err != nil {
		return nil, err
	}

	PublishModerationEvent(ctx, EventAppealFiled, userID.Hex(), map[string]interface{}{
		"report_id": updated.ID.Hex(),
	})

	return &updated, nil
}

// FileViolationAppeal files a one-shot appeal against a violation. The ladder
// tier that issued the enforcement controls whether it is appealable at all.
func FileViolationAppeal(ctx context.Context, violationID, userID primitive.ObjectID, reason string) (*models.UserViolation, error) {
	violation, err := ViolationByID(ctx, violationID)
	if err != nil {
		return nil, err
	}
	if violation.User != userID {
		return nil, models.ErrNotAuthorized()
	}

	if ladder, err := LadderForViolation(ctx, violation.ViolationType); err == nil && violation.LadderTier > 0 {
		if tier, ok := models.SelectTier(ladder, violation.LadderTier); ok && !tier.Appealable {
			return nil, models.ErrInvalidTransition("this enforcement is not appealable", string(violation.Action.Type))
		}
	}

	now := time.Now().UTC()
	if now.After(violation.CreatedAt.Add(settings.AppealWindow)) {
		return nil, models.ErrInvalidTransition("appeal deadline has passed", string(violation.Action.Type))
	}

	appeal := models.Appeal{
		IsAppealed: true,
		Reason:     reason,
		AppealedAt: now,
		Status:     models.AppealStatusPending,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.UserViolation
	err = database.DB.Collection(violationsCollection).
		FindOneAndUpdate(ctx,
			bson.M{
				"_id":                violationID,
				"appeal.is_appealed": bson.M{"$ne": true},
			},
			bson.M{"$set": bson.M{"appeal": appeal, "updated_at": now}},
			opts,
		).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrConflict("violation already appealed")
	}
	if err != nil {
		return nil, err
	}

	PublishModerationEvent(ctx, EventAppealFiled, userID.Hex(), map[string]interface{}{
		"violation_id": updated.ID.Hex(),
	})

	return &updated, nil
}

// ReviewReportAppeal decides a pending appeal on a report decision. Upheld
// closes the appeal. Overturned reverses the decision: the related violation
// is deactivated, the case and content are restored, and a suspended or
// banned account is reinstated.
func ReviewReportAppeal(ctx context.Context, reportID primitive.ObjectID, reviewerID string, uphold bool, decisionNotes string) (*models.ContentReport, error) {
	now := time.Now().UTC()
	status := models.AppealStatusOverturned
	if uphold {
		status = models.AppealStatusUpheld
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	var updated models.ContentReport
	var overturnedViolation *models.UserViolation

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := database.DB.Collection(reportsCollection).
			FindOneAndUpdate(sc,
				bson.M{"_id": reportID, "appeal.status": models.AppealStatusPending},
				bson.M{"$set": bson.M{
					"appeal.status":      status,
					"appeal.reviewed_by": reviewerID,
					"appeal.decision":    decisionNotes,
					"appeal.decided_at":  now,
					"updated_at":         now,
				}},
				opts,
			).
			Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appealReviewFailure(sc, reportID)
		}
		if err != nil {
			return nil, err
		}

		if !uphold {
			overturnedViolation, err = overturnViolationForReport(sc, reportID, reviewerID, now)
			if err != nil {
				return nil, err
			}
			if err := restoreCaseForContent(sc, updated.ReportedContent, reviewerID); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	finalizeAppealReview(ctx, status, updated.ReportedContent.ContentOwner, overturnedViolation, map[string]interface{}{
		"report_id": updated.ID.Hex(),
	})
	if !uphold {
		applyContentVisibility(ctx, updated.ReportedContent, models.VisibilityPublic)
	}

	return &updated, nil
}

// ReviewViolationAppeal decides a pending appeal on a violation directly.
// Overturning reverses the whole enforcement: the violation is deactivated
// and, when the enforcement took content down, the case and content come back.
func ReviewViolationAppeal(ctx context.Context, violationID primitive.ObjectID, reviewerID string, uphold bool, decisionNotes string) (*models.UserViolation, error) {
	now := time.Now().UTC()
	status := models.AppealStatusOverturned
	if uphold {
		status = models.AppealStatusUpheld
	}

	set := bson.M{
		"appeal.status":      status,
		"appeal.reviewed_by": reviewerID,
		"appeal.decision":    decisionNotes,
		"appeal.decided_at":  now,
		"updated_at":         now,
	}
	if !uphold {
		set["action.is_active"] = false
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	var updated models.UserViolation
	var restored *models.ContentRef

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := database.DB.Collection(violationsCollection).
			FindOneAndUpdate(sc,
				bson.M{"_id": violationID, "appeal.status": models.AppealStatusPending},
				bson.M{"$set": set},
				opts,
			).
			Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, violationAppealReviewFailure(sc, violationID)
		}
		if err != nil {
			return nil, err
		}

		if !uphold {
			restored, err = reopenContentForViolation(sc, &updated, reviewerID)
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	var reversed *models.UserViolation
	if !uphold {
		reversed = &updated
	}
	finalizeAppealReview(ctx, status, updated.User, reversed, map[string]interface{}{
		"violation_id": updated.ID.Hex(),
	})
	if restored != nil {
		applyContentVisibility(ctx, *restored, models.VisibilityPublic)
	}

	return &updated, nil
}

// reopenContentForViolation restores the removed case behind a reversed
// violation and returns the content ref to republish. Violations whose
// enforcement never took content down return nil. Runs inside the appeal
// transaction.
func reopenContentForViolation(sc mongo.SessionContext, v *models.UserViolation, actor string) (*models.ContentRef, error) {
	if v.RelatedReport == nil {
		return nil, nil
	}
	report, err := ReportByID(sc, *v.RelatedReport)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	mc, err := CaseForContent(sc, report.ReportedContent.ContentType, report.ReportedContent.ContentID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !caseNeedsRestore(mc) {
		return nil, nil
	}

	if _, err := restoreCaseVisibility(sc, mc.ID, actor); err != nil {
		return nil, err
	}
	ref := report.ReportedContent
	return &ref, nil
}

// caseNeedsRestore reports whether an overturned enforcement must bring the
// case back to public. Only removed cases regress back; flagged or limited
// outcomes were case decisions in their own right and stay put.
func caseNeedsRestore(mc *models.ModerationCase) bool {
	return mc != nil && mc.Status == models.CaseStatusRemoved
}

// reinstatesAccount reports whether reversing the enforcement must restore
// the account's standing.
func reinstatesAccount(t models.EnforcementType) bool {
	return t == models.EnforcementTemporarySuspension || t == models.EnforcementPermanentBan
}

// violationAppealReviewFailure explains why the conditional violation-appeal
// update matched nothing.
func violationAppealReviewFailure(ctx context.Context, violationID primitive.ObjectID) error {
	violation, err := ViolationByID(ctx, violationID)
	if err != nil {
		return err
	}
	if violation.Appeal == nil || !violation.Appeal.IsAppealed {
		return models.ErrInvalidTransition("violation has no pending appeal", string(violation.Action.Type))
	}
	return models.ErrConflict("appeal already reviewed")
}

// overturnViolationForReport deactivates the violation issued from a report
// whose decision was reversed. Runs inside the appeal transaction.
func overturnViolationForReport(sc mongo.SessionContext, reportID primitive.ObjectID, reviewerID string, now time.Time) (*models.UserViolation, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var violation models.UserViolation
	err := database.DB.Collection(violationsCollection).
		FindOneAndUpdate(sc,
			bson.M{"related_report": reportID},
			bson.M{"$set": bson.M{
				"action.is_active":   false,
				"appeal.is_appealed": true,
				"appeal.status":      models.AppealStatusOverturned,
				"appeal.reviewed_by": reviewerID,
				"appeal.decided_at":  now,
				"updated_at":         now,
			}},
			opts,
		).
		Decode(&violation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &violation, nil
}

func restoreCaseForContent(sc mongo.SessionContext, ref models.ContentRef, actor string) error {
	mc, err := CaseForContent(sc, ref.ContentType, ref.ContentID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = restoreCaseVisibility(sc, mc.ID, actor)
	return err
}

// appealReviewFailure explains why the conditional appeal update matched
// nothing: missing report, no appeal on file, or an appeal already decided.
func appealReviewFailure(ctx context.Context, reportID primitive.ObjectID) error {
	report, err := ReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Appeal == nil || !report.Appeal.IsAppealed {
		return models.ErrInvalidTransition("report has no pending appeal", string(report.Status))
	}
	return models.ErrConflict("appeal already reviewed")
}

// finalizeAppealReview performs the post-commit steps shared by both appeal
// paths: account reinstatement for reversed suspensions and bans, then events.
func finalizeAppealReview(ctx context.Context, status models.AppealStatus, user primitive.ObjectID, reversed *models.UserViolation, payload map[string]interface{}) {
	eventType := EventAppealUpheld
	if status == models.AppealStatusOverturned {
		eventType = EventAppealOverturned
	}
	PublishModerationEvent(ctx, eventType, user.Hex(), payload)

	if reversed == nil {
		return
	}
	if reinstatesAccount(reversed.Action.Type) {
		if err := ReinstateAccount(ctx, user.Hex()); err != nil {
			log.Printf("failed to reinstate account %s: %v", user.Hex(), err)
			return
		}
		PublishModerationEvent(ctx, EventAccountReinstated, user.Hex(), nil)
	}
}
