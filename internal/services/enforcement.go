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

const violationsCollection = "user_violations"

const strikeLockPrefix = "strike:lock:"
const strikeLockTTL = 10 * time.Second

// actionSeverity fixes the severity recorded for each punitive action.
var actionSeverity = map[models.ResolutionAction]models.Severity{
	models.ActionUserWarned:     models.SeverityLow,
	models.ActionContentRemoved: models.SeverityMedium,
	models.ActionUserRestricted: models.SeverityHigh,
	models.ActionUserSuspended:  models.SeverityHigh,
	models.ActionUserBanned:     models.SeverityCritical,
}

// actionEnforcement maps a punitive action to the enforcement it carries.
// An action missing from this table resolves the report without issuing a
// violation.
var actionEnforcement = map[models.ResolutionAction]models.EnforcementType{
	models.ActionUserWarned:     models.EnforcementWarning,
	models.ActionContentRemoved: models.EnforcementContentRemoval,
	models.ActionUserRestricted: models.EnforcementFeatureRestriction,
	models.ActionUserSuspended:  models.EnforcementTemporarySuspension,
	models.ActionUserBanned:     models.EnforcementPermanentBan,
}

// reasonViolationType maps the report reason onto the violation category used
// for ladder lookup and the violation record. Reasons without a dedicated
// category count against community standards.
func reasonViolationType(reason models.ReportReason) models.ViolationType {
	vt := models.ViolationType(reason)
	switch vt {
	case models.ViolationViolenceCriminal, models.ViolationHateSpeech,
		models.ViolationHarassmentBullying, models.ViolationSpam,
		models.ViolationMisinformation, models.ViolationAdultContent,
		models.ViolationPrivacyViolation, models.ViolationIntellectualProperty,
		models.ViolationImpersonation, models.ViolationSelfHarm,
		models.ViolationTerrorism, models.ViolationChildSafety:
		return vt
	default:
		return models.ViolationCommunityStandards
	}
}

// RollingStrikeCount sums the strike weight of violations still inside the
// window at now. Expired and overturned violations contribute nothing.
func RollingStrikeCount(violations []models.UserViolation, now time.Time, window time.Duration) int {
	total := 0
	for i := range violations {
		if violations[i].CountsTowardStrikes(now, window) {
			count := violations[i].StrikeCount
			if count <= 0 {
				count = 1
			}
			total += count
		}
	}
	return total
}

// ResolveReportInput carries a reviewer's resolution of a report.
type ResolveReportInput struct {
	ReportID   primitive.ObjectID
	ReviewerID string
	Action     models.ResolutionAction
	Reason     string
	Notes      string
}

// ResolveReport closes a report with a reviewer decision and, for punitive
// actions, issues the corresponding violation at the ladder tier selected by
// the owner's rolling strike count. The report transition and the violation
// insert commit in one transaction; account-status changes follow the commit.
func ResolveReport(ctx context.Context, in ResolveReportInput) (*models.ContentReport, *models.UserViolation, error) {
	if !models.ValidResolutionActions[in.Action] {
		return nil, nil, models.ErrInvalidTransition("unknown resolution action", string(in.Action))
	}

	report, err := ReportByID(ctx, in.ReportID)
	if err != nil {
		return nil, nil, err
	}

	enforcement, punitive := actionEnforcement[in.Action]
	owner := report.ReportedContent.ContentOwner

	if punitive {
		unlock, err := acquireStrikeLock(ctx, owner)
		if err != nil {
			return nil, nil, err
		}
		defer unlock()
	}

	now := time.Now().UTC()
	newStatus := models.ReportStatusResolved
	if in.Action == models.ActionNoAction {
		newStatus = models.ReportStatusDismissed
	}

	decision := models.ReportDecision{
		Action:         in.Action,
		Reason:         in.Reason,
		ActionTakenAt:  now,
		AppealDeadline: now.Add(settings.AppealWindow),
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, nil, err
	}
	defer session.EndSession(ctx)

	var resolved models.ContentReport
	var violation *models.UserViolation

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err := database.DB.Collection(reportsCollection).
			FindOneAndUpdate(sc,
				bson.M{
					"_id":    in.ReportID,
					"status": bson.M{"$in": openReportStatuses},
				},
				bson.M{"$set": bson.M{
					"status":       newStatus,
					"decision":     decision,
					"reviewed_by":  in.ReviewerID,
					"reviewed_at":  now,
					"review_notes": in.Notes,
					"updated_at":   now,
				}},
				opts,
			).
			Decode(&resolved)
		if errors.Is(err, mongo.ErrNoDocuments) {
			current, lookupErr := ReportByID(sc, in.ReportID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return nil, models.ErrInvalidTransition("report already closed", string(current.Status))
		}
		if err != nil {
			return nil, err
		}

		if punitive {
			violation, err = issueViolation(sc, &resolved, in.ReviewerID, enforcement, now)
			if err != nil {
				return nil, err
			}
		}

		if in.Action == models.ActionContentRemoved {
			if err := markCaseRemoved(sc, resolved.ReportedContent, in.ReviewerID, in.Reason); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}

	finalizeResolution(ctx, &resolved, violation, in.Action)

	return &resolved, violation, nil
}

// issueViolation builds and inserts the violation record inside the resolve
// transaction. The strike count includes the violation being issued, so a
// first offense selects tier 1.
func issueViolation(sc mongo.SessionContext, report *models.ContentReport, reviewerID string, enforcement models.EnforcementType, now time.Time) (*models.UserViolation, error) {
	owner := report.ReportedContent.ContentOwner

	history, err := violationsForUser(sc, owner)
	if err != nil {
		return nil, err
	}
	strikeCount := RollingStrikeCount(history, now, settings.StrikeWindow) + 1

	violationType := reasonViolationType(report.ReportReason)
	ladder, err := LadderForViolation(sc, violationType)
	if err != nil {
		log.Printf("ladder lookup failed for %s: %v", violationType, err)
	}
	tier, tierKnown := models.SelectTier(ladder, strikeCount)

	action := models.EnforcementAction{
		Type:      enforcement,
		StartDate: now,
		IsActive:  true,
	}

	switch enforcement {
	case models.EnforcementTemporarySuspension:
		length := settings.SuspensionLength
		if tierKnown && tier.Action == enforcement && tier.DurationDays != nil {
			length = time.Duration(*tier.DurationDays) * 24 * time.Hour
		}
		end := now.Add(length)
		action.EndDate = &end
	case models.EnforcementFeatureRestriction:
		length := settings.RestrictionLength
		if tierKnown && tier.Action == enforcement && tier.DurationDays != nil {
			length = time.Duration(*tier.DurationDays) * 24 * time.Hour
		}
		end := now.Add(length)
		action.EndDate = &end
		action.Restrictions = []models.FeatureRestriction{
			{Feature: models.FeaturePosting, Until: &end},
			{Feature: models.FeatureCommenting, Until: &end},
			{Feature: models.FeatureMessaging, Until: &end},
		}
	}

	violation := models.UserViolation{
		ID:            primitive.NewObjectID(),
		CreatedAt:     now,
		UpdatedAt:     now,
		User:          owner,
		ViolationType: violationType,
		Severity:      actionSeverity[report.Decision.Action],
		Description:   report.Decision.Reason,
		RelatedReport: &report.ID,
		Action:        action,
		StrikeCount:   1,
		IssuedBy:      reviewerID,
		ExpiresAt:     action.EndDate,
	}
	if tierKnown {
		violation.LadderTier = tier.Tier
	}

	if _, err := database.DB.Collection(violationsCollection).InsertOne(sc, violation); err != nil {
		return nil, err
	}
	return &violation, nil
}

// finalizeResolution performs the post-commit steps of a resolution: content
// visibility, identity-store status, events and the notification flag. Each
// step is idempotent; failures are logged and retried by operators, never
// rolled back into the decision.
func finalizeResolution(ctx context.Context, report *models.ContentReport, violation *models.UserViolation, action models.ResolutionAction) {
	owner := report.ReportedContent.ContentOwner

	if action == models.ActionContentRemoved {
		applyContentVisibility(ctx, report.ReportedContent, models.VisibilityRemoved)
	}

	switch action {
	case models.ActionUserSuspended:
		if violation != nil && violation.Action.EndDate != nil {
			if err := SuspendAccount(ctx, owner.Hex(), *violation.Action.EndDate); err != nil {
				log.Printf("failed to suspend account %s: %v", owner.Hex(), err)
			} else {
				PublishModerationEvent(ctx, EventAccountSuspended, owner.Hex(), map[string]interface{}{
					"until": violation.Action.EndDate,
				})
			}
		}
	case models.ActionUserBanned:
		if err := BanAccount(ctx, owner.Hex()); err != nil {
			log.Printf("failed to ban account %s: %v", owner.Hex(), err)
		} else {
			PublishModerationEvent(ctx, EventAccountBanned, owner.Hex(), nil)
		}
	}

	PublishModerationEvent(ctx, EventReportResolved, owner.Hex(), map[string]interface{}{
		"report_id": report.ID.Hex(),
		"action":    action,
		"status":    report.Status,
	})

	if violation != nil {
		PublishModerationEvent(ctx, EventViolationIssued, owner.Hex(), map[string]interface{}{
			"violation_id": violation.ID.Hex(),
			"type":         violation.ViolationType,
			"enforcement":  violation.Action.Type,
			"ladder_tier":  violation.LadderTier,
		})
		markViolationNotified(ctx, violation.ID)
	}
}

func markViolationNotified(ctx context.Context, violationID primitive.ObjectID) {
	now := time.Now().UTC()
	_, err := database.DB.Collection(violationsCollection).UpdateOne(ctx,
		bson.M{"_id": violationID},
		bson.M{"$set": bson.M{"user_notified": true, "notification_sent_at": now, "updated_at": now}},
	)
	if err != nil {
		log.Printf("failed to mark violation %s notified: %v", violationID.Hex(), err)
	}
}

// acquireStrikeLock serializes violation issuance per account so concurrent
// resolutions read a consistent strike count. Short spin with backoff; the
// lock expires on its own if the holder dies.
func acquireStrikeLock(ctx context.Context, user primitive.ObjectID) (func(), error) {
	key := strikeLockPrefix + user.Hex()

	for attempt := 0; attempt < 20; attempt++ {
		ok, err := database.RedisClient.SetNX(ctx, key, "1", strikeLockTTL).Result()
		if err != nil {
			return nil, models.ErrUpstreamDegraded("strike lock unavailable")
		}
		if ok {
			return func() {
				if err := database.RedisClient.Del(context.Background(), key).Err(); err != nil {
					log.Printf("failed to release strike lock for %s: %v", user.Hex(), err)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil, models.ErrConflict("another enforcement action for this user is in progress")
}

func violationsForUser(ctx context.Context, user primitive.ObjectID) ([]models.UserViolation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(violationsCollection).
		Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	violations := []models.UserViolation{}
	if err := cursor.All(ctx, &violations); err != nil {
		return nil, err
	}
	return violations, nil
}

// GetUserViolations returns a user's violation history, lazily expiring any
// whose enforcement window has passed. activeOnly filters to violations whose
// enforcement is still in effect.
func GetUserViolations(ctx context.Context, user primitive.ObjectID, activeOnly bool) ([]models.UserViolation, error) {
	violations, err := violationsForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range violations {
		v := &violations[i]
		if !v.IsExpired && v.ExpiresAt != nil && !v.ExpiresAt.After(now) {
			expireViolation(ctx, v)
		}
	}

	if !activeOnly {
		return violations, nil
	}

	active := violations[:0]
	for _, v := range violations {
		if v.Action.IsActive && !v.IsExpired {
			active = append(active, v)
		}
	}
	return active, nil
}

func ViolationByID(ctx context.Context, id primitive.ObjectID) (*models.UserViolation, error) {
	var v models.UserViolation
	err := database.DB.Collection(violationsCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound("violation")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UserStrikeCount computes the user's current rolling strike count.
func UserStrikeCount(ctx context.Context, user primitive.ObjectID) (int, error) {
	violations, err := violationsForUser(ctx, user)
	if err != nil {
		return 0, err
	}
	return RollingStrikeCount(violations, time.Now().UTC(), settings.StrikeWindow), nil
}

// expireViolation flips a violation whose enforcement window has passed.
// Overturned violations are left alone; the appeal already deactivated them.
func expireViolation(ctx context.Context, v *models.UserViolation) {
	now := time.Now().UTC()
	_, err := database.DB.Collection(violationsCollection).UpdateOne(ctx,
		bson.M{"_id": v.ID, "is_expired": false},
		bson.M{"$set": bson.M{
			"is_expired":       true,
			"action.is_active": false,
			"updated_at":       now,
		}},
	)
	if err != nil {
		log.Printf("failed to expire violation %s: %v", v.ID.Hex(), err)
		return
	}
	v.IsExpired = true
	v.Action.IsActive = false
	v.UpdatedAt = now
}

// StartViolationExpirySweep periodically deactivates violations whose
// enforcement window has passed, so counts stay right even for accounts
// nobody reads. Lazy expiry on read covers the gap between sweeps.
func StartViolationExpirySweep(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepExpiredViolations(ctx)
			}
		}
	}()
}

func sweepExpiredViolations(ctx context.Context) {
	now := time.Now().UTC()
	res, err := database.DB.Collection(violationsCollection).UpdateMany(ctx,
		bson.M{
			"is_expired": false,
			"expires_at": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{
			"is_expired":       true,
			"action.is_active": false,
			"updated_at":       now,
		}},
	)
	if err != nil {
		log.Printf("violation expiry sweep failed: %v", err)
		return
	}
	if res.ModifiedCount > 0 {
		log.Printf("✅ Expired %d violation(s)", res.ModifiedCount)
	}
}
