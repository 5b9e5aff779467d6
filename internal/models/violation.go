package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ViolationType string

const (
	ViolationViolenceCriminal     ViolationType = "violence_criminal"
	ViolationHateSpeech           ViolationType = "hate_speech"
	ViolationHarassmentBullying   ViolationType = "harassment_bullying"
	ViolationSpam                 ViolationType = "spam"
	ViolationMisinformation       ViolationType = "misinformation"
	ViolationAdultContent         ViolationType = "adult_content"
	ViolationPrivacyViolation     ViolationType = "privacy_violation"
	ViolationIntellectualProperty ViolationType = "intellectual_property"
	ViolationImpersonation        ViolationType = "impersonation"
	ViolationSelfHarm             ViolationType = "self_harm"
	ViolationTerrorism            ViolationType = "terrorism"
	ViolationChildSafety          ViolationType = "child_safety"
	ViolationCommunityStandards   ViolationType = "community_standards"
	ViolationTermsOfService       ViolationType = "terms_of_service"
)

// EnforcementType is the kind of account-level action a violation carries.
type EnforcementType string

const (
	EnforcementWarning             EnforcementType = "warning"
	EnforcementContentRemoval      EnforcementType = "content_removal"
	EnforcementFeatureRestriction  EnforcementType = "feature_restriction"
	EnforcementTemporarySuspension EnforcementType = "temporary_suspension"
	EnforcementPermanentBan        EnforcementType = "permanent_ban"
)

type RestrictedFeature string

const (
	FeaturePosting    RestrictedFeature = "posting"
	FeatureCommenting RestrictedFeature = "commenting"
	FeatureMessaging  RestrictedFeature = "messaging"
	FeatureStories    RestrictedFeature = "story_creation"
	FeatureAll        RestrictedFeature = "all"
)

type FeatureRestriction struct {
	Feature RestrictedFeature `bson:"feature" json:"feature"`
	Until   *time.Time        `bson:"until,omitempty" json:"until,omitempty"`
}

// EnforcementAction is the concrete action attached to a violation. A
// permanent ban has a nil EndDate and never auto-expires.
type EnforcementAction struct {
	Type         EnforcementType      `bson:"type" json:"type"`
	StartDate    time.Time            `bson:"start_date" json:"start_date"`
	EndDate      *time.Time           `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Restrictions []FeatureRestriction `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
	IsActive     bool                 `bson:"is_active" json:"is_active"`
}

// UserViolation is one adjudicated strike against an account. Violations are
// append-only history; an overturned appeal deactivates the action but never
// rewrites past strike-count computations.
type UserViolation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	User primitive.ObjectID `bson:"user" json:"user"`

	ViolationType ViolationType `bson:"violation_type" json:"violation_type"`
	Severity      Severity      `bson:"severity" json:"severity"`
	Description   string        `bson:"description" json:"description"`

	RelatedReport *primitive.ObjectID `bson:"related_report,omitempty" json:"related_report,omitempty"`
	RelatedCase   *primitive.ObjectID `bson:"related_case,omitempty" json:"related_case,omitempty"`

	Action EnforcementAction `bson:"action" json:"action"`

	// StrikeCount is the weight this violation contributes to the rolling
	// strike window.
	StrikeCount int `bson:"strike_count" json:"strike_count"`

	// LadderTier records which offense tier of the guideline ladder applied
	// when this violation was issued.
	LadderTier int `bson:"ladder_tier,omitempty" json:"ladder_tier,omitempty"`

	UserNotified       bool       `bson:"user_notified" json:"user_notified"`
	NotificationSentAt *time.Time `bson:"notification_sent_at,omitempty" json:"notification_sent_at,omitempty"`

	Appeal *Appeal `bson:"appeal,omitempty" json:"appeal,omitempty"`

	IssuedBy       string `bson:"issued_by" json:"issued_by"` // reviewer id hex or "system"
	IssuedBySystem bool   `bson:"issued_by_system" json:"issued_by_system"`

	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	IsExpired bool       `bson:"is_expired" json:"is_expired"`
}

// Overturned reports whether this violation's enforcement was reversed on
// appeal.
func (v *UserViolation) Overturned() bool {
	return v.Appeal != nil && v.Appeal.Status == AppealStatusOverturned
}

// CountsTowardStrikes reports whether the violation contributes to a rolling
// strike sum computed at now. Expired or overturned violations contribute
// nothing; so does anything created before the window opened.
func (v *UserViolation) CountsTowardStrikes(now time.Time, window time.Duration) bool {
	if v.IsExpired || v.Overturned() {
		return false
	}
	return !v.CreatedAt.Before(now.Add(-window))
}
