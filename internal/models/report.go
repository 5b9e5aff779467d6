package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContentType string

const (
	ContentTypePost        ContentType = "post"
	ContentTypeComment     ContentType = "comment"
	ContentTypeMessage     ContentType = "message"
	ContentTypeStory       ContentType = "story"
	ContentTypeUserProfile ContentType = "user_profile"
)

type ReportReason string

const (
	ReasonViolenceCriminal     ReportReason = "violence_criminal"
	ReasonHateSpeech           ReportReason = "hate_speech"
	ReasonHarassmentBullying   ReportReason = "harassment_bullying"
	ReasonSpam                 ReportReason = "spam"
	ReasonMisinformation       ReportReason = "misinformation"
	ReasonAdultContent         ReportReason = "adult_content"
	ReasonPrivacyViolation     ReportReason = "privacy_violation"
	ReasonIntellectualProperty ReportReason = "intellectual_property"
	ReasonImpersonation        ReportReason = "impersonation"
	ReasonSelfHarm             ReportReason = "self_harm"
	ReasonTerrorism            ReportReason = "terrorism"
	ReasonChildSafety          ReportReason = "child_safety"
	ReasonOther                ReportReason = "other"
)

// ValidReportReasons is the closed set accepted at report submission.
var ValidReportReasons = map[ReportReason]bool{
	ReasonViolenceCriminal:     true,
	ReasonHateSpeech:           true,
	ReasonHarassmentBullying:   true,
	ReasonSpam:                 true,
	ReasonMisinformation:       true,
	ReasonAdultContent:         true,
	ReasonPrivacyViolation:     true,
	ReasonIntellectualProperty: true,
	ReasonImpersonation:        true,
	ReasonSelfHarm:             true,
	ReasonTerrorism:            true,
	ReasonChildSafety:          true,
	ReasonOther:                true,
}

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
	ReportStatusEscalated   ReportStatus = "escalated"
)

type ReportPriority string

const (
	PriorityLow      ReportPriority = "low"
	PriorityMedium   ReportPriority = "medium"
	PriorityHigh     ReportPriority = "high"
	PriorityCritical ReportPriority = "critical"
)

// PriorityRank maps a priority to its sortable weight. Stored alongside the
// priority so Mongo can sort the review queue without a lookup stage.
func PriorityRank(p ReportPriority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ResolutionAction is the reviewer's decision on a report.
type ResolutionAction string

const (
	ActionNoAction            ResolutionAction = "no_action"
	ActionContentRemoved      ResolutionAction = "content_removed"
	ActionContentWarningAdded ResolutionAction = "content_warning_added"
	ActionUserWarned          ResolutionAction = "user_warned"
	ActionUserRestricted      ResolutionAction = "user_restricted"
	ActionUserSuspended       ResolutionAction = "user_suspended"
	ActionUserBanned          ResolutionAction = "user_banned"
	ActionEscalatedToLegal    ResolutionAction = "escalated_to_legal"
)

// ValidResolutionActions is the closed set accepted at report review.
var ValidResolutionActions = map[ResolutionAction]bool{
	ActionNoAction:            true,
	ActionContentRemoved:      true,
	ActionContentWarningAdded: true,
	ActionUserWarned:          true,
	ActionUserRestricted:      true,
	ActionUserSuspended:       true,
	ActionUserBanned:          true,
	ActionEscalatedToLegal:    true,
}

type EvidenceKind string

const (
	EvidenceScreenshot EvidenceKind = "screenshot"
	EvidenceLink       EvidenceKind = "link"
	EvidenceText       EvidenceKind = "text"
)

type Evidence struct {
	Type    EvidenceKind `bson:"type" json:"type"`
	Content string       `bson:"content,omitempty" json:"content,omitempty"`
	URL     string       `bson:"url,omitempty" json:"url,omitempty"`
}

// ContentRef identifies a piece of content and its owner.
type ContentRef struct {
	ContentType  ContentType        `bson:"content_type" json:"content_type"`
	ContentID    primitive.ObjectID `bson:"content_id" json:"content_id"`
	ContentOwner primitive.ObjectID `bson:"content_owner" json:"content_owner"`
}

// ContentSnapshot is captured at report time and never changes afterwards,
// even if the source content is edited or deleted.
type ContentSnapshot struct {
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	MediaURLs []string  `bson:"media_urls,omitempty" json:"media_urls,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type ReportDecision struct {
	Action         ResolutionAction `bson:"action" json:"action"`
	Reason         string           `bson:"reason,omitempty" json:"reason,omitempty"`
	ActionTakenAt  time.Time        `bson:"action_taken_at" json:"action_taken_at"`
	AppealDeadline time.Time        `bson:"appeal_deadline" json:"appeal_deadline"`
}

type AppealStatus string

const (
	AppealStatusPending    AppealStatus = "pending"
	AppealStatusUpheld     AppealStatus = "upheld"
	AppealStatusOverturned AppealStatus = "overturned"
)

// Appeal is the single-shot appeal sub-record shared by report decisions and
// user violations.
type Appeal struct {
	IsAppealed bool         `bson:"is_appealed" json:"is_appealed"`
	Reason     string       `bson:"reason,omitempty" json:"reason,omitempty"`
	AppealedAt time.Time    `bson:"appealed_at" json:"appealed_at"`
	Status     AppealStatus `bson:"status,omitempty" json:"status,omitempty"`
	ReviewedBy string       `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"` // moderator id
	Decision   string       `bson:"decision,omitempty" json:"decision,omitempty"`
	DecidedAt  *time.Time   `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
}

// ContentReport is one user-submitted report. Many reports may reference the
// same moderation case.
type ContentReport struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Reporter primitive.ObjectID `bson:"reporter" json:"reporter"`

	ReportedContent ContentRef      `bson:"reported_content" json:"reported_content"`
	ContentSnapshot ContentSnapshot `bson:"content_snapshot" json:"content_snapshot"`

	ReportReason      ReportReason `bson:"report_reason" json:"report_reason"`
	ReportSubcategory string       `bson:"report_subcategory,omitempty" json:"report_subcategory,omitempty"`
	Description       string       `bson:"description,omitempty" json:"description,omitempty"`
	Evidence          []Evidence   `bson:"evidence,omitempty" json:"evidence,omitempty"`

	Status       ReportStatus   `bson:"status" json:"status"`
	Priority     ReportPriority `bson:"priority" json:"priority"`
	PriorityRank int            `bson:"priority_rank" json:"-"`

	// RiskScore is denormalized from the moderation case once automated
	// scoring completes, so the review queue can sort on it directly.
	RiskScore int `bson:"risk_score" json:"risk_score"`

	ReviewedBy  string     `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"` // moderator id
	ReviewedAt  *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewNotes string     `bson:"review_notes,omitempty" json:"review_notes,omitempty"`

	Decision *ReportDecision `bson:"decision,omitempty" json:"decision,omitempty"`
	Appeal   *Appeal         `bson:"appeal,omitempty" json:"appeal,omitempty"`

	IPAddress string `bson:"ip_address,omitempty" json:"-"`
	UserAgent string `bson:"user_agent,omitempty" json:"-"`

	// DedupeKey identifies identical retried submissions within the dedupe
	// window (same reporter, content and reason).
	DedupeKey string `bson:"dedupe_key,omitempty" json:"-"`
}

// Open reports whether the report is still eligible for the review queue.
func (r *ContentReport) Open() bool {
	switch r.Status {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusEscalated:
		return true
	}
	return false
}
