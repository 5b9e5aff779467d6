package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseStatus string

const (
	CaseStatusPending     CaseStatus = "pending"
	CaseStatusApproved    CaseStatus = "approved"
	CaseStatusFlagged     CaseStatus = "flagged"
	CaseStatusRemoved     CaseStatus = "removed"
	CaseStatusUnderReview CaseStatus = "under_review"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityLimited Visibility = "limited"
	VisibilityHidden  Visibility = "hidden"
	VisibilityRemoved Visibility = "removed"
)

type Recommendation string

const (
	RecommendApprove Recommendation = "approve"
	RecommendReview  Recommendation = "review"
	RecommendRemove  Recommendation = "remove"
	RecommendWarn    Recommendation = "warn"
)

// CaseDecision is the reviewer's decision on a moderation case.
type CaseDecision string

const (
	DecisionApproved        CaseDecision = "approved"
	DecisionRemoved         CaseDecision = "removed"
	DecisionWarningAdded    CaseDecision = "warning_added"
	DecisionAgeRestricted   CaseDecision = "age_restricted"
	DecisionRequiresContext CaseDecision = "requires_context"
)

// ValidCaseDecisions is the closed set accepted when deciding a case.
var ValidCaseDecisions = map[CaseDecision]bool{
	DecisionApproved:        true,
	DecisionRemoved:         true,
	DecisionWarningAdded:    true,
	DecisionAgeRestricted:   true,
	DecisionRequiresContext: true,
}

// AutomatedScore holds the risk scorer's output for a case.
type AutomatedScore struct {
	Processed      bool               `bson:"processed" json:"processed"`
	ProcessedAt    *time.Time         `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	Signals        map[string]float64 `bson:"signals,omitempty" json:"signals,omitempty"`
	RiskScore      int                `bson:"risk_score" json:"risk_score"`
	Recommendation Recommendation     `bson:"recommendation,omitempty" json:"recommendation,omitempty"`
	Degraded       bool               `bson:"degraded" json:"degraded"`
}

type HumanReview struct {
	Required       bool         `bson:"required" json:"required"`
	Reviewed       bool         `bson:"reviewed" json:"reviewed"`
	ReviewedBy     string       `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"` // moderator id
	ReviewedAt     *time.Time   `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewNotes    string       `bson:"review_notes,omitempty" json:"review_notes,omitempty"`
	Decision       CaseDecision `bson:"decision,omitempty" json:"decision,omitempty"`
	DecisionReason string       `bson:"decision_reason,omitempty" json:"decision_reason,omitempty"`
}

// CaseAction is one entry of the append-only audit log on a case.
type CaseAction struct {
	Action  string    `bson:"action" json:"action"`
	Reason  string    `bson:"reason,omitempty" json:"reason,omitempty"`
	TakenBy string    `bson:"taken_by" json:"taken_by"` // reviewer id hex or "system"
	TakenAt time.Time `bson:"taken_at" json:"taken_at"`
}

// ModerationCase is the single source of truth for a content item's
// moderation state and visibility. One case exists per (contentType,
// contentId) pair; cases are never hard-deleted.
type ModerationCase struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Content ContentRef `bson:"content" json:"content"`

	Automated   AutomatedScore `bson:"automated" json:"automated"`
	HumanReview HumanReview    `bson:"human_review" json:"human_review"`

	Status     CaseStatus `bson:"status" json:"status"`
	Visibility Visibility `bson:"visibility" json:"visibility"`

	SensitivityLabels []string `bson:"sensitivity_labels,omitempty" json:"sensitivity_labels,omitempty"`
	AgeRestricted     bool     `bson:"age_restricted" json:"age_restricted"`
	MinimumAge        int      `bson:"minimum_age,omitempty" json:"minimum_age,omitempty"`

	ActionsTaken []CaseAction `bson:"actions_taken,omitempty" json:"actions_taken,omitempty"`
}

// CaseOutcome maps a reviewer decision to the resulting status and visibility.
// The decision set is closed; an unknown decision is rejected before this is
// consulted.
func CaseOutcome(d CaseDecision) (CaseStatus, Visibility) {
	switch d {
	case DecisionApproved:
		return CaseStatusApproved, VisibilityPublic
	case DecisionRemoved:
		return CaseStatusRemoved, VisibilityRemoved
	case DecisionWarningAdded, DecisionAgeRestricted:
		return CaseStatusFlagged, VisibilityLimited
	case DecisionRequiresContext:
		return CaseStatusFlagged, VisibilityLimited
	default:
		return CaseStatusUnderReview, VisibilityLimited
	}
}
