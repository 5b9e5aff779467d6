package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// LadderTier is one rung of a category's enforcement ladder. Tier 1 is the
// first-offense response; the last tier applies to all offenses at or past it.
type LadderTier struct {
	Tier         int             `bson:"tier" json:"tier"`
	Action       EnforcementType `bson:"action" json:"action"`
	DurationDays *int            `bson:"duration_days,omitempty" json:"duration_days,omitempty"`
	Appealable   bool            `bson:"appealable" json:"appealable"`
}

// GuidelineCategory describes one violation category of a published guideline
// version.
type GuidelineCategory struct {
	Name            string   `bson:"name" json:"name"`
	Title           string   `bson:"title" json:"title"`
	Description     string   `bson:"description,omitempty" json:"description,omitempty"`
	SeverityDefault Severity `bson:"severity_default" json:"severity_default"`
	Examples        []string `bson:"examples,omitempty" json:"examples,omitempty"`
	Prohibited      []string `bson:"prohibited,omitempty" json:"prohibited,omitempty"`
}

// GuidelineVersion is an immutable published guideline document. Exactly one
// version is active at a time; publishing a new version deactivates the prior
// one atomically.
type GuidelineVersion struct {
	ID            primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	Version       string                  `bson:"version" json:"version"`
	EffectiveDate time.Time               `bson:"effective_date" json:"effective_date"`
	IsActive      bool                    `bson:"is_active" json:"is_active"`
	Categories    []GuidelineCategory     `bson:"categories" json:"categories"`
	Ladders       map[string][]LadderTier `bson:"ladders" json:"ladders"`
	CreatedAt     time.Time               `bson:"created_at" json:"created_at"`
}

// LadderFor returns the ordered enforcement ladder for a category, or nil when
// the category is unknown.
func (g *GuidelineVersion) LadderFor(category string) []LadderTier {
	return g.Ladders[category]
}

// SeverityOf returns the default severity for a category. Unknown categories
// fall back to medium.
func (g *GuidelineVersion) SeverityOf(category string) Severity {
	for _, c := range g.Categories {
		if c.Name == category {
			return c.SeverityDefault
		}
	}
	return SeverityMedium
}

// SelectTier picks the ladder tier for a rolling strike count. Strike counts
// past the last tier keep selecting the last tier.
func SelectTier(ladder []LadderTier, strikeCount int) (LadderTier, bool) {
	if len(ladder) == 0 {
		return LadderTier{}, false
	}
	idx := strikeCount
	if idx < 1 {
		idx = 1
	}
	if idx > len(ladder) {
		idx = len(ladder)
	}
	return ladder[idx-1], true
}
