package services

import (
	"testing"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLaddersSortsAndRenumbers(t *testing.T) {
	gv := &models.GuidelineVersion{
		Ladders: map[string][]models.LadderTier{
			"spam": {
				{Tier: 9, Action: models.EnforcementTemporarySuspension},
				{Tier: 2, Action: models.EnforcementWarning},
				{Tier: 5, Action: models.EnforcementFeatureRestriction},
			},
		},
	}

	normalizeLadders(gv)

	ladder := gv.Ladders["spam"]
	require.Len(t, ladder, 3)
	assert.Equal(t, 1, ladder[0].Tier)
	assert.Equal(t, models.EnforcementWarning, ladder[0].Action)
	assert.Equal(t, 2, ladder[1].Tier)
	assert.Equal(t, models.EnforcementFeatureRestriction, ladder[1].Action)
	assert.Equal(t, 3, ladder[2].Tier)
	assert.Equal(t, models.EnforcementTemporarySuspension, ladder[2].Action)
}

func TestDefaultGuidelinesHaveLaddersForEveryCategory(t *testing.T) {
	gv := DefaultGuidelines()

	require.NotEmpty(t, gv.Categories)
	for _, c := range gv.Categories {
		ladder := gv.LadderFor(c.Name)
		assert.NotEmpty(t, ladder, "category %s has no ladder", c.Name)
		for i, tier := range ladder {
			assert.Equal(t, i+1, tier.Tier, "category %s ladder not sequential", c.Name)
		}
	}
}

func TestDefaultGuidelinesChildSafetyIsTerminal(t *testing.T) {
	gv := DefaultGuidelines()

	ladder := gv.LadderFor(string(models.ViolationChildSafety))
	require.Len(t, ladder, 1)
	assert.Equal(t, models.EnforcementPermanentBan, ladder[0].Action)
	assert.False(t, ladder[0].Appealable)
}

func TestDefaultGuidelinesEscalationReasonsAreCritical(t *testing.T) {
	gv := DefaultGuidelines()

	for _, name := range []models.ViolationType{
		models.ViolationTerrorism,
		models.ViolationChildSafety,
		models.ViolationSelfHarm,
	} {
		assert.Equal(t, models.SeverityCritical, gv.SeverityOf(string(name)), "category %s", name)
	}
}

func TestDefaultGuidelinesFallbackCategoryExists(t *testing.T) {
	gv := DefaultGuidelines()
	assert.NotEmpty(t, gv.LadderFor(string(models.ViolationCommunityStandards)))
}
