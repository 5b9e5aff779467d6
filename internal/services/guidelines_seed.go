package services

import (
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
)

func days(n int) *int { return &n }

// DefaultGuidelines is the v1.0.0 guideline document seeded on a fresh
// deployment. Category ladders escalate account-wide: the tier is selected by
// the rolling strike count, not by per-category history.
func DefaultGuidelines() *models.GuidelineVersion {
	return &models.GuidelineVersion{
		Version:       "1.0.0",
		EffectiveDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories: []models.GuidelineCategory{
			{
				Name:            string(models.ViolationViolenceCriminal),
				Title:           "Violence and Criminal Behavior",
				Description:     "We remove language that incites or facilitates serious violence and content that coordinates criminal activity.",
				SeverityDefault: models.SeverityCritical,
				Examples: []string{
					"Threats of physical harm against individuals or groups",
					"Instructions on how to make weapons",
					"Organizing illegal activities",
				},
				Prohibited: []string{"Threats of violence", "Incitement to violence", "Criminal activity coordination"},
			},
			{
				Name:            string(models.ViolationSelfHarm),
				Title:           "Suicide and Self-Injury",
				Description:     "We remove content that depicts or promotes suicide, self-injury, or eating disorders.",
				SeverityDefault: models.SeverityCritical,
				Examples: []string{
					"Content that encourages suicide or self-injury",
					"Instructions on self-harm methods",
				},
			},
			{
				Name:            string(models.ViolationTerrorism),
				Title:           "Dangerous Organizations",
				Description:     "We do not allow organizations or individuals that proclaim a violent mission to have a presence on the platform.",
				SeverityDefault: models.SeverityCritical,
				Examples: []string{
					"Content that praises terrorist organizations",
					"Recruitment for violent extremist groups",
				},
			},
			{
				Name:            string(models.ViolationChildSafety),
				Title:           "Child Safety",
				Description:     "We remove content that exploits or endangers children and report it where required by law.",
				SeverityDefault: models.SeverityCritical,
			},
			{
				Name:            string(models.ViolationHateSpeech),
				Title:           "Hate Speech",
				Description:     "We remove attacks on people based on protected characteristics.",
				SeverityDefault: models.SeverityHigh,
				Examples: []string{
					"Dehumanizing speech targeting a protected group",
					"Symbols or slogans of hate groups",
				},
			},
			{
				Name:            string(models.ViolationHarassmentBullying),
				Title:           "Bullying and Harassment",
				Description:     "We remove content meant to degrade or shame private individuals.",
				SeverityDefault: models.SeverityHigh,
			},
			{
				Name:            string(models.ViolationAdultContent),
				Title:           "Adult Nudity and Sexual Activity",
				Description:     "We restrict the display of nudity and sexual activity.",
				SeverityDefault: models.SeverityMedium,
			},
			{
				Name:            string(models.ViolationPrivacyViolation),
				Title:           "Privacy and Personal Information",
				Description:     "We remove content that shares personal or confidential information about others without consent.",
				SeverityDefault: models.SeverityHigh,
			},
			{
				Name:            string(models.ViolationMisinformation),
				Title:           "Misinformation",
				Description:     "We reduce the spread of false news and label disputed content.",
				SeverityDefault: models.SeverityMedium,
			},
			{
				Name:            string(models.ViolationSpam),
				Title:           "Spam and Fake Engagement",
				Description:     "We remove content designed to deceive users or artificially inflate engagement.",
				SeverityDefault: models.SeverityLow,
			},
			{
				Name:            string(models.ViolationIntellectualProperty),
				Title:           "Intellectual Property",
				Description:     "We remove content that infringes copyright or trademark on report from the rights holder.",
				SeverityDefault: models.SeverityMedium,
			},
			{
				Name:            string(models.ViolationImpersonation),
				Title:           "Authenticity and Identity",
				Description:     "We remove accounts and content that impersonate others.",
				SeverityDefault: models.SeverityMedium,
			},
			{
				Name:            string(models.ViolationCommunityStandards),
				Title:           "Community Standards",
				Description:     "Catch-all for conduct that violates the spirit of these guidelines.",
				SeverityDefault: models.SeverityMedium,
			},
		},
		Ladders: map[string][]models.LadderTier{
			string(models.ViolationViolenceCriminal): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(7), Appealable: true},
				{Tier: 3, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
			},
			string(models.ViolationSelfHarm): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(7), Appealable: true},
				{Tier: 3, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
			},
			string(models.ViolationTerrorism): {
				{Tier: 1, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
				{Tier: 2, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationChildSafety): {
				{Tier: 1, Action: models.EnforcementPermanentBan, Appealable: false},
			},
			string(models.ViolationHateSpeech): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(14), Appealable: true},
				{Tier: 3, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationHarassmentBullying): {
				{Tier: 1, Action: models.EnforcementWarning, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(7), Appealable: true},
				{Tier: 3, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
			},
			string(models.ViolationAdultContent): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(14), Appealable: true},
				{Tier: 3, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationMisinformation): {
				{Tier: 1, Action: models.EnforcementWarning, Appealable: true},
				{Tier: 2, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 3, Action: models.EnforcementFeatureRestriction, DurationDays: days(30), Appealable: true},
			},
			string(models.ViolationSpam): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(3), Appealable: true},
				{Tier: 3, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationPrivacyViolation): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(14), Appealable: true},
				{Tier: 3, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
			},
			string(models.ViolationIntellectualProperty): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 3, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationImpersonation): {
				{Tier: 1, Action: models.EnforcementContentRemoval, Appealable: true},
				{Tier: 2, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
				{Tier: 3, Action: models.EnforcementPermanentBan, Appealable: true},
			},
			string(models.ViolationCommunityStandards): {
				{Tier: 1, Action: models.EnforcementWarning, Appealable: true},
				{Tier: 2, Action: models.EnforcementFeatureRestriction, DurationDays: days(7), Appealable: true},
				{Tier: 3, Action: models.EnforcementTemporarySuspension, DurationDays: days(30), Appealable: true},
			},
		},
	}
}
