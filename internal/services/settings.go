package services

import (
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/config"
	"github.com/AnshRaj112/sentinel-backend/internal/models"
)

// ModerationSettings holds the engine's tunable constants. The numeric
// defaults track the published enforcement policy; only their relative
// ordering is a hard invariant.
type ModerationSettings struct {
	RemoveThreshold  int
	ReviewThreshold  int
	WarnThreshold    int
	HardSignalCutoff float64

	StrikeWindow      time.Duration
	AppealWindow      time.Duration
	SuspensionLength  time.Duration
	RestrictionLength time.Duration

	ReportDedupeTTL time.Duration
	ScorerTimeout   time.Duration

	EscalationReasons map[models.ReportReason]bool
}

func defaultSettings() ModerationSettings {
	return ModerationSettings{
		RemoveThreshold:  85,
		ReviewThreshold:  40,
		WarnThreshold:    15,
		HardSignalCutoff: 0.85,

		StrikeWindow:      90 * 24 * time.Hour,
		AppealWindow:      30 * 24 * time.Hour,
		SuspensionLength:  30 * 24 * time.Hour,
		RestrictionLength: 30 * 24 * time.Hour,

		ReportDedupeTTL: 5 * time.Minute,
		ScorerTimeout:   1500 * time.Millisecond,

		EscalationReasons: map[models.ReportReason]bool{
			models.ReasonTerrorism:   true,
			models.ReasonChildSafety: true,
			models.ReasonSelfHarm:    true,
		},
	}
}

var settings = defaultSettings()

// Configure applies the loaded config to the engine's tunables. Call once at
// startup before serving requests.
func Configure(cfg *config.Config) {
	s := defaultSettings()
	s.RemoveThreshold = cfg.RemoveThreshold
	s.ReviewThreshold = cfg.ReviewThreshold
	s.WarnThreshold = cfg.WarnThreshold
	s.HardSignalCutoff = cfg.HardSignalCutoff
	s.StrikeWindow = time.Duration(cfg.StrikeWindowDays) * 24 * time.Hour
	s.AppealWindow = time.Duration(cfg.AppealWindowDays) * 24 * time.Hour
	s.SuspensionLength = time.Duration(cfg.SuspensionDays) * 24 * time.Hour
	s.RestrictionLength = time.Duration(cfg.RestrictionDays) * 24 * time.Hour
	s.ReportDedupeTTL = cfg.ReportDedupeTTL
	s.ScorerTimeout = cfg.ScorerTimeout
	if len(cfg.EscalationReasons) > 0 {
		s.EscalationReasons = make(map[models.ReportReason]bool, len(cfg.EscalationReasons))
		for _, r := range cfg.EscalationReasons {
			s.EscalationReasons[models.ReportReason(r)] = true
		}
	}
	settings = s
}
