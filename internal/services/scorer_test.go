package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSignalsMaxDominance(t *testing.T) {
	// One severe signal must not be diluted by benign ones.
	signals := map[string]float64{
		"threat":     0.95,
		"harassment": 0.0,
		"spam":       0.0,
	}
	score := AggregateSignals(signals, nil, 0.85)
	assert.Equal(t, 95, score)
}

func TestAggregateSignalsWeightedAverage(t *testing.T) {
	signals := map[string]float64{
		"harassment": 0.6,
		"spam":       0.2,
	}
	weights := map[string]float64{
		"harassment": 1.0,
		"spam":       0.5,
	}
	// (1.0*0.6 + 0.5*0.2) / 1.5 = 0.4667 -> 47
	score := AggregateSignals(signals, weights, 0.85)
	assert.Equal(t, 47, score)
}

func TestAggregateSignalsMissingWeightDefaultsToOne(t *testing.T) {
	signals := map[string]float64{
		"harassment": 0.4,
		"unknown":    0.8,
	}
	weights := map[string]float64{"harassment": 1.0}
	// (0.4 + 0.8) / 2 = 0.6 -> 60
	score := AggregateSignals(signals, weights, 0.85)
	assert.Equal(t, 60, score)
}

func TestAggregateSignalsEmpty(t *testing.T) {
	assert.Equal(t, 0, AggregateSignals(nil, nil, 0.85))
	assert.Equal(t, 0, AggregateSignals(map[string]float64{}, nil, 0.85))
}

func TestAggregateSignalsCutoffBoundary(t *testing.T) {
	// Exactly at the cutoff the max dominates.
	signals := map[string]float64{"threat": 0.85, "spam": 0.0}
	assert.Equal(t, 85, AggregateSignals(signals, nil, 0.85))

	// Just below, the weighted average applies.
	signals = map[string]float64{"threat": 0.84, "spam": 0.0}
	assert.Equal(t, 42, AggregateSignals(signals, nil, 0.85))
}

func TestRecommendationThresholds(t *testing.T) {
	s := defaultSettings()

	assert.Equal(t, models.RecommendRemove, RecommendationFor(100, s))
	assert.Equal(t, models.RecommendRemove, RecommendationFor(85, s))
	assert.Equal(t, models.RecommendReview, RecommendationFor(84, s))
	assert.Equal(t, models.RecommendReview, RecommendationFor(40, s))
	assert.Equal(t, models.RecommendWarn, RecommendationFor(39, s))
	assert.Equal(t, models.RecommendWarn, RecommendationFor(15, s))
	assert.Equal(t, models.RecommendApprove, RecommendationFor(14, s))
	assert.Equal(t, models.RecommendApprove, RecommendationFor(0, s))
}

func TestDegradedResultForcesReview(t *testing.T) {
	res := DegradedResult()
	assert.True(t, res.Degraded)
	assert.Equal(t, 0, res.RiskScore)
	assert.Equal(t, models.RecommendReview, res.Recommendation)
	assert.Empty(t, res.Signals)
}

func TestCleanTextDeobfuscation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"K!ll yourself", "kil yourself"},
		{"r@pe", "rape"},
		{"KIIILLLL", "kil"},
		{"hello   world", "helo world"},
		{"fr33 m0ney", "fre money"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

func TestMatchConfirmedWordsWholeWordOnly(t *testing.T) {
	// "skill" must not confirm "kill".
	matches := matchConfirmedWords(CleanText("this takes skill"), baseThreatWords)
	assert.Empty(t, matches)

	matches = matchConfirmedWords(CleanText("i will kill you"), baseThreatWords)
	assert.Equal(t, []string{"kill"}, matches)
}

func TestMatchConfirmedWordsPhrases(t *testing.T) {
	matches := matchConfirmedWords(CleanText("i want to kill myself"), baseSelfHarmWords)
	assert.Contains(t, matches, "kill myself")
}

func TestDictionarySignal(t *testing.T) {
	assert.Equal(t, 0.0, dictionarySignal(0, 0.9))
	assert.Equal(t, 0.9, dictionarySignal(1, 0.9))
	assert.InDelta(t, 0.95, dictionarySignal(2, 0.9), 1e-9)
	assert.Equal(t, 1.0, dictionarySignal(10, 0.9))
}

func TestKeywordScorerThreateningContent(t *testing.T) {
	scorer := NewKeywordScorer()

	res, err := scorer.Score(context.Background(), models.ContentSnapshot{
		Text: "I will kill you and murder your family",
	})
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.GreaterOrEqual(t, res.RiskScore, 85)
	assert.Equal(t, models.RecommendRemove, res.Recommendation)
	assert.Greater(t, res.Signals["threat"], 0.85)
}

func TestKeywordScorerBenignContent(t *testing.T) {
	scorer := NewKeywordScorer()

	res, err := scorer.Score(context.Background(), models.ContentSnapshot{
		Text: "What a lovely sunset over the mountains today",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, res.RiskScore)
	assert.Equal(t, models.RecommendApprove, res.Recommendation)
}

func TestKeywordScorerObfuscatedThreat(t *testing.T) {
	scorer := NewKeywordScorer()

	res, err := scorer.Score(context.Background(), models.ContentSnapshot{
		Text: "i will k!ll you",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.RiskScore, 85)
}

func TestKeywordScorerCancelledContext(t *testing.T) {
	scorer := NewKeywordScorer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scorer.Score(ctx, models.ContentSnapshot{Text: "anything"})
	assert.Error(t, err)
}

type slowScorer struct{ delay time.Duration }

func (s *slowScorer) Score(ctx context.Context, _ models.ContentSnapshot) (*ScoreResult, error) {
	select {
	case <-time.After(s.delay):
		return &ScoreResult{Recommendation: models.RecommendApprove}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type failingScorer struct{}

func (failingScorer) Score(ctx context.Context, _ models.ContentSnapshot) (*ScoreResult, error) {
	return nil, errors.New("classifier unavailable")
}

func TestScoreWithTimeoutSlowScorerDegrades(t *testing.T) {
	old := settings
	settings.ScorerTimeout = 20 * time.Millisecond
	defer func() { settings = old }()

	res := ScoreWithTimeout(context.Background(), &slowScorer{delay: time.Second}, models.ContentSnapshot{})
	assert.True(t, res.Degraded)
	assert.Equal(t, models.RecommendReview, res.Recommendation)
}

func TestScoreWithTimeoutFailingScorerDegrades(t *testing.T) {
	res := ScoreWithTimeout(context.Background(), failingScorer{}, models.ContentSnapshot{})
	assert.True(t, res.Degraded)
	assert.Equal(t, models.RecommendReview, res.Recommendation)
}

func TestScoreWithTimeoutFastScorerPassesThrough(t *testing.T) {
	res := ScoreWithTimeout(context.Background(), &slowScorer{delay: 0}, models.ContentSnapshot{})
	assert.False(t, res.Degraded)
	assert.Equal(t, models.RecommendApprove, res.Recommendation)
}
