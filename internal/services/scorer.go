package services

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/AnshRaj112/sentinel-backend/internal/models"
)

// ScoreResult is the risk scorer's output for one piece of content. Degraded
// means at least one detector failed and its signal was defaulted to zero;
// moderation proceeds on partial signal instead of failing the request.
type ScoreResult struct {
	Signals        map[string]float64    `json:"signals"`
	RiskScore      int                   `json:"risk_score"`
	Recommendation models.Recommendation `json:"recommendation"`
	Degraded       bool                  `json:"degraded"`
}

// Scorer produces per-content risk signals. Implementations must be pure
// functions of the snapshot; the engine owns all state.
type Scorer interface {
	Score(ctx context.Context, snapshot models.ContentSnapshot) (*ScoreResult, error)
}

// AggregateSignals folds named detector signals (each in [0,1]) into a 0-100
// risk score. When any signal reaches the hard cutoff the maximum dominates,
// so a single severe signal is never diluted by otherwise-benign ones;
// below the cutoff a weighted average applies. Missing weights default to 1.
func AggregateSignals(signals map[string]float64, weights map[string]float64, hardCutoff float64) int {
	if len(signals) == 0 {
		return 0
	}

	var maxSignal float64
	for _, s := range signals {
		if s > maxSignal {
			maxSignal = s
		}
	}
	if maxSignal >= hardCutoff {
		return clampScore(int(math.Round(100 * maxSignal)))
	}

	var weighted, totalWeight float64
	for name, s := range signals {
		w := 1.0
		if weights != nil {
			if ww, ok := weights[name]; ok {
				w = ww
			}
		}
		weighted += w * s
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return clampScore(int(math.Round(100 * weighted / totalWeight)))
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// RecommendationFor maps a risk score onto the action recommendation using
// the configured thresholds.
func RecommendationFor(riskScore int, s ModerationSettings) models.Recommendation {
	switch {
	case riskScore >= s.RemoveThreshold:
		return models.RecommendRemove
	case riskScore >= s.ReviewThreshold:
		return models.RecommendReview
	case riskScore >= s.WarnThreshold:
		return models.RecommendWarn
	default:
		return models.RecommendApprove
	}
}

// DegradedResult is what the engine records when the scorer is slow or
// unavailable: no signals, forced human review.
func DegradedResult() *ScoreResult {
	return &ScoreResult{
		Signals:        map[string]float64{},
		RiskScore:      0,
		Recommendation: models.RecommendReview,
		Degraded:       true,
	}
}

// ScoreWithTimeout runs scorer within the configured bound. A slow or failing
// scorer yields a degraded result, never an error; report submission must not
// block on scoring.
func ScoreWithTimeout(ctx context.Context, scorer Scorer, snapshot models.ContentSnapshot) *ScoreResult {
	ctx, cancel := context.WithTimeout(ctx, settings.ScorerTimeout)
	defer cancel()

	type outcome struct {
		res *ScoreResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := scorer.Score(ctx, snapshot)
		ch <- outcome{res, err}
	}()

	select {
	case out := <-ch:
		if out.err != nil || out.res == nil {
			return DegradedResult()
		}
		return out.res
	case <-ctx.Done():
		return DegradedResult()
	}
}

// --- Keyword scorer ---
//
// The default scorer confirms canonical dictionary words after normalizing
// obfuscation (leetspeak, lookalike characters, letter stretching). It stands
// in for a real classifier; the interface is the contract.

var baseThreatWords = []string{
	"rape", "kill", "murder", "assault", "attack", "shoot", "stab",
	"strangle", "slaughter", "massacre", "annihilate", "execute",
	"threat", "threatening", "revenge", "retaliate", "destroy you",
}

var baseSelfHarmWords = []string{
	"suicide", "kill myself", "end my life", "take my life", "end it all",
	"self harm", "cut myself", "hurt myself", "harm myself", "want to die",
	"better off dead", "not worth living", "end myself", "unalive",
}

var baseHarassmentWords = []string{
	"loser", "worthless", "pathetic", "idiot", "stupid", "ugly",
	"nobody likes you", "everyone hates you", "go away forever",
}

var baseSexualWords = []string{
	"nude", "nudes", "porn", "explicit", "onlyfans", "sexting",
}

var spamPhrases = []string{
	"click here", "free money", "limited offer", "act now", "buy now",
	"crypto giveaway", "dm me to earn", "guaranteed income",
}

var spaceRegex = regexp.MustCompile(`\s+`)

// CleanText normalizes text to canonical form: lowercase, de-obfuscate
// character substitutions, strip non-letters, collapse stretched letters.
func CleanText(text string) string {
	cleaned := strings.ToLower(text)

	replacements := map[string]string{
		"@": "a", "4": "a", "3": "e", "!": "i", "1": "i",
		"0": "o", "$": "s", "5": "s", "7": "t", "+": "t",
		// Cyrillic lookalikes
		"а": "a", "е": "e", "і": "i", "о": "o", "р": "p",
	}
	for old, repl := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, repl)
	}

	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	cleaned = collapseRepeats(builder.String())

	cleaned = spaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// collapseRepeats reduces repeated letters to a single character so
// "rrraaaapeee" confirms against "rape". Spaces are preserved.
func collapseRepeats(text string) string {
	if len(text) == 0 {
		return text
	}

	var result strings.Builder
	lastChar := rune(0)
	lastWasLetter := false

	for _, char := range text {
		isLetter := unicode.IsLetter(char)
		if isLetter && lastWasLetter && char == lastChar {
			continue
		}
		result.WriteRune(char)
		lastChar = char
		lastWasLetter = isLetter
	}

	return result.String()
}

// matchConfirmedWords returns the base words confirmed in cleaned text.
// Base words are collapsed the same way the text was, so "kill" confirms
// against the cleaned form "kil". Single words must appear as whole words
// ("skill" must not match "kill"); multi-word phrases match on containment.
func matchConfirmedWords(cleanedText string, baseWords []string) []string {
	var confirmed []string
	words := strings.Fields(cleanedText)

	for _, baseWord := range baseWords {
		canonical := collapseRepeats(baseWord)
		if cleanedText == canonical {
			confirmed = append(confirmed, baseWord)
			continue
		}
		if !strings.Contains(cleanedText, canonical) {
			continue
		}
		if len(strings.Fields(canonical)) == 1 {
			for _, w := range words {
				if w == canonical {
					confirmed = append(confirmed, baseWord)
					break
				}
			}
		} else {
			confirmed = append(confirmed, baseWord)
		}
	}

	return confirmed
}

// dictionarySignal converts confirmed-match count into a confidence signal:
// the base confidence on first match, stepping toward 1.0 with each
// additional confirmed word.
func dictionarySignal(matches int, base float64) float64 {
	if matches == 0 {
		return 0
	}
	s := base + 0.05*float64(matches-1)
	if s > 1 {
		s = 1
	}
	return s
}

type detector struct {
	name string
	run  func(cleaned string) (float64, error)
}

// KeywordScorer is the default Scorer implementation.
type KeywordScorer struct {
	detectors []detector
	weights   map[string]float64
}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{
		detectors: []detector{
			{name: "threat", run: func(cleaned string) (float64, error) {
				return dictionarySignal(len(matchConfirmedWords(cleaned, baseThreatWords)), 0.90), nil
			}},
			{name: "self_harm", run: func(cleaned string) (float64, error) {
				return dictionarySignal(len(matchConfirmedWords(cleaned, baseSelfHarmWords)), 0.95), nil
			}},
			{name: "harassment", run: func(cleaned string) (float64, error) {
				return dictionarySignal(len(matchConfirmedWords(cleaned, baseHarassmentWords)), 0.55), nil
			}},
			{name: "sexually_explicit", run: func(cleaned string) (float64, error) {
				return dictionarySignal(len(matchConfirmedWords(cleaned, baseSexualWords)), 0.70), nil
			}},
			{name: "spam", run: func(cleaned string) (float64, error) {
				count := 0
				for _, p := range spamPhrases {
					if strings.Contains(cleaned, collapseRepeats(p)) {
						count++
					}
				}
				return dictionarySignal(count, 0.50), nil
			}},
		},
		weights: map[string]float64{
			"threat":            1.5,
			"self_harm":         1.5,
			"harassment":        1.0,
			"sexually_explicit": 1.0,
			"spam":              0.5,
		},
	}
}

// Score runs every detector over the snapshot text. A failed detector
// contributes a zero signal and flags the result degraded; it never fails the
// whole scoring pass.
func (k *KeywordScorer) Score(ctx context.Context, snapshot models.ContentSnapshot) (*ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := CleanText(snapshot.Text)

	signals := make(map[string]float64, len(k.detectors))
	degraded := false
	for _, d := range k.detectors {
		s, err := d.run(cleaned)
		if err != nil {
			signals[d.name] = 0
			degraded = true
			continue
		}
		signals[d.name] = s
	}

	risk := AggregateSignals(signals, k.weights, settings.HardSignalCutoff)
	rec := RecommendationFor(risk, settings)
	if degraded && rec == models.RecommendApprove {
		// Partial signal is not a clean bill of health.
		rec = models.RecommendReview
	}

	return &ScoreResult{
		Signals:        signals,
		RiskScore:      risk,
		Recommendation: rec,
		Degraded:       degraded,
	}, nil
}

// DefaultScorer is the scorer used by report intake. Swappable for a real
// classifier integration.
var DefaultScorer Scorer = NewKeywordScorer()
