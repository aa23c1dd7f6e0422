// Package classify decides futures-vs-single-event per market from four
// independent signals. Pure: the only inputs are the market record and the
// injected clock.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"weatheredge/internal/models"
)

// Per-signal "definitely futures" thresholds. Any single signal reaching its
// own threshold makes the call regardless of the total.
const (
	definiteResolutionScore = 3
	definiteLanguageScore   = 2
	definiteMetadataScore   = 3

	futuresTotalThreshold = 3
	highTotalThreshold    = 5
)

type signalFunc func(m models.Market, now time.Time) models.ClassificationSignal

// Classifier scores markets on resolution horizon, title language, odds
// extremity and explicit tags. Now is injectable for deterministic tests.
type Classifier struct {
	Now func() time.Time
}

func New() *Classifier {
	return &Classifier{Now: func() time.Time { return time.Now().UTC() }}
}

var signals = []signalFunc{
	resolutionDateSignal,
	languageSignal,
	oddsExtremitySignal,
	metadataSignal,
}

// Classify runs every signal, sums them, and applies the decision rule:
// futures when any single signal reaches its own threshold, or when the
// total reaches 3. A negative metadata signal can pull a marginal total
// under the threshold, but it does not override a definite resolution-date
// signal; that pairing is reported as conflicting with confidence capped
// at MEDIUM.
func (c *Classifier) Classify(m models.Market) models.Classification {
	now := time.Now().UTC()
	if c != nil && c.Now != nil {
		now = c.Now()
	}

	out := models.Classification{Signals: make([]models.ClassificationSignal, 0, len(signals))}
	for _, fn := range signals {
		sig := fn(m, now)
		out.Signals = append(out.Signals, sig)
		out.TotalScore += sig.Score
	}

	resolution := out.Signals[0].Score
	language := out.Signals[1].Score
	metadata := out.Signals[3].Score

	definite := resolution >= definiteResolutionScore ||
		language >= definiteLanguageScore ||
		metadata >= definiteMetadataScore
	out.IsFutures = definite || out.TotalScore >= futuresTotalThreshold

	switch {
	case out.TotalScore >= highTotalThreshold:
		out.Confidence = models.ConfidenceHigh
	case out.TotalScore >= futuresTotalThreshold:
		out.Confidence = models.ConfidenceMedium
	default:
		out.Confidence = models.ConfidenceLow
	}

	// Long horizon plus an explicit single-event tag cannot both be right.
	// Keep the futures call, cap confidence, and let the caller log it.
	if resolution >= definiteResolutionScore && metadata < 0 {
		out.Conflicting = true
		if out.Confidence == models.ConfidenceHigh {
			out.Confidence = models.ConfidenceMedium
		}
	}

	return out
}

// resolutionDateSignal scores days until resolution, 0-5. A missing date
// scores 0: futures is never asserted from absent data.
func resolutionDateSignal(m models.Market, now time.Time) models.ClassificationSignal {
	sig := models.ClassificationSignal{Name: "resolution_date"}
	if m.ResolutionAt == nil {
		sig.Detail = "no resolution date"
		return sig
	}
	days := m.ResolutionAt.Sub(now).Hours() / 24
	switch {
	case days >= 120:
		sig.Score = 5
	case days > 60:
		sig.Score = 3
	case days > 30:
		sig.Score = 1
	}
	sig.Detail = fmt.Sprintf("%.0f days to resolution", days)
	return sig
}

// Season-long / multi-outcome language, strongest pattern first. Only the
// highest-value match counts; matches never stack.
var languagePatterns = []struct {
	score float64
	re    *regexp.Regexp
	label string
}{
	{3, regexp.MustCompile(`(?i)\b(win(s|ning)?\s+the\s+)?(championship|super\s*bowl|world\s+series|stanley\s+cup|premier\s+league\s+title|finals|mvp)\b`), "championship language"},
	{2, regexp.MustCompile(`(?i)\b(division|conference)\s+(winner|champion)|season\s+(total|wins|record)|most\s+\w+\s+this\s+season\b`), "season-long language"},
	{1, regexp.MustCompile(`(?i)\b(make\s+the\s+playoffs|playoff\s+berth|qualify\s+for|relegat(ed|ion))\b`), "multi-game horizon language"},
}

func languageSignal(m models.Market, _ time.Time) models.ClassificationSignal {
	sig := models.ClassificationSignal{Name: "language"}
	text := m.Question + " " + m.Description
	for _, pat := range languagePatterns {
		if pat.re.MatchString(text) {
			sig.Score = pat.score
			sig.Detail = pat.label
			return sig
		}
	}
	sig.Detail = "no futures language"
	return sig
}

// oddsExtremitySignal: a very low maximum observed price suggests one leg of
// a wide multi-outcome futures field.
func oddsExtremitySignal(m models.Market, _ time.Time) models.ClassificationSignal {
	sig := models.ClassificationSignal{Name: "odds_extremity"}
	max := m.MaxPrice()
	if max <= 0 {
		sig.Detail = "no price data"
		return sig
	}
	switch {
	case max <= 0.05:
		sig.Score = 2
		sig.Detail = fmt.Sprintf("max price %.2f implies wide outcome field", max)
	case max < 0.15:
		sig.Score = 1
		sig.Detail = fmt.Sprintf("max price %.2f weakly implies outcome field", max)
	default:
		sig.Detail = fmt.Sprintf("max price %.2f in normal range", max)
	}
	return sig
}

var (
	futuresTags     = []string{"futures", "championship", "season", "season-long", "award"}
	singleEventTags = []string{"tonight", "today", "match", "game-day", "gameday", "live"}
)

// metadataSignal: explicit tags are the strongest evidence either way. A
// single-event tag scores negative to suppress a false futures call.
func metadataSignal(m models.Market, _ time.Time) models.ClassificationSignal {
	sig := models.ClassificationSignal{Name: "metadata"}
	for _, tag := range m.Tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		for _, want := range futuresTags {
			if t == want {
				sig.Score = 3
				sig.Detail = "futures tag: " + t
				return sig
			}
		}
		for _, want := range singleEventTags {
			if t == want {
				sig.Score = -2
				sig.Detail = "single-event tag: " + t
				return sig
			}
		}
	}
	sig.Detail = "no decisive tags"
	return sig
}
