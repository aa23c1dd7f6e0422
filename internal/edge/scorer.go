// Package edge scores and ranks markets by how exploitable they are with
// respect to weather at the event venue. Scoring is pure: no I/O, no clock
// reads; the diversification hour is injected by the caller.
package edge

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"weatheredge/internal/models"
)

const (
	maxTotalScore = 10

	directScore         = 3
	sensitiveEventScore = 2

	// Each contextual condition contributes at most this much.
	contextualCapPerCondition = 1.5

	asymmetryCap = 3

	highConfidenceThreshold   = 6
	mediumConfidenceThreshold = 3
)

var reWeatherVocab = regexp.MustCompile(`(?i)\b(rain|snow|wind|windy|temperature|weather|storm|fog|heat|cold|humidity|precipitation|hurricane|tornado|blizzard|frost|degrees)\b`)

// Outdoor event categories where conditions materially affect outcomes.
// Indoor leagues (NBA, NHL) are deliberately absent.
var sensitiveCategories = map[string]struct{}{
	"NFL":     {},
	"MLB":     {},
	"Soccer":  {},
	"Golf":    {},
	"Tennis":  {},
	"F1":      {},
	"NASCAR":  {},
	"Cricket": {},
	"Sports":  {},
	"Weather": {},
}

// Assess computes the weather-edge assessment for one market. weather may
// be nil; the contextual factor then contributes nothing and the snapshot
// records that no real data was supplied.
func Assess(m models.Market, weather *models.WeatherContext) models.EdgeAssessment {
	out := models.EdgeAssessment{HasWeatherData: weather != nil}
	if weather != nil {
		out.Weather = *weather
	}

	direct := directFactor(m)
	sensitive := sensitiveFactor(m)
	contextual := contextualFactor(m, weather, sensitive.Score > 0)
	out.WeatherDirect = direct.Score
	out.SensitiveEvent = sensitive.Score
	out.ContextualImpact = contextual.Score
	out.Factors = append(out.Factors, direct, sensitive, contextual)

	base := direct.Score + sensitive.Score + contextual.Score
	// Asymmetry proxies mispricing, not weather relevance: it never
	// manufactures relevance on its own.
	if base > 0 {
		asym := asymmetryFactor(m)
		out.Asymmetry = asym.Score
		out.Factors = append(out.Factors, asym)
	}

	out.TotalScore = math.Min(maxTotalScore, base+out.Asymmetry)
	switch {
	case out.TotalScore > highConfidenceThreshold:
		out.Confidence = models.ConfidenceHigh
	case out.TotalScore > mediumConfidenceThreshold:
		out.Confidence = models.ConfidenceMedium
	default:
		out.Confidence = models.ConfidenceLow
	}
	return out
}

func directFactor(m models.Market) models.EdgeFactor {
	f := models.EdgeFactor{Name: "weather_direct"}
	if match := reWeatherVocab.FindString(m.Question + " " + m.Description); match != "" {
		f.Score = directScore
		f.Detail = "explicit weather vocabulary: " + strings.ToLower(match)
	} else {
		f.Detail = "no weather vocabulary"
	}
	return f
}

func sensitiveFactor(m models.Market) models.EdgeFactor {
	f := models.EdgeFactor{Name: "sensitive_event"}
	if _, ok := sensitiveCategories[m.Category]; ok {
		f.Score = sensitiveEventScore
		f.Detail = "weather-affected category: " + m.Category
	} else if m.Category != "" {
		f.Detail = "category not weather-affected: " + m.Category
	} else {
		f.Detail = "no category"
	}
	return f
}

// contextualFactor awards partial credit when a supplied condition actually
// crosses a threshold AND the market text mentions the matching hazard.
// Only evaluated for sensitive events with real weather data.
func contextualFactor(m models.Market, w *models.WeatherContext, sensitive bool) models.EdgeFactor {
	f := models.EdgeFactor{Name: "contextual_impact"}
	if !sensitive || w == nil {
		f.Detail = "not evaluated"
		return f
	}
	text := strings.ToLower(m.Question + " " + m.Description)
	var parts []string

	if strings.Contains(text, "wind") {
		switch {
		case w.WindMPH >= 20:
			f.Score += contextualCapPerCondition
			parts = append(parts, fmt.Sprintf("high wind %.0f mph", w.WindMPH))
		case w.WindMPH >= 12:
			f.Score += contextualCapPerCondition / 2
			parts = append(parts, fmt.Sprintf("elevated wind %.0f mph", w.WindMPH))
		}
	}
	if strings.Contains(text, "rain") || strings.Contains(text, "snow") || strings.Contains(text, "precip") {
		switch {
		case w.PrecipChancePct >= 70:
			f.Score += contextualCapPerCondition
			parts = append(parts, fmt.Sprintf("precipitation chance %.0f%%", w.PrecipChancePct))
		case w.PrecipChancePct >= 40:
			f.Score += contextualCapPerCondition / 2
			parts = append(parts, fmt.Sprintf("possible precipitation %.0f%%", w.PrecipChancePct))
		}
	}
	if strings.Contains(text, "temperature") || strings.Contains(text, "heat") ||
		strings.Contains(text, "cold") || strings.Contains(text, "degrees") {
		if w.TempF <= 32 || w.TempF >= 90 {
			f.Score += contextualCapPerCondition
			parts = append(parts, fmt.Sprintf("extreme temperature %.0fF", w.TempF))
		}
	}

	if len(parts) == 0 {
		f.Detail = "no condition crosses a matching threshold"
	} else {
		f.Detail = strings.Join(parts, "; ")
	}
	return f
}

// asymmetryFactor rewards mispricing proxies: thin liquidity relative to
// volume, sudden volume spikes, wide spreads, and price swings without
// matching volume. Capped; only added when the market already has weather
// relevance.
func asymmetryFactor(m models.Market) models.EdgeFactor {
	f := models.EdgeFactor{Name: "asymmetry"}
	var parts []string

	if m.Liquidity > 0 {
		ratio := m.Volume24h / m.Liquidity
		switch {
		case ratio >= 10:
			f.Score += 1
			parts = append(parts, fmt.Sprintf("volume/liquidity %.1f", ratio))
		case ratio >= 3:
			f.Score += 0.5
			parts = append(parts, fmt.Sprintf("volume/liquidity %.1f", ratio))
		}
	}

	if trailing := m.TrailingDailyVolume(); trailing > 0 {
		spike := m.Volume24h / trailing
		switch {
		case spike >= 4:
			f.Score += 1
			parts = append(parts, fmt.Sprintf("volume spike %.1fx trailing", spike))
		case spike >= 2:
			f.Score += 0.5
			parts = append(parts, fmt.Sprintf("volume %.1fx trailing", spike))
		}
	}

	switch {
	case m.Spread >= 0.10:
		f.Score += 1
		parts = append(parts, fmt.Sprintf("wide spread %.2f", m.Spread))
	case m.Spread >= 0.05:
		f.Score += 0.5
		parts = append(parts, fmt.Sprintf("spread %.2f", m.Spread))
	}

	// Price moved hard without a volume spike: somebody knows something,
	// or nobody is watching.
	if trailing := m.TrailingDailyVolume(); trailing > 0 {
		if math.Abs(m.OneDayPriceChange) >= 0.15 && m.Volume24h < 1.2*trailing {
			f.Score += 0.5
			parts = append(parts, fmt.Sprintf("price moved %.2f on flat volume", m.OneDayPriceChange))
		}
	}

	if f.Score > asymmetryCap {
		f.Score = asymmetryCap
	}
	if len(parts) == 0 {
		f.Detail = "no mispricing proxies"
	} else {
		f.Detail = strings.Join(parts, "; ")
	}
	return f
}
