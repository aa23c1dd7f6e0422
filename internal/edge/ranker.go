package edge

import (
	"sort"
	"strings"

	"weatheredge/internal/models"
)

// Scores within this distance of a band head are rank-equivalent.
const bandWidth = 0.5

// Bands larger than this get category-diversified.
const diversifyMinBandSize = 3

// Filters narrows the ranked set. Zero values mean "no filter".
type Filters struct {
	// Confidence keeps only assessments at or above the tier.
	Confidence models.ConfidenceTier
	// Location substring-matches the extracted venue.
	Location string
	// AllowCategories keeps zero-score markets in the named categories,
	// used when the caller wants supported sports shown regardless of
	// current weather relevance.
	AllowCategories []string
}

// Rank scores the catalog against the supplied weather, filters, sorts by
// (edge score desc, 24h volume desc), diversifies within score bands using
// the injected hour-of-day, and truncates to limit. Items whose scores
// differ by more than the band width never swap relative order.
func Rank(markets []models.Market, weather *models.WeatherContext, f Filters, limit, hour int) []models.RankedMarket {
	allow := map[string]struct{}{}
	for _, c := range f.AllowCategories {
		c = strings.TrimSpace(c)
		if c != "" {
			allow[strings.ToLower(c)] = struct{}{}
		}
	}

	ranked := make([]models.RankedMarket, 0, len(markets))
	for _, m := range markets {
		assessment := Assess(m, weather)
		if assessment.TotalScore == 0 {
			if _, ok := allow[strings.ToLower(m.Category)]; !ok {
				continue
			}
		}
		if !passesConfidence(assessment.Confidence, f.Confidence) {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(m.Venue), strings.ToLower(f.Location)) {
			continue
		}
		ranked = append(ranked, models.RankedMarket{Market: m, Edge: assessment})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Edge.TotalScore != ranked[j].Edge.TotalScore {
			return ranked[i].Edge.TotalScore > ranked[j].Edge.TotalScore
		}
		return ranked[i].Market.Volume24h > ranked[j].Market.Volume24h
	})

	ranked = diversify(ranked, hour)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// diversify walks the sorted list, groups runs whose score stays within the
// band width of the band head, and reorders inside large bands only. A pure
// score sort would surface the same handful of markets on every refresh;
// rotating rank-equivalent items by hour spreads variety across requests
// without touching the cross-band ordering contract.
func diversify(ranked []models.RankedMarket, hour int) []models.RankedMarket {
	out := make([]models.RankedMarket, 0, len(ranked))
	for start := 0; start < len(ranked); {
		head := ranked[start].Edge.TotalScore
		end := start + 1
		for end < len(ranked) && head-ranked[end].Edge.TotalScore <= bandWidth {
			end++
		}
		band := ranked[start:end]
		if len(band) > diversifyMinBandSize {
			out = append(out, interleaveByCategory(band, hour)...)
		} else {
			out = append(out, band...)
		}
		start = end
	}
	return out
}

// interleaveByCategory sub-groups a band by category (first-appearance
// order), rotates each sub-list by the hour offset, and emits one item per
// category per round.
func interleaveByCategory(band []models.RankedMarket, hour int) []models.RankedMarket {
	var order []string
	groups := map[string][]models.RankedMarket{}
	for _, item := range band {
		key := item.Market.Category
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	for _, key := range order {
		group := groups[key]
		if len(group) > 1 {
			off := hour % len(group)
			rotated := make([]models.RankedMarket, 0, len(group))
			rotated = append(rotated, group[off:]...)
			rotated = append(rotated, group[:off]...)
			groups[key] = rotated
		}
	}

	out := make([]models.RankedMarket, 0, len(band))
	for round := 0; len(out) < len(band); round++ {
		for _, key := range order {
			if group := groups[key]; round < len(group) {
				out = append(out, group[round])
			}
		}
	}
	return out
}

func passesConfidence(have, want models.ConfidenceTier) bool {
	if want == "" {
		return true
	}
	rank := map[models.ConfidenceTier]int{
		models.ConfidenceLow:    0,
		models.ConfidenceMedium: 1,
		models.ConfidenceHigh:   2,
	}
	return rank[have] >= rank[want]
}
