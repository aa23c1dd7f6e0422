package edge

import (
	"testing"

	"weatheredge/internal/models"
)

func weatherMarket(id string, category string, volume float64) models.Market {
	return models.Market{
		ID:        id,
		Question:  "Will rain hit the " + id + " game?",
		Category:  category,
		Volume24h: volume,
	}
}

func TestRankCrossBandOrderHolds(t *testing.T) {
	// A direct weather market outscores a bare sensitive-category one by
	// more than the band width, so it must come first at any hour.
	markets := []models.Market{
		{ID: "weak", Question: "Will the game go ahead?", Category: "Sports", Volume24h: 9999},
		{ID: "strong", Question: "Will rain delay the game?", Category: "Sports", Volume24h: 1},
	}
	for hour := 0; hour < 24; hour++ {
		out := Rank(markets, nil, Filters{}, 10, hour)
		if len(out) != 2 {
			t.Fatalf("hour %d: got %d results, want 2", hour, len(out))
		}
		if out[0].Market.ID != "strong" {
			t.Fatalf("hour %d: %s ranked first, want strong", hour, out[0].Market.ID)
		}
	}
}

func TestRankSameHourIsDeterministic(t *testing.T) {
	markets := []models.Market{
		weatherMarket("a", "NFL", 400),
		weatherMarket("b", "MLB", 300),
		weatherMarket("c", "NFL", 200),
		weatherMarket("d", "Soccer", 100),
		weatherMarket("e", "MLB", 50),
	}
	first := Rank(markets, nil, Filters{}, 10, 7)
	second := Rank(markets, nil, Filters{}, 10, 7)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Market.ID != second[i].Market.ID {
			t.Fatalf("position %d differs: %s vs %s", i, first[i].Market.ID, second[i].Market.ID)
		}
	}
}

func TestRankDiversifiesLargeBands(t *testing.T) {
	// Five rank-equivalent NFL markets and one MLB market. Interleaving
	// must pull the MLB market forward instead of leaving it last.
	markets := []models.Market{
		weatherMarket("n1", "NFL", 600),
		weatherMarket("n2", "NFL", 500),
		weatherMarket("n3", "NFL", 400),
		weatherMarket("n4", "NFL", 300),
		weatherMarket("n5", "NFL", 200),
		weatherMarket("m1", "MLB", 100),
	}
	out := Rank(markets, nil, Filters{}, 10, 0)
	if len(out) != 6 {
		t.Fatalf("got %d results, want 6", len(out))
	}
	if out[1].Market.ID != "m1" {
		t.Fatalf("second slot = %s, want m1 interleaved", out[1].Market.ID)
	}
}

func TestRankDropsZeroScoresUnlessAllowed(t *testing.T) {
	markets := []models.Market{
		{ID: "crypto", Question: "Will Bitcoin hit $100k?", Category: "Crypto", Volume24h: 1000},
		weatherMarket("nfl", "NFL", 500),
	}
	out := Rank(markets, nil, Filters{}, 10, 0)
	if len(out) != 1 || out[0].Market.ID != "nfl" {
		t.Fatalf("zero-score market should be dropped, got %d results", len(out))
	}

	out = Rank(markets, nil, Filters{AllowCategories: []string{"crypto"}}, 10, 0)
	if len(out) != 2 {
		t.Fatalf("allow-listed category should be kept, got %d results", len(out))
	}
}

func TestRankFilters(t *testing.T) {
	markets := []models.Market{
		func() models.Market {
			m := weatherMarket("chi", "NFL", 500)
			m.Venue = "Soldier Field"
			return m
		}(),
		weatherMarket("other", "NFL", 900),
	}

	out := Rank(markets, nil, Filters{Location: "soldier"}, 10, 0)
	if len(out) != 1 || out[0].Market.ID != "chi" {
		t.Fatalf("location filter failed, got %d results", len(out))
	}

	out = Rank(markets, nil, Filters{Confidence: models.ConfidenceHigh}, 10, 0)
	if len(out) != 0 {
		t.Fatalf("confidence filter failed, got %d results", len(out))
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	var markets []models.Market
	for i := 0; i < 30; i++ {
		markets = append(markets, weatherMarket(string(rune('a'+i)), "NFL", float64(1000-i)))
	}
	out := Rank(markets, nil, Filters{}, 5, 0)
	if len(out) != 5 {
		t.Fatalf("got %d results, want 5", len(out))
	}
}
