package models

import "time"

// Market is one candidate contract in the catalog. A Market is built fresh
// on every catalog rebuild from the bulk feed listing and is never mutated
// afterwards; classification, edge assessment and order-book metrics are
// derived records attached downstream.
type Market struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`

	// ResolutionAt is nil when the feed did not supply a parseable end date.
	ResolutionAt *time.Time `json:"resolution_at,omitempty"`

	// Derived by the metadata extractor.
	Category     string   `json:"category,omitempty"`
	Venue        string   `json:"venue,omitempty"`
	Participants []string `json:"participants,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// TokenID references the primary outcome token for order-book lookups.
	// Empty when the feed listing carried no token ids.
	TokenID string `json:"token_id,omitempty"`

	// Prices are probabilities in [0,1]. Pointers distinguish "absent"
	// from a genuine zero.
	BestBid        *float64  `json:"best_bid,omitempty"`
	BestAsk        *float64  `json:"best_ask,omitempty"`
	OutcomePrices  []float64 `json:"outcome_prices,omitempty"`
	LastTradePrice *float64  `json:"last_trade_price,omitempty"`

	Volume24h float64 `json:"volume_24h"`
	Volume1wk float64 `json:"volume_1wk"`
	Liquidity float64 `json:"liquidity"`

	// Mispricing proxies carried from the bulk listing.
	Spread             float64 `json:"spread"`
	OneDayPriceChange  float64 `json:"one_day_price_change"`
	OneHourPriceChange float64 `json:"one_hour_price_change"`
}

// MaxPrice returns the highest observed probability across best bid/ask and
// outcome prices, or 0 when no price field is populated.
func (m Market) MaxPrice() float64 {
	max := 0.0
	if m.BestBid != nil && *m.BestBid > max {
		max = *m.BestBid
	}
	if m.BestAsk != nil && *m.BestAsk > max {
		max = *m.BestAsk
	}
	for _, p := range m.OutcomePrices {
		if p > max {
			max = p
		}
	}
	return max
}

// TrailingDailyVolume is the average daily volume implied by the weekly
// figure, used as the baseline for volume-spike detection.
func (m Market) TrailingDailyVolume() float64 {
	if m.Volume1wk <= 0 {
		return 0
	}
	return m.Volume1wk / 7
}
