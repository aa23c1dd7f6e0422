package models

import "github.com/shopspring/decimal"

// Quote sources, best first. The enricher records which one produced the
// bid/ask pair so callers can judge how much to trust it.
const (
	QuoteSourceBook          = "book"
	QuoteSourceOutcomePrices = "outcome_prices"
	QuoteSourceBidAsk        = "bid_ask"
	QuoteSourceLastTrade     = "last_trade"
	QuoteSourceDefault       = "default"
)

// OrderBookMetrics is the enrichment-only view of a market's book. Not
// cached beyond the request.
type OrderBookMetrics struct {
	BestBid   decimal.Decimal `json:"best_bid"`
	BestAsk   decimal.Decimal `json:"best_ask"`
	Spread    decimal.Decimal `json:"spread"`
	SpreadPct decimal.Decimal `json:"spread_pct"`
	BidDepth  decimal.Decimal `json:"bid_depth"`
	AskDepth  decimal.Decimal `json:"ask_depth"`

	// Enriched is false when the live book was unavailable and the quote
	// was derived from fields already on the market record.
	Enriched bool   `json:"enriched"`
	Source   string `json:"source"`
}

// Depth ratings derived from total two-sided book size.
const (
	DepthShallow  = "shallow"
	DepthModerate = "moderate"
	DepthDeep     = "deep"
	DepthUnknown  = "N/A"
)

// DepthImpact estimates the capital needed to move the price by a target
// percentage. Unlike the bid/ask fallback this is a risk figure: when no
// book levels exist it reports unavailable rather than a fabricated number.
type DepthImpact struct {
	Available  bool            `json:"available"`
	CapitalUSD decimal.Decimal `json:"capital_usd"`
	MovePct    float64         `json:"move_pct"`
	Rating     string          `json:"rating"`
}

// RankedMarket is one entry of the final ranked result set.
type RankedMarket struct {
	Market         Market            `json:"market"`
	Edge           EdgeAssessment    `json:"edge"`
	Classification Classification    `json:"classification"`
	Book           *OrderBookMetrics `json:"book,omitempty"`
	Depth          DepthImpact       `json:"depth"`
}
