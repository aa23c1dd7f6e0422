package enrich

import (
	"github.com/shopspring/decimal"

	"weatheredge/internal/models"
)

// lastTradeSpreadOffset widens a lone last-trade price into a synthetic
// bid/ask pair.
var lastTradeSpreadOffset = decimal.NewFromFloat(0.02)

var half = decimal.NewFromFloat(0.5)

// priceSource derives a bid/ask pair from fields already on the market
// record. Sources are tried in order; ok=false means "skip to the next".
type priceSource struct {
	name   string
	derive func(m models.Market) (bid, ask decimal.Decimal, ok bool)
}

// Ordered best-first. The neutral default always succeeds, so the chain
// never comes up empty; the enricher logs when it bottoms out there.
var fallbackSources = []priceSource{
	{
		name: models.QuoteSourceOutcomePrices,
		derive: func(m models.Market) (decimal.Decimal, decimal.Decimal, bool) {
			if len(m.OutcomePrices) < 2 {
				return decimal.Zero, decimal.Zero, false
			}
			p := decimal.NewFromFloat(m.OutcomePrices[0])
			if p.LessThanOrEqual(decimal.Zero) || p.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				return decimal.Zero, decimal.Zero, false
			}
			return p, p, true
		},
	},
	{
		name: models.QuoteSourceBidAsk,
		derive: func(m models.Market) (decimal.Decimal, decimal.Decimal, bool) {
			if m.BestBid == nil || m.BestAsk == nil {
				return decimal.Zero, decimal.Zero, false
			}
			bid := decimal.NewFromFloat(*m.BestBid)
			ask := decimal.NewFromFloat(*m.BestAsk)
			if bid.LessThanOrEqual(decimal.Zero) && ask.LessThanOrEqual(decimal.Zero) {
				return decimal.Zero, decimal.Zero, false
			}
			return bid, ask, true
		},
	},
	{
		name: models.QuoteSourceLastTrade,
		derive: func(m models.Market) (decimal.Decimal, decimal.Decimal, bool) {
			if m.LastTradePrice == nil || *m.LastTradePrice <= 0 {
				return decimal.Zero, decimal.Zero, false
			}
			p := decimal.NewFromFloat(*m.LastTradePrice)
			bid := clampProb(p.Sub(lastTradeSpreadOffset))
			ask := clampProb(p.Add(lastTradeSpreadOffset))
			return bid, ask, true
		},
	},
	{
		name: models.QuoteSourceDefault,
		derive: func(models.Market) (decimal.Decimal, decimal.Decimal, bool) {
			return half, half, true
		},
	},
}

// fallbackQuote walks the source chain and reports which source produced
// the pair.
func fallbackQuote(m models.Market) (bid, ask decimal.Decimal, source string) {
	for _, src := range fallbackSources {
		if b, a, ok := src.derive(m); ok {
			return b, a, src.name
		}
	}
	// Unreachable: the default source always succeeds.
	return half, half, models.QuoteSourceDefault
}

func clampProb(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if one := decimal.NewFromInt(1); d.GreaterThan(one) {
		return one
	}
	return d
}
