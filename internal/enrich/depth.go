package enrich

import (
	"github.com/shopspring/decimal"

	"weatheredge/internal/client/clob"
	"weatheredge/internal/models"
)

// Depth rating boundaries on total two-sided book size (shares).
var (
	depthShallowBelow  = decimal.NewFromInt(500)
	depthModerateBelow = decimal.NewFromInt(5000)
)

var hundred = decimal.NewFromInt(100)

// estimateDepthImpact walks the ask ladder and accumulates notional until the
// size-weighted average fill price has moved targetPct above the best ask.
// With no asks there is nothing to walk and the estimate is unavailable; a
// risk figure is never fabricated.
func estimateDepthImpact(book *clob.OrderBook, targetPct float64) models.DepthImpact {
	out := models.DepthImpact{MovePct: targetPct, Rating: models.DepthUnknown}
	if book == nil || len(book.Asks) == 0 || targetPct <= 0 {
		return out
	}

	bestAsk := book.Asks[0].Price
	if bestAsk.LessThanOrEqual(decimal.Zero) {
		return out
	}
	target := bestAsk.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(targetPct).Div(hundred)))

	// If the ladder runs out below the target, the whole visible side is a
	// floor on the real cost, which is still a usable estimate.
	var notional, shares decimal.Decimal
	for _, lvl := range book.Asks {
		if lvl.Size.LessThanOrEqual(decimal.Zero) {
			continue
		}
		notional = notional.Add(lvl.Price.Mul(lvl.Size))
		shares = shares.Add(lvl.Size)
		if notional.Div(shares).GreaterThanOrEqual(target) {
			break
		}
	}

	out.Available = true
	out.CapitalUSD = notional.Round(2)
	out.Rating = rateDepth(book)
	return out
}

func rateDepth(book *clob.OrderBook) string {
	var total decimal.Decimal
	for _, lvl := range book.Bids {
		total = total.Add(lvl.Size)
	}
	for _, lvl := range book.Asks {
		total = total.Add(lvl.Size)
	}
	switch {
	case total.LessThan(depthShallowBelow):
		return models.DepthShallow
	case total.LessThan(depthModerateBelow):
		return models.DepthModerate
	default:
		return models.DepthDeep
	}
}
