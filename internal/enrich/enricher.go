// Package enrich attaches live order-book metrics to the final ranked set.
// Enrichment runs after ranking and truncation so book fetches are spent on
// the handful of markets actually returned, and a book failure degrades one
// item to a heuristic quote instead of failing the request.
package enrich

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"weatheredge/internal/client/clob"
	"weatheredge/internal/models"
)

// Books is the order-book boundary.
type Books interface {
	GetBook(ctx context.Context, tokenID string) (*clob.OrderBook, error)
}

type Enricher struct {
	Books  Books
	Logger *zap.Logger

	// Concurrency bounds in-flight book fetches.
	Concurrency int
	// TargetMovePct is the price move the depth estimate prices out.
	TargetMovePct float64
}

// EnrichAll fills Book and Depth on every item, fetching books concurrently.
// Results land back at their original index, so rank order is untouched.
// Never returns an error: each item degrades independently.
func (e *Enricher) EnrichAll(ctx context.Context, items []models.RankedMarket) {
	if len(items) == 0 {
		return
	}
	g, ctx := errgroup.WithContext(ctx)
	limit := e.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i := range items {
		g.Go(func() error {
			e.enrichOne(ctx, &items[i])
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, item *models.RankedMarket) {
	book, err := e.fetchBook(ctx, item.Market.TokenID)
	if err == nil && book != nil && (len(book.Bids) > 0 || len(book.Asks) > 0) {
		item.Book = metricsFromBook(book)
		item.Depth = estimateDepthImpact(book, e.TargetMovePct)
		return
	}
	if err != nil && e.Logger != nil {
		var apiErr *clob.APIError
		if errors.As(err, &apiErr) && apiErr.RateLimited() {
			e.Logger.Warn("book fetch rate limited, using fallback quote",
				zap.String("market_id", item.Market.ID))
		} else {
			e.Logger.Debug("book fetch failed, using fallback quote",
				zap.String("market_id", item.Market.ID), zap.Error(err))
		}
	}

	bid, ask, source := fallbackQuote(item.Market)
	if source == models.QuoteSourceDefault && e.Logger != nil {
		e.Logger.Warn("no price data on market, quoting neutral default",
			zap.String("market_id", item.Market.ID))
	}
	item.Book = metricsFromQuote(bid, ask, source)
	item.Depth = models.DepthImpact{MovePct: e.TargetMovePct, Rating: models.DepthUnknown}
}

func (e *Enricher) fetchBook(ctx context.Context, tokenID string) (*clob.OrderBook, error) {
	if tokenID == "" {
		return nil, errors.New("market has no token reference")
	}
	return e.Books.GetBook(ctx, tokenID)
}

func metricsFromBook(book *clob.OrderBook) *models.OrderBookMetrics {
	m := &models.OrderBookMetrics{Enriched: true, Source: models.QuoteSourceBook}
	if len(book.Bids) > 0 {
		m.BestBid = book.Bids[0].Price
	}
	if len(book.Asks) > 0 {
		m.BestAsk = book.Asks[0].Price
	}
	for _, lvl := range book.Bids {
		m.BidDepth = m.BidDepth.Add(lvl.Size)
	}
	for _, lvl := range book.Asks {
		m.AskDepth = m.AskDepth.Add(lvl.Size)
	}
	fillSpread(m)
	return m
}

func metricsFromQuote(bid, ask decimal.Decimal, source string) *models.OrderBookMetrics {
	m := &models.OrderBookMetrics{BestBid: bid, BestAsk: ask, Source: source}
	fillSpread(m)
	return m
}

func fillSpread(m *models.OrderBookMetrics) {
	if m.BestBid.IsZero() && m.BestAsk.IsZero() {
		return
	}
	m.Spread = m.BestAsk.Sub(m.BestBid)
	if mid := m.BestAsk.Add(m.BestBid).Div(decimal.NewFromInt(2)); mid.GreaterThan(decimal.Zero) {
		m.SpreadPct = m.Spread.Div(mid).Mul(decimal.NewFromInt(100)).Round(2)
	}
}
