package enrich

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"weatheredge/internal/client/clob"
	"weatheredge/internal/models"
)

// stubBooks serves canned order books per token and counts fetches.
type stubBooks struct {
	books map[string]*clob.OrderBook
	errs  map[string]error
	calls int
}

func (s *stubBooks) GetBook(ctx context.Context, tokenID string) (*clob.OrderBook, error) {
	s.calls++
	if err, ok := s.errs[tokenID]; ok {
		return nil, err
	}
	if book, ok := s.books[tokenID]; ok {
		return book, nil
	}
	return nil, errors.New("not found")
}

func level(price, size float64) clob.Level {
	return clob.Level{Price: decimal.NewFromFloat(price), Size: decimal.NewFromFloat(size)}
}

func testEnricher(books *stubBooks) *Enricher {
	return &Enricher{Books: books, Concurrency: 2, TargetMovePct: 5}
}

func rankedItem(id, tokenID string) models.RankedMarket {
	return models.RankedMarket{Market: models.Market{ID: id, Question: "Q?", TokenID: tokenID}}
}

func TestEnrichAllFromLiveBook(t *testing.T) {
	books := &stubBooks{books: map[string]*clob.OrderBook{
		"t1": {
			Bids: []clob.Level{level(0.48, 300)},
			Asks: []clob.Level{level(0.52, 400)},
		},
	}}
	items := []models.RankedMarket{rankedItem("m1", "t1")}

	testEnricher(books).EnrichAll(context.Background(), items)

	book := items[0].Book
	if book == nil || !book.Enriched || book.Source != models.QuoteSourceBook {
		t.Fatalf("expected live-book metrics, got %+v", book)
	}
	if !book.BestBid.Equal(decimal.NewFromFloat(0.48)) || !book.BestAsk.Equal(decimal.NewFromFloat(0.52)) {
		t.Fatalf("bid/ask = %s/%s", book.BestBid, book.BestAsk)
	}
	if !items[0].Depth.Available {
		t.Fatalf("depth should be available with a populated ask ladder")
	}
}

func TestEnrichAllRateLimitDegradesOneItemOnly(t *testing.T) {
	books := &stubBooks{
		books: map[string]*clob.OrderBook{
			"ok": {Asks: []clob.Level{level(0.60, 100)}},
		},
		errs: map[string]error{
			"limited": &clob.APIError{Status: http.StatusTooManyRequests, Body: "slow down"},
		},
	}
	items := []models.RankedMarket{
		func() models.RankedMarket {
			it := rankedItem("m1", "limited")
			it.Market.BestBid = fptr(0.30)
			it.Market.BestAsk = fptr(0.35)
			return it
		}(),
		rankedItem("m2", "ok"),
	}

	testEnricher(books).EnrichAll(context.Background(), items)

	// Rank order untouched.
	if items[0].Market.ID != "m1" || items[1].Market.ID != "m2" {
		t.Fatalf("order changed: %s, %s", items[0].Market.ID, items[1].Market.ID)
	}
	if items[0].Book.Enriched {
		t.Fatalf("rate-limited item must fall back")
	}
	if items[0].Book.Source != models.QuoteSourceBidAsk {
		t.Fatalf("source = %s, want bid_ask fallback", items[0].Book.Source)
	}
	if items[0].Depth.Available || items[0].Depth.Rating != models.DepthUnknown {
		t.Fatalf("fallback item must report depth N/A, got %+v", items[0].Depth)
	}
	if !items[1].Book.Enriched {
		t.Fatalf("healthy item must still enrich")
	}
}

func TestEnrichAllMissingTokenSkipsFetch(t *testing.T) {
	books := &stubBooks{}
	items := []models.RankedMarket{
		func() models.RankedMarket {
			it := rankedItem("m1", "")
			it.Market.OutcomePrices = []float64{0.7, 0.3}
			return it
		}(),
	}

	testEnricher(books).EnrichAll(context.Background(), items)

	if books.calls != 0 {
		t.Fatalf("book calls = %d, want 0 without a token reference", books.calls)
	}
	if items[0].Book.Source != models.QuoteSourceOutcomePrices {
		t.Fatalf("source = %s, want outcome_prices", items[0].Book.Source)
	}
}

func TestFallbackQuoteChainOrder(t *testing.T) {
	bid, ask, source := fallbackQuote(models.Market{
		OutcomePrices:  []float64{0.7, 0.3},
		BestBid:        fptr(0.6),
		BestAsk:        fptr(0.8),
		LastTradePrice: fptr(0.65),
	})
	if source != models.QuoteSourceOutcomePrices {
		t.Fatalf("source = %s, want outcome_prices first", source)
	}
	if !bid.Equal(decimal.NewFromFloat(0.7)) || !ask.Equal(decimal.NewFromFloat(0.7)) {
		t.Fatalf("quote = %s/%s", bid, ask)
	}

	_, _, source = fallbackQuote(models.Market{
		BestBid: fptr(0.6),
		BestAsk: fptr(0.8),
	})
	if source != models.QuoteSourceBidAsk {
		t.Fatalf("source = %s, want bid_ask second", source)
	}

	bid, ask, source = fallbackQuote(models.Market{LastTradePrice: fptr(0.65)})
	if source != models.QuoteSourceLastTrade {
		t.Fatalf("source = %s, want last_trade third", source)
	}
	if !bid.Equal(decimal.NewFromFloat(0.63)) || !ask.Equal(decimal.NewFromFloat(0.67)) {
		t.Fatalf("widened quote = %s/%s, want 0.63/0.67", bid, ask)
	}

	bid, ask, source = fallbackQuote(models.Market{})
	if source != models.QuoteSourceDefault {
		t.Fatalf("source = %s, want default last", source)
	}
	if !bid.Equal(half) || !ask.Equal(half) {
		t.Fatalf("default quote = %s/%s, want 0.5/0.5", bid, ask)
	}
}

func TestFallbackQuoteClampsWidenedPrices(t *testing.T) {
	bid, ask, _ := fallbackQuote(models.Market{LastTradePrice: fptr(0.01)})
	if bid.LessThan(decimal.Zero) {
		t.Fatalf("bid = %s, must not go negative", bid)
	}
	if ask.GreaterThan(decimal.NewFromInt(1)) {
		t.Fatalf("ask = %s, must not exceed 1", ask)
	}
}

func TestEstimateDepthImpactWalksAskLadder(t *testing.T) {
	book := &clob.OrderBook{
		Asks: []clob.Level{level(0.50, 100), level(0.60, 100), level(0.70, 100)},
	}
	out := estimateDepthImpact(book, 5)
	if !out.Available {
		t.Fatalf("expected available estimate")
	}
	// Target average is 0.525; levels one and two reach 0.55 at $110.
	if !out.CapitalUSD.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("capital = %s, want 110", out.CapitalUSD)
	}
}

func TestEstimateDepthImpactNoAsks(t *testing.T) {
	out := estimateDepthImpact(&clob.OrderBook{Bids: []clob.Level{level(0.4, 100)}}, 5)
	if out.Available {
		t.Fatalf("no asks must mean no estimate")
	}
	if out.Rating != models.DepthUnknown {
		t.Fatalf("rating = %s, want %s", out.Rating, models.DepthUnknown)
	}
}

func TestRateDepthBuckets(t *testing.T) {
	shallow := &clob.OrderBook{Asks: []clob.Level{level(0.5, 100)}}
	if got := rateDepth(shallow); got != models.DepthShallow {
		t.Fatalf("got %s, want shallow", got)
	}
	moderate := &clob.OrderBook{
		Bids: []clob.Level{level(0.4, 2000)},
		Asks: []clob.Level{level(0.5, 2000)},
	}
	if got := rateDepth(moderate); got != models.DepthModerate {
		t.Fatalf("got %s, want moderate", got)
	}
	deep := &clob.OrderBook{Asks: []clob.Level{level(0.5, 10000)}}
	if got := rateDepth(deep); got != models.DepthDeep {
		t.Fatalf("got %s, want deep", got)
	}
}

func fptr(v float64) *float64 { return &v }
