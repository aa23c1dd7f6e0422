package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"weatheredge/internal/cache"
	"weatheredge/internal/client/gamma"
	"weatheredge/internal/config"
)

// stubFeed is a test-only in-memory feed that counts upstream calls.
type stubFeed struct {
	markets     []gamma.Market
	market      *gamma.Market
	tags        []gamma.Tag
	err         error
	listCalls   int
	detailCalls int
	tagCalls    int
	lastParams  *gamma.GetMarketsParams
}

func (s *stubFeed) GetMarkets(ctx context.Context, params *gamma.GetMarketsParams) ([]gamma.Market, error) {
	s.listCalls++
	s.lastParams = params
	return s.markets, s.err
}

func (s *stubFeed) GetMarketByID(ctx context.Context, marketID string) (*gamma.Market, error) {
	s.detailCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.market, nil
}

func (s *stubFeed) GetTags(ctx context.Context, limit int) ([]gamma.Tag, error) {
	s.tagCalls++
	return s.tags, s.err
}

func listingRow(id, question string, volume float64) gamma.Market {
	return gamma.Market{ID: id, Question: question, Volume24hr: gamma.FlexFloat(volume)}
}

func newTestBuilder(feed *stubFeed) (*Builder, *cache.Service) {
	store := cache.NewService(config.CacheConfig{
		CatalogTTL:  10 * time.Minute,
		DetailTTL:   5 * time.Minute,
		LocationTTL: 15 * time.Minute,
		TagsTTL:     time.Hour,
	}, nil)
	return &Builder{Feed: feed, Cache: store, PageLimit: 100}, store
}

func TestBuildFetchesOnceThenServesCache(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{
		listingRow("m1", "Will it rain in Seattle?", 5000),
		listingRow("m2", "Will the Bears win on Sunday?", 2000),
	}}
	b, _ := newTestBuilder(feed)

	first := b.Build(context.Background(), 0, "")
	if first.Cached {
		t.Fatalf("first build must not be cached")
	}
	if len(first.Markets) != 2 {
		t.Fatalf("got %d markets, want 2", len(first.Markets))
	}

	second := b.Build(context.Background(), 0, "")
	if !second.Cached {
		t.Fatalf("second build should serve the cache")
	}
	if feed.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1", feed.listCalls)
	}
}

func TestRebuildRequestsVolumeOrderedActivePage(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{listingRow("m1", "Question?", 100)}}
	b, _ := newTestBuilder(feed)

	b.Build(context.Background(), 0, "NFL")
	p := feed.lastParams
	if p == nil {
		t.Fatalf("no bulk request captured")
	}
	if p.Limit != 100 || p.TagSlug != "nfl" {
		t.Fatalf("limit=%d tag=%q", p.Limit, p.TagSlug)
	}
	if p.Active == nil || !*p.Active || p.Closed == nil || *p.Closed {
		t.Fatalf("expected active, not closed")
	}
	if p.Order != "volume24hr" || p.Ascending == nil || *p.Ascending {
		t.Fatalf("expected descending volume order, got order=%q asc=%v", p.Order, p.Ascending)
	}
}

func TestBuildSortsByVolumeAndFilters(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{
		listingRow("low", "Question A?", 100),
		listingRow("high", "Question B?", 9000),
		listingRow("mid", "Question C?", 3000),
	}}
	b, _ := newTestBuilder(feed)

	out := b.Build(context.Background(), 1000, "")
	if len(out.Markets) != 2 {
		t.Fatalf("volume floor kept %d markets, want 2", len(out.Markets))
	}
	if out.Markets[0].ID != "high" || out.Markets[1].ID != "mid" {
		t.Fatalf("order = %s, %s; want high, mid", out.Markets[0].ID, out.Markets[1].ID)
	}
	if out.TotalMarkets != 3 {
		t.Fatalf("total = %d, want 3 before the floor", out.TotalMarkets)
	}
}

func TestBuildCachedEntryServesAnyVolumeFloor(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{
		listingRow("a", "Question A?", 5000),
		listingRow("b", "Question B?", 500),
	}}
	b, _ := newTestBuilder(feed)

	b.Build(context.Background(), 1000, "")
	out := b.Build(context.Background(), 0, "")
	if !out.Cached {
		t.Fatalf("expected cache hit")
	}
	if len(out.Markets) != 2 {
		t.Fatalf("zero floor on cached entry kept %d markets, want 2", len(out.Markets))
	}
}

func TestBuildFetchFailureYieldsEmptyCatalog(t *testing.T) {
	feed := &stubFeed{err: errors.New("upstream down")}
	b, _ := newTestBuilder(feed)

	out := b.Build(context.Background(), 0, "")
	if out.FetchError == "" {
		t.Fatalf("expected fetch error to be reported")
	}
	if len(out.Markets) != 0 {
		t.Fatalf("failed build must yield no markets")
	}
	if b.LastFetchError() == "" {
		t.Fatalf("last fetch error should be recorded")
	}

	// A failed build must not poison the cache.
	feed.err = nil
	feed.markets = []gamma.Market{listingRow("m1", "Question?", 100)}
	out = b.Build(context.Background(), 0, "")
	if out.FetchError != "" || len(out.Markets) != 1 {
		t.Fatalf("recovery build failed: %+v", out)
	}
	if b.LastFetchError() != "" {
		t.Fatalf("clean rebuild should clear the last fetch error")
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{listingRow("m1", "Question?", 100)}}
	b, _ := newTestBuilder(feed)

	b.Build(context.Background(), 0, "")
	b.Refresh(context.Background(), "")
	if feed.listCalls != 2 {
		t.Fatalf("list calls = %d, want 2", feed.listCalls)
	}
}

func TestMarketByIDUsesDetailCachePopulatedByBuild(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{listingRow("m1", "Question?", 100)}}
	b, _ := newTestBuilder(feed)

	b.Build(context.Background(), 0, "")
	m, err := b.MarketByID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "m1" {
		t.Fatalf("id = %s, want m1", m.ID)
	}
	if feed.detailCalls != 0 {
		t.Fatalf("detail calls = %d, want 0 (cache hit)", feed.detailCalls)
	}
}

func TestMarketByIDFallsBackToFeed(t *testing.T) {
	row := listingRow("m9", "Question?", 100)
	feed := &stubFeed{market: &row}
	b, _ := newTestBuilder(feed)

	m, err := b.MarketByID(context.Background(), "m9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "m9" || feed.detailCalls != 1 {
		t.Fatalf("expected single feed fetch, got id=%s calls=%d", m.ID, feed.detailCalls)
	}

	// Second lookup is a cache hit.
	if _, err := b.MarketByID(context.Background(), "m9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.detailCalls != 1 {
		t.Fatalf("detail calls = %d, want 1", feed.detailCalls)
	}
}

func TestByLocationMatchesExtractedVenue(t *testing.T) {
	feed := &stubFeed{markets: []gamma.Market{
		listingRow("chi", "Will the Bears win at Soldier Field on Sunday?", 5000),
		listingRow("nyc", "Will it rain in New York tomorrow?", 3000),
	}}
	b, _ := newTestBuilder(feed)

	out := b.ByLocation(context.Background(), 0, "soldier field")
	if len(out) != 1 || out[0].ID != "chi" {
		t.Fatalf("got %d matches, want chi only", len(out))
	}

	// Served from the location cache on repeat.
	b.ByLocation(context.Background(), 0, "Soldier Field")
	if feed.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1", feed.listCalls)
	}
}

func TestTagsDeduplicatesAndCaches(t *testing.T) {
	feed := &stubFeed{tags: []gamma.Tag{
		{Label: "NFL"}, {Label: "NFL"}, {Slug: "weather"}, {Label: ""},
	}}
	b, _ := newTestBuilder(feed)

	tags, err := b.Tags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2: %v", len(tags), tags)
	}
	if _, err := b.Tags(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.tagCalls != 1 {
		t.Fatalf("tag calls = %d, want 1", feed.tagCalls)
	}
}

func TestFromListingRejectsUnusableRows(t *testing.T) {
	if _, ok := FromListing(gamma.Market{ID: "", Question: "Q?"}); ok {
		t.Fatalf("row without id must be rejected")
	}
	if _, ok := FromListing(gamma.Market{ID: "m1", Question: "  "}); ok {
		t.Fatalf("row without question must be rejected")
	}
}
