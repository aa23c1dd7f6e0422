// Package catalog assembles the volume-filtered candidate set from the bulk
// feed listing. Building a catalog of hundreds of markets costs exactly one
// upstream request; every enrichment at this stage uses fields already on
// the listing row.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"weatheredge/internal/cache"
	"weatheredge/internal/client/gamma"
	"weatheredge/internal/extract"
	"weatheredge/internal/models"
)

// Feed is the market listing boundary.
type Feed interface {
	GetMarkets(ctx context.Context, params *gamma.GetMarketsParams) ([]gamma.Market, error)
	GetMarketByID(ctx context.Context, marketID string) (*gamma.Market, error)
	GetTags(ctx context.Context, limit int) ([]gamma.Tag, error)
}

type Builder struct {
	Feed   Feed
	Cache  *cache.Service
	Logger *zap.Logger

	// PageLimit bounds the single bulk request.
	PageLimit int

	mu      sync.Mutex
	lastErr string
}

// LastFetchError reports the most recent bulk-fetch failure, or "" after a
// clean rebuild. Surfaced by the status probe.
func (b *Builder) LastFetchError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Builder) setLastErr(msg string) {
	b.mu.Lock()
	b.lastErr = msg
	b.mu.Unlock()
}

// Catalog is the build result. A failed bulk fetch yields an empty catalog
// with FetchError set; catalog-unavailable is "no results", never a hard
// error.
type Catalog struct {
	Markets      []models.Market `json:"markets"`
	TotalMarkets int             `json:"total_markets"`
	Cached       bool            `json:"cached"`
	FetchError   string          `json:"fetch_error,omitempty"`
}

// Build returns the candidate catalog for a category filter, serving from
// the catalog cache when a live entry exists. The cached payload is the full
// enriched listing for the category; the caller's volume floor is applied on
// the way out so one entry serves any floor.
func (b *Builder) Build(ctx context.Context, minVolume float64, category string) Catalog {
	key := catalogKey(category)
	if list, ok := b.Cache.Catalog.Get(key); ok {
		return Catalog{
			Markets:      filterByVolume(list, minVolume),
			TotalMarkets: len(list),
			Cached:       true,
		}
	}
	return b.rebuild(ctx, minVolume, category)
}

// Refresh forces a rebuild, bypassing (and refilling) the cache.
func (b *Builder) Refresh(ctx context.Context, category string) Catalog {
	return b.rebuild(ctx, 0, category)
}

func (b *Builder) rebuild(ctx context.Context, minVolume float64, category string) Catalog {
	active := true
	closed := false
	ascending := false
	limit := b.PageLimit
	if limit <= 0 {
		limit = 500
	}
	// Highest-volume first so a truncated page keeps the liquid markets.
	rows, err := b.Feed.GetMarkets(ctx, &gamma.GetMarketsParams{
		Limit:     limit,
		Active:    &active,
		Closed:    &closed,
		TagSlug:   categorySlug(category),
		Order:     "volume24hr",
		Ascending: &ascending,
	})
	if err != nil {
		if b.Logger != nil {
			b.Logger.Warn("bulk market fetch failed", zap.String("category", category), zap.Error(err))
		}
		b.setLastErr(err.Error())
		return Catalog{Markets: []models.Market{}, FetchError: err.Error()}
	}
	b.setLastErr("")

	list := make([]models.Market, 0, len(rows))
	for _, row := range rows {
		m, ok := FromListing(row)
		if !ok {
			continue
		}
		list = append(list, m)
		b.Cache.Detail.Set(m.ID, m)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Volume24h > list[j].Volume24h
	})

	b.Cache.Catalog.Set(catalogKey(category), list)
	return Catalog{
		Markets:      filterByVolume(list, minVolume),
		TotalMarkets: len(list),
	}
}

// MarketByID resolves a single market, serving the per-market detail cache
// before falling back to a single-row feed fetch.
func (b *Builder) MarketByID(ctx context.Context, id string) (models.Market, error) {
	if m, ok := b.Cache.Detail.Get(id); ok {
		return m, nil
	}
	row, err := b.Feed.GetMarketByID(ctx, id)
	if err != nil {
		return models.Market{}, err
	}
	m, ok := FromListing(*row)
	if !ok {
		return models.Market{}, fmt.Errorf("market %s has no usable listing data", id)
	}
	b.Cache.Detail.Set(m.ID, m)
	return m, nil
}

// ByLocation returns catalog markets whose extracted venue matches the
// location, cached per normalized location string.
func (b *Builder) ByLocation(ctx context.Context, minVolume float64, location string) []models.Market {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return nil
	}
	if list, ok := b.Cache.Location.Get(key); ok {
		return filterByVolume(list, minVolume)
	}
	built := b.Build(ctx, 0, "")
	matched := make([]models.Market, 0, 8)
	for _, m := range built.Markets {
		if m.Venue == "" {
			continue
		}
		if strings.Contains(strings.ToLower(m.Venue), key) {
			matched = append(matched, m)
		}
	}
	b.Cache.Location.Set(key, matched)
	return filterByVolume(matched, minVolume)
}

// Tags returns the provider tag vocabulary from the single-entry tag cache.
func (b *Builder) Tags(ctx context.Context) ([]string, error) {
	const tagKey = "tags"
	if tags, ok := b.Cache.Tags.Get(tagKey); ok {
		return tags, nil
	}
	raw, err := b.Feed.GetTags(ctx, 500)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	seen := map[string]struct{}{}
	for _, t := range raw {
		label := strings.TrimSpace(t.Label)
		if label == "" {
			label = strings.TrimSpace(t.Slug)
		}
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	b.Cache.Tags.Set(tagKey, out)
	return out, nil
}

// FromListing converts a feed row into a catalog Market, running the
// metadata extractor over its text and tags. Returns false for rows with no
// id or question.
func FromListing(raw gamma.Market) (models.Market, bool) {
	if strings.TrimSpace(raw.ID) == "" || strings.TrimSpace(raw.Question) == "" {
		return models.Market{}, false
	}
	tags := raw.TagStrings()
	meta := extract.FromMarket(raw.Question, raw.Description, tags)
	m := models.Market{
		ID:                 raw.ID,
		Question:           strings.TrimSpace(raw.Question),
		Description:        strings.TrimSpace(raw.Description),
		Slug:               raw.Slug,
		ResolutionAt:       raw.EndDate.Ptr(),
		Category:           meta.Category,
		Venue:              meta.Venue,
		Participants:       meta.Participants,
		Tags:               tags,
		BestBid:            raw.BestBid.Ptr(),
		BestAsk:            raw.BestAsk.Ptr(),
		OutcomePrices:      raw.OutcomePrices.Floats(),
		LastTradePrice:     raw.LastTradePrice.Ptr(),
		Volume24h:          float64(raw.Volume24hr),
		Volume1wk:          float64(raw.Volume1wk),
		Liquidity:          float64(raw.Liquidity),
		Spread:             float64(raw.Spread),
		OneDayPriceChange:  float64(raw.OneDayChange),
		OneHourPriceChange: float64(raw.OneHourChange),
	}
	if len(raw.ClobTokenIDs) > 0 {
		m.TokenID = raw.ClobTokenIDs[0]
	}
	return m, true
}

func catalogKey(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return cache.DefaultCatalogKey
	}
	return key
}

func categorySlug(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

func filterByVolume(list []models.Market, minVolume float64) []models.Market {
	if minVolume <= 0 {
		out := make([]models.Market, len(list))
		copy(out, list)
		return out
	}
	out := make([]models.Market, 0, len(list))
	for _, m := range list {
		if m.Volume24h >= minVolume {
			out = append(out, m)
		}
	}
	return out
}
