// Package service orchestrates the ranked-markets pipeline: catalog build,
// edge scoring and ranking, classification, then late order-book enrichment
// of only the final truncated set.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"weatheredge/internal/cache"
	"weatheredge/internal/catalog"
	"weatheredge/internal/classify"
	"weatheredge/internal/config"
	"weatheredge/internal/edge"
	"weatheredge/internal/enrich"
	"weatheredge/internal/models"
)

// ErrInvalidRequest marks caller-input errors; handlers map it to 400.
var ErrInvalidRequest = errors.New("invalid request")

type IntelService struct {
	Catalog    *catalog.Builder
	Classifier *classify.Classifier
	Enricher   *enrich.Enricher
	Cache      *cache.Service
	Logger     *zap.Logger
	Engine     config.EngineConfig

	// Hour feeds band diversification; injectable for deterministic tests.
	Hour func() int

	started time.Time
}

func NewIntelService(b *catalog.Builder, cl *classify.Classifier, en *enrich.Enricher, store *cache.Service, logger *zap.Logger, engine config.EngineConfig) *IntelService {
	return &IntelService{
		Catalog:    b,
		Classifier: cl,
		Enricher:   en,
		Cache:      store,
		Logger:     logger,
		Engine:     engine,
		Hour:       func() int { return time.Now().UTC().Hour() },
		started:    time.Now().UTC(),
	}
}

// RankRequest carries the caller's filters. Weather is optional; nil means
// score without live conditions.
type RankRequest struct {
	Limit           int
	MinVolume       *float64
	Category        string
	Location        string
	Confidence      string
	AllowCategories []string
	Weather         *models.WeatherContext
}

type RankResult struct {
	Items           []models.RankedMarket `json:"items"`
	TotalCandidates int                   `json:"total_candidates"`
	Cached          bool                  `json:"cached"`
	FetchError      string                `json:"fetch_error,omitempty"`
	WeatherApplied  bool                  `json:"weather_applied"`
}

// RankMarkets runs the full pipeline. Catalog failures degrade to an empty
// result with FetchError set; only caller-input problems return an error.
func (s *IntelService) RankMarkets(ctx context.Context, req RankRequest) (RankResult, error) {
	limit, tier, err := s.validate(req)
	if err != nil {
		return RankResult{}, err
	}
	minVolume := s.Engine.MinVolume
	if req.MinVolume != nil {
		minVolume = *req.MinVolume
	}

	cat := s.Catalog.Build(ctx, minVolume, req.Category)
	candidates := cat.Markets
	if req.Location != "" && req.Category == "" {
		candidates = s.Catalog.ByLocation(ctx, minVolume, req.Location)
	}

	ranked := edge.Rank(candidates, req.Weather, edge.Filters{
		Confidence:      tier,
		Location:        req.Location,
		AllowCategories: req.AllowCategories,
	}, limit, s.hour())

	for i := range ranked {
		ranked[i].Classification = s.Classifier.Classify(ranked[i].Market)
		if ranked[i].Classification.Conflicting && s.Logger != nil {
			s.Logger.Warn("conflicting classification signals",
				zap.String("market_id", ranked[i].Market.ID),
				zap.String("question", ranked[i].Market.Question))
		}
	}
	s.Enricher.EnrichAll(ctx, ranked)

	return RankResult{
		Items:           ranked,
		TotalCandidates: len(candidates),
		Cached:          cat.Cached,
		FetchError:      cat.FetchError,
		WeatherApplied:  req.Weather != nil,
	}, nil
}

func (s *IntelService) validate(req RankRequest) (int, models.ConfidenceTier, error) {
	if req.Limit < 0 {
		return 0, "", fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}
	if req.MinVolume != nil && *req.MinVolume < 0 {
		return 0, "", fmt.Errorf("%w: min_volume must not be negative", ErrInvalidRequest)
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.Engine.DefaultLimit
	}
	if s.Engine.MaxLimit > 0 && limit > s.Engine.MaxLimit {
		limit = s.Engine.MaxLimit
	}

	var tier models.ConfidenceTier
	switch strings.ToUpper(strings.TrimSpace(req.Confidence)) {
	case "":
	case string(models.ConfidenceLow):
		tier = models.ConfidenceLow
	case string(models.ConfidenceMedium):
		tier = models.ConfidenceMedium
	case string(models.ConfidenceHigh):
		tier = models.ConfidenceHigh
	default:
		return 0, "", fmt.Errorf("%w: unknown confidence tier %q", ErrInvalidRequest, req.Confidence)
	}
	return limit, tier, nil
}

// Classify scores a caller-supplied market record without touching upstream.
func (s *IntelService) Classify(m models.Market) (models.Classification, error) {
	if strings.TrimSpace(m.Question) == "" {
		return models.Classification{}, fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}
	return s.Classifier.Classify(m), nil
}

// ClassifyByID resolves the market through the detail cache, then classifies.
func (s *IntelService) ClassifyByID(ctx context.Context, id string) (models.Market, models.Classification, error) {
	if strings.TrimSpace(id) == "" {
		return models.Market{}, models.Classification{}, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	m, err := s.Catalog.MarketByID(ctx, id)
	if err != nil {
		return models.Market{}, models.Classification{}, err
	}
	return m, s.Classifier.Classify(m), nil
}

// CacheStatus is one cache layer's population snapshot.
type CacheStatus struct {
	Entries   int        `json:"entries"`
	NewestAt  *time.Time `json:"newest_at,omitempty"`
	TTLSecond float64    `json:"ttl_seconds"`
}

type StatusReport struct {
	Env            string                 `json:"env"`
	UptimeSeconds  float64                `json:"uptime_seconds"`
	Caches         map[string]CacheStatus `json:"caches"`
	Upstreams      map[string]string      `json:"upstreams"`
	LastFetchError string                 `json:"last_fetch_error,omitempty"`
}

// Status reports cache population and upstream endpoints. It never calls
// upstream itself.
func (s *IntelService) Status(env string, gammaHost, clobHost string) StatusReport {
	return StatusReport{
		Env:           env,
		UptimeSeconds: time.Since(s.started).Seconds(),
		Caches: map[string]CacheStatus{
			"catalog":  {Entries: s.Cache.Catalog.Len(), NewestAt: s.Cache.Catalog.Newest(), TTLSecond: s.Cache.Catalog.TTL().Seconds()},
			"detail":   {Entries: s.Cache.Detail.Len(), NewestAt: s.Cache.Detail.Newest(), TTLSecond: s.Cache.Detail.TTL().Seconds()},
			"location": {Entries: s.Cache.Location.Len(), NewestAt: s.Cache.Location.Newest(), TTLSecond: s.Cache.Location.TTL().Seconds()},
			"tags":     {Entries: s.Cache.Tags.Len(), NewestAt: s.Cache.Tags.Newest(), TTLSecond: s.Cache.Tags.TTL().Seconds()},
		},
		Upstreams: map[string]string{
			"gamma": gammaHost,
			"clob":  clobHost,
		},
		LastFetchError: s.Catalog.LastFetchError(),
	}
}

func (s *IntelService) hour() int {
	if s.Hour != nil {
		return s.Hour()
	}
	return time.Now().UTC().Hour()
}
