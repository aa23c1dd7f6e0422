package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

type GetMarketsParams struct {
	Limit  int
	Active *bool
	Closed *bool
	// TagSlug filters server-side by category where the upstream supports
	// it; leave empty for all markets.
	TagSlug   string
	Order     string
	Ascending *bool
}

// GetMarkets returns one page of the bulk active-market listing.
func (c *Client) GetMarkets(ctx context.Context, params *GetMarketsParams) ([]Market, error) {
	query := url.Values{}
	if params != nil {
		if params.Limit > 0 {
			query.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Active != nil {
			query.Set("active", strconv.FormatBool(*params.Active))
		}
		if params.Closed != nil {
			query.Set("closed", strconv.FormatBool(*params.Closed))
		}
		if params.TagSlug != "" {
			query.Set("tag_slug", params.TagSlug)
		}
		if params.Order != "" {
			query.Set("order", params.Order)
			if params.Ascending != nil {
				query.Set("ascending", strconv.FormatBool(*params.Ascending))
			}
		}
	}
	body, err := c.doRequest(ctx, "/markets", query)
	if err != nil {
		return nil, err
	}
	var markets []Market
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("failed to parse markets: %w", err)
	}
	return markets, nil
}

// GetMarketByID fetches a single market row.
func (c *Client) GetMarketByID(ctx context.Context, marketID string) (*Market, error) {
	if marketID == "" {
		return nil, fmt.Errorf("market id is required")
	}
	body, err := c.doRequest(ctx, "/markets/"+url.PathEscape(marketID), nil)
	if err != nil {
		return nil, err
	}
	var market Market
	if err := json.Unmarshal(body, &market); err != nil {
		return nil, fmt.Errorf("failed to parse market: %w", err)
	}
	return &market, nil
}

// GetTags lists the provider's tag vocabulary.
func (c *Client) GetTags(ctx context.Context, limit int) ([]Tag, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.doRequest(ctx, "/tags", query)
	if err != nil {
		return nil, err
	}
	var tags []Tag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("failed to parse tags: %w", err)
	}
	return tags, nil
}
