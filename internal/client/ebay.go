package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/jpelletier/card-binder/internal/models"
)

// SearchEbay runs a listing search through the service's eBay proxy.
func (c *Client) SearchEbay(ctx context.Context, q string) (models.EbaySearchResult, error) {
	v := url.Values{}
	if s := strings.TrimSpace(q); s != "" {
		v.Set("q", s)
	}

	var result models.EbaySearchResult
	err := c.get(ctx, "/api/ebay/search", v, &result)
	return result, err
}
