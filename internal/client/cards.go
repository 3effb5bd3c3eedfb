package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jpelletier/card-binder/internal/models"
)

const (
	defaultPerPage  = 20
	setCardsPerPage = 500
)

// CardQuery is the filter set for the card catalog. Zero-valued fields
// are left out of the request entirely.
type CardQuery struct {
	Q       string
	Page    int
	PerPage int
	Sport   string
	Year    int
	Brand   string
	Set     string
}

func (q CardQuery) values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Q); s != "" {
		v.Set("q", s)
	}
	if s := strings.TrimSpace(q.Sport); s != "" {
		v.Set("sport", s)
	}
	if q.Year != 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if s := strings.TrimSpace(q.Brand); s != "" {
		v.Set("brand", s)
	}
	if s := strings.TrimSpace(q.Set); s != "" {
		v.Set("set", s)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	return v
}

// FetchCards lists catalog cards matching the query.
func (c *Client) FetchCards(ctx context.Context, query CardQuery) (Page[models.Card], error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	raw, err := c.do(ctx, http.MethodGet, "/api/cards", query.values(), nil)
	if err != nil {
		return emptyPage[models.Card](), err
	}
	return resolvePage[models.Card](raw, page), nil
}

// FetchCard returns one catalog card by id.
func (c *Client) FetchCard(ctx context.Context, cardID uint) (models.Card, error) {
	var card models.Card
	err := c.get(ctx, fmt.Sprintf("/api/cards/%d", cardID), nil, &card)
	return card, err
}

// AutoFillCardImage asks the service to discover an image for the card on
// eBay. The returned card carries the new image URL when one was found,
// and is unchanged when nothing matched.
func (c *Client) AutoFillCardImage(ctx context.Context, cardID uint) (models.Card, error) {
	var card models.Card
	err := c.post(ctx, fmt.Sprintf("/api/cards/%d/auto-image", cardID), nil, &card)
	return card, err
}

// FetchPriceSnapshots lists observed eBay price summaries for a card,
// newest first.
func (c *Client) FetchPriceSnapshots(ctx context.Context, cardID uint) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	err := c.get(ctx, fmt.Sprintf("/api/cards/%d/price-snapshots", cardID), nil, &snapshots)
	return snapshots, err
}
