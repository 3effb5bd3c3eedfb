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

// FetchSets lists card sets, optionally filtered by free-text q.
func (c *Client) FetchSets(ctx context.Context, q string, page, perPage int) (Page[models.Set], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	v := url.Values{}
	if s := strings.TrimSpace(q); s != "" {
		v.Set("q", s)
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	raw, err := c.do(ctx, http.MethodGet, "/api/sets", v, nil)
	if err != nil {
		return emptyPage[models.Set](), err
	}
	return resolvePage[models.Set](raw, page), nil
}

// FetchSetCards lists the cards of one set. The default page size is
// large enough to hold a full checklist.
func (c *Client) FetchSetCards(ctx context.Context, setID uint, page, perPage int) (Page[models.Card], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = setCardsPerPage
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/sets/%d/cards", setID), v, nil)
	if err != nil {
		return emptyPage[models.Card](), err
	}
	return resolvePage[models.Card](raw, page), nil
}
