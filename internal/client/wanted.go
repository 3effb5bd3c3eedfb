package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jpelletier/card-binder/internal/models"
)

// FetchWanted lists the logged-in user's want list.
func (c *Client) FetchWanted(ctx context.Context, page, perPage int) (Page[models.WantedCard], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	raw, err := c.do(ctx, http.MethodGet, "/api/wanted", v, nil)
	if err != nil {
		return emptyPage[models.WantedCard](), err
	}
	return resolvePage[models.WantedCard](raw, page), nil
}

// AddWantedCard puts a card on the want list. A duplicate surfaces as an
// *APIError with status 409.
func (c *Client) AddWantedCard(ctx context.Context, cardID uint, notes string) (models.WantedCard, error) {
	req := models.AddWantedRequest{CardID: cardID}
	if notes != "" {
		req.Notes = &notes
	}

	var wanted models.WantedCard
	err := c.post(ctx, "/api/wanted", req, &wanted)
	return wanted, err
}

// DeleteWantedItem removes a want list entry.
func (c *Client) DeleteWantedItem(ctx context.Context, wantedID uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wanted/%d", wantedID), nil, nil)
	return err
}
