package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jpelletier/card-binder/internal/models"
)

// FetchOwned lists the logged-in user's owned cards.
func (c *Client) FetchOwned(ctx context.Context, page, perPage int) (Page[models.OwnedCard], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("per_page", strconv.Itoa(perPage))

	raw, err := c.do(ctx, http.MethodGet, "/api/owned-cards", v, nil)
	if err != nil {
		return emptyPage[models.OwnedCard](), err
	}
	return resolvePage[models.OwnedCard](raw, page), nil
}

// AddOwnedCard adds quantity copies of a card to the collection. A
// quantity below 1 is sent as 1.
func (c *Client) AddOwnedCard(ctx context.Context, cardID uint, quantity int) (models.OwnedCard, error) {
	if quantity < 1 {
		quantity = 1
	}

	var owned models.OwnedCard
	err := c.post(ctx, "/api/owned-cards", models.AddOwnedRequest{
		CardID:   cardID,
		Quantity: quantity,
	}, &owned)
	return owned, err
}

// DeleteOwnedResult reports what removing copies did: either the record
// was deleted outright, or it survives with a reduced quantity.
type DeleteOwnedResult struct {
	Deleted bool
	Owned   *models.OwnedCard
}

// DeleteOwnedCard removes count copies of an owned record. The count
// param only goes on the wire when more than one copy is being removed;
// a bare DELETE means one copy.
func (c *Client) DeleteOwnedCard(ctx context.Context, ownedID uint, count int) (DeleteOwnedResult, error) {
	var query url.Values
	if count > 1 {
		query = url.Values{}
		query.Set("count", strconv.Itoa(count))
	}

	raw, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/owned-cards/%d", ownedID), query, nil)
	if err != nil {
		return DeleteOwnedResult{}, err
	}

	var resp models.DeleteOwnedResponse
	if raw != nil {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return DeleteOwnedResult{}, fmt.Errorf("failed to decode delete response: %w", err)
		}
	}

	return DeleteOwnedResult{
		Deleted: resp.Deleted,
		Owned:   resp.Owned,
	}, nil
}
