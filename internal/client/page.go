package client

import (
	"bytes"
	"encoding/json"
	"log"
)

// Page is one page of a list response.
type Page[T any] struct {
	Items   []T
	Page    int
	Pages   int
	Total   int
	HasPrev bool
	HasNext bool
}

// pageEnvelope is the service's paginated list shape. Older endpoints
// answered with a bare JSON array instead; resolvePage accepts both.
type pageEnvelope[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// resolvePage normalizes a list response body into a Page.
//
// A bare array means the endpoint does not paginate: everything is page 1
// of 1, whatever page was requested. An envelope fills in defaults for
// missing fields: page falls back to the requested page, pages to 1. Any
// other shape resolves to an empty first page with a logged warning
// rather than an error, so one odd response cannot blank an entire screen
// with a failure state.
func resolvePage[T any](raw json.RawMessage, requestedPage int) Page[T] {
	if requestedPage < 1 {
		requestedPage = 1
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return emptyPage[T]()
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			log.Printf("Unexpected list response shape: %v", err)
			return emptyPage[T]()
		}
		if items == nil {
			items = []T{}
		}
		return Page[T]{
			Items: items,
			Page:  1,
			Pages: 1,
			Total: len(items),
		}
	}

	if trimmed[0] != '{' {
		log.Printf("Unexpected list response shape: not an array or object")
		return emptyPage[T]()
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		log.Printf("Unexpected list response shape: %v", err)
		return emptyPage[T]()
	}

	items := env.Items
	if items == nil {
		items = []T{}
	}

	page := env.Page
	if page < 1 {
		page = requestedPage
	}
	pages := env.Pages
	if pages < 1 {
		pages = 1
	}
	total := int(env.Total)
	if total == 0 {
		total = len(items)
	}

	return Page[T]{
		Items:   items,
		Page:    page,
		Pages:   pages,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}

// emptyPage is the reset state after a failed or unusable fetch: back to
// the first page so pagination controls stay consistent.
func emptyPage[T any]() Page[T] {
	return Page[T]{
		Items: []T{},
		Page:  1,
		Pages: 1,
	}
}
