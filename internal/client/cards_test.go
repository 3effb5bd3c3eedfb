package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestCardQueryValues_OmitsEmptyFilters(t *testing.T) {
	v := CardQuery{Q: "mcdavid", Year: 2021}.values()

	if got := v.Get("q"); got != "mcdavid" {
		t.Errorf("expected q=mcdavid, got %q", got)
	}
	if got := v.Get("year"); got != "2021" {
		t.Errorf("expected year=2021, got %q", got)
	}

	for _, key := range []string{"sport", "brand", "set"} {
		if _, present := v[key]; present {
			t.Errorf("empty filter %q must not be sent", key)
		}
	}

	if got := v.Get("page"); got != "1" {
		t.Errorf("expected default page 1, got %q", got)
	}
	if got := v.Get("per_page"); got != "20" {
		t.Errorf("expected default per_page 20, got %q", got)
	}
}

func TestCardQueryValues_TrimsWhitespaceFilters(t *testing.T) {
	// Whitespace-only filters are as empty as missing ones
	v := CardQuery{Q: "   ", Sport: " ", Brand: "\t", Set: "\n"}.values()

	for _, key := range []string{"q", "sport", "brand", "set"} {
		if _, present := v[key]; present {
			t.Errorf("whitespace-only filter %q must not be sent, got %q", key, v.Get(key))
		}
	}

	if got := (CardQuery{Q: " griffey "}).values().Get("q"); got != "griffey" {
		t.Errorf("expected trimmed q=griffey, got %q", got)
	}
}

func TestCardQueryValues_AllFilters(t *testing.T) {
	v := CardQuery{
		Q: "griffey", Page: 3, PerPage: 50,
		Sport: "baseball", Year: 1989, Brand: "Topps", Set: "Base",
	}.values()

	want := url.Values{
		"q":        {"griffey"},
		"page":     {"3"},
		"per_page": {"50"},
		"sport":    {"baseball"},
		"year":     {"1989"},
		"brand":    {"Topps"},
		"set":      {"Base"},
	}

	for key, vals := range want {
		if v.Get(key) != vals[0] {
			t.Errorf("expected %s=%s, got %q", key, vals[0], v.Get(key))
		}
	}
	if len(v) != len(want) {
		t.Errorf("expected %d params, got %d: %v", len(want), len(v), v)
	}
}

func TestFetchCards_SendsExpectedParams(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[{"id":1,"player_name":"Connor McDavid"}],"page":1,"pages":1,"total":1}`))
	}))
	defer server.Close()

	c, _ := New(server.URL)

	page, err := c.FetchCards(context.Background(), CardQuery{Q: "mcdavid", Sport: "hockey"})
	if err != nil {
		t.Fatalf("fetch cards: %v", err)
	}

	if gotQuery.Get("q") != "mcdavid" || gotQuery.Get("sport") != "hockey" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if _, present := gotQuery["brand"]; present {
		t.Error("empty brand filter must not be sent")
	}
	if len(page.Items) != 1 || page.Items[0].PlayerName != "Connor McDavid" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestFetchCards_HandlesBareArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	}))
	defer server.Close()

	c, _ := New(server.URL)

	page, err := c.FetchCards(context.Background(), CardQuery{Page: 7})
	if err != nil {
		t.Fatalf("fetch cards: %v", err)
	}
	if page.Page != 1 || page.Pages != 1 || len(page.Items) != 3 {
		t.Errorf("bare array should reset to page 1 of 1, got %+v", page)
	}
}

func TestFetchCards_FailureResetsToFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c, _ := New(server.URL)

	page, err := c.FetchCards(context.Background(), CardQuery{Page: 7})
	if err == nil {
		t.Fatal("expected an error")
	}
	if page.Page != 1 || page.Pages != 1 {
		t.Errorf("failed fetch should reset to page 1 of 1, got %d of %d", page.Page, page.Pages)
	}
	if page.HasPrev || page.HasNext {
		t.Error("failed fetch must have no prev/next")
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty items, got %v", page.Items)
	}
}

func TestFetchSetCards_DefaultPerPage(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[],"page":1,"pages":1,"total":0}`))
	}))
	defer server.Close()

	c, _ := New(server.URL)

	if _, err := c.FetchSetCards(context.Background(), 12, 0, 0); err != nil {
		t.Fatalf("fetch set cards: %v", err)
	}
	if gotQuery.Get("per_page") != "500" {
		t.Errorf("expected checklist default per_page 500, got %q", gotQuery.Get("per_page"))
	}
}
