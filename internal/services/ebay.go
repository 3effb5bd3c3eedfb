package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/jpelletier/card-binder/internal/metrics"
	"github.com/jpelletier/card-binder/internal/models"
)

const (
	ebayBrowseBaseURL  = "https://api.ebay.com/buy/browse/v1"
	ebayDefaultTimeout = 10 * time.Second
	ebayDefaultLimit   = 10
	ebaySearchCacheTTL = 15 * time.Minute
	ebaySearchCacheCap = 512
)

// EbayService handles Browse API calls to eBay for listing searches.
// Results are cached so repeated image lookups for the same card do not
// burn quota, and outbound calls go through a rate limiter.
type EbayService struct {
	client      *http.Client
	token       string
	marketplace string
	baseURL     string
	dailyLimit  int

	limiter *rate.Limiter
	cache   *lru.Cache[string, cachedSearch]

	// Quota tracking
	mu             sync.Mutex
	requestsToday  int
	lastRequestDay time.Time
}

type cachedSearch struct {
	result   *models.EbaySearchResult
	cachedAt time.Time
}

// NewEbayService creates a new eBay Browse API service. The marketplace
// and base URL can be overridden through EBAY_MARKETPLACE_ID and
// EBAY_API_BASE_URL.
func NewEbayService(token string, dailyLimit int) *EbayService {
	if dailyLimit <= 0 {
		dailyLimit = 5000 // Browse API default application quota
	}

	marketplace := os.Getenv("EBAY_MARKETPLACE_ID")
	if marketplace == "" {
		marketplace = "EBAY_US"
	}
	baseURL := os.Getenv("EBAY_API_BASE_URL")
	if baseURL == "" {
		baseURL = ebayBrowseBaseURL
	}

	cache, _ := lru.New[string, cachedSearch](ebaySearchCacheCap)

	metrics.EbayQuotaLimit.Set(float64(dailyLimit))

	return &EbayService{
		client: &http.Client{
			Timeout: ebayDefaultTimeout,
		},
		token:       token,
		marketplace: marketplace,
		baseURL:     baseURL,
		dailyLimit:  dailyLimit,
		limiter:     rate.NewLimiter(rate.Limit(2), 5),
		cache:       cache,
	}
}

// Configured reports whether an API token is set.
func (s *EbayService) Configured() bool {
	return s.token != ""
}

// checkQuota checks if we can make another request today
// Returns true if request can proceed, false if quota exhausted
func (s *EbayService) checkQuota() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.lastRequestDay.Before(today) {
		s.requestsToday = 0
		s.lastRequestDay = today
	}

	if s.requestsToday >= s.dailyLimit {
		return false
	}

	s.requestsToday++
	metrics.EbayQuotaRemaining.Set(float64(s.dailyLimit - s.requestsToday))
	return true
}

// GetRequestsRemaining returns the number of requests remaining today
func (s *EbayService) GetRequestsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if s.lastRequestDay.Before(today) {
		return s.dailyLimit
	}

	remaining := s.dailyLimit - s.requestsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetDailyLimit returns the configured daily quota.
func (s *EbayService) GetDailyLimit() int {
	return s.dailyLimit
}

// Search runs an item summary search against the Browse API.
// Cached results are served for 15 minutes.
func (s *EbayService) Search(ctx context.Context, query string, limit int) (*models.EbaySearchResult, error) {
	if s.token == "" {
		return nil, fmt.Errorf("eBay API token not configured")
	}
	if limit <= 0 {
		limit = ebayDefaultLimit
	}

	cacheKey := fmt.Sprintf("%s|%d", query, limit)
	if entry, ok := s.cache.Get(cacheKey); ok {
		if time.Since(entry.cachedAt) < ebaySearchCacheTTL {
			metrics.EbayCacheHits.Inc()
			return entry.result, nil
		}
		s.cache.Remove(cacheKey)
	}
	metrics.EbayCacheMisses.Inc()

	if !s.checkQuota() {
		return nil, fmt.Errorf("eBay daily quota exceeded")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))

	reqURL := fmt.Sprintf("%s/item_summary/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", s.marketplace)
	req.Header.Set("Accept", "application/json")

	metrics.EbayRequestsTotal.Inc()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search eBay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("eBay API error: status %d: %s", resp.StatusCode, string(body))
	}

	var result models.EbaySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	s.cache.Add(cacheKey, cachedSearch{result: &result, cachedAt: time.Now()})

	return &result, nil
}
