// Package metrics provides Prometheus metrics for the card binder service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "binder_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Image Worker Metrics
	ImageFillsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "binder_image_fills_total",
			Help: "Total number of card images discovered and stored",
		},
	)

	ImageFillFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "binder_image_fill_failures_total",
			Help: "Total number of image lookups that found no usable listing",
		},
	)

	ImageQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_image_queue_size",
			Help: "Number of cards waiting in the image backfill queue",
		},
	)

	ImageBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "binder_image_batch_duration_seconds",
			Help:    "Time taken to process an image backfill batch",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// eBay API Metrics
	EbayRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "binder_ebay_requests_total",
			Help: "Total number of eBay Browse API requests made",
		},
	)

	EbayQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_ebay_quota_remaining",
			Help: "Remaining eBay Browse API requests for today",
		},
	)

	EbayQuotaLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_ebay_quota_limit",
			Help: "Daily eBay Browse API request limit",
		},
	)

	EbayCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "binder_ebay_cache_hits_total",
			Help: "eBay search cache hit count",
		},
	)

	EbayCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "binder_ebay_cache_misses_total",
			Help: "eBay search cache miss count",
		},
	)

	// Collection Metrics
	CollectionOwnedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_collection_owned_total",
			Help: "Total number of owned card copies across all users",
		},
	)

	CollectionWantedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_collection_wanted_total",
			Help: "Total number of wanted cards across all users",
		},
	)

	CollectionOwnedBySport = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "binder_collection_owned_by_sport",
			Help: "Number of owned card copies by sport",
		},
		[]string{"sport"},
	)

	// Catalog Metrics
	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_card_database_size",
			Help: "Number of unique cards in the catalog",
		},
	)

	CardsWithImages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "binder_cards_with_images",
			Help: "Number of catalog cards that have an image URL",
		},
	)
)
