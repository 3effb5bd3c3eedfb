package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jpelletier/card-binder/internal/models"
)

// badTitleKeywords flag listings that are sets, lots or boxes rather than
// a single card. A title containing any of these is rejected outright.
var badTitleKeywords = []string{
	"team set",
	"complete set",
	"factory set",
	"base set",
	"master set",
	"lot",
	"card lot",
	"mixed lot",
	"assorted",
	"random",
	"box",
	"case",
	"pick your card",
	"pick from list",
}

// ImageService discovers card images from eBay listing searches and
// records observed listing prices as snapshots along the way.
type ImageService struct {
	ebay *EbayService
	db   *gorm.DB
}

func NewImageService(ebay *EbayService, db *gorm.DB) *ImageService {
	return &ImageService{ebay: ebay, db: db}
}

// looksLikeSingleCard reports whether a listing title plausibly describes a
// single copy of the given card. The player's last name must appear and
// none of the set/lot keywords may.
func looksLikeSingleCard(item models.EbayItemSummary, card models.Card) bool {
	title := strings.ToLower(item.Title)
	if title == "" {
		return false
	}

	if card.PlayerName != "" {
		parts := strings.Fields(card.PlayerName)
		if len(parts) > 0 {
			lastName := strings.ToLower(parts[len(parts)-1])
			if !strings.Contains(title, lastName) {
				return false
			}
		}
	}

	for _, bad := range badTitleKeywords {
		if strings.Contains(title, bad) {
			return false
		}
	}

	return true
}

// itemImageURL returns the best image URL a listing offers, preferring the
// full-size image over thumbnails.
func itemImageURL(item models.EbayItemSummary) string {
	if item.Image != nil && item.Image.ImageURL != "" {
		return item.Image.ImageURL
	}
	if len(item.ThumbnailImages) > 0 {
		return item.ThumbnailImages[0].ImageURL
	}
	return ""
}

// FindImage searches eBay for the card and returns a chosen image URL,
// or "" if nothing suitable is found. Listings that pass the single-card
// filter win; otherwise the first listing with any image is used.
func (s *ImageService) FindImage(ctx context.Context, card models.Card) (string, error) {
	query := models.EbayQuery(card)
	if query == "" {
		return "", fmt.Errorf("card %d: cannot build search query", card.ID)
	}

	result, err := s.ebay.Search(ctx, query, ebayDefaultLimit)
	if err != nil {
		return "", err
	}
	if len(result.ItemSummaries) == 0 {
		return "", nil
	}

	s.recordPriceSnapshot(card.ID, result.ItemSummaries)

	for _, item := range result.ItemSummaries {
		if !looksLikeSingleCard(item, card) {
			continue
		}
		if url := itemImageURL(item); url != "" {
			return url, nil
		}
	}

	// Nothing passed the filter, fall back to the first image we can find
	for _, item := range result.ItemSummaries {
		if url := itemImageURL(item); url != "" {
			return url, nil
		}
	}

	return "", nil
}

// FillCardImage finds and persists an image for a card that lacks one.
// Returns true if the card was updated.
func (s *ImageService) FillCardImage(ctx context.Context, card models.Card) (bool, error) {
	if models.HasImage(card.ImageURL) {
		return false, nil
	}

	imageURL, err := s.FindImage(ctx, card)
	if err != nil {
		return false, err
	}
	if imageURL == "" {
		return false, nil
	}

	result := s.db.Model(&models.Card{}).Where("id = ?", card.ID).Update("image_url", imageURL)
	if result.Error != nil {
		return false, fmt.Errorf("failed to save image for card %d: %w", card.ID, result.Error)
	}

	return true, nil
}

// recordPriceSnapshot summarizes listing prices into a PriceSnapshot row.
// price.value is already in the marketplace currency; eBay converts
// foreign listings before returning them.
func (s *ImageService) recordPriceSnapshot(cardID uint, items []models.EbayItemSummary) {
	var values []float64
	currency := "USD"

	for _, item := range items {
		if item.Price == nil || item.Price.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(item.Price.Value, 64)
		if err != nil || v <= 0 {
			continue
		}
		values = append(values, v)
		if item.Price.Currency != "" {
			currency = item.Price.Currency
		}
	}

	if len(values) == 0 {
		return
	}

	sort.Float64s(values)
	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}

	snapshot := models.PriceSnapshot{
		CardID:      cardID,
		Source:      "ebay",
		MedianPrice: median,
		HighPrice:   values[len(values)-1],
		LowPrice:    values[0],
		Currency:    currency,
		RecordedAt:  time.Now(),
	}

	if err := s.db.Create(&snapshot).Error; err != nil {
		log.Printf("Failed to record price snapshot for card %d: %v", cardID, err)
	}
}
