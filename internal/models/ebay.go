package models

// Wire types for the eBay Browse item_summary search, shared between the
// proxy handler and the Go client.

type EbayPrice struct {
	Value                 string `json:"value"`
	Currency              string `json:"currency"`
	ConvertedFromValue    string `json:"convertedFromValue,omitempty"`
	ConvertedFromCurrency string `json:"convertedFromCurrency,omitempty"`
}

type EbayImage struct {
	ImageURL string `json:"imageUrl"`
}

type EbayItemSummary struct {
	ItemID          string      `json:"itemId"`
	Title           string      `json:"title"`
	ItemWebURL      string      `json:"itemWebUrl"`
	Price           *EbayPrice  `json:"price,omitempty"`
	Image           *EbayImage  `json:"image,omitempty"`
	ThumbnailImages []EbayImage `json:"thumbnailImages,omitempty"`
}

type EbaySearchResult struct {
	Href          string            `json:"href"`
	Total         int               `json:"total"`
	Limit         int               `json:"limit"`
	Offset        int               `json:"offset"`
	ItemSummaries []EbayItemSummary `json:"itemSummaries,omitempty"`
}
