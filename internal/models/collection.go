package models

import (
	"time"
)

// OwnedCard is a user's claim to own Quantity copies of a catalog card.
// One row per user per distinct card; quantity never persists at zero,
// removing the last copy deletes the row instead.
type OwnedCard struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	CardID    uint      `json:"card_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Card      Card      `json:"card" gorm:"foreignKey:CardID"`
	CreatedAt time.Time `json:"created_at"`
}

// WantedCard is a user's expressed interest in acquiring a catalog card.
type WantedCard struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CardID    uint      `json:"card_id" gorm:"not null;index"`
	Notes     string    `json:"notes"`
	Card      Card      `json:"card" gorm:"foreignKey:CardID"`
	CreatedAt time.Time `json:"created_at"`
}

// PriceSnapshot records observed marketplace prices for a card at a point
// in time, summarized from eBay listings during image discovery.
type PriceSnapshot struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID      uint      `json:"card_id" gorm:"not null;index"`
	Source      string    `json:"source" gorm:"not null;default:'ebay'"`
	MedianPrice float64   `json:"median_price" gorm:"not null"`
	HighPrice   float64   `json:"high_price"`
	LowPrice    float64   `json:"low_price"`
	Currency    string    `json:"currency" gorm:"not null;default:'USD'"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type AddOwnedRequest struct {
	CardID   uint `json:"card_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

type AddWantedRequest struct {
	CardID uint    `json:"card_id" binding:"required"`
	Notes  *string `json:"notes"`
}

// DeleteOwnedResponse is the result of removing copies of an owned card:
// either the record survived with a reduced quantity, or it was deleted.
type DeleteOwnedResponse struct {
	Deleted bool       `json:"deleted,omitempty"`
	Owned   *OwnedCard `json:"owned,omitempty"`
}
