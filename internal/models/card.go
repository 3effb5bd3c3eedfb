package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexString is a string that also accepts a JSON number when decoding.
// Card numbers come back from different endpoints as either "5" or 5.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("card_number must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	if fl, err := n.Float64(); err == nil && fl == math.Trunc(fl) {
		*f = FlexString(strconv.FormatInt(int64(fl), 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Card is a catalog row describing one specific trading card.
// Identity is ID; (sport, year, brand, set_name, card_number) is assumed
// unique and used as the fallback join key when IDs are not comparable.
type Card struct {
	ID         uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Sport      string     `json:"sport" gorm:"index"`
	Year       int        `json:"year" gorm:"not null;index"`
	Brand      string     `json:"brand" gorm:"not null"`
	SetName    string     `json:"set_name" gorm:"not null"`
	CardNumber FlexString `json:"card_number" gorm:"not null"`
	PlayerName string     `json:"player_name" gorm:"not null;index"`
	Team       string     `json:"team"`
	ImageURL   string     `json:"image_url"`
}

// Set is a named grouping of catalog cards sharing year/brand/set name.
type Set struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Sport   string `json:"sport" gorm:"index"`
	Year    int    `json:"year" gorm:"not null;index"`
	Brand   string `json:"brand" gorm:"not null"`
	SetName string `json:"set_name" gorm:"not null"`

	// Populated from the cards table when listing, never stored.
	TotalCards int `json:"total_cards" gorm:"-"`
}

// HasImage reports whether an image_url value actually points at an image.
// The scraper left "null"/"none" placeholders in older rows.
func HasImage(imageURL string) bool {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	return lower != "null" && lower != "none"
}

// EbayQuery builds the marketplace search string for a card. The field
// order is a contract: search relevance depends on year/brand/set
// appearing before the player name. Empty fields are skipped.
func EbayQuery(card Card) string {
	var parts []string

	if card.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", card.Year))
	}
	if card.Brand != "" {
		parts = append(parts, card.Brand)
	}
	if card.SetName != "" {
		parts = append(parts, card.SetName)
	}
	if card.PlayerName != "" {
		parts = append(parts, card.PlayerName)
	}
	if card.CardNumber != "" {
		parts = append(parts, "#"+string(card.CardNumber))
	}
	if card.Team != "" {
		parts = append(parts, card.Team)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
