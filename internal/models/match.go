package models

import (
	"strings"
)

// CardKey identifies a catalog card either by its primary key or, when no
// shared id is available, by the descriptive composite (year, brand,
// set name, card number). Cards reached through different endpoints do
// not always carry a comparable id, so every place that matches two card
// references goes through this one equality.
type CardKey struct {
	ID         uint
	Year       int
	Brand      string
	SetName    string
	CardNumber string
}

func KeyForCard(c Card) CardKey {
	return CardKey{
		ID:         c.ID,
		Year:       c.Year,
		Brand:      c.Brand,
		SetName:    c.SetName,
		CardNumber: string(c.CardNumber),
	}
}

// Matches reports whether two keys refer to the same logical card.
// An id match wins outright; otherwise the composite fields must agree,
// with set names compared trimmed and card numbers as strings.
func (k CardKey) Matches(other CardKey) bool {
	if k.ID != 0 && other.ID != 0 && k.ID == other.ID {
		return true
	}
	return k.Year == other.Year &&
		k.Brand == other.Brand &&
		strings.TrimSpace(k.SetName) == strings.TrimSpace(other.SetName) &&
		k.CardNumber == other.CardNumber
}

// FindOwned returns the owned record whose embedded card matches the given
// catalog card, preferring an id match and falling back to the composite
// key. Returns nil when the card is not owned.
func FindOwned(card Card, owned []OwnedCard) *OwnedCard {
	if card.ID != 0 {
		for i := range owned {
			if owned[i].Card.ID == card.ID {
				return &owned[i]
			}
		}
	}

	key := KeyForCard(card)
	key.ID = 0
	for i := range owned {
		ownedKey := KeyForCard(owned[i].Card)
		ownedKey.ID = 0
		if key.Matches(ownedKey) {
			return &owned[i]
		}
	}
	return nil
}

// FindWanted is FindOwned for wantlist records.
func FindWanted(card Card, wanted []WantedCard) *WantedCard {
	if card.ID != 0 {
		for i := range wanted {
			if wanted[i].Card.ID == card.ID {
				return &wanted[i]
			}
		}
	}

	key := KeyForCard(card)
	key.ID = 0
	for i := range wanted {
		wantedKey := KeyForCard(wanted[i].Card)
		wantedKey.ID = 0
		if key.Matches(wantedKey) {
			return &wanted[i]
		}
	}
	return nil
}

// OwnedInSet filters owned records down to those whose embedded card
// belongs to the set, matched on (year, brand, trimmed set name).
func OwnedInSet(set Set, owned []OwnedCard) []OwnedCard {
	setName := strings.TrimSpace(set.SetName)

	var matched []OwnedCard
	for _, o := range owned {
		if o.Card.Year == set.Year &&
			o.Card.Brand == set.Brand &&
			strings.TrimSpace(o.Card.SetName) == setName {
			matched = append(matched, o)
		}
	}
	return matched
}

// CollectedCount is the number of distinct card numbers from the set that
// appear among the owned records. Owning five copies of #1 still counts
// as one collected card.
func CollectedCount(set Set, owned []OwnedCard) int {
	numbers := make(map[string]struct{})
	for _, o := range OwnedInSet(set, owned) {
		numbers[string(o.Card.CardNumber)] = struct{}{}
	}
	return len(numbers)
}
