package metrics

import (
	"log"

	"gorm.io/gorm"
)

// UpdateCollectionMetrics refreshes the collection and catalog gauges from
// the database. Called on startup and after collection mutations.
func UpdateCollectionMetrics(db *gorm.DB) {
	var ownedTotal int64
	if err := db.Table("owned_cards").Select("COALESCE(SUM(quantity), 0)").Scan(&ownedTotal).Error; err != nil {
		log.Printf("Failed to update owned total metric: %v", err)
	} else {
		CollectionOwnedTotal.Set(float64(ownedTotal))
	}

	var wantedTotal int64
	if err := db.Table("wanted_cards").Count(&wantedTotal).Error; err != nil {
		log.Printf("Failed to update wanted total metric: %v", err)
	} else {
		CollectionWantedTotal.Set(float64(wantedTotal))
	}

	var cardCount int64
	if err := db.Table("cards").Count(&cardCount).Error; err != nil {
		log.Printf("Failed to update card database size metric: %v", err)
	} else {
		CardDatabaseSize.Set(float64(cardCount))
	}

	var withImages int64
	if err := db.Table("cards").Where("image_url != ''").Count(&withImages).Error; err != nil {
		log.Printf("Failed to update cards with images metric: %v", err)
	} else {
		CardsWithImages.Set(float64(withImages))
	}

	type sportRow struct {
		Sport string
		Total int64
	}
	var bySport []sportRow
	err := db.Table("owned_cards").
		Select("cards.sport AS sport, COALESCE(SUM(owned_cards.quantity), 0) AS total").
		Joins("JOIN cards ON cards.id = owned_cards.card_id").
		Group("cards.sport").
		Scan(&bySport).Error
	if err != nil {
		log.Printf("Failed to update owned by sport metric: %v", err)
		return
	}
	for _, row := range bySport {
		sport := row.Sport
		if sport == "" {
			sport = "unknown"
		}
		CollectionOwnedBySport.WithLabelValues(sport).Set(float64(row.Total))
	}
}
