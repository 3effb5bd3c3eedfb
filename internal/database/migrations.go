package database

import (
	"log"

	"gorm.io/gorm"
)

// cleanupDuplicateOwnedCards merges owned_cards rows that reference the same
// (owner_id, card_id) pair into one row with the summed quantity. Older
// clients inserted a new row per copy instead of bumping quantity.
// This runs BEFORE AutoMigrate to prevent constraint violations.
func cleanupDuplicateOwnedCards(db *gorm.DB) error {
	if !db.Migrator().HasTable("owned_cards") {
		return nil // No table, no duplicates to merge
	}

	// Normalize NULL/zero quantities from the row-per-copy era to 1
	result := db.Exec(`UPDATE owned_cards SET quantity = 1 WHERE quantity IS NULL OR quantity = 0`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize owned_cards quantities: %v", result.Error)
	}

	// Fold the summed quantity into the newest row for each pair
	result = db.Exec(`
		UPDATE owned_cards
		SET quantity = (
			SELECT SUM(quantity)
			FROM owned_cards AS dup
			WHERE dup.owner_id = owned_cards.owner_id
			  AND dup.card_id = owned_cards.card_id
		)
		WHERE id IN (
			SELECT MAX(id)
			FROM owned_cards
			GROUP BY owner_id, card_id
			HAVING COUNT(*) > 1
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	// Drop the rows the quantities were folded out of
	result = db.Exec(`
		DELETE FROM owned_cards
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM owned_cards
			GROUP BY owner_id, card_id
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Merged %d duplicate owned_cards entries", result.RowsAffected)
	}

	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := normalizeImagePlaceholders(db); err != nil {
		return err
	}
	if err := purgeEmptyOwnedCards(db); err != nil {
		return err
	}
	return nil
}

// normalizeImagePlaceholders clears the 'null'/'none' placeholder strings the
// original scraper wrote into image_url so the image worker retries them.
func normalizeImagePlaceholders(db *gorm.DB) error {
	if !db.Migrator().HasColumn("cards", "image_url") {
		return nil
	}

	result := db.Exec(`
		UPDATE cards
		SET image_url = ''
		WHERE LOWER(TRIM(image_url)) IN ('null', 'none')
	`)
	if result.Error != nil {
		log.Printf("Warning: failed to normalize image placeholders: %v", result.Error)
		return nil
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleared %d placeholder image URLs", result.RowsAffected)
	}
	return nil
}

// purgeEmptyOwnedCards removes rows whose quantity was decremented to zero or
// below before deletes became transactional.
func purgeEmptyOwnedCards(db *gorm.DB) error {
	if !db.Migrator().HasTable("owned_cards") {
		return nil
	}

	result := db.Exec(`DELETE FROM owned_cards WHERE quantity <= 0`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Purged %d empty owned_cards rows", result.RowsAffected)
	}
	return nil
}
