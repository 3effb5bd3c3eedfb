// import-cards seeds the card catalog from scraped set files.
//
// Usage: go run main.go -db=<path> -data=<dir> [-dry-run]
//
// Each .json file in the data dir holds one set: an array of card objects
// with sport, year, brand, set_name, card_number, player_name, team and
// image_url. The tool auto-creates set rows, skips cards that already
// exist, and can be re-run safely.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/models"
)

// scrapedCard is one entry of a scraped set file. Year and card_number
// vary between number and string across scraper versions.
type scrapedCard struct {
	Sport      string            `json:"sport"`
	Year       models.FlexString `json:"year"`
	Brand      string            `json:"brand"`
	SetName    string            `json:"set_name"`
	CardNumber models.FlexString `json:"card_number"`
	PlayerName string            `json:"player_name"`
	Team       string            `json:"team"`
	ImageURL   string            `json:"image_url"`
}

func main() {
	dbPath := flag.String("db", "./card_binder.db", "Path to the SQLite database")
	dataDir := flag.String("data", "./data", "Directory of scraped set .json files")
	dryRun := flag.Bool("dry-run", false, "Report what would be imported without writing")
	flag.Parse()

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	files, err := filepath.Glob(filepath.Join(*dataDir, "*.json"))
	if err != nil {
		log.Fatalf("Failed to list data dir: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No .json files found in %s", *dataDir)
	}

	totalCreated := 0
	totalSkipped := 0

	for _, file := range files {
		created, skipped, err := importSetFile(db, file, *dryRun)
		if err != nil {
			log.Printf("ERROR: %s: %v", filepath.Base(file), err)
			continue
		}
		log.Printf("%s: imported %d cards, skipped %d duplicates", filepath.Base(file), created, skipped)
		totalCreated += created
		totalSkipped += skipped
	}

	verb := "Imported"
	if *dryRun {
		verb = "Would import"
	}
	log.Printf("%s %d cards total (%d duplicates skipped) from %d files", verb, totalCreated, totalSkipped, len(files))
}

func importSetFile(db *gorm.DB, path string, dryRun bool) (created, skipped int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	var cards []scrapedCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return 0, 0, fmt.Errorf("failed to parse: %w", err)
	}

	for _, sc := range cards {
		year, err := parseYear(string(sc.Year))
		if err != nil {
			return created, skipped, fmt.Errorf("card %q: %w", sc.PlayerName, err)
		}
		if sc.Brand == "" || sc.SetName == "" {
			return created, skipped, fmt.Errorf("card %q: brand and set_name are required", sc.PlayerName)
		}

		if !dryRun {
			if err := ensureSet(db, sc.Sport, year, sc.Brand, sc.SetName); err != nil {
				return created, skipped, err
			}
		}

		var count int64
		db.Model(&models.Card{}).
			Where("sport = ? AND year = ? AND brand = ? AND set_name = ? AND card_number = ?",
				sc.Sport, year, sc.Brand, sc.SetName, string(sc.CardNumber)).
			Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		if !dryRun {
			card := models.Card{
				Sport:      sc.Sport,
				Year:       year,
				Brand:      sc.Brand,
				SetName:    sc.SetName,
				CardNumber: sc.CardNumber,
				PlayerName: sc.PlayerName,
				Team:       sc.Team,
				ImageURL:   normalizeImageURL(sc.ImageURL),
			}
			if err := db.Create(&card).Error; err != nil {
				return created, skipped, err
			}
		}
		created++
	}

	return created, skipped, nil
}

// parseYear accepts "2024" and season spans like "2024-25", keeping the
// opening year.
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexByte(raw, '-'); idx > 0 {
		raw = raw[:idx]
	}

	var year int
	if _, err := fmt.Sscanf(raw, "%d", &year); err != nil || year < 1800 || year > 2200 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

// normalizeImageURL drops the scraper's 'null'/'none' placeholders so the
// image worker treats the card as missing an image.
func normalizeImageURL(raw string) string {
	if !models.HasImage(raw) {
		return ""
	}
	return strings.TrimSpace(raw)
}

func ensureSet(db *gorm.DB, sport string, year int, brand, setName string) error {
	var count int64
	db.Model(&models.Set{}).
		Where("year = ? AND brand = ? AND set_name = ?", year, brand, setName).
		Count(&count)
	if count > 0 {
		return nil
	}

	return db.Create(&models.Set{
		Sport:   sport,
		Year:    year,
		Brand:   brand,
		SetName: setName,
	}).Error
}
