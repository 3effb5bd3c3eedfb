package database

import (
	"log"

	"github.com/jpelletier/card-binder/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Initialize(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")

	// Clean up legacy rows before AutoMigrate adds constraints
	if err := cleanupDuplicateOwnedCards(DB); err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Card{},
		&models.Set{},
		&models.OwnedCard{},
		&models.WantedCard{},
		&models.PriceSnapshot{},
	)
	if err != nil {
		return err
	}

	if err := RunMigrations(DB); err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
