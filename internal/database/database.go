package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// Connect opens the postgres database and runs migrations.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	logrus.Info("database connected and migrated")
	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Card{},
		&models.Game{},
		&models.Player{},
		&models.PlayerHand{},
		&models.GameTurn{},
		&models.GameSnapshot{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedCardCatalog inserts one row per physical card of the full deck,
// including configured house cards, if the catalog is empty. The catalog
// must cover every card the engine can deal, so seeding uses the maximum
// house-card allowance.
func SeedCardCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Card{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count card catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	rules := engine.DefaultHouseRules()
	rules.NumShuffleHands = engine.MaxHouseCards
	rules.NumCustomizable = engine.MaxHouseCards

	deck := engine.BuildDeck(rules)
	rows := make([]models.Card, len(deck))
	for i, c := range deck {
		color, typ, value := CardToModel(c)
		rows[i] = models.Card{Color: color, Type: typ, Value: value}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("seed card catalog: %w", err)
	}
	logrus.WithField("cards", len(rows)).Info("card catalog seeded")
	return nil
}
