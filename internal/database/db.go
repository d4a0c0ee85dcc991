package database

import (
	"gelato-backend/internal/config"
	"gelato-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Connessione al database fallita: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeComponent{},
		&models.RecipeComputation{},
		&models.InventoryLot{},
		&models.Movement{},
	)
	if err != nil {
		logrus.Fatalf("Errore AutoMigrate: %v", err)
	}

	logrus.Info("Connessione al database riuscita, migration completata")
}
