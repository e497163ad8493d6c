package database

import (
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/config"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"go.uber.org/zap"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}

	logger.Log.Info("Database connected successfully")
}

// Migrate creates or updates every table the service owns.
func Migrate() {
	if err := AutoMigrate(DB); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}

	logger.Log.Info("Database migration completed")
}

// AutoMigrate is shared with the test database setup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RatingEntry{},
		&models.SwapRequest{},
		&models.Broadcast{},
	)
}
