package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tradebridge/legalai/internal/assistant"
	"github.com/tradebridge/legalai/internal/legalchat"
	"github.com/tradebridge/legalai/internal/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// Migrate creates or updates every table the service owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&legalchat.Session{},
		&legalchat.Message{},
		&legalchat.ContextFact{},
		&legalchat.Job{},
		&assistant.Settings{},
	)
}
