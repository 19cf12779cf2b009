package database

import (
	"fmt"
	"log"
	"os"

	"reluctant-seller-api/internal/domain/documents"
	"reluctant-seller-api/internal/domain/subscriptions"
	"reluctant-seller-api/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the store folds into "already applied".
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&users.User{},
		&subscriptions.Subscription{},
		&subscriptions.WebhookEvent{},
		&documents.Document{},
		&documents.AccessLog{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}
