package storeconfig

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StoreConfig{}, &models.CachedProduct{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestConfig(t *testing.T, tx *gorm.DB) *models.StoreConfig {
	t.Helper()
	config := &models.StoreConfig{
		Name:      fmt.Sprintf("store-%s", uuid.NewString()),
		BaseURL:   "https://supplier.example.com",
		APIKey:    "ck_test",
		APISecret: "cs_test",
		IsActive:  true,
	}
	if err := tx.Create(config).Error; err != nil {
		t.Fatalf("create store config: %v", err)
	}
	return config
}
