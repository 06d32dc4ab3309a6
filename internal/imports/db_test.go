package imports

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	dbtypes "github.com/mdzubayertalukder/dropship-backend/pkg/db/types"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
)

var externalSeq int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.StoreConfig{},
		&models.CachedProduct{},
		&models.ImportRecord{},
		&models.PlanLimit{},
		&models.Product{},
		&models.ProductCategory{},
		&models.ProductCategoryLink{},
		&models.ProductTag{},
		&models.ProductTagLink{},
		&models.ProductImage{},
		&models.ProductAttribute{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestConfig(t *testing.T, tx *gorm.DB, active bool) *models.StoreConfig {
	t.Helper()
	config := &models.StoreConfig{
		Name:      fmt.Sprintf("store-%s", uuid.NewString()),
		BaseURL:   "https://supplier.example.com",
		APIKey:    "ck_test",
		APISecret: "cs_test",
		IsActive:  active,
	}
	if err := tx.Create(config).Error; err != nil {
		t.Fatalf("create store config: %v", err)
	}
	return config
}

type cachedOpt func(*models.CachedProduct)

func withSKU(sku string) cachedOpt {
	return func(p *models.CachedProduct) { p.SKU = sku }
}

func withPrices(regular float64, sale *float64) cachedOpt {
	return func(p *models.CachedProduct) {
		p.RegularPrice = &regular
		p.Price = &regular
		p.SalePrice = sale
	}
}

func withNoPrice() cachedOpt {
	return func(p *models.CachedProduct) {
		p.Price = nil
		p.RegularPrice = nil
		p.SalePrice = nil
	}
}

func withCategories(names ...string) cachedOpt {
	return func(p *models.CachedProduct) {
		p.Categories = nil
		for _, name := range names {
			p.Categories = append(p.Categories, dbtypes.CategoryRef{Name: name})
		}
	}
}

func withTags(names ...string) cachedOpt {
	return func(p *models.CachedProduct) {
		p.Tags = nil
		for _, name := range names {
			p.Tags = append(p.Tags, dbtypes.TagRef{Name: name})
		}
	}
}

func withImages(urls ...string) cachedOpt {
	return func(p *models.CachedProduct) {
		p.Images = nil
		for _, url := range urls {
			p.Images = append(p.Images, dbtypes.ImageRef{Src: url})
		}
	}
}

func withAttribute(name string, options ...string) cachedOpt {
	return func(p *models.CachedProduct) {
		p.Attributes = append(p.Attributes, dbtypes.AttributeRef{Name: name, Options: options})
	}
}

func mustCreateCachedProduct(t *testing.T, tx *gorm.DB, configID uuid.UUID, name string, opts ...cachedOpt) *models.CachedProduct {
	t.Helper()
	externalSeq++
	price := 10.0
	product := &models.CachedProduct{
		StoreConfigID:     configID,
		ExternalProductID: externalSeq,
		Name:              name,
		Slug:              "",
		Price:             &price,
		RegularPrice:      &price,
		SKU:               fmt.Sprintf("SKU-%d", externalSeq),
		StockQuantity:     5,
		StockStatus:       enums.StockStatusInStock,
		Status:            enums.ProductStatusPublish,
		LastSyncedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create cached product: %v", err)
	}
	return product
}
