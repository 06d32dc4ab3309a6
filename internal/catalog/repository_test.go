package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	dbtypes "github.com/mdzubayertalukder/dropship-backend/pkg/db/types"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	"github.com/mdzubayertalukder/dropship-backend/pkg/pagination"
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

func mustCreateStore(t *testing.T, tx *gorm.DB, active bool) *models.StoreConfig {
	t.Helper()
	config := &models.StoreConfig{
		Name:      fmt.Sprintf("store-%s", uuid.NewString()),
		BaseURL:   "https://supplier.example.com",
		APIKey:    "ck",
		APISecret: "cs",
		IsActive:  active,
	}
	if err := tx.Create(config).Error; err != nil {
		t.Fatalf("create store config: %v", err)
	}
	return config
}

type cachedOpt func(*models.CachedProduct)

func withPrice(price float64) cachedOpt {
	return func(p *models.CachedProduct) { p.Price = &price }
}

func withCategory(name string) cachedOpt {
	return func(p *models.CachedProduct) {
		p.Categories = dbtypes.CategoryList{{Name: name}}
	}
}

func withStatus(status enums.ProductStatus) cachedOpt {
	return func(p *models.CachedProduct) { p.Status = status }
}

func withStock(status enums.StockStatus) cachedOpt {
	return func(p *models.CachedProduct) { p.StockStatus = status }
}

var externalSeq int64

func mustCreateCached(t *testing.T, tx *gorm.DB, configID uuid.UUID, name, sku string, opts ...cachedOpt) *models.CachedProduct {
	t.Helper()
	externalSeq++
	product := &models.CachedProduct{
		StoreConfigID:     configID,
		ExternalProductID: externalSeq,
		Name:              name,
		Slug:              fmt.Sprintf("slug-%d", externalSeq),
		SKU:               sku,
		Status:            enums.ProductStatusPublish,
		StockStatus:       enums.StockStatusInStock,
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

func TestListProductsFiltersByStore(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	storeA := mustCreateStore(t, conn, true)
	storeB := mustCreateStore(t, conn, true)
	mustCreateCached(t, conn, storeA.ID, "A Widget", "A-1")
	mustCreateCached(t, conn, storeB.ID, "B Widget", "B-1")

	products, total, err := repo.ListProducts(ctx, ProductFilters{StoreConfigID: &storeA.ID}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected 1 product, got total=%d len=%d", total, len(products))
	}
	if products[0].StoreConfigID != storeA.ID {
		t.Fatal("wrong store in results")
	}
}

func TestListProductsHidesInactiveStoresAndDrafts(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	active := mustCreateStore(t, conn, true)
	inactive := mustCreateStore(t, conn, false)
	visible := mustCreateCached(t, conn, active.ID, "Visible", "V-1")
	mustCreateCached(t, conn, active.ID, "Draft", "D-1", withStatus(enums.ProductStatusDraft))
	mustCreateCached(t, conn, inactive.ID, "Hidden", "H-1")

	products, total, err := repo.ListProducts(ctx, ProductFilters{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 visible product, got %d", total)
	}
	if products[0].ID != visible.ID {
		t.Fatal("unexpected product in results")
	}

	if _, err := repo.FindProduct(ctx, visible.ID); err != nil {
		t.Fatalf("find visible: %v", err)
	}
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	store := mustCreateStore(t, conn, true)
	mustCreateCached(t, conn, store.ID, "Red Widget", "RW-100")
	mustCreateCached(t, conn, store.ID, "Blue Gadget", "BG-200")

	_, total, err := repo.ListProducts(ctx, ProductFilters{Query: "WIDGET"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected name match, got %d", total)
	}

	_, total, err = repo.ListProducts(ctx, ProductFilters{Query: "bg-2"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected sku match, got %d", total)
	}
}

func TestListProductsFiltersByCategoryAndPrice(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	store := mustCreateStore(t, conn, true)
	mustCreateCached(t, conn, store.ID, "Cheap Gadget", "C-1", withCategory("Gadgets"), withPrice(5))
	mustCreateCached(t, conn, store.ID, "Pricey Gadget", "P-1", withCategory("Gadgets"), withPrice(50))
	mustCreateCached(t, conn, store.ID, "Tool", "T-1", withCategory("Tools"), withPrice(20))

	_, total, err := repo.ListProducts(ctx, ProductFilters{Category: "Gadgets"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 gadgets, got %d", total)
	}

	min := 10.0
	max := 30.0
	_, total, err = repo.ListProducts(ctx, ProductFilters{PriceMin: &min, PriceMax: &max}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 product in price band, got %d", total)
	}
}

func TestListProductsFiltersByStockStatus(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	store := mustCreateStore(t, conn, true)
	mustCreateCached(t, conn, store.ID, "In", "I-1")
	mustCreateCached(t, conn, store.ID, "Out", "O-1", withStock(enums.StockStatusOutOfStock))

	status := enums.StockStatusOutOfStock
	products, total, err := repo.ListProducts(ctx, ProductFilters{StockStatus: &status}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || products[0].Name != "Out" {
		t.Fatalf("unexpected stock filter result total=%d", total)
	}
}

func TestListActiveStores(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	mustCreateStore(t, conn, true)
	mustCreateStore(t, conn, false)

	stores, err := repo.ListActiveStores(context.Background())
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(stores) != 1 {
		t.Fatalf("expected 1 active store, got %d", len(stores))
	}
}
