package sync

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mdzubayertalukder/dropship-backend/pkg/db/types"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db/models"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	"github.com/mdzubayertalukder/dropship-backend/pkg/woocommerce"
)

// remoteDateLayout is the timestamp format the store API emits.
const remoteDateLayout = "2006-01-02T15:04:05"

// normalizeProduct maps one wire product onto a cache row. Empty price
// strings become NULL, missing stock falls back to zero quantity, and
// unknown statuses take the feed defaults.
func normalizeProduct(configID uuid.UUID, remote woocommerce.Product, syncedAt time.Time) models.CachedProduct {
	stockStatus, err := enums.ParseStockStatus(remote.StockStatus)
	if err != nil {
		stockStatus = enums.StockStatusInStock
	}
	status, err := enums.ParseProductStatus(remote.Status)
	if err != nil {
		status = enums.ProductStatusPublish
	}

	quantity := 0
	if remote.StockQuantity != nil {
		quantity = *remote.StockQuantity
	}
	if quantity < 0 {
		quantity = 0
	}

	return models.CachedProduct{
		StoreConfigID:     configID,
		ExternalProductID: remote.ID,
		Name:              remote.Name,
		Slug:              remote.Slug,
		Description:       remote.Description,
		ShortDescription:  remote.ShortDescription,
		Price:             parsePrice(remote.Price),
		RegularPrice:      parsePrice(remote.RegularPrice),
		SalePrice:         parsePrice(remote.SalePrice),
		SKU:               remote.SKU,
		StockQuantity:     quantity,
		StockStatus:       stockStatus,
		Categories:        normalizeCategories(remote.Categories),
		Tags:              normalizeTags(remote.Tags),
		Images:            normalizeImages(remote.Images),
		Attributes:        normalizeAttributes(remote.Attributes),
		Status:            status,
		Featured:          remote.Featured,
		ExternalCreatedAt: parseRemoteDate(remote.DateCreated),
		ExternalUpdatedAt: parseRemoteDate(remote.DateModified),
		LastSyncedAt:      syncedAt,
	}
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}

func parseRemoteDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(remoteDateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func normalizeCategories(categories []woocommerce.Category) dbtypes.CategoryList {
	if len(categories) == 0 {
		return nil
	}
	list := make(dbtypes.CategoryList, len(categories))
	for i, c := range categories {
		list[i] = dbtypes.CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}
	return list
}

func normalizeTags(tags []woocommerce.Tag) dbtypes.TagList {
	if len(tags) == 0 {
		return nil
	}
	list := make(dbtypes.TagList, len(tags))
	for i, t := range tags {
		list[i] = dbtypes.TagRef{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}
	return list
}

func normalizeImages(images []woocommerce.Image) dbtypes.ImageList {
	if len(images) == 0 {
		return nil
	}
	list := make(dbtypes.ImageList, len(images))
	for i, img := range images {
		list[i] = dbtypes.ImageRef{ID: img.ID, Src: img.Src, Alt: img.Alt}
	}
	return list
}

func normalizeAttributes(attributes []woocommerce.Attribute) dbtypes.AttributeList {
	if len(attributes) == 0 {
		return nil
	}
	list := make(dbtypes.AttributeList, len(attributes))
	for i, attr := range attributes {
		list[i] = dbtypes.AttributeRef{
			ID:        attr.ID,
			Name:      attr.Name,
			Options:   attr.Options,
			Variation: attr.Variation,
		}
	}
	return list
}
