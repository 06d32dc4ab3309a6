package controllers

import (
	"net/http"
	"strings"

	"github.com/mdzubayertalukder/dropship-backend/api/responses"
	"github.com/mdzubayertalukder/dropship-backend/api/validators"
	"github.com/mdzubayertalukder/dropship-backend/internal/catalog"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

// CatalogProducts lists importable products from active supplier stores.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ProductFilters{
			Query:    validators.SanitizeString(r.URL.Query().Get("search"), 190),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), 190),
		}
		if filters.StoreConfigID, err = validators.ParseQueryUUID(r, "store_config_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.PriceMin, err = validators.ParseQueryFloat(r, "price_min"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.PriceMax, err = validators.ParseQueryFloat(r, "price_max"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("stock_status")); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock status"))
				return
			}
			filters.StockStatus = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
			featured := raw == "true" || raw == "1"
			filters.Featured = &featured
		}

		result, err := svc.ListProducts(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CatalogStores lists active supplier stores without exposing credentials.
func CatalogStores(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := svc.ListStores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": stores})
	}
}
