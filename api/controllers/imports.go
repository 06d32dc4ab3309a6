package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mdzubayertalukder/dropship-backend/api/responses"
	"github.com/mdzubayertalukder/dropship-backend/api/validators"
	"github.com/mdzubayertalukder/dropship-backend/internal/imports"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	pkgerrors "github.com/mdzubayertalukder/dropship-backend/pkg/errors"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

type importRequest struct {
	CachedProductID uuid.UUID  `json:"cached_product_id" validate:"required"`
	MarkupPercent   float64    `json:"markup_percent" validate:"gte=0"`
	PackageID       *uuid.UUID `json:"package_id,omitempty"`
}

type bulkImportRequest struct {
	CachedProductIDs []uuid.UUID `json:"cached_product_ids" validate:"required,min=1"`
	MarkupPercent    float64     `json:"markup_percent" validate:"gte=0"`
	PackageID        *uuid.UUID  `json:"package_id,omitempty"`
}

type previewRequest struct {
	CachedProductID uuid.UUID `json:"cached_product_id" validate:"required"`
	MarkupPercent   float64   `json:"markup_percent" validate:"gte=0"`
}

func packageIDFromBody(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

// ImportProduct copies one catalog product into the tenant's store.
func ImportProduct(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := userIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload importRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ImportProduct(r.Context(), tenantID, packageIDFromBody(payload.PackageID), &actorID, imports.ImportInput{
			CachedProductID: payload.CachedProductID,
			MarkupPercent:   payload.MarkupPercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// BulkImport copies a batch of catalog products under one markup.
func BulkImport(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actorID, err := userIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkImportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.BulkImport(r.Context(), tenantID, packageIDFromBody(payload.PackageID), &actorID, imports.BulkImportInput{
			CachedProductIDs: payload.CachedProductIDs,
			MarkupPercent:    payload.MarkupPercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ImportPreview computes the resulting prices for a markup without importing.
func ImportPreview(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload previewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		preview, err := svc.PreviewPricing(r.Context(), payload.CachedProductID, payload.MarkupPercent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}

// ImportHistory pages through the tenant's import records.
func ImportHistory(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters imports.HistoryFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseImportStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid import status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("import_type")); raw != "" {
			importType, err := enums.ParseImportType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid import type"))
				return
			}
			filters.ImportType = &importType
		}

		result, err := svc.History(r.Context(), tenantID, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ImportRemove deletes an imported product and frees its import slot.
func ImportRemove(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recordID, err := pathUUID(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), tenantID, recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// ImportUsage reports the tenant's quota consumption against its plan.
func ImportUsage(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := tenantIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		packageID, err := packageIDFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		usage, err := svc.Usage(r.Context(), tenantID, packageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, usage)
	}
}
