package controllers

import (
	"net/http"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/api/middleware"
	"github.com/agrilinkmw/agrilink-backend/api/responses"
	"github.com/agrilinkmw/agrilink-backend/api/validators"
	cropssvc "github.com/agrilinkmw/agrilink-backend/internal/crops"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
)

// CreateCrop handles listing creation by farmers.
func CreateCrop(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		farmerID := middleware.UserIDFromContext(r.Context())
		if farmerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload cropssvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Create(r.Context(), farmerID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, crop)
	}
}

// BrowseCrops returns the public crop listing with optional filters.
func BrowseCrops(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		filters := cropssvc.Filters{
			CropName: strings.TrimSpace(r.URL.Query().Get("crop_name")),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
		}

		page, err := svc.Browse(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetCrop returns a single listing.
func GetCrop(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		id, err := validators.ParsePathID(r, "cropID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crop)
	}
}

// ListOwnCrops returns the calling farmer's listings.
func ListOwnCrops(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		farmerID := middleware.UserIDFromContext(r.Context())
		if farmerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		crops, err := svc.ListOwn(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crops)
	}
}

// UpdateCrop handles owner-only listing edits.
func UpdateCrop(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		farmerID := middleware.UserIDFromContext(r.Context())
		if farmerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := validators.ParsePathID(r, "cropID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cropssvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crop, err := svc.Update(r.Context(), farmerID, id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, crop)
	}
}

// DeleteCrop handles owner-only listing deletion.
func DeleteCrop(svc cropssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crops service unavailable"))
			return
		}

		farmerID := middleware.UserIDFromContext(r.Context())
		if farmerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		id, err := validators.ParsePathID(r, "cropID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), farmerID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
