package controllers

import (
	"net/http"

	"github.com/jaummdev/nexa-ecommerce-backend/api/responses"
	"github.com/jaummdev/nexa-ecommerce-backend/api/validators"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/catalog"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

func BannerList(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("banner"))
			return
		}
		banners, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"banners": banners})
	}
}

func BannerCreate(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("banner"))
			return
		}
		var body catalog.CreateBannerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		banner, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Banner created successfully", "banner", banner)
	}
}

func BannerUpdate(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("banner"))
			return
		}
		id, err := validators.URLParamInt(r, "id", "Banner not found to update")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body catalog.UpdateBannerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		banner, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Banner updated successfully", "updatedBanner", banner)
	}
}

func BannerDelete(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("banner"))
			return
		}
		id, err := validators.URLParamInt(r, "id", "Banner not found to delete")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Banner deleted successfully", "", nil)
	}
}
