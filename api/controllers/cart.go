package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jaummdev/nexa-ecommerce-backend/api/responses"
	"github.com/jaummdev/nexa-ecommerce-backend/api/validators"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/cart"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/checkout"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

type cartItemsRequest struct {
	Items []checkout.ItemRequest `json:"items"`
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("cart"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart, err := svc.Get(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"cart": userCart})
	}
}

// CartSet replaces the cart contents, creating the cart on first use.
func CartSet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("cart"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body cartItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart, created, err := svc.SetItems(r.Context(), identity, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg := "Cart updated successfully"
		if created {
			msg = "Cart created successfully"
		}
		responses.WriteMessage(w, http.StatusCreated, msg, "cart", userCart)
	}
}

// CartReplace replaces the contents of an existing cart.
func CartReplace(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("cart"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body cartItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart, err := svc.ReplaceItems(r.Context(), identity, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Cart updated successfully", "cart", userCart)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("cart"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.URLParamUUID(r, "productId", cart.MsgItemNotInCart)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userCart, err := svc.RemoveItem(r.Context(), identity, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Item removed from cart successfully", "cart", userCart)
	}
}

// CartDelete deletes the caller's cart; the id path parameter is optional.
func CartDelete(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("cart"))
			return
		}
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var cartID *uuid.UUID
		if chi.URLParam(r, "id") != "" {
			id, err := validators.URLParamUUID(r, "id", cart.MsgCartNotFound)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			cartID = &id
		}
		if err := svc.Delete(r.Context(), identity, cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Cart deleted successfully", "", nil)
	}
}
