package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/storeville/buyer-gateway/internal/checkout"
)

type checkoutReq struct {
	StoreSlug string `json:"store_slug"`
	checkout.Draft
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.StoreSlug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing store_slug"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// payment gating butuh profil toko (methods + accounts)
	profile, err := h.Backend.GetStore(ctx, req.StoreSlug)
	if err != nil {
		writeBackendErr(w, err)
		return
	}

	sess := sessionFrom(r)
	res, err := sess.Checkout.PlaceOrder(ctx, sess.Cart, sess.Auth, req.Draft, profile)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.Is(err, checkout.ErrLoginRequired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
		case errors.Is(err, checkout.ErrInFlight):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Reason})
		default:
			writeBackendErr(w, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
