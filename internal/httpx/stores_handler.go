package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing slug"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.Backend.GetStore(ctx, slug)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// searchStores proxies the geospatial store listing. Ranking belongs to the
// backend; this just forwards coordinates from the browser's geolocation.
func (h *Handler) searchStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var lat, lng *float64
	if v, err := strconv.ParseFloat(q.Get("lat"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(q.Get("lng"), 64); err == nil {
		lng = &v
	}
	radius, _ := strconv.ParseFloat(q.Get("radius"), 64)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stores, err := h.Backend.SearchStores(ctx, lat, lng, radius)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) orderStatus(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing ref"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	raw, err := h.Backend.OrderStatus(ctx, ref)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
