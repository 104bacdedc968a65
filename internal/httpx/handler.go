package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storeville/buyer-gateway/internal/backend"
	"github.com/storeville/buyer-gateway/internal/session"
)

// Handler wires the buyer-facing routes. All state lives in the session
// registry; the backend client is shared and stateless.
type Handler struct {
	Sessions *session.Registry
	Backend  *backend.Client
}

func (h *Handler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(WithSession(h.Sessions))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addItem)
			r.Patch("/items/{productID}", h.updateQuantity)
			r.Delete("/items/{productID}", h.removeItem)
		})

		r.Post("/users/register", h.register)
		r.Post("/users/login", h.login)
		r.Post("/users/logout", h.logout)

		r.Post("/checkout", h.placeOrder)
	})

	r.Get("/stores", h.searchStores)
	r.Get("/stores/{slug}", h.getStore)
	r.Get("/orders/status", h.orderStatus)
}

// writeBackendErr maps client errors onto the gateway response. Transport
// failures deliberately collapse into one retryable message.
func writeBackendErr(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "network error, try again"})
	}
}
