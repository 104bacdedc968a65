package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeville/buyer-gateway/internal/cart"
	"github.com/storeville/buyer-gateway/internal/catalog"
)

type addItemReq struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	Lines     []cart.Line `json:"lines"`
	Subtotal  string      `json:"subtotal"`
	ItemCount int         `json:"item_count"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func viewOf(cs *cart.Store) cartView {
	lines := cs.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		Lines:     lines,
		Subtotal:  cs.Subtotal().StringFixed(2),
		ItemCount: cs.ItemCount(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewOf(sessionFrom(r).Cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Product.ID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing product"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	sess := sessionFrom(r)
	sess.Cart.AddItem(req.Product, req.Quantity)
	writeJSON(w, http.StatusOK, viewOf(sess.Cart))
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	var req updateQtyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	sess := sessionFrom(r)
	sess.Cart.UpdateQuantity(productID, req.Quantity)
	writeJSON(w, http.StatusOK, viewOf(sess.Cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}
	sess := sessionFrom(r)
	sess.Cart.RemoveItem(productID)
	writeJSON(w, http.StatusOK, viewOf(sess.Cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Cart.Clear()
	writeJSON(w, http.StatusOK, viewOf(sess.Cart))
}
