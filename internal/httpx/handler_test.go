package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeville/buyer-gateway/internal/backend"
	"github.com/storeville/buyer-gateway/internal/session"
	"github.com/storeville/buyer-gateway/internal/snapshot"
)

// fakeStoreville stands in for the external backend API.
type fakeStoreville struct {
	orderHits int
}

func (f *fakeStoreville) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token": "tok-1"}`))
	})
	mux.HandleFunc("GET /stores/demo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 1, "name": "Demo Store", "slug": "demo",
			"payment_methods": ["telebirr"],
			"payment_accounts": {"telebirr": "0911 223344"},
			"products": []
		}`))
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		f.orderHits++
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_reference": "SV-42"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type gatewayClient struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func newGateway(t *testing.T) (*gatewayClient, *fakeStoreville) {
	t.Helper()
	fake := &fakeStoreville{}
	api := backend.New(fake.server(t).URL, nil)
	reg := session.NewRegistry(snapshot.NewMemory(), nil, api, nil)

	router := NewRouter()
	h := &Handler{Sessions: reg, Backend: api}
	h.Register(router)
	return &gatewayClient{t: t, router: router}, fake
}

// do issues a request against the gateway, carrying the session cookie
// across calls like a browser would.
func (g *gatewayClient) do(method, path, body string) *httptest.ResponseRecorder {
	g.t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if g.cookie != nil {
		r.AddCookie(g.cookie)
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, r)
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			g.cookie = c
		}
	}
	return w
}

const kettle = `{"product": {"id": 1, "name": "Kettle", "price": "450.00", "stock": 4}, "quantity": 2}`

func TestCartLifecycle(t *testing.T) {
	g, _ := newGateway(t)

	w := g.do(http.MethodPost, "/cart/items", kettle)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_count":2`)
	assert.Contains(t, w.Body.String(), `"subtotal":"900.00"`)

	// quantity above stock clamps
	w = g.do(http.MethodPatch, "/cart/items/1", `{"quantity": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_count":4`)

	w = g.do(http.MethodDelete, "/cart/items/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_count":0`)

	w = g.do(http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lines":[]`)
}

func TestCartIsPerSession(t *testing.T) {
	g1, _ := newGateway(t)
	g1.do(http.MethodPost, "/cart/items", kettle)

	// a different device (no cookie) sees an empty cart
	g2 := &gatewayClient{t: t, router: g1.router}
	w := g2.do(http.MethodGet, "/cart", "")
	assert.Contains(t, w.Body.String(), `"item_count":0`)
}

func TestCheckoutRequiresLogin(t *testing.T) {
	g, fake := newGateway(t)
	g.do(http.MethodPost, "/cart/items", kettle)

	w := g.do(http.MethodPost, "/checkout", `{
		"store_slug": "demo", "buyer_name": "Abebe", "buyer_phone": "0911",
		"address": "Bole", "payment_method": "cod"
	}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, fake.orderHits)

	// cart untouched
	w = g.do(http.MethodGet, "/cart", "")
	assert.Contains(t, w.Body.String(), `"item_count":2`)
}

func TestCheckoutRejectsUnconfiguredPayment(t *testing.T) {
	g, fake := newGateway(t)
	g.do(http.MethodPost, "/cart/items", kettle)
	require.Equal(t, http.StatusOK, g.do(http.MethodPost, "/users/login", `{"username": "abebe", "password": "x"}`).Code)

	w := g.do(http.MethodPost, "/checkout", `{
		"store_slug": "demo", "buyer_name": "Abebe", "buyer_phone": "0911",
		"address": "Bole", "payment_method": "mpesa"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mpesa")
	assert.Zero(t, fake.orderHits, "local rejection never reaches the backend")
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	g, fake := newGateway(t)
	g.do(http.MethodPost, "/cart/items", kettle)
	require.Equal(t, http.StatusOK, g.do(http.MethodPost, "/users/login", `{"username": "abebe", "password": "x"}`).Code)

	w := g.do(http.MethodPost, "/checkout", `{
		"store_slug": "demo", "buyer_name": "Abebe", "buyer_phone": "0911",
		"address": "Bole", "payment_method": "telebirr"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "SV-42")
	assert.Equal(t, 1, fake.orderHits)

	w = g.do(http.MethodGet, "/cart", "")
	assert.Contains(t, w.Body.String(), `"item_count":0`)
}

func TestGetStoreProxied(t *testing.T) {
	g, _ := newGateway(t)
	w := g.do(http.MethodGet, "/stores/demo", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Demo Store")
}
