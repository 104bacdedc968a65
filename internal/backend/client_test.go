package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStoreDecodesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/birhan-electronics", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 3, "name": "Birhan Electronics", "slug": "birhan-electronics",
			"category": "electronics",
			"payment_methods": ["telebirr"],
			"payment_accounts": {"telebirr": "0911 223344"},
			"products": [{"id": 1, "name": "Kettle", "price": "450.00", "stock": 4, "is_available": true}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	p, err := c.GetStore(context.Background(), "birhan-electronics")

	require.NoError(t, err)
	assert.Equal(t, "Birhan Electronics", p.Name)
	assert.True(t, p.HasPaymentAccount("telebirr"))
	assert.False(t, p.HasPaymentAccount("mpesa"))
	require.Len(t, p.Products, 1)
	assert.Equal(t, "450.00", p.Products[0].Price)
}

func TestGetStoreNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "store not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetStore(context.Background(), "nope")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "store not found", apiErr.Message)
}

func TestSubmitOrderSendsBearerAndIdentityOnly(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_reference": "SV-77"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	res, err := c.SubmitOrder(context.Background(), "tok-9", OrderRequest{
		Items:           []OrderItem{{ProductID: 7, Quantity: 2}},
		BuyerName:       "Abebe",
		BuyerPhone:      "0911",
		ShippingAddress: "Bole, Addis Ababa",
		PaymentMethod:   "cod",
	})

	require.NoError(t, err)
	assert.Equal(t, "SV-77", res.Reference)
	require.Len(t, got.Items, 1)
	assert.Equal(t, OrderItem{ProductID: 7, Quantity: 2}, got.Items[0])
}

func TestSubmitOrderUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.SubmitOrder(context.Background(), "stale", OrderRequest{})

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitOrderNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable

	c := New(srv.URL, nil)
	_, err := c.SubmitOrder(context.Background(), "tok", OrderRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "network error")
}

func TestSearchStoresForwardsGeoParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "9.03", q.Get("lat"))
		assert.Equal(t, "38.74", q.Get("lng"))
		assert.Equal(t, "10", q.Get("radius"))
		_, _ = w.Write([]byte(`[{"id": 1, "slug": "a", "distance": 2.4}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	lat, lng := 9.03, 38.74
	stores, err := c.SearchStores(context.Background(), &lat, &lng, 10)

	require.NoError(t, err)
	require.Len(t, stores, 1)
	require.NotNil(t, stores[0].Distance)
	assert.InDelta(t, 2.4, *stores[0].Distance, 0.001)
}

func TestOrderStatusPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/status", r.URL.Path)
		assert.Equal(t, "SV-77", r.URL.Query().Get("ref"))
		_, _ = w.Write([]byte(`{"status": "pending", "order_reference": "SV-77"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	raw, err := c.OrderStatus(context.Background(), "SV-77")

	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "pending", "order_reference": "SV-77"}`, string(raw))
}

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abebe", body["username"])
		_, _ = w.Write([]byte(`{"token": "tok-login"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tok, err := c.Login(context.Background(), "abebe", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-login", tok)
}

func TestLoginBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "abebe", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	assert.NoError(t, c.Register(context.Background(), "abebe", "a@b.et", "secret"))
}
