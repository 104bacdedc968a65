package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/storeville/buyer-gateway/internal/catalog"
	"github.com/storeville/buyer-gateway/internal/redisx"
)

// Client talks to the external Storeville backend. The backend owns all
// business logic: auth, pricing, stock, order processing, geo search.
type Client struct {
	baseURL string
	httpc   *http.Client
	rdb     *redis.Client      // optional store-profile cache
	sfg     singleflight.Group // prevents profile cache stampede
}

// New builds a client for the given API base (e.g. http://backend:8000/api).
// rdb may be nil; store profiles are then fetched uncached.
func New(baseURL string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		rdb:     rdb,
	}
}

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest carries identity + quantity only. Prices are deliberately
// absent: the backend resolves them from its own catalog.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	BuyerName       string      `json:"buyer_name"`
	BuyerPhone      string      `json:"buyer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
}

type OrderResult struct {
	Reference string `json:"order_reference"`
}

type TokenResult struct {
	Token string `json:"token"`
}

// GetStore returns the store profile for a slug, via the redis cache when
// available. Concurrent misses for the same slug collapse to one fetch.
func (c *Client) GetStore(ctx context.Context, slug string) (*catalog.StoreProfile, error) {
	v, err, _ := c.sfg.Do(slug, func() (interface{}, error) {
		if p, ok := c.cachedProfile(ctx, slug); ok {
			return p, nil
		}
		p, err := c.fetchStore(ctx, slug)
		if err != nil {
			return nil, err
		}
		c.cacheProfile(slug, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.StoreProfile), nil
}

func (c *Client) cachedProfile(ctx context.Context, slug string) (*catalog.StoreProfile, bool) {
	if c.rdb == nil {
		return nil, false
	}
	key := fmt.Sprintf(redisx.KeyStoreProfile, slug)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var p catalog.StoreProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *Client) cacheProfile(slug string, p *catalog.StoreProfile) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyStoreProfile, slug)
	go func() {
		if err := c.rdb.Set(context.Background(), key, b, redisx.TTLStoreProfile).Err(); err != nil {
			log.Printf("store profile cache set: %v", err)
		}
	}()
}

func (c *Client) fetchStore(ctx context.Context, slug string) (*catalog.StoreProfile, error) {
	var p catalog.StoreProfile
	if err := c.do(ctx, http.MethodGet, "/stores/"+url.PathEscape(slug), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchStores lists stores, optionally filtered by distance from a point.
// radius is in kilometers; pass nil coordinates for an unfiltered list.
func (c *Client) SearchStores(ctx context.Context, lat, lng *float64, radius float64) ([]catalog.StoreProfile, error) {
	path := "/stores"
	if lat != nil && lng != nil {
		q := url.Values{}
		q.Set("lat", strconv.FormatFloat(*lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(*lng, 'f', -1, 64))
		if radius > 0 {
			q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
		}
		path += "?" + q.Encode()
	}
	var out []catalog.StoreProfile
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitOrder posts the order with the buyer's bearer token attached.
func (c *Client) SubmitOrder(ctx context.Context, token string, req OrderRequest) (OrderResult, error) {
	var res OrderResult
	if err := c.do(ctx, http.MethodPost, "/orders", token, req, &res); err != nil {
		return OrderResult{}, err
	}
	return res, nil
}

// OrderStatus looks up tracking info by reference. The payload is passed
// through untouched; only the tracking view cares about its shape.
func (c *Client) OrderStatus(ctx context.Context, ref string) (json.RawMessage, error) {
	var raw json.RawMessage
	q := url.Values{}
	q.Set("ref", ref)
	if err := c.do(ctx, http.MethodGet, "/orders/status?"+q.Encode(), "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var res TokenResult
	if err := c.do(ctx, http.MethodPost, "/users/login", "", body, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/users/register", "", body, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readErrMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrMessage pulls a human-readable message out of a structured error
// body. The backend is not consistent about the field name.
func readErrMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return ""
	}
	for _, k := range []string{"error", "detail", "message"} {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
