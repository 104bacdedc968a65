package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "OrderPlaced"

	TopicOrderPlaced = "buyer.order.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order reference
	Payload       json.RawMessage `json:"payload"`
}

// OrderPlacedPayload is informational only: downstream consumers re-query
// the backend for authoritative order data by reference.
type OrderPlacedPayload struct {
	OrderReference string `json:"order_reference"`
	StoreSlug      string `json:"store_slug"`
	PaymentMethod  string `json:"payment_method"`
	ItemCount      int    `json:"item_count"`
}

// Partition key = order reference, supaya event satu order tetap berurutan.
func PartitionKey(ref string) []byte { return []byte(ref) }

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
