package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Producer publishes order events async. Publishing is best effort and must
// never slow down or fail a checkout that the backend already confirmed.
type Producer struct {
	w       *kafka.Writer
	service string
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, service string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrderPlaced,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		service: service,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				// flush sisa pesan lalu exit rapi
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							_ = p.w.Close()
							close(p.closeCh)
							return
						}
						_ = p.w.WriteMessages(context.Background(), m)
					default:
						_ = p.w.Close()
						close(p.closeCh)
						return
					}
				}
			case m, ok := <-p.inbox:
				if !ok {
					_ = p.w.Close()
					close(p.closeCh)
					return
				}
				_ = p.w.WriteMessages(context.Background(), m)
			}
		}
	}()
}

// OrderPlaced satisfies the checkout publisher contract.
func (p *Producer) OrderPlaced(reference, storeSlug, paymentMethod string, itemCount int) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.service,
		CorrelationID: reference,
		Payload: mustMarshal(OrderPlacedPayload{
			OrderReference: reference,
			StoreSlug:      storeSlug,
			PaymentMethod:  paymentMethod,
			ItemCount:      itemCount,
		}),
	}
	p.inbox <- kafka.Message{
		Key:   PartitionKey(reference),
		Value: mustMarshal(ev),
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
}

func (p *Producer) Close() { close(p.inbox) }

func (p *Producer) WaitClosed() { <-p.closeCh }
