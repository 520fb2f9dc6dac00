package outbox

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	orderExchange   = "orders"
	defaultRetries  = 5
	jsonContentType = "application/json"
)

// Routing keys for order lifecycle events.
const (
	RoutingKeyOrderPaid      = "order.paid"
	RoutingKeyOrderCancelled = "order.cancelled"
)

// Message is an event row written in the same transaction as the state change
// it describes, to be published to RabbitMQ by the outbox worker.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// OrderEvent is the payload published for order lifecycle events.
type OrderEvent struct {
	OrderID    int64     `json:"orderId"`
	Number     string    `json:"number"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewOrderEvent builds an outbox message for the given routing key, ready for
// insertion alongside the order mutation.
func NewOrderEvent(routingKey string, event OrderEvent) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal order event: %w", err)
	}

	now := time.Now()

	return Message{
		ExchangeName: orderExchange,
		RoutingKey:   routingKey,
		Payload:      payload,
		ContentType:  jsonContentType,
		MaxRetries:   defaultRetries,
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	}, nil
}
