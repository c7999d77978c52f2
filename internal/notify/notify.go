// Package notify publishes order lifecycle events to a message broker.
package notify

import (
	"context"
	"time"
)

// Event types.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status"
)

// Event describes a change to an order.
type Event struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	ClientID      string    `json:"clientId"`
	Status        string    `json:"status"`
	RefusedReason *string   `json:"refusedReason,omitempty"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// RoutingKey is the topic key the event is published under, for example
// "order.created" or "order.status.refused".
func (e Event) RoutingKey() string {
	if e.Type == EventOrderStatusChanged {
		return e.Type + "." + e.Status
	}
	return e.Type
}

// Publisher sends order events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() error { return nil }
