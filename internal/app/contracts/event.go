package contracts

import "context"

// EventPublisher emits domain events onto the clinic topic exchange. A returned
// error is informational only; callers must not fail a request because of it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}
