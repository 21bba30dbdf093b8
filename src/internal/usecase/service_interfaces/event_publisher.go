package service_interfaces

import "context"

// EventPublisher emits domain events after a ledger operation commits.
// Publishing is best effort; failures must never affect the committed result.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
