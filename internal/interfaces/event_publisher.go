package interfaces

import "context"

// EventPublisher emits domain events after an outcome has been persisted.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
