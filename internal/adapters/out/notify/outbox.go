// Package notify implements the notification side of the order lifecycle:
// an in-memory outbox that order mutations enqueue into, and a logging
// notifier standing in for a real mail provider.
package notify

import (
	"sync"

	"storefront/internal/core/ports"
)

// InMemoryOutbox is a process-local queue of confirmation messages.
// Losing queued messages on process restart is acceptable for confirmation
// emails; a durable broker can replace this behind the same port.
type InMemoryOutbox struct {
	mu       sync.Mutex
	messages []ports.OrderConfirmation
}

// NewInMemoryOutbox creates an empty outbox.
func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{}
}

// Enqueue adds a confirmation message to the queue.
func (o *InMemoryOutbox) Enqueue(msg ports.OrderConfirmation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

// Drain removes and returns all queued messages.
func (o *InMemoryOutbox) Drain() []ports.OrderConfirmation {
	o.mu.Lock()
	defer o.mu.Unlock()
	drained := o.messages
	o.messages = nil
	return drained
}
