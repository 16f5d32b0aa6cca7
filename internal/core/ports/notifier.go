package ports

import "context"

// OrderConfirmation is the message emitted when an order moves from pending to
// confirmed. It carries everything the email collaborator needs, so the
// collaborator never reads the order store.
type OrderConfirmation struct {
	OrderID       string
	OrderNumber   string
	CustomerEmail string
	TotalCents    int64
}

// Notifier is the email collaborator consumed by the core. Delivery is
// best-effort: a failing send is logged by the dispatcher and never propagated
// to the operation that produced the message.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}

// NotificationOutbox decouples order mutations from notification delivery.
// The transition engine enqueues after a successful commit; a background
// dispatcher drains the queue and hands messages to the Notifier, so a slow or
// failing mailer never blocks or fails an order mutation.
type NotificationOutbox interface {
	// Enqueue adds a confirmation message. Never blocks on delivery.
	Enqueue(msg OrderConfirmation)

	// Drain removes and returns all queued messages.
	Drain() []OrderConfirmation
}
