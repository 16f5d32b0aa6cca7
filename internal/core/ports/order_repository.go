package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update commits the aggregate's changed fields using an optimistic,
	// version-guarded write. Only the fields reported by aggregate.Changes()
	// are written, so concurrent updates to disjoint fields never conflict.
	// Returns errs.ErrCommitConflict when a concurrent writer committed first;
	// such conflicts are safe to retry after re-reading the aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its human-readable order number.
	// Used for customer-facing tracking lookups.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)
}
