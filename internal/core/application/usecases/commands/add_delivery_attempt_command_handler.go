package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// AddDeliveryAttemptCommandHandler appends delivery attempts to the tracking
// sub-record under the concurrency guard, creating the sub-record if absent.
type AddDeliveryAttemptCommandHandler struct {
	uowFactory OrderUoWFactory
	attempts   int
}

// NewAddDeliveryAttemptCommandHandler creates a handler for delivery attempts.
func NewAddDeliveryAttemptCommandHandler(uowFactory OrderUoWFactory) AddDeliveryAttemptCommandHandler {
	return AddDeliveryAttemptCommandHandler{
		uowFactory: uowFactory,
		attempts:   defaultCommitAttempts,
	}
}

// Handle appends the attempt and returns the updated order.
func (h *AddDeliveryAttemptCommandHandler) Handle(
	ctx context.Context,
	cmd AddDeliveryAttemptCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), h.attempts,
		func(o *order.Order) (bool, error) {
			if err := o.AddDeliveryAttempt(cmd.AttemptStatus(), cmd.Notes(), cmd.Location()); err != nil {
				return false, err
			}
			return true, nil
		})
}
