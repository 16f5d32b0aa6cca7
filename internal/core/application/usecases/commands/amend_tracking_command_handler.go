package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// AmendTrackingCommandHandler is the tracking amender's entry point. It
// applies a field-by-field diff under the concurrency guard; when the patch
// matches the current record exactly, no write is issued at all, so idempotent
// re-submissions cause no history or version churn.
type AmendTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	attempts   int
}

// NewAmendTrackingCommandHandler creates a handler for tracking amendments.
func NewAmendTrackingCommandHandler(uowFactory OrderUoWFactory) AmendTrackingCommandHandler {
	return AmendTrackingCommandHandler{
		uowFactory: uowFactory,
		attempts:   defaultCommitAttempts,
	}
}

// Handle processes the amendment and returns the (possibly unchanged) order.
func (h *AmendTrackingCommandHandler) Handle(
	ctx context.Context,
	cmd AmendTrackingCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), h.attempts,
		func(o *order.Order) (bool, error) {
			return o.AmendTracking(cmd.Amendment())
		})
}
