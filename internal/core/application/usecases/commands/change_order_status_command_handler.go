package commands

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// ChangeOrderStatusCommandHandler is the transition engine's entry point: it
// applies a status change under the concurrency guard, appending the history
// entry and deriving timestamps in one atomic commit.
//
// Out-of-graph transitions are applied anyway as the admin-override escape
// hatch, but logged at warning level and recorded in history like any other
// transition. On a committed pending->confirmed transition the handler
// enqueues the order-confirmation message; delivery is best-effort and can
// never fail the transition.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	outbox     ports.NotificationOutbox
	logger     *slog.Logger
	attempts   int
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	outbox ports.NotificationOutbox,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		outbox:     outbox,
		logger:     logger.With("component", "change_order_status"),
		attempts:   defaultCommitAttempts,
	}
}

// Handle processes the status change and returns the updated order.
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var confirmationDue bool
	aggregate, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), h.attempts,
		func(o *order.Order) (bool, error) {
			if !order.IsValidTransition(o.Status(), cmd.NewStatus()) {
				h.logger.WarnContext(ctx, "Out-of-graph status transition applied as admin override",
					"order_id", o.ID().String(),
					"from", o.Status().String(),
					"to", cmd.NewStatus().String(),
					"actor", cmd.ActorID(),
				)
			}

			confirmationDue = o.Status() == order.Pending && cmd.NewStatus() == order.Confirmed

			if err := o.Transition(order.TransitionParams{
				NewStatus:     cmd.NewStatus(),
				Notes:         cmd.Notes(),
				UpdatedBy:     cmd.ActorID(),
				Location:      cmd.Location(),
				TrackingPatch: cmd.TrackingPatch(),
			}); err != nil {
				return false, err
			}
			return true, nil
		})
	if err != nil {
		return nil, err
	}

	if confirmationDue {
		h.outbox.Enqueue(ports.OrderConfirmation{
			OrderID:       aggregate.ID().String(),
			OrderNumber:   aggregate.OrderNumber(),
			CustomerEmail: aggregate.CustomerEmail(),
			TotalCents:    aggregate.Total().Cents(),
		})
	}

	return aggregate, nil
}
