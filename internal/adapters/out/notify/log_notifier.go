package notify

import (
	"context"
	"log/slog"

	"storefront/internal/core/ports"
)

// LogNotifier records confirmation sends in the application log instead of
// calling a mail provider. It keeps the dispatch path exercised end to end
// until a real provider is wired in.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs instead of sending.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// SendOrderConfirmation logs the confirmation message.
func (n *LogNotifier) SendOrderConfirmation(ctx context.Context, msg ports.OrderConfirmation) error {
	n.logger.InfoContext(ctx, "Order confirmation sent",
		"orderId", msg.OrderID,
		"orderNumber", msg.OrderNumber,
		"customerEmail", msg.CustomerEmail,
		"totalCents", msg.TotalCents,
	)
	return nil
}
