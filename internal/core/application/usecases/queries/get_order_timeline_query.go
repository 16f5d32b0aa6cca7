// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrGetOrderTimelineQueryIsNotConstructed = errors.New(
		"GetOrderTimelineQuery must be created via NewGetOrderTimelineQuery constructor",
	)
)

// GetOrderTimelineQuery retrieves the customer-facing timeline of an order by
// its human-readable order number. This is the query behind the public
// tracking page, which polls on auto-refresh; responses are served through a
// short-TTL cache.
//
// Example:
//
//	query, _ := NewGetOrderTimelineQuery("ORD-ABC123-0042")
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d%%\n", view.Status, view.Progress)
type GetOrderTimelineQuery struct {
	orderNumber string

	guard guard.ConstructorGuard
}

// NewGetOrderTimelineQuery creates a query for an order's timeline.
func NewGetOrderTimelineQuery(orderNumber string) (GetOrderTimelineQuery, error) {
	if orderNumber == "" {
		return GetOrderTimelineQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return GetOrderTimelineQuery{
		orderNumber: orderNumber,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTimelineQueryIsNotConstructed)
}

// OrderNumber returns the order number being tracked.
func (q GetOrderTimelineQuery) OrderNumber() string {
	return q.orderNumber
}

// GetOrderTimelineQueryResponse is the tracking-page read model: progress,
// human labels and the sorted timeline, plus the customer-visible tracking
// metadata. Admin notes are deliberately absent.
type GetOrderTimelineQueryResponse struct {
	OrderNumber       string                `json:"orderNumber"`
	Status            string                `json:"status"`
	Progress          int                   `json:"progress"`
	CanBeCancelled    bool                  `json:"canBeCancelled"`
	EstimatedDelivery *time.Time            `json:"estimatedDelivery,omitempty"`
	Tracking          *order.Tracking       `json:"trackingInfo,omitempty"`
	CustomerNotes     string                `json:"customerNotes,omitempty"`
	Timeline          []order.TimelineEntry `json:"timeline"`
}
