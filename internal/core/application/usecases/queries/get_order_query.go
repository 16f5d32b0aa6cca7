package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the full admin detail view of an order by ID:
// items, money, status history, tracking, payment and both note fields.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for an order's admin detail view.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the admin order detail read model.
type GetOrderQueryResponse struct {
	ID              string                `json:"id"`
	OrderNumber     string                `json:"orderNumber"`
	CustomerEmail   string                `json:"customerEmail"`
	ShippingAddress string                `json:"shippingAddress,omitempty"`
	Items           []order.Item          `json:"items"`
	SubtotalCents   int64                 `json:"subtotal"`
	TaxCents        int64                 `json:"tax"`
	ShippingCents   int64                 `json:"shippingCost"`
	TotalCents      int64                 `json:"total"`
	Status          string                `json:"status"`
	NextStatus      string                `json:"nextStatus,omitempty"`
	PaymentStatus   string                `json:"paymentStatus"`
	History         []order.HistoryEntry  `json:"statusHistory"`
	Tracking        *order.Tracking       `json:"trackingInfo,omitempty"`
	Timeline        []order.TimelineEntry `json:"timeline"`

	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	ShippedAt         *time.Time `json:"shippedAt,omitempty"`
	OutForDeliveryAt  *time.Time `json:"outForDeliveryAt,omitempty"`
	DeliveredAt       *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty"`
	ActualDelivery    *time.Time `json:"actualDelivery,omitempty"`

	AdminNotes    string    `json:"adminNotes,omitempty"`
	CustomerNotes string    `json:"customerNotes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int64     `json:"version"`
}
