package queries

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// GetOrderQueryHandler serves the admin order detail view. It reads through
// the repository (no transaction needed for a single-row read) and projects
// the aggregate into the read model.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

// NewGetOrderQueryHandler creates a handler for admin order detail queries.
func NewGetOrderQueryHandler(orders ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	aggregate, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return NewGetOrderQueryResponse(aggregate), nil
}

// NewGetOrderQueryResponse projects an order aggregate into the admin detail
// read model. Also used by the HTTP adapter to render mutation results.
func NewGetOrderQueryResponse(o *order.Order) GetOrderQueryResponse {
	response := GetOrderQueryResponse{
		ID:                o.ID().String(),
		OrderNumber:       o.OrderNumber(),
		CustomerEmail:     o.CustomerEmail(),
		ShippingAddress:   o.ShippingAddress(),
		Items:             o.Items(),
		SubtotalCents:     o.Subtotal().Cents(),
		TaxCents:          o.Tax().Cents(),
		ShippingCents:     o.ShippingCost().Cents(),
		TotalCents:        o.Total().Cents(),
		Status:            o.Status().String(),
		PaymentStatus:     o.PaymentStatus().String(),
		History:           o.History(),
		Tracking:          o.Tracking(),
		Timeline:          order.Timeline(o),
		EstimatedDelivery: o.EstimatedDelivery(),
		ShippedAt:         o.ShippedAt(),
		OutForDeliveryAt:  o.OutForDeliveryAt(),
		DeliveredAt:       o.DeliveredAt(),
		CancelledAt:       o.CancelledAt(),
		ActualDelivery:    o.ActualDelivery(),
		AdminNotes:        o.AdminNotes(),
		CustomerNotes:     o.CustomerNotes(),
		CreatedAt:         o.CreatedAt(),
		Version:           o.Version(),
	}

	if next, ok := order.NextLogicalStatus(o.Status()); ok {
		response.NextStatus = next.String()
	}

	return response
}
