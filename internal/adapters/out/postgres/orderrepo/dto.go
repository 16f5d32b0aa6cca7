// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
//
// The status history, tracking sub-record and line items are persisted as JSONB
// sub-documents of the orders row, so one row-level UPDATE commits status,
// history and tracking together with single-document atomicity.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

// jsonDoc stores a JSON sub-document in a jsonb column.
type jsonDoc []byte

// GormDataType tells GORM to create jsonb columns for jsonDoc fields.
func (jsonDoc) GormDataType() string {
	return "jsonb"
}

// Value implements driver.Valuer. Empty documents are stored as NULL.
func (d jsonDoc) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *jsonDoc) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append([]byte(nil), v...)
	case string:
		*d = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return nil
}

// OrderDTO represents the database structure for persisting order aggregates.
// One row per order; history and tracking live inside the row as JSONB.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber     string    `gorm:"size:64;uniqueIndex"`
	CustomerEmail   string    `gorm:"size:255"`
	ShippingAddress string
	Items           jsonDoc

	Subtotal     int64
	Tax          int64
	ShippingCost int64
	Total        int64

	Status        string `gorm:"size:32;index"`
	StatusHistory jsonDoc
	TrackingInfo  jsonDoc
	PaymentStatus string `gorm:"size:16"`

	EstimatedDelivery *time.Time
	ShippedAt         *time.Time
	OutForDeliveryAt  *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ActualDelivery    *time.Time

	AdminNotes    string
	CustomerNotes string

	CreatedAt time.Time
	Version   int64
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items, err := json.Marshal(aggregate.Items())
	if err != nil {
		return OrderDTO{}, err
	}
	history, err := json.Marshal(aggregate.History())
	if err != nil {
		return OrderDTO{}, err
	}
	tracking, err := marshalTracking(aggregate.Tracking())
	if err != nil {
		return OrderDTO{}, err
	}

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		OrderNumber:       aggregate.OrderNumber(),
		CustomerEmail:     aggregate.CustomerEmail(),
		ShippingAddress:   aggregate.ShippingAddress(),
		Items:             items,
		Subtotal:          aggregate.Subtotal().Cents(),
		Tax:               aggregate.Tax().Cents(),
		ShippingCost:      aggregate.ShippingCost().Cents(),
		Total:             aggregate.Total().Cents(),
		Status:            aggregate.Status().String(),
		StatusHistory:     history,
		TrackingInfo:      tracking,
		PaymentStatus:     aggregate.PaymentStatus().String(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		ShippedAt:         aggregate.ShippedAt(),
		OutForDeliveryAt:  aggregate.OutForDeliveryAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
		CancelledAt:       aggregate.CancelledAt(),
		ActualDelivery:    aggregate.ActualDelivery(),
		AdminNotes:        aggregate.AdminNotes(),
		CustomerNotes:     aggregate.CustomerNotes(),
		CreatedAt:         aggregate.CreatedAt(),
		Version:           aggregate.Version(),
	}, nil
}

func marshalTracking(tracking *order.Tracking) (jsonDoc, error) {
	if tracking == nil {
		return nil, nil
	}
	return json.Marshal(tracking)
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder, which re-validates
// structural invariants so corrupted rows never reach the domain.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var items []order.Item
	if err = json.Unmarshal(dto.Items, &items); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("items", err)
	}
	var history []order.HistoryEntry
	if err = json.Unmarshal(dto.StatusHistory, &history); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("statusHistory", err)
	}

	var tracking *order.Tracking
	if len(dto.TrackingInfo) > 0 {
		tracking = &order.Tracking{}
		if err = json.Unmarshal(dto.TrackingInfo, tracking); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("trackingInfo", err)
		}
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}
	tax, err := kernel.NewMoney(dto.Tax)
	if err != nil {
		return nil, err
	}
	shippingCost, err := kernel.NewMoney(dto.ShippingCost)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                id,
		OrderNumber:       dto.OrderNumber,
		CustomerEmail:     dto.CustomerEmail,
		ShippingAddress:   dto.ShippingAddress,
		Items:             items,
		Subtotal:          subtotal,
		Tax:               tax,
		ShippingCost:      shippingCost,
		Total:             total,
		Status:            status,
		History:           history,
		Tracking:          tracking,
		PaymentStatus:     paymentStatus,
		EstimatedDelivery: dto.EstimatedDelivery,
		ShippedAt:         dto.ShippedAt,
		OutForDeliveryAt:  dto.OutForDeliveryAt,
		DeliveredAt:       dto.DeliveredAt,
		CancelledAt:       dto.CancelledAt,
		ActualDelivery:    dto.ActualDelivery,
		AdminNotes:        dto.AdminNotes,
		CustomerNotes:     dto.CustomerNotes,
		CreatedAt:         dto.CreatedAt,
		Version:           dto.Version,
	})
}
