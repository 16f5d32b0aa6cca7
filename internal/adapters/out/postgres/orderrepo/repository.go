package orderrepo

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update commits the aggregate's changed fields with an optimistic,
// version-guarded write. Only the columns behind the changed logical fields
// are written, never the whole row, so two concurrent amendments to
// disjoint fields both land. A lost version race surfaces as a
// CommitConflictError, which callers retry after re-reading.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.HasChanges() {
		return nil
	}

	updates, err := changedColumns(aggregate)
	if err != nil {
		return err
	}
	newVersion := aggregate.Version() + 1
	updates["version"] = newVersion

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", aggregate.ID().Bytes(), aggregate.Version()).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).
			Model(&OrderDTO{}).
			Where("id = ?", aggregate.ID().Bytes()).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewCommitConflictError("order", aggregate.ID().String())
	}

	aggregate.MarkCommitted(newVersion)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderNumber retrieves an order by its human-readable order number.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderNumber", orderNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// changedColumns maps the aggregate's changed logical fields to column values.
func changedColumns(aggregate *order.Order) (map[string]any, error) {
	updates := make(map[string]any)
	for _, field := range aggregate.Changes() {
		switch field {
		case order.FieldStatus:
			updates["status"] = aggregate.Status().String()
		case order.FieldHistory:
			history, err := json.Marshal(aggregate.History())
			if err != nil {
				return nil, err
			}
			updates["status_history"] = jsonDoc(history)
		case order.FieldTracking:
			tracking, err := marshalTracking(aggregate.Tracking())
			if err != nil {
				return nil, err
			}
			updates["tracking_info"] = tracking
		case order.FieldPaymentStatus:
			updates["payment_status"] = aggregate.PaymentStatus().String()
		case order.FieldAdminNotes:
			updates["admin_notes"] = aggregate.AdminNotes()
		case order.FieldCustomerNotes:
			updates["customer_notes"] = aggregate.CustomerNotes()
		case order.FieldEstimatedDelivery:
			updates["estimated_delivery"] = aggregate.EstimatedDelivery()
		case order.FieldShippedAt:
			updates["shipped_at"] = aggregate.ShippedAt()
		case order.FieldOutForDeliveryAt:
			updates["out_for_delivery_at"] = aggregate.OutForDeliveryAt()
		case order.FieldDeliveredAt:
			updates["delivered_at"] = aggregate.DeliveredAt()
		case order.FieldCancelledAt:
			updates["cancelled_at"] = aggregate.CancelledAt()
		case order.FieldActualDelivery:
			updates["actual_delivery"] = aggregate.ActualDelivery()
		}
	}
	return updates, nil
}
