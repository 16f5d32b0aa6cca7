package queries

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// TimelineCache is the read cache in front of the tracking page. Lookups are
// best-effort: a miss or a cache outage simply falls through to the database.
type TimelineCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// GetOrderTimelineQueryHandler serves customer tracking lookups. Reads go
// straight to the database (not through the aggregate) and are projected into
// the timeline view; results are cached briefly because tracking pages poll.
type GetOrderTimelineQueryHandler struct {
	db     *gorm.DB
	cache  TimelineCache
	logger *slog.Logger
}

// NewGetOrderTimelineQueryHandler creates a handler for timeline queries.
// The cache may be nil, in which case every lookup hits the database.
func NewGetOrderTimelineQueryHandler(db *gorm.DB, cache TimelineCache, logger *slog.Logger) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{
		db:     db,
		cache:  cache,
		logger: logger.With("component", "get_order_timeline"),
	}
}

// timelineRow is the raw read model scanned from the orders table.
type timelineRow struct {
	OrderNumber       string     `gorm:"column:order_number"`
	Status            string     `gorm:"column:status"`
	StatusHistory     []byte     `gorm:"column:status_history"`
	TrackingInfo      []byte     `gorm:"column:tracking_info"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
	CustomerNotes     string     `gorm:"column:customer_notes"`
}

// Handle executes the timeline query.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) (GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	cacheKey := "timeline:" + query.OrderNumber()
	if h.cache != nil {
		if payload, ok := h.cache.Get(ctx, cacheKey); ok {
			var cached GetOrderTimelineQueryResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
			h.logger.WarnContext(ctx, "Discarding unreadable cached timeline", "key", cacheKey)
		}
	}

	var row timelineRow
	err := h.db.WithContext(ctx).
		Table("orders").
		Select("order_number, status, status_history, tracking_info, estimated_delivery, customer_notes").
		Where("order_number = ?", query.OrderNumber()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderTimelineQueryResponse{},
				errs.NewObjectNotFoundError("orderNumber", query.OrderNumber())
		}
		return GetOrderTimelineQueryResponse{}, err
	}

	response, err := buildTimelineResponse(row)
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	if h.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			h.cache.Set(ctx, cacheKey, payload)
		}
	}

	return response, nil
}

func buildTimelineResponse(row timelineRow) (GetOrderTimelineQueryResponse, error) {
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	var history []order.HistoryEntry
	if err = json.Unmarshal(row.StatusHistory, &history); err != nil {
		return GetOrderTimelineQueryResponse{},
			errs.NewValueIsInvalidErrorWithCause("statusHistory", err)
	}

	var tracking *order.Tracking
	if len(row.TrackingInfo) > 0 {
		tracking = &order.Tracking{}
		if err = json.Unmarshal(row.TrackingInfo, tracking); err != nil {
			return GetOrderTimelineQueryResponse{},
				errs.NewValueIsInvalidErrorWithCause("trackingInfo", err)
		}
	}

	return GetOrderTimelineQueryResponse{
		OrderNumber:       row.OrderNumber,
		Status:            status.String(),
		Progress:          status.Progress(),
		CanBeCancelled:    status.CanBeCancelled(),
		EstimatedDelivery: row.EstimatedDelivery,
		Tracking:          tracking,
		CustomerNotes:     row.CustomerNotes,
		Timeline:          order.TimelineFromHistory(history),
	}, nil
}
