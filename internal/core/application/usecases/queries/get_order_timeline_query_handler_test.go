package queries

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries map[string][]byte
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *fakeCache) Set(_ context.Context, key string, payload []byte) {
	c.entries[key] = payload
	c.sets++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetOrderTimelineQueryHandler_Handle_CacheHit(t *testing.T) {
	ctx := t.Context()
	cached := GetOrderTimelineQueryResponse{
		OrderNumber:    "ORD-CACHED-0001",
		Status:         "shipped",
		Progress:       60,
		CanBeCancelled: false,
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	cache := newFakeCache()
	cache.entries["timeline:ORD-CACHED-0001"] = payload

	// db stays nil: a cache hit must never reach the database
	h := NewGetOrderTimelineQueryHandler(nil, cache, discardLogger())

	query, err := NewGetOrderTimelineQuery("ORD-CACHED-0001")
	require.NoError(t, err)

	response, err := h.Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, cached, response)
	assert.Zero(t, cache.sets)
}

func TestGetOrderTimelineQueryHandler_Handle_ValidationError(t *testing.T) {
	h := NewGetOrderTimelineQueryHandler(nil, newFakeCache(), discardLogger())

	_, err := h.Handle(t.Context(), GetOrderTimelineQuery{})

	require.Error(t, err)
	assert.Equal(t, ErrGetOrderTimelineQueryIsNotConstructed, err)
}

func TestBuildTimelineResponse(t *testing.T) {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	historyJSON := func(entries []order.HistoryEntry) []byte {
		payload, err := json.Marshal(entries)
		require.NoError(t, err)
		return payload
	}

	t.Run("should project status, progress and sorted timeline", func(t *testing.T) {
		estimated := base.Add(72 * time.Hour)
		history := []order.HistoryEntry{
			{Status: order.Confirmed, Timestamp: base.Add(time.Hour)},
			{Status: order.Pending, Timestamp: base},
			{Status: order.Processing, Timestamp: base.Add(2 * time.Hour)},
		}
		tracking, err := json.Marshal(order.Tracking{TrackingNumber: "TRK-9", Carrier: "DHL"})
		require.NoError(t, err)

		response, err := buildTimelineResponse(timelineRow{
			OrderNumber:       "ORD-X-0001",
			Status:            "processing",
			StatusHistory:     historyJSON(history),
			TrackingInfo:      tracking,
			EstimatedDelivery: &estimated,
			CustomerNotes:     "ring twice",
		})

		require.NoError(t, err)
		assert.Equal(t, "ORD-X-0001", response.OrderNumber)
		assert.Equal(t, "processing", response.Status)
		assert.Equal(t, 40, response.Progress)
		assert.True(t, response.CanBeCancelled)
		assert.Equal(t, "ring twice", response.CustomerNotes)
		require.NotNil(t, response.Tracking)
		assert.Equal(t, "TRK-9", response.Tracking.TrackingNumber)

		require.Len(t, response.Timeline, 3)
		assert.Equal(t, order.Pending, response.Timeline[0].Status)
		assert.Equal(t, order.Processing, response.Timeline[2].Status)
	})

	t.Run("should omit tracking when the sub-record is absent", func(t *testing.T) {
		history := []order.HistoryEntry{{Status: order.Pending, Timestamp: base}}

		response, err := buildTimelineResponse(timelineRow{
			OrderNumber:   "ORD-X-0002",
			Status:        "pending",
			StatusHistory: historyJSON(history),
		})

		require.NoError(t, err)
		assert.Nil(t, response.Tracking)
		assert.Equal(t, 10, response.Progress)
	})

	t.Run("should fail on an unknown status label", func(t *testing.T) {
		_, err := buildTimelineResponse(timelineRow{
			Status:        "teleported",
			StatusHistory: historyJSON([]order.HistoryEntry{{Status: order.Pending, Timestamp: base}}),
		})

		require.Error(t, err)
	})

	t.Run("should fail on corrupt history JSON", func(t *testing.T) {
		_, err := buildTimelineResponse(timelineRow{
			Status:        "pending",
			StatusHistory: []byte("{not json"),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "statusHistory")
	})
}
