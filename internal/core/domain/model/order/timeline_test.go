package order_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeline(t *testing.T) {
	t.Run("should project the full history with customer-facing labels", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Transition(order.TransitionParams{
			NewStatus: order.Confirmed,
			Notes:     "payment verified",
		}))
		require.NoError(t, o.Transition(order.TransitionParams{
			NewStatus: order.Processing,
			Location:  "warehouse A",
		}))

		timeline := order.Timeline(o)

		require.Len(t, timeline, 3)
		assert.Equal(t, order.Pending, timeline[0].Status)
		assert.Equal(t, "Order Placed", timeline[0].Label)
		assert.Equal(t, "Order Confirmed", timeline[1].Label)
		assert.Equal(t, "payment verified", timeline[1].Notes)
		assert.Equal(t, "Processing", timeline[2].Label)
		assert.Equal(t, "warehouse A", timeline[2].Location)
	})
}

func TestTimelineFromHistory(t *testing.T) {
	t.Run("should sort entries by timestamp ascending", func(t *testing.T) {
		base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		history := []order.HistoryEntry{
			{Status: order.Processing, Timestamp: base.Add(2 * time.Hour)},
			{Status: order.Pending, Timestamp: base},
			{Status: order.Confirmed, Timestamp: base.Add(time.Hour)},
		}

		timeline := order.TimelineFromHistory(history)

		require.Len(t, timeline, 3)
		assert.Equal(t, order.Pending, timeline[0].Status)
		assert.Equal(t, order.Confirmed, timeline[1].Status)
		assert.Equal(t, order.Processing, timeline[2].Status)
	})

	t.Run("should keep insertion order for equal timestamps", func(t *testing.T) {
		at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		history := []order.HistoryEntry{
			{Status: order.Pending, Timestamp: at},
			{Status: order.Confirmed, Timestamp: at},
		}

		timeline := order.TimelineFromHistory(history)

		require.Len(t, timeline, 2)
		assert.Equal(t, order.Pending, timeline[0].Status)
		assert.Equal(t, order.Confirmed, timeline[1].Status)
	})

	t.Run("should return an empty timeline for empty history", func(t *testing.T) {
		assert.Empty(t, order.TimelineFromHistory(nil))
	})
}
