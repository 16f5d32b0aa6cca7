package order_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("should parse all wire labels", func(t *testing.T) {
		cases := map[string]order.Status{
			"pending":          order.Pending,
			"confirmed":        order.Confirmed,
			"processing":       order.Processing,
			"shipped":          order.Shipped,
			"out-for-delivery": order.OutForDelivery,
			"delivered":        order.Delivered,
			"cancelled":        order.Cancelled,
		}

		for label, expected := range cases {
			status, err := order.ParseStatus(label)
			require.NoError(t, err)
			assert.Equal(t, expected, status)
			assert.Equal(t, label, status.String())
		}
	})

	t.Run("should reject unrecognized labels", func(t *testing.T) {
		for _, label := range []string{"", "unknown", "PENDING", "in-transit"} {
			_, err := order.ParseStatus(label)
			require.Error(t, err, label)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	valid := []order.Status{
		order.Pending, order.Confirmed, order.Processing,
		order.Shipped, order.OutForDelivery, order.Delivered, order.Cancelled,
	}
	for _, s := range valid {
		require.NoError(t, s.Validate())
	}

	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
}

func TestIsValidTransition(t *testing.T) {
	type edge struct {
		from order.Status
		to   order.Status
	}

	t.Run("should allow every edge of the lifecycle graph", func(t *testing.T) {
		allowed := []edge{
			{order.Pending, order.Confirmed},
			{order.Pending, order.Cancelled},
			{order.Confirmed, order.Processing},
			{order.Confirmed, order.Cancelled},
			{order.Processing, order.Shipped},
			{order.Processing, order.Cancelled},
			{order.Shipped, order.OutForDelivery},
			{order.Shipped, order.Delivered},
			{order.OutForDelivery, order.Delivered},
		}
		for _, e := range allowed {
			assert.True(t, order.IsValidTransition(e.from, e.to), "%s -> %s", e.from, e.to)
		}
	})

	t.Run("should reject skips, reversals and edges out of terminal statuses", func(t *testing.T) {
		rejected := []edge{
			{order.Pending, order.Shipped},
			{order.Pending, order.Delivered},
			{order.Confirmed, order.Pending},
			{order.Shipped, order.Cancelled},
			{order.OutForDelivery, order.Cancelled},
			{order.Delivered, order.Pending},
			{order.Delivered, order.Cancelled},
			{order.Cancelled, order.Pending},
			{order.Cancelled, order.Confirmed},
		}
		for _, e := range rejected {
			assert.False(t, order.IsValidTransition(e.from, e.to), "%s -> %s", e.from, e.to)
		}
	})
}

func TestNextLogicalStatus(t *testing.T) {
	t.Run("should return the forward edge excluding cancellation", func(t *testing.T) {
		cases := map[order.Status]order.Status{
			order.Pending:        order.Confirmed,
			order.Confirmed:      order.Processing,
			order.Processing:     order.Shipped,
			order.Shipped:        order.OutForDelivery,
			order.OutForDelivery: order.Delivered,
		}
		for current, expected := range cases {
			next, ok := order.NextLogicalStatus(current)
			require.True(t, ok, current.String())
			assert.Equal(t, expected, next)
		}
	})

	t.Run("should report no next status for terminal statuses", func(t *testing.T) {
		for _, s := range []order.Status{order.Delivered, order.Cancelled} {
			_, ok := order.NextLogicalStatus(s)
			assert.False(t, ok, s.String())
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())

	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Processing, order.Shipped, order.OutForDelivery,
	} {
		assert.False(t, s.IsTerminal(), s.String())
	}
	assert.False(t, order.Unknown.IsTerminal())
}

func TestStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, order.Pending.CanBeCancelled())
	assert.True(t, order.Confirmed.CanBeCancelled())
	assert.True(t, order.Processing.CanBeCancelled())

	assert.False(t, order.Shipped.CanBeCancelled())
	assert.False(t, order.OutForDelivery.CanBeCancelled())
	assert.False(t, order.Delivered.CanBeCancelled())
	assert.False(t, order.Cancelled.CanBeCancelled())
}

func TestStatus_Progress(t *testing.T) {
	cases := map[order.Status]int{
		order.Pending:        10,
		order.Confirmed:      20,
		order.Processing:     40,
		order.Shipped:        60,
		order.OutForDelivery: 80,
		order.Delivered:      100,
		order.Cancelled:      0,
	}
	for status, expected := range cases {
		assert.Equal(t, expected, status.Progress(), status.String())
	}
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Order Placed", order.Pending.Label())
	assert.Equal(t, "Out for Delivery", order.OutForDelivery.Label())
	assert.Equal(t, "Unknown", order.Unknown.Label())
}

func TestStatus_JSON(t *testing.T) {
	t.Run("should round-trip through the wire label", func(t *testing.T) {
		data, err := json.Marshal(order.OutForDelivery)
		require.NoError(t, err)
		assert.Equal(t, `"out-for-delivery"`, string(data))

		var decoded order.Status
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, order.OutForDelivery, decoded)
	})

	t.Run("should reject unknown labels on decode", func(t *testing.T) {
		var decoded order.Status
		require.Error(t, json.Unmarshal([]byte(`"teleported"`), &decoded))
	})
}

func TestParsePaymentStatus(t *testing.T) {
	for _, label := range []string{"pending", "paid", "failed"} {
		ps, err := order.ParsePaymentStatus(label)
		require.NoError(t, err)
		assert.Equal(t, label, ps.String())
	}

	_, err := order.ParsePaymentStatus("refunded")
	require.Error(t, err)
}
