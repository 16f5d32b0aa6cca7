package notify_test

import (
	"sync"
	"testing"

	"storefront/internal/adapters/out/notify"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryOutbox_EnqueueDrain(t *testing.T) {
	t.Run("should drain messages in enqueue order", func(t *testing.T) {
		outbox := notify.NewInMemoryOutbox()
		outbox.Enqueue(ports.OrderConfirmation{OrderNumber: "ORD-1"})
		outbox.Enqueue(ports.OrderConfirmation{OrderNumber: "ORD-2"})

		drained := outbox.Drain()

		require.Len(t, drained, 2)
		assert.Equal(t, "ORD-1", drained[0].OrderNumber)
		assert.Equal(t, "ORD-2", drained[1].OrderNumber)
	})

	t.Run("should be empty after drain", func(t *testing.T) {
		outbox := notify.NewInMemoryOutbox()
		outbox.Enqueue(ports.OrderConfirmation{OrderNumber: "ORD-1"})

		require.Len(t, outbox.Drain(), 1)
		assert.Empty(t, outbox.Drain())
	})

	t.Run("should tolerate concurrent enqueues", func(t *testing.T) {
		outbox := notify.NewInMemoryOutbox()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				outbox.Enqueue(ports.OrderConfirmation{OrderNumber: "ORD-N"})
			}()
		}
		wg.Wait()

		assert.Len(t, outbox.Drain(), 50)
	})
}
