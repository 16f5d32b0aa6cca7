package kernel_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create money from a positive amount", func(t *testing.T) {
		m, err := kernel.NewMoney(4999)

		require.NoError(t, err)
		assert.Equal(t, int64(4999), m.Cents())
	})

	t.Run("should accept zero", func(t *testing.T) {
		m, err := kernel.NewMoney(0)

		require.NoError(t, err)
		assert.Equal(t, int64(0), m.Cents())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "money")
		assert.Contains(t, err.Error(), "-1 cents is negative")
	})
}

func TestMoney_Add(t *testing.T) {
	subtotal, _ := kernel.NewMoney(4999)
	tax, _ := kernel.NewMoney(400)

	sum := subtotal.Add(tax)

	assert.Equal(t, int64(5399), sum.Cents())
	// operands unchanged
	assert.Equal(t, int64(4999), subtotal.Cents())
	assert.Equal(t, int64(400), tax.Cents())
}

func TestMoney_IsEqual(t *testing.T) {
	a, _ := kernel.NewMoney(100)
	b, _ := kernel.NewMoney(100)
	c, _ := kernel.NewMoney(101)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestMoney_String(t *testing.T) {
	cases := map[int64]string{
		0:    "0.00",
		5:    "0.05",
		100:  "1.00",
		5399: "53.99",
	}

	for cents, expected := range cases {
		m, err := kernel.NewMoney(cents)
		require.NoError(t, err)
		assert.Equal(t, expected, m.String())
	}
}

func TestMoney_JSON(t *testing.T) {
	t.Run("should encode as integer cents", func(t *testing.T) {
		m, _ := kernel.NewMoney(5399)

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.Equal(t, "5399", string(data))
	})

	t.Run("should decode integer cents", func(t *testing.T) {
		var m kernel.Money

		require.NoError(t, json.Unmarshal([]byte("250"), &m))
		assert.Equal(t, int64(250), m.Cents())
	})

	t.Run("should reject negative cents on decode", func(t *testing.T) {
		var m kernel.Money

		err := json.Unmarshal([]byte("-250"), &m)
		require.Error(t, err)
	})
}
