package coupon

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		amount      money.Money
		expectedErr error
	}{
		{name: "有効なクーポン", code: "WELCOME5", amount: money.FromFloat(5.0, "EUR"), expectedErr: nil},
		{name: "コードが空", code: "", amount: money.FromFloat(5.0, "EUR"), expectedErr: ErrCodeRequired},
		{name: "金額がゼロ", code: "ZERO", amount: money.Zero("EUR"), expectedErr: ErrInvalidAmount},
		{name: "金額が負", code: "NEG", amount: money.FromFloat(-1.0, "EUR"), expectedErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(1, tt.code, tt.amount)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, c.Code)
			assert.False(t, c.Used())
		})
	}
}

func TestCoupon_Spend(t *testing.T) {
	t.Run("一度だけ消費できる", func(t *testing.T) {
		c, err := New(1, "WELCOME5", money.FromFloat(5.0, "EUR"))
		require.NoError(t, err)

		require.NoError(t, c.Spend())
		assert.True(t, c.Used())

		assert.ErrorIs(t, c.Spend(), ErrAlreadyUsed)
	})

	t.Run("使用フラグは不可逆", func(t *testing.T) {
		c := Restore(1, "USED", money.FromFloat(5.0, "EUR"), true)

		assert.True(t, c.Used())
		assert.ErrorIs(t, c.Spend(), ErrAlreadyUsed)
	})

	t.Run("並行する消費は1つだけ成功する", func(t *testing.T) {
		c, err := New(1, "RACE", money.FromFloat(5.0, "EUR"))
		require.NoError(t, err)

		const workers = 100
		var wg sync.WaitGroup
		successes := make(chan struct{}, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.Spend(); err == nil {
					successes <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(successes)

		count := 0
		for range successes {
			count++
		}
		assert.Equal(t, 1, count)
		assert.True(t, c.Used())
	})
}

func TestCoupon_Apply(t *testing.T) {
	c, err := New(1, "SUMMER6", money.FromFloat(6.0, "EUR"))
	require.NoError(t, err)

	t.Run("合計から額面を引く", func(t *testing.T) {
		result := c.Apply(money.FromFloat(43.75, "EUR"))

		assert.True(t, result.Equal(money.FromFloat(37.75, "EUR")), "got %s", result)
	})

	t.Run("合計を超える額面はゼロに切り上げる", func(t *testing.T) {
		result := c.Apply(money.FromFloat(4.0, "EUR"))

		assert.True(t, result.IsZero())
	})

	t.Run("適用しても使用フラグは変わらない", func(t *testing.T) {
		c.Apply(money.FromFloat(10.0, "EUR"))

		assert.False(t, c.Used())
	})
}
