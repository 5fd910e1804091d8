package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("加算と減算", func(t *testing.T) {
		a := FromFloat(12.5, "EUR")
		b := FromFloat(8.5, "EUR")

		assert.True(t, a.Add(b).Equal(FromFloat(21.0, "EUR")))
		assert.True(t, a.Sub(b).Equal(FromFloat(4.0, "EUR")))
	})

	t.Run("整数倍と係数倍", func(t *testing.T) {
		price := FromFloat(12.5, "EUR")

		assert.True(t, price.MulInt(4).Equal(FromFloat(50.0, "EUR")))
		assert.True(t, price.Mul(decimal.NewFromFloat(0.5)).Equal(FromFloat(6.25, "EUR")))
	})

	t.Run("浮動小数点の誤差が出ない", func(t *testing.T) {
		// float64では 0.1+0.2 != 0.3 になる組み合わせ
		a := FromFloat(0.1, "EUR")
		b := FromFloat(0.2, "EUR")

		assert.True(t, a.Add(b).Equal(FromFloat(0.3, "EUR")))
	})
}

func TestMoney_SubFloored(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		subtract float64
		expected float64
	}{
		{name: "通常の減算", amount: 43.75, subtract: 6.0, expected: 37.75},
		{name: "割引額が合計を超える場合はゼロ", amount: 5.0, subtract: 10.0, expected: 0},
		{name: "ちょうどゼロになる場合", amount: 6.0, subtract: 6.0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromFloat(tt.amount, "EUR").SubFloored(FromFloat(tt.subtract, "EUR"))

			assert.True(t, result.Equal(FromFloat(tt.expected, "EUR")))
			assert.False(t, result.IsNegative())
		})
	}
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, Zero("EUR").IsZero())
	assert.False(t, FromFloat(1.0, "EUR").IsZero())
	assert.True(t, FromFloat(1.0, "EUR").Sub(FromFloat(2.0, "EUR")).IsNegative())

	t.Run("通貨が違えば等しくない", func(t *testing.T) {
		assert.False(t, FromFloat(10.0, "EUR").Equal(FromFloat(10.0, "USD")))
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "12.50 EUR", FromFloat(12.5, "EUR").String())
	assert.Equal(t, "0.00 EUR", Zero("EUR").String())
}
