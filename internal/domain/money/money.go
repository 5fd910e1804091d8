package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money は金額と通貨を表す値オブジェクト
// 同一シネマ内では単一通貨を前提とし、演算は通貨の一致を仮定する
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New は金額と通貨からMoneyを作成する
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// FromFloat は浮動小数点値からMoneyを作成する（設定値の読み込み用）
func FromFloat(amount float64, currency string) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

// Zero は指定通貨のゼロ金額を返す
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add は金額を加算した新しいMoneyを返す
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub は金額を減算した新しいMoneyを返す
func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// SubFloored は金額を減算し、負になる場合はゼロに切り上げた新しいMoneyを返す
// クーポン適用で合計が負額になることを防ぐ
func (m Money) SubFloored(other Money) Money {
	result := m.Amount.Sub(other.Amount)
	if result.IsNegative() {
		result = decimal.Zero
	}
	return Money{Amount: result, Currency: m.Currency}
}

// MulInt は金額を整数倍した新しいMoneyを返す
func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Mul は金額に係数を掛けた新しいMoneyを返す
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// IsZero は金額がゼロかを返す
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsNegative は金額が負かを返す
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Equal は金額と通貨の両方が一致するかを返す
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Float64 は金額を浮動小数点値で返す（レスポンス用）
func (m Money) Float64() float64 {
	f, _ := m.Amount.Float64()
	return f
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
