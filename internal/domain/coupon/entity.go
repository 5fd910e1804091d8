package coupon

import (
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
)

// Coupon は一度だけ使用できる金額クーポン
// シネマレジストリが所有する単一インスタンスであり、使用フラグは不可逆
type Coupon struct {
	Progressive int64
	Code        string
	Amount      money.Money

	mu   sync.Mutex
	used bool
}

// New は新しいクーポンを作成する
func New(progressive int64, code string, amount money.Money) (*Coupon, error) {
	if code == "" {
		return nil, ErrCodeRequired
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	return &Coupon{Progressive: progressive, Code: code, Amount: amount}, nil
}

// Restore は永続化層から読み込んだ状態でクーポンを復元する
func Restore(progressive int64, code string, amount money.Money, used bool) *Coupon {
	return &Coupon{Progressive: progressive, Code: code, Amount: amount, used: used}
}

// Used は使用済みかを返す
func (c *Coupon) Used() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Spend はクーポンを消費する
// チェックとフラグ更新はアトミックであり、並行する消費は一方のみ成功する
func (c *Coupon) Spend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.used {
		return ErrAlreadyUsed
	}
	c.used = true
	return nil
}

// Apply は合計金額にクーポンを適用した金額を返す（ゼロ未満にはならない）
// 使用フラグは変更しない。消費はSpendで行うこと
func (c *Coupon) Apply(total money.Money) money.Money {
	return total.SubFloored(c.Amount)
}
