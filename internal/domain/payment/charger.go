package payment

import (
	"context"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
)

// Charger は決済コラボレーターのインターフェース
// 実際のゲートウェイ連携はスコープ外であり、エンジンは成否のみを受け取る
type Charger interface {
	// Charge はカードに課金する。拒否された場合はErrPaymentDeclinedを返す
	Charge(ctx context.Context, card *Card, amount money.Money) error

	// Refund は課金を取り消す（クーポン競合時の補償アクション用）
	Refund(ctx context.Context, card *Card, amount money.Money) error
}

// Simulator は常に承認する決済シミュレーター
type Simulator struct{}

// NewSimulator は決済シミュレーターを作成する
func NewSimulator() *Simulator { return &Simulator{} }

func (s *Simulator) Charge(ctx context.Context, card *Card, amount money.Money) error {
	if card == nil {
		return ErrPaymentDeclined
	}
	if amount.IsNegative() {
		return ErrPaymentDeclined
	}
	return nil
}

func (s *Simulator) Refund(ctx context.Context, card *Card, amount money.Money) error {
	return nil
}

var _ Charger = (*Simulator)(nil)
