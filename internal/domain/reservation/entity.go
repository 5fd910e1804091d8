package reservation

import (
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/discount"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
)

// Status は予約の状態を表す
type Status string

const (
	// StatusEmpty は作成直後で入力が何もない状態
	StatusEmpty Status = "empty"
	// StatusAssembling は入力を組み立て中の状態
	StatusAssembling Status = "assembling"
	// StatusPurchased は購入確定済み（終端状態、以降は不変）
	StatusPurchased Status = "purchased"
	// StatusFailed は購入試行が失敗した状態（入力を修正して再試行できる）
	StatusFailed Status = "failed"
)

// SeatRef は予約が保持する座席の座標
type SeatRef struct {
	Row int
	Col int
}

// Purchaser は購入者情報を表す
type Purchaser struct {
	Name    string
	Surname string
	Email   string
}

// Reservation は購入前の入力を蓄積し、購入の状態機械を駆動するエンティティ
// 座席の仮押さえ・確定はRoomが行い、本エンティティは座標の集合のみを保持する
type Reservation struct {
	ID          string
	Projection  *projection.Projection
	Seats       []SeatRef
	Purchaser   *Purchaser
	Card        *payment.Card
	UnderMinAge int
	OverMaxAge  int
	Coupon      *coupon.Coupon
	Total       money.Money
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New は空の予約を作成する
func New(id string) *Reservation {
	now := time.Now()
	return &Reservation{
		ID:        id,
		Status:    StatusEmpty,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// mutated は成功した変更後の状態遷移を行う
// 空からは組み立て中へ、失敗からは再試行に向けて組み立て中へ戻る
func (r *Reservation) mutated() {
	if r.Status == StatusEmpty || r.Status == StatusFailed {
		r.Status = StatusAssembling
	}
	r.UpdatedAt = time.Now()
}

// mutable は変更可能な状態かを検証する
func (r *Reservation) mutable() error {
	if r.Status == StatusPurchased {
		return ErrAlreadyPurchased
	}
	return nil
}

// SetProjection は上映回を紐づける
// 座席を保持した後の付け替えはできない
func (r *Reservation) SetProjection(p *projection.Projection) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if p == nil {
		return ErrProjectionNotBound
	}
	if r.Projection != nil && len(r.Seats) > 0 {
		return ErrProjectionAlreadyBound
	}
	r.Projection = p
	r.mutated()
	return nil
}

// HasSeat は座標が予約に含まれるかを返す
func (r *Reservation) HasSeat(row, col int) bool {
	for _, s := range r.Seats {
		if s.Row == row && s.Col == col {
			return true
		}
	}
	return false
}

// AddSeat は座標を予約の座席集合に追加する
// Roomでの仮押さえ成功後に呼ぶこと
func (r *Reservation) AddSeat(row, col int) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if r.Projection == nil {
		return ErrProjectionNotBound
	}
	if r.HasSeat(row, col) {
		return ErrSeatTakenTwice
	}
	r.Seats = append(r.Seats, SeatRef{Row: row, Col: col})
	r.mutated()
	return nil
}

// RemoveSeat は座標を予約の座席集合から取り除く
func (r *Reservation) RemoveSeat(row, col int) error {
	if err := r.mutable(); err != nil {
		return err
	}
	for i, s := range r.Seats {
		if s.Row == row && s.Col == col {
			r.Seats = append(r.Seats[:i], r.Seats[i+1:]...)
			r.mutated()
			return nil
		}
	}
	return ErrFreeAnotherPersonSeat
}

// SetPurchaser は購入者情報を設定する
// 不正な入力の場合、既存の購入者情報は変更されない
func (r *Reservation) SetPurchaser(name, surname, email string) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if name == "" || surname == "" || email == "" {
		return ErrInvalidSpectatorInfo
	}
	r.Purchaser = &Purchaser{Name: name, Surname: surname, Email: email}
	r.mutated()
	return nil
}

// SetCard は支払いカードを設定する
// カードの形式検証はpayment.NewCardで実施済みであることを前提とする
func (r *Reservation) SetCard(card *payment.Card) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if card == nil {
		return ErrNoPaymentCard
	}
	r.Card = card
	r.mutated()
	return nil
}

// SetUnderMinAge は最低年齢未満の観客数を設定する
// 年齢区分の合計は座席数を超えられない
func (r *Reservation) SetUnderMinAge(n int) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if n < 0 || n+r.OverMaxAge > len(r.Seats) {
		return ErrInvalidNumberPeopleValue
	}
	r.UnderMinAge = n
	r.mutated()
	return nil
}

// SetOverMaxAge は最高年齢超の観客数を設定する
func (r *Reservation) SetOverMaxAge(n int) error {
	if err := r.mutable(); err != nil {
		return err
	}
	if n < 0 || r.UnderMinAge+n > len(r.Seats) {
		return ErrInvalidNumberPeopleValue
	}
	r.OverMaxAge = n
	r.mutated()
	return nil
}

// SetCoupon はクーポンを紐づける（消費は購入時に行う）
func (r *Reservation) SetCoupon(c *coupon.Coupon) error {
	if err := r.mutable(); err != nil {
		return err
	}
	r.Coupon = c
	r.mutated()
	return nil
}

// Quote は割引ポリシーへの入力を組み立てる
func (r *Reservation) Quote() discount.Quote {
	return discount.Quote{
		Seats:       len(r.Seats),
		BasePrice:   r.Projection.BasePrice,
		Date:        r.Projection.Date(),
		UnderMinAge: r.UnderMinAge,
		OverMaxAge:  r.OverMaxAge,
	}
}

// ValidateForPurchase は購入の事前条件を順に検証する
func (r *Reservation) ValidateForPurchase(now time.Time) error {
	if r.Status == StatusPurchased {
		return ErrAlreadyPurchased
	}
	if r.Projection == nil {
		return ErrProjectionNotBound
	}
	if len(r.Seats) == 0 {
		return ErrNoSeats
	}
	if r.Card == nil {
		return ErrNoPaymentCard
	}
	if r.Card.Expired(now) {
		return payment.ErrExpiredCreditCard
	}
	if r.UnderMinAge+r.OverMaxAge > len(r.Seats) {
		return ErrInvalidNumberPeopleValue
	}
	return nil
}

// MarkPurchased は予約を購入確定済みにする
func (r *Reservation) MarkPurchased(total money.Money) error {
	if r.Status != StatusAssembling && r.Status != StatusFailed {
		return ErrNotAssembling
	}
	r.Total = total
	r.Status = StatusPurchased
	r.UpdatedAt = time.Now()
	return nil
}

// MarkFailed は購入試行の失敗を記録する
// 仮押さえは解放されず、入力の修正後に再試行できる
func (r *Reservation) MarkFailed() {
	if r.Status == StatusPurchased {
		return
	}
	r.Status = StatusFailed
	r.UpdatedAt = time.Now()
}
