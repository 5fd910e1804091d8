package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound      = errors.New("予約が見つかりません")
	ErrAlreadyPurchased         = errors.New("購入確定済みの予約は変更できません")
	ErrNotAssembling            = errors.New("予約は組み立て中ではありません")
	ErrProjectionNotBound       = errors.New("予約に上映回が紐づいていません")
	ErrProjectionAlreadyBound   = errors.New("座席を保持した予約の上映回は変更できません")
	ErrSeatTakenTwice           = errors.New("座席は既にこの予約に含まれています")
	ErrFreeAnotherPersonSeat    = errors.New("この予約に含まれない座席は解放できません")
	ErrInvalidSpectatorInfo     = errors.New("購入者の氏名・メールアドレスは必須です")
	ErrInvalidNumberPeopleValue = errors.New("年齢区分の人数が不正です")
	ErrNoSeats                  = errors.New("予約に座席がありません")
	ErrNoPaymentCard            = errors.New("予約に支払いカードが設定されていません")
)
