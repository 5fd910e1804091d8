package payment

import "errors"

// Payment ドメインのエラー定義
var (
	ErrInvalidCreditCardNumber = errors.New("カード番号が不正です")
	ErrInvalidCCV              = errors.New("CCVが不正です")
	ErrExpiredCreditCard       = errors.New("カードの有効期限が切れています")
	ErrPaymentDeclined         = errors.New("決済が拒否されました")
)
