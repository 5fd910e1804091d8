package coupon

import "errors"

// Coupon ドメインのエラー定義
var (
	ErrCouponNotFound = errors.New("クーポンが見つかりません")
	ErrAlreadyUsed    = errors.New("クーポンは既に使用されています")
	ErrCodeRequired   = errors.New("クーポンコードは必須です")
	ErrInvalidAmount  = errors.New("クーポン金額は正の金額である必要があります")
	ErrDuplicate      = errors.New("同じクーポンが既に登録されています")
)
