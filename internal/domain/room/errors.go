package room

import "errors"

// Room ドメインのエラー定義
var (
	ErrInvalidDimensions      = errors.New("ルームの行数・列数が不正です")
	ErrInvalidCoordinates     = errors.New("座席の座標がルームの範囲外です")
	ErrSeatAlreadyTaken       = errors.New("座席は他の予約が保持しています")
	ErrFreeAnotherHoldersSeat = errors.New("他の予約が保持する座席は解放できません")
	ErrNoCinemaRooms          = errors.New("シネマにルームが登録されていません")
	ErrRoomNotFound           = errors.New("ルームが見つかりません")
	ErrDuplicateRoom          = errors.New("同じIDのルームが既に登録されています")
	ErrInvalidRowLetter       = errors.New("行の文字はA〜Zの1文字である必要があります")
)
