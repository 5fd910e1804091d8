package projection

import "errors"

// Projection ドメインのエラー定義
var (
	ErrProjectionNotFound = errors.New("上映回が見つかりません")
	ErrMovieRequired      = errors.New("上映作品は必須です")
	ErrRoomRequired       = errors.New("ルームは必須です")
	ErrInvalidBasePrice   = errors.New("基本料金は正の金額である必要があります")
	ErrRoomNotRegistered  = errors.New("上映回のルームがシネマに登録されていません")
	ErrDuplicateID        = errors.New("同じIDの上映回が既に登録されています")
)
