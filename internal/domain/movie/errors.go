package movie

import "errors"

// Movie ドメインのエラー定義
var (
	ErrMovieNotFound   = errors.New("上映作品が見つかりません")
	ErrTitleRequired   = errors.New("タイトルは必須です")
	ErrInvalidDuration = errors.New("上映時間は1分以上である必要があります")
	ErrInvalidRating   = errors.New("評価は0〜5である必要があります")
)
