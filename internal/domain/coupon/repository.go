package coupon

import "context"

// Repository はクーポン永続化のインターフェース
// エンジンは読み込みと使用済みマークのみ行い、リレーショナルな管理は外部に委ねる
type Repository interface {
	// LoadAll は登録済みの全クーポンを読み込む
	LoadAll(ctx context.Context) ([]*Coupon, error)

	// Load はコードからクーポンを読み込む
	Load(ctx context.Context, code string) (*Coupon, error)

	// MarkUsed はクーポンを使用済みとして永続化する
	MarkUsed(ctx context.Context, code string) error
}
