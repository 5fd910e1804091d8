package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("クーポンロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("クーポンロックの所有者ではありません")
)

// releaseScript は所有者確認と削除をアトミックに実行する
const releaseScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// CouponLocker はクーポン消費をレプリカ間で直列化する分散ロック
// 単一プロセス構成では使用されず、その場合クーポン自身のミューテックスのみで保護される
type CouponLocker struct {
	client  *redis.Client
	ttl     time.Duration
	retries int
	backoff time.Duration
}

// NewCouponLocker は新しいCouponLockerを作成する
func NewCouponLocker(client *redis.Client) *CouponLocker {
	return &CouponLocker{
		client:  client,
		ttl:     5 * time.Second,
		retries: 3,
		backoff: 100 * time.Millisecond,
	}
}

// Lock は指定クーポンのロックを取得する
// 取得できない場合はバックオフを挟んでリトライし、それでも取れなければ
// ErrLockNotAcquired を返す
func (m *CouponLocker) Lock(ctx context.Context, progressive int64) (*CouponLock, error) {
	key := fmt.Sprintf("coupons:lock:%d", progressive)
	token := uuid.New().String()

	var lastErr error
	for i := 0; i < m.retries; i++ {
		ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("クーポンロック取得に失敗: %w", err)
		}
		if ok {
			return &CouponLock{client: m.client, key: key, token: token}, nil
		}
		lastErr = ErrLockNotAcquired

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.backoff):
		}
	}
	return nil, lastErr
}

// CouponLock は取得済みのクーポンロック
type CouponLock struct {
	client *redis.Client
	key    string
	token  string
}

// Release はロックを解放する
// TTL切れで他プロセスが取得済みの場合は ErrLockNotOwned を返す
func (l *CouponLock) Release(ctx context.Context) error {
	result, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("クーポンロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}
