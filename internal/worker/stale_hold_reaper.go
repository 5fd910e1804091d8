package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// HoldReleaser は放置された予約の仮押さえ座席を解放するインターフェース
type HoldReleaser interface {
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// StaleHoldReaper は未購入のまま放置された予約を定期的に片付けるワーカー
type StaleHoldReaper struct {
	reservationService HoldReleaser
	interval           time.Duration
	holdTTL            time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewStaleHoldReaper は新しいリーパーを作成
func NewStaleHoldReaper(
	rs HoldReleaser,
	interval time.Duration,
	holdTTL time.Duration,
) *StaleHoldReaper {
	return &StaleHoldReaper{
		reservationService: rs,
		interval:           interval,
		holdTTL:            holdTTL,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はリーパーを開始
func (r *StaleHoldReaper) Start(ctx context.Context) {
	logger.Info("放置予約リーパー開始",
		zap.Duration("interval", r.interval),
		zap.Duration("hold_ttl", r.holdTTL),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("放置予約リーパー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("放置予約リーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

// Stop はリーパーを停止
func (r *StaleHoldReaper) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// reap は期限切れの仮押さえを解放
func (r *StaleHoldReaper) reap(ctx context.Context) {
	log := logger.Get()
	log.Debug("放置予約の解放処理開始")

	count, err := r.reservationService.ReleaseStale(ctx, r.holdTTL)
	if err != nil {
		log.Error("放置予約の解放処理失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("放置予約を解放", zap.Int("count", count))
	} else {
		log.Debug("放置予約なし")
	}
}
