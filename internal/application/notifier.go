package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// Notifier は購入レポート送信コラボレーターのインターフェース
// メール配送自体はスコープ外であり、エンジンは成否のみを受け取る
type Notifier interface {
	// SendReport は購入確定した予約のレポートを購入者へ送る
	SendReport(ctx context.Context, res *reservation.Reservation) error
}

// LogNotifier はレポート内容をログに出力するNotifier実装
type LogNotifier struct {
	info CinemaInfo
}

// NewLogNotifier はLogNotifierを作成する
func NewLogNotifier(info CinemaInfo) *LogNotifier {
	return &LogNotifier{info: info}
}

func (n *LogNotifier) SendReport(ctx context.Context, res *reservation.Reservation) error {
	fields := []zap.Field{
		zap.String("cinema", n.info.Name),
		zap.String("reservation_id", res.ID),
		zap.Int("seats", len(res.Seats)),
		zap.String("total", res.Total.String()),
	}
	if res.Purchaser != nil {
		fields = append(fields, zap.String("email", res.Purchaser.Email))
	}
	if res.Projection != nil {
		fields = append(fields,
			zap.String("movie", res.Projection.Movie.Title),
			zap.Time("start_at", res.Projection.StartAt),
		)
	}
	logger.Info("購入レポート送信", fields...)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
