package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	redisinfra "github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
)

// ReservationService は予約の組み立てと購入フローを調停する
// 購入前の予約はプロセス内に保持され、確定した座席のみがルームに固定される
type ReservationService struct {
	cinema      *Cinema
	charger     payment.Charger
	couponRepo  coupon.Repository            // 永続化なしの場合はnil
	notifier    Notifier                     // 通知なしの場合はnil
	couponLock  *redisinfra.CouponLocker     // 単一プロセス構成の場合はnil
	cache       *redisinfra.AvailabilityCache // キャッシュなしの場合はnil
	metrics     *metrics.Metrics             // 計測なしの場合はnil

	mu           sync.RWMutex
	reservations map[string]*reservation.Reservation
}

// NewReservationService は予約サービスを作成する
func NewReservationService(
	c *Cinema,
	charger payment.Charger,
	couponRepo coupon.Repository,
	notifier Notifier,
	couponLock *redisinfra.CouponLocker,
	cache *redisinfra.AvailabilityCache,
	m *metrics.Metrics,
) *ReservationService {
	return &ReservationService{
		cinema:       c,
		charger:      charger,
		couponRepo:   couponRepo,
		notifier:     notifier,
		couponLock:   couponLock,
		cache:        cache,
		metrics:      m,
		reservations: make(map[string]*reservation.Reservation),
	}
}

// Create は上映回に紐づいた空の予約を作成する
func (s *ReservationService) Create(ctx context.Context, projectionID int64) (*reservation.Reservation, error) {
	p, err := s.cinema.Projection(projectionID)
	if err != nil {
		return nil, err
	}

	res := reservation.New(uuid.New().String())
	if err := res.SetProjection(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reservations[res.ID] = res
	s.mu.Unlock()
	return res, nil
}

// Get はIDから予約を取得する
func (s *ReservationService) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return res, nil
}

// AddSeat は座席を仮押さえして予約に追加する
// 同一座標への並行する追加は一方のみ成功する（ルームのロックで直列化）
func (s *ReservationService) AddSeat(ctx context.Context, id string, row, col int) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.Projection == nil {
		return reservation.ErrProjectionNotBound
	}

	// 自分の予約内での重複追加はルームに触れる前に弾く
	// （Room.Takeは同一保持者に対して冪等なため、ここで判定しないと重複を見逃す）
	if res.HasSeat(row, col) {
		return reservation.ErrSeatTakenTwice
	}

	if err := res.Projection.Room.Take(row, col, res.ID); err != nil {
		s.recordSeatOp("take", seatOpStatus(err))
		return err
	}
	if err := res.AddSeat(row, col); err != nil {
		// 到達しない想定だが、エンティティ側が拒否した場合は仮押さえを戻す
		_ = res.Projection.Room.Release(row, col, res.ID)
		return err
	}

	s.recordSeatOp("take", "success")
	s.heldSeatsAdd(1)
	s.invalidateAvailability(ctx, res.Projection.ID)
	return nil
}

// AddSeatByLabel は "C7" 形式の座席指定で仮押さえする
func (s *ReservationService) AddSeatByLabel(ctx context.Context, id, rowLetter string, col int) error {
	rowIdx, err := room.RowLetterToIndex(rowLetter)
	if err != nil {
		return err
	}
	return s.AddSeat(ctx, id, rowIdx, col)
}

// RemoveSeat は予約から座席を取り除き、仮押さえを解放する
func (s *ReservationService) RemoveSeat(ctx context.Context, id string, row, col int) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := res.RemoveSeat(row, col); err != nil {
		s.recordSeatOp("release", "conflict")
		return err
	}
	if err := res.Projection.Room.Release(row, col, res.ID); err != nil {
		return err
	}

	s.recordSeatOp("release", "success")
	s.heldSeatsAdd(-1)
	s.invalidateAvailability(ctx, res.Projection.ID)
	return nil
}

// SetPurchaser は購入者情報を設定する
func (s *ReservationService) SetPurchaser(ctx context.Context, id, name, surname, email string) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return res.SetPurchaser(name, surname, email)
}

// SetCard は支払いカードを設定する
// カードの形式検証はpayment.NewCardが行う
func (s *ReservationService) SetCard(ctx context.Context, id string, card *payment.Card) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return res.SetCard(card)
}

// SetUnderMinAge は最低年齢未満の観客数を設定する
func (s *ReservationService) SetUnderMinAge(ctx context.Context, id string, n int) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return res.SetUnderMinAge(n)
}

// SetOverMaxAge は最高年齢超の観客数を設定する
func (s *ReservationService) SetOverMaxAge(ctx context.Context, id string, n int) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return res.SetOverMaxAge(n)
}

// SetCoupon はクーポンを予約に紐づける
// 使用済みかを先行して検証するが、消費は購入時まで行わない
func (s *ReservationService) SetCoupon(ctx context.Context, id string, progressive int64) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	cp, err := s.cinema.Coupon(progressive)
	if err != nil {
		return err
	}
	if cp.Used() {
		return coupon.ErrAlreadyUsed
	}
	return res.SetCoupon(cp)
}

// PreviewTotal は現在の入力に基づく合計金額を算出する（状態は変更しない）
// 購入前の画面表示用
func (s *ReservationService) PreviewTotal(ctx context.Context, id string) (money.Money, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return money.Money{}, err
	}
	if res.Projection == nil {
		return money.Money{}, reservation.ErrProjectionNotBound
	}
	total := s.cinema.DefaultPolicy().Total(res.Quote())
	if res.Coupon != nil {
		total = res.Coupon.Apply(total)
	}
	return total, nil
}

// Purchase は予約を購入確定する
//
// 事前条件の検証 → 割引計算 → 課金 → クーポン消費 → 座席確定 の順で進む
// クーポンの消費は課金成功後に行う（決済拒否でクーポンを無駄にしないため）
// 課金後にクーポン消費の競合に敗れた場合は返金で補償する
// いかなる失敗でも予約はfailedになるが、仮押さえは維持され再試行できる
func (s *ReservationService) Purchase(ctx context.Context, id string) (*reservation.Reservation, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := res.ValidateForPurchase(time.Now()); err != nil {
		if !errors.Is(err, reservation.ErrAlreadyPurchased) {
			res.MarkFailed()
		}
		s.recordPurchase(purchaseStatus(err))
		return nil, err
	}

	total := s.cinema.DefaultPolicy().Total(res.Quote())

	chargeTotal := total
	if res.Coupon != nil {
		// 消費前の先行チェック。確定的な消費は課金成功後
		if res.Coupon.Used() {
			res.MarkFailed()
			s.recordPurchase("coupon_used")
			return nil, coupon.ErrAlreadyUsed
		}
		chargeTotal = res.Coupon.Apply(total)
	}

	if err := s.charger.Charge(ctx, res.Card, chargeTotal); err != nil {
		res.MarkFailed()
		s.recordPurchase("declined")
		return nil, fmt.Errorf("%w: %s", payment.ErrPaymentDeclined, err)
	}

	if res.Coupon != nil {
		if err := s.spendCoupon(ctx, res.Coupon); err != nil {
			// 課金済みのため返金で補償する
			if refundErr := s.charger.Refund(ctx, res.Card, chargeTotal); refundErr != nil {
				logger.Error("クーポン競合後の返金に失敗",
					zap.String("reservation_id", res.ID),
					zap.Error(refundErr),
				)
			}
			res.MarkFailed()
			s.recordPurchase("coupon_used")
			s.recordCoupon("already_used")
			return nil, err
		}
		s.recordCoupon("success")
	}

	committed := res.Projection.Room.Commit(res.ID)
	if err := res.MarkPurchased(chargeTotal); err != nil {
		return nil, err
	}

	s.heldSeatsAdd(-committed)
	s.invalidateAvailability(ctx, res.Projection.ID)
	s.recordPurchase("success")

	if s.notifier != nil {
		if err := s.notifier.SendReport(ctx, res); err != nil {
			logger.Warn("購入レポートの送信に失敗",
				zap.String("reservation_id", res.ID),
				zap.Error(err),
			)
		}
	}

	logger.Info("予約を購入確定",
		zap.String("reservation_id", res.ID),
		zap.Int64("projection_id", res.Projection.ID),
		zap.Int("seats", len(res.Seats)),
		zap.String("total", chargeTotal.String()),
	)
	return res, nil
}

// spendCoupon はクーポンをアトミックに消費し、永続化層に反映する
// 分散ロックが構成されている場合はレプリカ間でも直列化する
// ロックは消費の瞬間のみ保持し、課金や通知をまたいで保持しない
func (s *ReservationService) spendCoupon(ctx context.Context, cp *coupon.Coupon) error {
	if s.couponLock != nil {
		lock, err := s.couponLock.Lock(ctx, cp.Progressive)
		if err != nil {
			return err
		}
		defer lock.Release(ctx)
	}

	if err := cp.Spend(); err != nil {
		return err
	}

	if s.couponRepo != nil {
		if err := s.couponRepo.MarkUsed(ctx, cp.Code); err != nil {
			logger.Error("クーポン使用済みの永続化に失敗",
				zap.String("code", cp.Code),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Availability は上映回の空席数と座席グリッドを返す
// 空席数はキャッシュを優先し、ミス時にルームから再計算して補充する
func (s *ReservationService) Availability(ctx context.Context, projectionID int64) (int, [][]room.SeatState, error) {
	p, err := s.cinema.Projection(projectionID)
	if err != nil {
		return 0, nil, err
	}

	grid := p.Room.Snapshot()

	if s.cache != nil {
		if count, err := s.cache.GetAvailableCount(ctx, projectionID); err == nil {
			return count, grid, nil
		}
	}

	count := p.Room.AvailableCount()
	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, projectionID, count, 30*time.Second); err != nil {
			logger.Debug("空席数キャッシュの保存に失敗", zap.Error(err))
		}
	}
	return count, grid, nil
}

// CheckSeatAvailable は上映回の座席が空席かを返す
func (s *ReservationService) CheckSeatAvailable(ctx context.Context, projectionID int64, row, col int) (bool, error) {
	p, err := s.cinema.Projection(projectionID)
	if err != nil {
		return false, err
	}
	return p.Room.Available(row, col)
}

// ReleaseStale は放置された未購入予約の仮押さえを解放し、予約を破棄する
// 購入確定済みの予約は対象外
func (s *ReservationService) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	stale := make([]*reservation.Reservation, 0)
	for id, res := range s.reservations {
		if res.Status != reservation.StatusPurchased && res.UpdatedAt.Before(cutoff) {
			stale = append(stale, res)
			delete(s.reservations, id)
		}
	}
	s.mu.Unlock()

	released := 0
	for _, res := range stale {
		if res.Projection != nil {
			n := res.Projection.Room.ReleaseAll(res.ID)
			released += n
			s.heldSeatsAdd(-n)
			s.invalidateAvailability(ctx, res.Projection.ID)
		}
	}

	if len(stale) > 0 {
		logger.Info("放置予約を破棄",
			zap.Int("reservations", len(stale)),
			zap.Int("released_seats", released),
		)
	}
	return len(stale), nil
}

func (s *ReservationService) invalidateAvailability(ctx context.Context, projectionID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, projectionID); err != nil {
		logger.Debug("空席数キャッシュの無効化に失敗", zap.Error(err))
	}
}

func (s *ReservationService) recordSeatOp(op, status string) {
	if s.metrics != nil {
		s.metrics.SeatOperationsTotal.WithLabelValues(op, status).Inc()
	}
}

func (s *ReservationService) recordPurchase(status string) {
	if s.metrics != nil {
		s.metrics.PurchasesTotal.WithLabelValues(status).Inc()
	}
}

func (s *ReservationService) recordCoupon(status string) {
	if s.metrics != nil {
		s.metrics.CouponRedemptionsTotal.WithLabelValues(status).Inc()
	}
}

func (s *ReservationService) heldSeatsAdd(n int) {
	if s.metrics != nil {
		s.metrics.HeldSeats.Add(float64(n))
	}
}

func seatOpStatus(err error) string {
	switch {
	case errors.Is(err, room.ErrSeatAlreadyTaken):
		return "conflict"
	case errors.Is(err, room.ErrInvalidCoordinates):
		return "invalid"
	default:
		return "error"
	}
}

func purchaseStatus(err error) string {
	switch {
	case errors.Is(err, reservation.ErrNoSeats):
		return "no_seat"
	case errors.Is(err, reservation.ErrNoPaymentCard):
		return "no_card"
	case errors.Is(err, payment.ErrExpiredCreditCard):
		return "expired_card"
	case errors.Is(err, reservation.ErrAlreadyPurchased):
		return "already_purchased"
	default:
		return "error"
	}
}
