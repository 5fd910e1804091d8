package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// TestScenario_FullPurchaseFlow はチケット購入の完全なフローをテストします
// 上映回の選択 → 座席の仮押さえ → 購入者入力 → クーポン適用 → 購入確定 → 座席状態確認
func TestScenario_FullPurchaseFlow(t *testing.T) {
	f := newServiceFixture(t, halfAgePolicy())
	ctx := context.Background()

	cp, err := f.cinema.IssueCoupon("SUMMER6", money.FromFloat(6.0, "EUR"))
	require.NoError(t, err)

	// 1. 空席状況を確認
	count, _, err := f.service.Availability(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 50, count)

	// 2. 予約を作成
	res, err := f.service.Create(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusAssembling, res.Status)

	// 3. 座席4つをレター指定で仮押さえ
	for _, label := range []struct {
		row string
		col int
	}{{"A", 0}, {"A", 1}, {"A", 2}, {"A", 3}} {
		require.NoError(t, f.service.AddSeatByLabel(ctx, res.ID, label.row, label.col))
	}

	count, _, err = f.service.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 46, count)

	// 4. 1席を取り消して別の席に変更
	require.NoError(t, f.service.RemoveSeat(ctx, res.ID, 0, 3))
	require.NoError(t, f.service.AddSeatByLabel(ctx, res.ID, "B", 0))

	// 5. 購入者・人数・カードを入力
	require.NoError(t, f.service.SetPurchaser(ctx, res.ID, "太郎", "山田", "taro@example.com"))
	require.NoError(t, f.service.SetUnderMinAge(ctx, res.ID, 1))
	require.NoError(t, f.service.SetCard(ctx, res.ID, validCard(t)))

	// 6. クーポンを適用して合計を確認（12.5 x 4席、半額1名 → 43.75、クーポン6.0 → 37.75）
	require.NoError(t, f.service.SetCoupon(ctx, res.ID, cp.Progressive))

	total, err := f.service.PreviewTotal(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(money.FromFloat(37.75, "EUR")), "got %s", total)

	// 7. 購入確定
	f.charger.On("Charge", mock.Anything, res.Card, mock.MatchedBy(func(m money.Money) bool {
		return m.Equal(money.FromFloat(37.75, "EUR"))
	})).Return(nil)

	purchased, err := f.service.Purchase(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPurchased, purchased.Status)
	assert.True(t, cp.Used())
	f.charger.AssertExpectations(t)

	// 8. 座席は確定済みになり、解放対象にもならない
	_, grid, err := f.service.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, room.SeatOccupied, grid[0][0])
	assert.Equal(t, room.SeatOccupied, grid[1][0])
	assert.Equal(t, room.SeatFree, grid[0][3])

	removed, err := f.service.ReleaseStale(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

// TestScenario_FailedPurchaseRetry は失敗した購入の修正と再試行をテストします
func TestScenario_FailedPurchaseRetry(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	res, err := f.service.Create(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.service.AddSeat(ctx, res.ID, 2, 2))
	require.NoError(t, f.service.SetPurchaser(ctx, res.ID, "太郎", "山田", "taro@example.com"))

	// カード未入力のまま購入 → 失敗
	_, err = f.service.Purchase(ctx, res.ID)
	require.ErrorIs(t, err, reservation.ErrNoPaymentCard)
	assert.Equal(t, reservation.StatusFailed, res.Status)

	// 仮押さえは維持されている
	assert.Equal(t, room.SeatHeld, res.Projection.Room.Snapshot()[2][2])

	// カードを入力して再試行 → 成功
	require.NoError(t, f.service.SetCard(ctx, res.ID, validCard(t)))
	assert.Equal(t, reservation.StatusAssembling, res.Status)

	f.charger.On("Charge", mock.Anything, res.Card, mock.MatchedBy(func(m money.Money) bool {
		return m.Equal(money.FromFloat(12.5, "EUR"))
	})).Return(nil)

	purchased, err := f.service.Purchase(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPurchased, purchased.Status)
}

// TestScenario_StaleHoldReaperFreesSeats は放置予約の座席が他の客に戻ることをテストします
func TestScenario_StaleHoldReaperFreesSeats(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	abandoned, err := f.service.Create(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.service.AddSeat(ctx, abandoned.ID, 0, 0))
	abandoned.UpdatedAt = time.Now().Add(-time.Hour)

	// 別の客は同じ座席を取れない
	other, err := f.service.Create(ctx, 1)
	require.NoError(t, err)
	require.ErrorIs(t, f.service.AddSeat(ctx, other.ID, 0, 0), room.ErrSeatAlreadyTaken)

	removed, err := f.service.ReleaseStale(ctx, 15*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	// 解放後は取得できる
	assert.NoError(t, f.service.AddSeat(ctx, other.ID, 0, 0))
}
