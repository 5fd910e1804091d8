package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// TestBenchmark_LargeScaleGrid は大規模座席数でのパフォーマンスを計測する
// 26ルーム × 26行 × 150列 ≒ 10万座席に対する仮押さえ・購入のスループットを実証する
func TestBenchmark_LargeScaleGrid(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	const (
		numRooms = 26
		rows     = 26
		cols     = 150
	)

	cinema := NewCinema(CinemaInfo{Name: "Benchmark Kino", Currency: "EUR"}, nil)
	m := movie.NewMovie(1, "Benchmark Feature", "負荷計測用", 120)

	for i := int64(1); i <= numRooms; i++ {
		r, err := room.New(i, rows, cols)
		require.NoError(t, err)
		require.NoError(t, cinema.AddRoom(r))

		p := projection.New(i, m, r, time.Now().Add(72*time.Hour), money.FromFloat(10.0, "EUR"))
		require.NoError(t, cinema.AddProjection(p))
	}

	service := NewReservationService(cinema, payment.NewSimulator(), nil, nil, nil, nil, nil)
	ctx := context.Background()

	totalSeats := numRooms * rows * cols
	t.Logf("=== %d座席の仮押さえ開始 ===", totalSeats)

	// ルームごとに1ワーカーが全座席を順に押さえる
	start := time.Now()
	var taken atomic.Int64
	var wg sync.WaitGroup

	for roomID := int64(1); roomID <= numRooms; roomID++ {
		wg.Add(1)
		go func(projectionID int64) {
			defer wg.Done()
			res, err := service.Create(ctx, projectionID)
			if err != nil {
				t.Errorf("予約作成に失敗: %v", err)
				return
			}
			for row := 0; row < rows; row++ {
				for col := 0; col < cols; col++ {
					if err := service.AddSeat(ctx, res.ID, row, col); err != nil {
						t.Errorf("座席(%d,%d)の仮押さえに失敗: %v", row, col, err)
						return
					}
					taken.Add(1)
				}
			}
		}(roomID)
	}
	wg.Wait()

	elapsed := time.Since(start)
	require.Equal(t, int64(totalSeats), taken.Load())
	t.Logf("仮押さえ完了: %d席 / %v (%.0f席/秒)",
		taken.Load(), elapsed, float64(taken.Load())/elapsed.Seconds())

	// 全上映回が満席であること
	for roomID := int64(1); roomID <= numRooms; roomID++ {
		available, _, err := service.Availability(ctx, roomID)
		require.NoError(t, err)
		require.Zero(t, available, fmt.Sprintf("上映回%dは満席のはず", roomID))
	}
}

// TestBenchmark_ConcurrentContention は同一座席への競合アクセスを計測する
// 多数の予約が同じ人気席を取り合っても勝者は常に1件であることを大規模に確認する
func TestBenchmark_ConcurrentContention(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	const (
		contenders = 200
		hotSeats   = 50
	)

	cinema := NewCinema(CinemaInfo{Name: "Benchmark Kino", Currency: "EUR"}, nil)
	m := movie.NewMovie(1, "Benchmark Feature", "負荷計測用", 120)

	r, err := room.New(1, 1, hotSeats)
	require.NoError(t, err)
	require.NoError(t, cinema.AddRoom(r))
	p := projection.New(1, m, r, time.Now().Add(72*time.Hour), money.FromFloat(10.0, "EUR"))
	require.NoError(t, cinema.AddProjection(p))

	service := NewReservationService(cinema, payment.NewSimulator(), nil, nil, nil, nil, nil)
	ctx := context.Background()

	// 各予約が全席を狙う。席ごとの成功は1件のみ
	ids := make([]string, contenders)
	for i := range ids {
		res, err := service.Create(ctx, 1)
		require.NoError(t, err)
		ids[i] = res.ID
	}

	start := time.Now()
	var wins atomic.Int64
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(reservationID string) {
			defer wg.Done()
			for col := 0; col < hotSeats; col++ {
				if err := service.AddSeat(ctx, reservationID, 0, col); err == nil {
					wins.Add(1)
				}
			}
		}(id)
	}
	wg.Wait()

	elapsed := time.Since(start)
	require.Equal(t, int64(hotSeats), wins.Load(), "席ごとの勝者は1件のみ")

	available, _, err := service.Availability(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, available)

	t.Logf("競合解決完了: %d予約 × %d席 / %v", contenders, hotSeats, elapsed)
}
