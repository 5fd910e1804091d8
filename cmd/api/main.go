package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-cinema-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-reservation/internal/application"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/discount"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-reservation/internal/worker"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	m := metrics.Init()

	// レジストリと既定の割引ポリシーを組み立てる
	cinema := application.NewCinema(application.CinemaInfo{
		Name:     cfg.Cinema.Name,
		City:     cfg.Cinema.City,
		Address:  cfg.Cinema.Address,
		Email:    cfg.Cinema.Email,
		Currency: cfg.Cinema.Currency,
	}, buildPolicy(&cfg.Discount))

	if err := application.Seed(cinema); err != nil {
		logger.Fatal("初期データの投入失敗", zap.Error(err))
	}

	// PostgreSQL接続（任意。未接続時はインメモリのクーポンで動作する）
	var couponRepo coupon.Repository
	if db, err := postgres.NewConnection(&cfg.Database); err != nil {
		logger.Warn("PostgreSQL接続失敗（クーポン永続化なしで継続）", zap.Error(err))
		if err := application.SeedCoupons(cinema); err != nil {
			logger.Fatal("クーポン初期データの投入失敗", zap.Error(err))
		}
	} else {
		defer db.Close()
		if err := postgres.RunMigrations(db.DB, "migrations"); err != nil {
			logger.Fatal("マイグレーション実行失敗", zap.Error(err))
		}
		repo := postgres.NewCouponRepository(db)
		couponRepo = repo

		loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		coupons, err := repo.LoadAll(loadCtx)
		cancel()
		if err != nil {
			logger.Fatal("クーポン読み込み失敗", zap.Error(err))
		}
		for _, cp := range coupons {
			if err := cinema.AddCoupon(cp); err != nil {
				logger.Warn("クーポン登録スキップ", zap.String("code", cp.Code), zap.Error(err))
			}
		}
		logger.Info("クーポン読み込み完了", zap.Int("count", len(coupons)))
	}

	// Redis接続（任意。未接続時はキャッシュと分散ロックなしで動作する）
	var (
		couponLock *redisinfra.CouponLocker
		cache      *redisinfra.AvailabilityCache
	)
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続失敗（キャッシュなしで継続）", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		couponLock = redisinfra.NewCouponLocker(redisClient)
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}
	cancel()

	reservationService := application.NewReservationService(
		cinema,
		payment.NewSimulator(),
		couponRepo,
		application.NewLogNotifier(cinema.Info()),
		couponLock,
		cache,
		m,
	)

	// 放置予約リーパー起動
	reaper := worker.NewStaleHoldReaper(reservationService, cfg.Worker.Interval, cfg.Worker.HoldTTL)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go reaper.Start(workerCtx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	registerRoutes(e, cinema, reservationService)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	// サーバー起動
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバー起動", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	reaper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}

// registerRoutes はAPIルートを登録する
func registerRoutes(e *echo.Echo, cinema *application.Cinema, rs *application.ReservationService) {
	healthHandler := handler.NewHealthHandler()
	movieHandler := handler.NewMovieHandler(cinema)
	projectionHandler := handler.NewProjectionHandler(cinema, rs)
	reservationHandler := handler.NewReservationHandler(rs)

	v1 := e.Group("/api/v1")

	v1.GET("/health", healthHandler.Check)

	v1.GET("/movies", movieHandler.List)
	v1.GET("/movies/:id", movieHandler.GetByID)
	v1.GET("/movies/:id/projections", movieHandler.Projections)

	v1.GET("/projections/:id", projectionHandler.GetByID)

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.POST("/reservations/:id/seats", reservationHandler.AddSeat)
	v1.DELETE("/reservations/:id/seats", reservationHandler.RemoveSeat)
	v1.PUT("/reservations/:id/purchaser", reservationHandler.SetPurchaser)
	v1.PUT("/reservations/:id/card", reservationHandler.SetCard)
	v1.PUT("/reservations/:id/people", reservationHandler.SetPeople)
	v1.PUT("/reservations/:id/coupon", reservationHandler.SetCoupon)
	v1.GET("/reservations/:id/total", reservationHandler.Total)
	v1.POST("/reservations/:id/purchase", reservationHandler.Purchase)
}

// buildPolicy は設定から既定の割引ポリシーを組み立てる
func buildPolicy(cfg *config.DiscountConfig) discount.Policy {
	switch cfg.Kind {
	case "age":
		return discount.NewAge(
			cfg.MinAge,
			cfg.MaxAge,
			decimal.NewFromFloat(cfg.UnderPercent),
			decimal.NewFromFloat(cfg.OverPercent),
		)
	case "day":
		d := discount.NewDay()
		for date, pct := range cfg.DayTable {
			t, err := time.Parse("2006-01-02", date)
			if err != nil {
				logger.Warn("割引日のパース失敗", zap.String("date", date), zap.Error(err))
				continue
			}
			d.Set(t, decimal.NewFromFloat(pct))
		}
		return d
	default:
		return discount.NewNone()
	}
}
