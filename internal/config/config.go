package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cinema   CinemaConfig
	Discount DiscountConfig
	Worker   WorkerConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig はデータベース設定（クーポン永続化用）
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CinemaConfig はシネマの基本情報設定
type CinemaConfig struct {
	Name     string
	City     string
	Address  string
	Email    string
	Currency string
}

// DiscountConfig は既定の割引ポリシー設定
// Kindは none / age / day のいずれか
// DayTableは "2026-09-01=0.2,2026-09-15=0.1" 形式
type DiscountConfig struct {
	Kind         string
	MinAge       int
	MaxAge       int
	UnderPercent float64
	OverPercent  float64
	DayTable     map[string]float64
}

// WorkerConfig は放置予約リーパーの設定
type WorkerConfig struct {
	Interval time.Duration
	HoldTTL  time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cinema_reservation"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Cinema: CinemaConfig{
			Name:     getEnv("CINEMA_NAME", "Cinema Armadillo"),
			City:     getEnv("CINEMA_CITY", "Pavia"),
			Address:  getEnv("CINEMA_ADDRESS", "Via A. Ferrata, 5"),
			Email:    getEnv("CINEMA_EMAIL", "cinema@example.com"),
			Currency: getEnv("CINEMA_CURRENCY", "EUR"),
		},
		Discount: DiscountConfig{
			Kind:         getEnv("DISCOUNT_KIND", "age"),
			MinAge:       getIntEnv("DISCOUNT_MIN_AGE", 12),
			MaxAge:       getIntEnv("DISCOUNT_MAX_AGE", 65),
			UnderPercent: getFloatEnv("DISCOUNT_UNDER_PERCENT", 0.15),
			OverPercent:  getFloatEnv("DISCOUNT_OVER_PERCENT", 0.15),
			DayTable:     getDayTableEnv("DISCOUNT_DAY_TABLE"),
		},
		Worker: WorkerConfig{
			Interval: getDurationEnv("REAPER_INTERVAL", time.Minute),
			HoldTTL:  getDurationEnv("RESERVATION_HOLD_TTL", 15*time.Minute),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getDayTableEnv は "YYYY-MM-DD=割引率" のカンマ区切りをパースする
// 不正なエントリは読み飛ばす
func getDayTableEnv(key string) map[string]float64 {
	table := make(map[string]float64)
	value := os.Getenv(key)
	if value == "" {
		return table
	}
	for _, entry := range strings.Split(value, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if _, err := time.Parse("2006-01-02", parts[0]); err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || pct < 0 || pct > 1 {
			continue
		}
		table[parts[0]] = pct
	}
	return table
}
