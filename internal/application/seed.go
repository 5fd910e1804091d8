package application

import (
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// Seed はルーム・作品・上映回の初期データを登録する
// カタログの永続化はスコープ外のため、起動時にここで構築する
func Seed(c *Cinema) error {
	currency := c.Currency()

	room1, err := room.New(1, 5, 10)
	if err != nil {
		return err
	}
	room2, err := room.New(2, 7, 8)
	if err != nil {
		return err
	}
	if err := c.AddRoom(room1); err != nil {
		return err
	}
	if err := c.AddRoom(room2); err != nil {
		return err
	}

	druk := &movie.Movie{
		ID:          1,
		Title:       "Another Round",
		Description: "退屈な日々を送る高校教師の4人が、血中アルコール濃度を一定に保つ実験に乗り出す。",
		Genres:      []string{"ドラマ", "コメディ"},
		Directors:   []string{"Thomas Vinterberg"},
		Cast:        []string{"Mads Mikkelsen", "Thomas Bo Larsen"},
		Rating:      4,
		Duration:    117,
	}
	pulpFiction := &movie.Movie{
		ID:          2,
		Title:       "Pulp Fiction",
		Description: "ギャング、ボクサー、強盗カップルの運命が交錯する群像劇。",
		Genres:      []string{"ドラマ", "スリラー"},
		Directors:   []string{"Quentin Tarantino"},
		Cast:        []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman"},
		Rating:      5,
		Duration:    154,
	}

	base := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	seedProjections := []*projection.Projection{
		projection.New(1, druk, room1, base.Add(18*time.Hour), money.FromFloat(12.5, currency)),
		projection.New(2, druk, room1, base.Add(21*time.Hour), money.FromFloat(12.5, currency)),
		projection.New(3, pulpFiction, room2, base.Add(19*time.Hour), money.FromFloat(8.5, currency)),
		projection.New(4, pulpFiction, room2, base.Add(46*time.Hour), money.FromFloat(8.5, currency)),
	}
	for _, p := range seedProjections {
		if err := c.AddProjection(p); err != nil {
			return err
		}
	}
	return nil
}

// SeedCoupons はフォールバック用のクーポンを発行する
// PostgreSQLが構成されている場合はそちらから読み込むため使用しない
func SeedCoupons(c *Cinema) error {
	for _, seed := range []struct {
		code   string
		amount float64
	}{
		{"WELCOME5", 5.0},
		{"SUMMER6", 6.0},
		{"MATINEE35", 3.5},
	} {
		if _, err := c.IssueCoupon(seed.code, money.FromFloat(seed.amount, c.Currency())); err != nil {
			return err
		}
	}
	return nil
}
