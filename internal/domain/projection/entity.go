package projection

import (
	"time"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// Projection は上映回エンティティを表す
// Roomは共有参照であり、複数の上映回が同じルームを参照しうる
type Projection struct {
	ID        int64
	Movie     *movie.Movie
	Room      *room.Room
	StartAt   time.Time
	BasePrice money.Money
}

// New は新しい上映回を作成する
func New(id int64, m *movie.Movie, r *room.Room, startAt time.Time, basePrice money.Money) *Projection {
	return &Projection{
		ID:        id,
		Movie:     m,
		Room:      r,
		StartAt:   startAt,
		BasePrice: basePrice,
	}
}

// Validate は上映回の検証を行う
func (p *Projection) Validate() error {
	if p.Movie == nil {
		return ErrMovieRequired
	}
	if p.Room == nil {
		return ErrRoomRequired
	}
	if p.BasePrice.IsNegative() || p.BasePrice.IsZero() {
		return ErrInvalidBasePrice
	}
	return nil
}

// Date は上映日（日付のみ）を返す
// 日別割引の照合キーとして使用する
func (p *Projection) Date() time.Time {
	y, m, d := p.StartAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.StartAt.Location())
}
