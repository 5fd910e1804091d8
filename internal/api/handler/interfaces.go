package handler

import (
	"context"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// CatalogServiceInterface はカタログ参照のインターフェース
// シネマレジストリが実装する
type CatalogServiceInterface interface {
	Movie(id int64) (*movie.Movie, error)
	Movies() []*movie.Movie
	SearchMovies(query string) []*movie.Movie
	Projection(id int64) (*projection.Projection, error)
	ProjectionsByMovie(movieID int64) ([]*projection.Projection, error)
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	Create(ctx context.Context, projectionID int64) (*reservation.Reservation, error)
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	AddSeat(ctx context.Context, id string, row, col int) error
	AddSeatByLabel(ctx context.Context, id, rowLetter string, col int) error
	RemoveSeat(ctx context.Context, id string, row, col int) error
	SetPurchaser(ctx context.Context, id, name, surname, email string) error
	SetCard(ctx context.Context, id string, card *payment.Card) error
	SetUnderMinAge(ctx context.Context, id string, n int) error
	SetOverMaxAge(ctx context.Context, id string, n int) error
	SetCoupon(ctx context.Context, id string, progressive int64) error
	PreviewTotal(ctx context.Context, id string) (money.Money, error)
	Purchase(ctx context.Context, id string) (*reservation.Reservation, error)
	Availability(ctx context.Context, projectionID int64) (int, [][]room.SeatState, error)
}
