package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus はドメインエラーをHTTPステータスコードに対応づける
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, projection.ErrProjectionNotFound),
		errors.Is(err, movie.ErrMovieNotFound),
		errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, room.ErrNoCinemaRooms):
		return http.StatusNotFound

	case errors.Is(err, room.ErrSeatAlreadyTaken),
		errors.Is(err, room.ErrFreeAnotherHoldersSeat),
		errors.Is(err, reservation.ErrSeatTakenTwice),
		errors.Is(err, reservation.ErrFreeAnotherPersonSeat),
		errors.Is(err, reservation.ErrAlreadyPurchased),
		errors.Is(err, coupon.ErrAlreadyUsed):
		return http.StatusConflict

	case errors.Is(err, payment.ErrPaymentDeclined):
		return http.StatusPaymentRequired

	case errors.Is(err, room.ErrInvalidCoordinates),
		errors.Is(err, room.ErrInvalidRowLetter),
		errors.Is(err, room.ErrInvalidDimensions),
		errors.Is(err, reservation.ErrInvalidSpectatorInfo),
		errors.Is(err, reservation.ErrInvalidNumberPeopleValue),
		errors.Is(err, reservation.ErrNoSeats),
		errors.Is(err, reservation.ErrNoPaymentCard),
		errors.Is(err, reservation.ErrProjectionNotBound),
		errors.Is(err, payment.ErrInvalidCreditCardNumber),
		errors.Is(err, payment.ErrInvalidCCV),
		errors.Is(err, payment.ErrExpiredCreditCard):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// DomainError はドメインエラーをechoのHTTPエラーに変換する
func DomainError(err error) *echo.HTTPError {
	return echo.NewHTTPError(HTTPStatus(err), err.Error())
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	// 5xx エラーはサーバー側の問題としてログに残す
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
