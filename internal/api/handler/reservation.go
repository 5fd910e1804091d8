package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/payment"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// ReservationHandler は予約のハンドラー
type ReservationHandler struct {
	service ReservationServiceInterface
}

// NewReservationHandler はReservationHandlerを作成する
func NewReservationHandler(service ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// CreateReservationRequest は予約作成のリクエスト
type CreateReservationRequest struct {
	ProjectionID int64 `json:"projection_id" validate:"required,gt=0"`
}

// AddSeatRequest は座席追加のリクエスト（行はA〜Zのラベルで指定する）
type AddSeatRequest struct {
	Row string `json:"row" validate:"required,len=1"`
	Col int    `json:"col" validate:"gte=0"`
}

// RemoveSeatRequest は座席解放のリクエスト
type RemoveSeatRequest struct {
	Row string `json:"row" validate:"required,len=1"`
	Col int    `json:"col" validate:"gte=0"`
}

// SetPurchaserRequest は購入者情報のリクエスト
type SetPurchaserRequest struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// SetCardRequest はクレジットカード登録のリクエスト
type SetCardRequest struct {
	Owner  string `json:"owner" validate:"required"`
	Number string `json:"number" validate:"required"`
	CCV    string `json:"ccv" validate:"required"`
	Expiry string `json:"expiry" validate:"required"` // "2006-01" 形式
}

// SetPeopleRequest は割引対象人数のリクエスト
type SetPeopleRequest struct {
	UnderMinAge int `json:"under_min_age" validate:"gte=0"`
	OverMaxAge  int `json:"over_max_age" validate:"gte=0"`
}

// SetCouponRequest はクーポン適用のリクエスト
type SetCouponRequest struct {
	Progressive int64 `json:"progressive" validate:"required,gt=0"`
}

// SeatResponse は予約済み座席のレスポンス
type SeatResponse struct {
	Row string `json:"row"`
	Col int    `json:"col"`
}

// PurchaserResponse は購入者情報のレスポンス
type PurchaserResponse struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// ReservationResponse は予約のレスポンス
type ReservationResponse struct {
	ID           string             `json:"id"`
	ProjectionID int64              `json:"projection_id,omitempty"`
	Status       string             `json:"status"`
	Seats        []SeatResponse     `json:"seats"`
	Purchaser    *PurchaserResponse `json:"purchaser,omitempty"`
	Card         string             `json:"card,omitempty"`
	UnderMinAge  int                `json:"under_min_age"`
	OverMaxAge   int                `json:"over_max_age"`
	Coupon       string             `json:"coupon,omitempty"`
	Total        *TotalResponse     `json:"total,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// TotalResponse は金額のレスポンス
type TotalResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Create は空の予約を作成する
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), req.ProjectionID)
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(res))
}

// GetByID は予約を取得する
func (h *ReservationHandler) GetByID(c echo.Context) error {
	res, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// AddSeat は座席を仮押さえして予約に追加する
func (h *ReservationHandler) AddSeat(c echo.Context) error {
	var req AddSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.AddSeatByLabel(c.Request().Context(), c.Param("id"), req.Row, req.Col); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// RemoveSeat は予約から座席を外し仮押さえを解放する
func (h *ReservationHandler) RemoveSeat(c echo.Context) error {
	var req RemoveSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	row, err := room.RowLetterToIndex(req.Row)
	if err != nil {
		return api.DomainError(err)
	}
	if err := h.service.RemoveSeat(c.Request().Context(), c.Param("id"), row, req.Col); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// SetPurchaser は購入者情報を設定する
func (h *ReservationHandler) SetPurchaser(c echo.Context) error {
	var req SetPurchaserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SetPurchaser(c.Request().Context(), c.Param("id"), req.Name, req.Surname, req.Email); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// SetCard はクレジットカードを登録する
func (h *ReservationHandler) SetCard(c echo.Context) error {
	var req SetCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	expiry, err := time.Parse("2006-01", req.Expiry)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "有効期限はYYYY-MM形式で指定してください")
	}
	card, err := payment.NewCard(req.Owner, req.Number, req.CCV, expiry)
	if err != nil {
		return api.DomainError(err)
	}

	if err := h.service.SetCard(c.Request().Context(), c.Param("id"), card); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// SetPeople は割引対象となる人数を設定する
func (h *ReservationHandler) SetPeople(c echo.Context) error {
	var req SetPeopleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.service.SetUnderMinAge(c.Request().Context(), id, req.UnderMinAge); err != nil {
		return api.DomainError(err)
	}
	if err := h.service.SetOverMaxAge(c.Request().Context(), id, req.OverMaxAge); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// SetCoupon はクーポンを予約に紐付ける
func (h *ReservationHandler) SetCoupon(c echo.Context) error {
	var req SetCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SetCoupon(c.Request().Context(), c.Param("id"), req.Progressive); err != nil {
		return api.DomainError(err)
	}
	return h.respondWith(c, http.StatusOK)
}

// Total はクーポン適用後の支払額を計算して返す（予約は変更しない）
func (h *ReservationHandler) Total(c echo.Context) error {
	total, err := h.service.PreviewTotal(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(http.StatusOK, TotalResponse{
		Amount:   total.Float64(),
		Currency: total.Currency,
	})
}

// Purchase は予約を確定する
func (h *ReservationHandler) Purchase(c echo.Context) error {
	res, err := h.service.Purchase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// respondWith は更新後の予約を読み直して返す
func (h *ReservationHandler) respondWith(c echo.Context, status int) error {
	res, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(status, toReservationResponse(res))
}

func toReservationResponse(res *reservation.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:          res.ID,
		Status:      string(res.Status),
		Seats:       make([]SeatResponse, 0, len(res.Seats)),
		UnderMinAge: res.UnderMinAge,
		OverMaxAge:  res.OverMaxAge,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
	if res.Projection != nil {
		out.ProjectionID = res.Projection.ID
	}
	for _, s := range res.Seats {
		letter, _ := room.RowIndexToLetter(s.Row)
		out.Seats = append(out.Seats, SeatResponse{Row: letter, Col: s.Col})
	}
	if res.Purchaser != nil {
		out.Purchaser = &PurchaserResponse{
			Name:    res.Purchaser.Name,
			Surname: res.Purchaser.Surname,
			Email:   res.Purchaser.Email,
		}
	}
	if res.Card != nil {
		out.Card = res.Card.Masked()
	}
	if res.Coupon != nil {
		out.Coupon = res.Coupon.Code
	}
	if res.Status == reservation.StatusPurchased {
		out.Total = &TotalResponse{Amount: res.Total.Float64(), Currency: res.Total.Currency}
	}
	return out
}
