package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// ProjectionHandler は上映回のハンドラー
type ProjectionHandler struct {
	catalog      CatalogServiceInterface
	reservations ReservationServiceInterface
}

// NewProjectionHandler はProjectionHandlerを作成する
func NewProjectionHandler(catalog CatalogServiceInterface, rs ReservationServiceInterface) *ProjectionHandler {
	return &ProjectionHandler{catalog: catalog, reservations: rs}
}

// ProjectionResponse は座席状況を含む上映回のレスポンス
type ProjectionResponse struct {
	ProjectionSummary
	MovieTitle     string     `json:"movie_title"`
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	AvailableSeats int        `json:"available_seats"`
	Seats          [][]string `json:"seats"` // 行ごとの座席状態（free/held/occupied）
	RowLabels      []string   `json:"row_labels"`
}

// GetByID は上映回の詳細と座席グリッドを返す
func (h *ProjectionHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "上映回IDが不正です")
	}
	p, err := h.catalog.Projection(id)
	if err != nil {
		return api.DomainError(err)
	}

	available, grid, err := h.reservations.Availability(c.Request().Context(), id)
	if err != nil {
		return api.DomainError(err)
	}

	seats := make([][]string, len(grid))
	labels := make([]string, len(grid))
	for i, gridRow := range grid {
		seats[i] = make([]string, len(gridRow))
		for j, state := range gridRow {
			seats[i][j] = string(state)
		}
		letter, _ := room.RowIndexToLetter(i)
		labels[i] = letter
	}

	return c.JSON(http.StatusOK, ProjectionResponse{
		ProjectionSummary: toProjectionSummary(p),
		MovieTitle:        p.Movie.Title,
		Rows:              p.Room.Rows(),
		Cols:              p.Room.Cols(),
		AvailableSeats:    available,
		Seats:             seats,
		RowLabels:         labels,
	})
}
