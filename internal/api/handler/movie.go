package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/api"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
)

// MovieHandler は上映作品カタログのハンドラー
type MovieHandler struct {
	catalog CatalogServiceInterface
}

// NewMovieHandler はMovieHandlerを作成する
func NewMovieHandler(catalog CatalogServiceInterface) *MovieHandler {
	return &MovieHandler{catalog: catalog}
}

// MovieResponse は上映作品のレスポンス
type MovieResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	Rating      int      `json:"rating"`
	Duration    int      `json:"duration"`
}

func toMovieResponse(m *movie.Movie) MovieResponse {
	return MovieResponse{
		ID: m.ID, Title: m.Title, Description: m.Description,
		Genres: m.Genres, Directors: m.Directors, Cast: m.Cast,
		Rating: m.Rating, Duration: m.Duration,
	}
}

// ProjectionSummary は上映回の一覧用レスポンス
type ProjectionSummary struct {
	ID        int64   `json:"id"`
	MovieID   int64   `json:"movie_id"`
	RoomID    int64   `json:"room_id"`
	StartAt   string  `json:"start_at"`
	BasePrice float64 `json:"base_price"`
	Currency  string  `json:"currency"`
}

func toProjectionSummary(p *projection.Projection) ProjectionSummary {
	return ProjectionSummary{
		ID:        p.ID,
		MovieID:   p.Movie.ID,
		RoomID:    p.Room.ID,
		StartAt:   p.StartAt.Format("2006-01-02T15:04:05Z07:00"),
		BasePrice: p.BasePrice.Float64(),
		Currency:  p.BasePrice.Currency,
	}
}

// List は現在上映中の作品一覧を返す
// queryパラメータでタイトルの部分一致検索ができる
func (h *MovieHandler) List(c echo.Context) error {
	var movies []*movie.Movie
	if query := c.QueryParam("query"); query != "" {
		movies = h.catalog.SearchMovies(query)
	} else {
		movies = h.catalog.Movies()
	}
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID は指定IDの作品を返す
func (h *MovieHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "作品IDが不正です")
	}
	m, err := h.catalog.Movie(id)
	if err != nil {
		return api.DomainError(err)
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// Projections は指定作品の上映回一覧を返す
func (h *MovieHandler) Projections(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "作品IDが不正です")
	}
	projections, err := h.catalog.ProjectionsByMovie(id)
	if err != nil {
		return api.DomainError(err)
	}
	resp := make([]ProjectionSummary, len(projections))
	for i, p := range projections {
		resp[i] = toProjectionSummary(p)
	}
	return c.JSON(http.StatusOK, resp)
}
