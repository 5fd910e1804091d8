package movie

// Movie は上映作品エンティティを表す
type Movie struct {
	ID          int64
	Title       string
	Description string
	Genres      []string
	Directors   []string
	Cast        []string
	Rating      int // 5段階評価
	Duration    int // 分
}

// NewMovie は新しい上映作品を作成する
func NewMovie(id int64, title, description string, duration int) *Movie {
	return &Movie{
		ID:          id,
		Title:       title,
		Description: description,
		Duration:    duration,
	}
}

// Validate は上映作品の検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrTitleRequired
	}
	if m.Duration <= 0 {
		return ErrInvalidDuration
	}
	if m.Rating < 0 || m.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
