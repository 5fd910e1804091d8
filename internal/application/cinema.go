package application

import (
	"sort"
	"strings"
	"sync"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/discount"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/movie"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/projection"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/room"
)

// CinemaInfo はシネマの基本情報
type CinemaInfo struct {
	Name     string
	City     string
	Address  string
	Email    string
	Currency string
}

// Cinema はプロセス内唯一の論理レジストリ
// グローバル状態は持たず、コンポジションルートで構築して依存先に注入する
// ルーム・上映回・クーポンの集合は起動後は読み取りが支配的で、
// 追加はロック下で行い、読み取りはコピーを返すため並行イテレーションを壊さない
type Cinema struct {
	info   CinemaInfo
	policy discount.Policy

	mu              sync.RWMutex
	rooms           map[int64]*room.Room
	projections     map[int64]*projection.Projection
	coupons         map[int64]*coupon.Coupon
	couponsByCode   map[string]*coupon.Coupon
	nextCouponID    int64
	nextProjectionID int64
}

// NewCinema はレジストリを作成する
func NewCinema(info CinemaInfo, policy discount.Policy) *Cinema {
	if policy == nil {
		policy = discount.NewNone()
	}
	return &Cinema{
		info:          info,
		policy:        policy,
		rooms:         make(map[int64]*room.Room),
		projections:   make(map[int64]*projection.Projection),
		coupons:       make(map[int64]*coupon.Coupon),
		couponsByCode: make(map[string]*coupon.Coupon),
	}
}

// Info はシネマの基本情報を返す
func (c *Cinema) Info() CinemaInfo { return c.info }

// Currency はシネマの通貨を返す
func (c *Cinema) Currency() string { return c.info.Currency }

// DefaultPolicy は既定の割引ポリシーを返す
func (c *Cinema) DefaultPolicy() discount.Policy { return c.policy }

// AddRoom はルームを登録する
func (c *Cinema) AddRoom(r *room.Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rooms[r.ID]; ok {
		return room.ErrDuplicateRoom
	}
	c.rooms[r.ID] = r
	return nil
}

// Room はIDからルームを取得する
func (c *Cinema) Room(id int64) (*room.Room, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.rooms) == 0 {
		return nil, room.ErrNoCinemaRooms
	}
	r, ok := c.rooms[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	return r, nil
}

// RoomCount は登録済みルーム数を返す
func (c *Cinema) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}

// RemoveRoom はルームの登録を解除する
func (c *Cinema) RemoveRoom(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.rooms) == 0 {
		return room.ErrNoCinemaRooms
	}
	if _, ok := c.rooms[id]; !ok {
		return room.ErrRoomNotFound
	}
	delete(c.rooms, id)
	return nil
}

// AddProjection は上映回を登録する
// 参照するルームが登録済みであることを検証する
func (c *Cinema) AddProjection(p *projection.Projection) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.projections[p.ID]; ok {
		return projection.ErrDuplicateID
	}
	if _, ok := c.rooms[p.Room.ID]; !ok {
		return projection.ErrRoomNotRegistered
	}
	c.projections[p.ID] = p
	if p.ID > c.nextProjectionID {
		c.nextProjectionID = p.ID
	}
	return nil
}

// Projection はIDから上映回を取得する
func (c *Cinema) Projection(id int64) (*projection.Projection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.projections[id]
	if !ok {
		return nil, projection.ErrProjectionNotFound
	}
	return p, nil
}

// Projections は全上映回を開始時刻順で返す
func (c *Cinema) Projections() []*projection.Projection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*projection.Projection, 0, len(c.projections))
	for _, p := range c.projections {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out
}

// ProjectionsByMovie は指定作品の上映回を開始時刻順で返す
func (c *Cinema) ProjectionsByMovie(movieID int64) ([]*projection.Projection, error) {
	if _, err := c.Movie(movieID); err != nil {
		return nil, err
	}
	all := c.Projections()
	out := make([]*projection.Projection, 0, len(all))
	for _, p := range all {
		if p.Movie.ID == movieID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Movie はIDから上映作品を取得する
// 作品はいずれかの上映回に紐づくもののみ扱う
func (c *Cinema) Movie(id int64) (*movie.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.projections {
		if p.Movie.ID == id {
			return p.Movie, nil
		}
	}
	return nil, movie.ErrMovieNotFound
}

// Movies は現在上映中の作品一覧を重複なしで返す
func (c *Cinema) Movies() []*movie.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[int64]bool)
	out := make([]*movie.Movie, 0)
	for _, p := range c.projections {
		if !seen[p.Movie.ID] {
			seen[p.Movie.ID] = true
			out = append(out, p.Movie)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SearchMovies はタイトルの部分一致（大文字小文字無視）で作品を検索する
func (c *Cinema) SearchMovies(query string) []*movie.Movie {
	q := strings.ToLower(query)
	out := make([]*movie.Movie, 0)
	for _, m := range c.Movies() {
		if strings.Contains(strings.ToLower(m.Title), q) {
			out = append(out, m)
		}
	}
	return out
}

// AddCoupon はクーポンを登録する
func (c *Cinema) AddCoupon(cp *coupon.Coupon) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.coupons[cp.Progressive]; ok {
		return coupon.ErrDuplicate
	}
	c.coupons[cp.Progressive] = cp
	c.couponsByCode[cp.Code] = cp
	if cp.Progressive > c.nextCouponID {
		c.nextCouponID = cp.Progressive
	}
	return nil
}

// IssueCoupon は新しいクーポンを発行して登録する
// 進行IDは単調に採番される
func (c *Cinema) IssueCoupon(code string, amount money.Money) (*coupon.Coupon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.couponsByCode[code]; ok {
		return nil, coupon.ErrDuplicate
	}
	c.nextCouponID++
	cp, err := coupon.New(c.nextCouponID, code, amount)
	if err != nil {
		c.nextCouponID--
		return nil, err
	}
	c.coupons[cp.Progressive] = cp
	c.couponsByCode[cp.Code] = cp
	return cp, nil
}

// Coupon は進行IDからクーポンを取得する
func (c *Cinema) Coupon(progressive int64) (*coupon.Coupon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp, ok := c.coupons[progressive]
	if !ok {
		return nil, coupon.ErrCouponNotFound
	}
	return cp, nil
}

// CouponByCode はコードからクーポンを取得する
func (c *Cinema) CouponByCode(code string) (*coupon.Coupon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp, ok := c.couponsByCode[code]
	if !ok {
		return nil, coupon.ErrCouponNotFound
	}
	return cp, nil
}
