package room

import "sync"

// SeatState は座席の占有状態を表す
type SeatState string

const (
	// SeatFree は空席
	SeatFree SeatState = "free"
	// SeatHeld は仮押さえ（購入未確定、保持者の予約に紐づく）
	SeatHeld SeatState = "held"
	// SeatOccupied は購入確定済み
	SeatOccupied SeatState = "occupied"
)

// Seat はシネマルームの1座席を表す
// Roomが排他的に所有し、Roomのメソッド経由でのみ変更される
type Seat struct {
	Row    int
	Col    int
	State  SeatState
	Holder string // 保持している予約ID（空席時は空文字）
}

// maxRows は行番号をA..Zの1文字に対応させるための上限
const maxRows = 26

// Room は固定サイズの座席グリッドを持つシネマルーム
// 座席の状態変更はルーム単位のミューテックスで直列化される
type Room struct {
	ID   int64
	rows int
	cols int

	mu    sync.Mutex
	seats [][]*Seat
}

// New は指定された行数・列数のルームを作成する
func New(id int64, rows, cols int) (*Room, error) {
	if rows <= 0 || cols <= 0 || rows > maxRows {
		return nil, ErrInvalidDimensions
	}
	seats := make([][]*Seat, rows)
	for i := range seats {
		seats[i] = make([]*Seat, cols)
		for j := range seats[i] {
			seats[i][j] = &Seat{Row: i, Col: j, State: SeatFree}
		}
	}
	return &Room{ID: id, rows: rows, cols: cols, seats: seats}, nil
}

// Rows は行数を返す
func (r *Room) Rows() int { return r.rows }

// Cols は列数を返す
func (r *Room) Cols() int { return r.cols }

// SeatCount は総座席数を返す
func (r *Room) SeatCount() int { return r.rows * r.cols }

func (r *Room) inBounds(row, col int) bool {
	return row >= 0 && row < r.rows && col >= 0 && col < r.cols
}

// Take は座席を仮押さえする
// 同一保持者による再取得は冪等に成功する
func (r *Room) Take(row, col int, holder string) error {
	if !r.inBounds(row, col) {
		return ErrInvalidCoordinates
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seats[row][col]
	if s.State != SeatFree {
		if s.Holder == holder {
			return nil
		}
		return ErrSeatAlreadyTaken
	}
	s.State = SeatHeld
	s.Holder = holder
	return nil
}

// Release は保持者の仮押さえを解放する
func (r *Room) Release(row, col int, holder string) error {
	if !r.inBounds(row, col) {
		return ErrInvalidCoordinates
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seats[row][col]
	if s.State == SeatFree || s.Holder != holder {
		return ErrFreeAnotherHoldersSeat
	}
	s.State = SeatFree
	s.Holder = ""
	return nil
}

// ReleaseAll は保持者の仮押さえをすべて解放し、解放数を返す
// 確定済み（occupied）の座席は対象外
func (r *Room) ReleaseAll(holder string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := 0
	for _, row := range r.seats {
		for _, s := range row {
			if s.State == SeatHeld && s.Holder == holder {
				s.State = SeatFree
				s.Holder = ""
				released++
			}
		}
	}
	return released
}

// Commit は保持者の仮押さえを確定済みに昇格させ、確定数を返す
func (r *Room) Commit(holder string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	committed := 0
	for _, row := range r.seats {
		for _, s := range row {
			if s.State == SeatHeld && s.Holder == holder {
				s.State = SeatOccupied
				committed++
			}
		}
	}
	return committed
}

// Available は座席が空席かを返す
func (r *Room) Available(row, col int) (bool, error) {
	if !r.inBounds(row, col) {
		return false, ErrInvalidCoordinates
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seats[row][col].State == SeatFree, nil
}

// AvailableCount は空席数を返す
func (r *Room) AvailableCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, row := range r.seats {
		for _, s := range row {
			if s.State == SeatFree {
				count++
			}
		}
	}
	return count
}

// Snapshot は座席状態のコピーを返す（表示用）
func (r *Room) Snapshot() [][]SeatState {
	r.mu.Lock()
	defer r.mu.Unlock()

	grid := make([][]SeatState, r.rows)
	for i, row := range r.seats {
		grid[i] = make([]SeatState, r.cols)
		for j, s := range row {
			grid[i][j] = s.State
		}
	}
	return grid
}
