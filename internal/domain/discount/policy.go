package discount

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
)

// Kind は割引ポリシーの種別を表す
// 種別は閉じた集合であり、新しい割引はバリアントの追加で拡張する
type Kind string

const (
	KindAge  Kind = "age"
	KindDay  Kind = "day"
	KindNone Kind = "none"
)

// Quote は料金計算の入力を表す
// ポリシーはQuoteと自身の設定のみから合計を算出し、予約を変更しない
type Quote struct {
	Seats       int
	BasePrice   money.Money
	Date        time.Time // 上映日（日付のみ）
	UnderMinAge int       // 割引対象の最低年齢未満の人数
	OverMaxAge  int       // 割引対象の最高年齢超の人数
}

// Policy は割引ポリシーのインターフェース
type Policy interface {
	// Kind はポリシーの種別を返す
	Kind() Kind
	// Total は合計金額を算出する純粋関数
	Total(q Quote) money.Money
}

var one = decimal.NewFromInt(1)

// Age は年齢に基づく割引ポリシー
// 対象年齢の人数分の座席にのみ割引率を適用し、残りは通常料金
type Age struct {
	MinAge       int
	MaxAge       int
	UnderPercent decimal.Decimal // 0〜1の割引率
	OverPercent  decimal.Decimal
}

// NewAge は年齢割引ポリシーを作成する
func NewAge(minAge, maxAge int, underPercent, overPercent decimal.Decimal) *Age {
	return &Age{MinAge: minAge, MaxAge: maxAge, UnderPercent: underPercent, OverPercent: overPercent}
}

func (a *Age) Kind() Kind { return KindAge }

func (a *Age) Total(q Quote) money.Money {
	full := q.Seats - q.UnderMinAge - q.OverMaxAge
	if full < 0 {
		full = 0
	}
	total := q.BasePrice.MulInt(full)
	total = total.Add(q.BasePrice.Mul(one.Sub(a.UnderPercent)).MulInt(q.UnderMinAge))
	total = total.Add(q.BasePrice.Mul(one.Sub(a.OverPercent)).MulInt(q.OverMaxAge))
	return total
}

// dateKey は日別割引テーブルの照合キー
const dateKey = "2006-01-02"

// Day は上映日に基づく割引ポリシー
// 日付は一意なキーであり、一致した場合は全座席に単一の割引率を適用する
type Day struct {
	percentages map[string]decimal.Decimal
}

// NewDay は日別割引ポリシーを作成する
func NewDay() *Day {
	return &Day{percentages: make(map[string]decimal.Decimal)}
}

// Set は指定日の割引率を登録する（同一日の再登録は上書き）
func (d *Day) Set(date time.Time, percent decimal.Decimal) {
	d.percentages[date.Format(dateKey)] = percent
}

func (d *Day) Kind() Kind { return KindDay }

func (d *Day) Total(q Quote) money.Money {
	total := q.BasePrice.MulInt(q.Seats)
	if percent, ok := d.percentages[q.Date.Format(dateKey)]; ok {
		return total.Mul(one.Sub(percent))
	}
	return total
}

// None は割引なしポリシー
type None struct{}

// NewNone は割引なしポリシーを作成する
func NewNone() *None { return &None{} }

func (n *None) Kind() Kind { return KindNone }

func (n *None) Total(q Quote) money.Money {
	return q.BasePrice.MulInt(q.Seats)
}
