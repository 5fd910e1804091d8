package payment

import "time"

// Card は支払いカードを表す
// 形式検証は作成時に行い、有効期限は購入時にも再検証される
type Card struct {
	Owner  string
	Number string
	CCV    string
	Expiry time.Time // 月単位の有効期限
}

// NewCard は形式を検証したうえでカードを作成する
func NewCard(owner, number, ccv string, expiry time.Time) (*Card, error) {
	if !validNumber(number) {
		return nil, ErrInvalidCreditCardNumber
	}
	if !validCCV(ccv) {
		return nil, ErrInvalidCCV
	}
	c := &Card{Owner: owner, Number: number, CCV: ccv, Expiry: expiry}
	if c.Expired(time.Now()) {
		return nil, ErrExpiredCreditCard
	}
	return c, nil
}

// Expired は指定時刻においてカードが失効しているかを返す
// 有効期限の月の末日までは有効とみなす
func (c *Card) Expired(now time.Time) bool {
	endOfMonth := time.Date(c.Expiry.Year(), c.Expiry.Month(), 1, 0, 0, 0, 0, c.Expiry.Location()).
		AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}

// Masked は下4桁以外を伏せたカード番号を返す（ログ・レポート用）
func (c *Card) Masked() string {
	if len(c.Number) < 4 {
		return "****"
	}
	return "**** **** **** " + c.Number[len(c.Number)-4:]
}

// validNumber は13〜19桁の数字列であり、Luhnチェックを通過するかを検証する
func validNumber(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		ch := number[i]
		if ch < '0' || ch > '9' {
			return false
		}
		d := int(ch - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validCCV は3〜4桁の数字列かを検証する
func validCCV(ccv string) bool {
	if len(ccv) != 3 && len(ccv) != 4 {
		return false
	}
	for i := 0; i < len(ccv); i++ {
		if ccv[i] < '0' || ccv[i] > '9' {
			return false
		}
	}
	return true
}
