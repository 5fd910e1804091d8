package room

import "strings"

// RowIndexToLetter は行番号(0〜25)をA〜Zの文字に変換する
func RowIndexToLetter(i int) (string, error) {
	if i < 0 || i >= maxRows {
		return "", ErrInvalidRowLetter
	}
	return string(rune('A' + i)), nil
}

// RowLetterToIndex はA〜Zの文字を行番号(0〜25)に変換する
// 小文字も受け付ける
func RowLetterToIndex(s string) (int, error) {
	if len(s) != 1 {
		return 0, ErrInvalidRowLetter
	}
	c := strings.ToUpper(s)[0]
	if c < 'A' || c > 'Z' {
		return 0, ErrInvalidRowLetter
	}
	return int(c - 'A'), nil
}
