package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/coupon"
	"github.com/sanosuguru/go-cinema-reservation/internal/domain/money"
)

type couponRow struct {
	ID       int64           `db:"id"`
	Code     string          `db:"code"`
	Amount   decimal.Decimal `db:"amount"`
	Currency string          `db:"currency"`
	Used     bool            `db:"used"`
}

func (r *couponRow) toEntity() *coupon.Coupon {
	return coupon.Restore(r.ID, r.Code, money.New(r.Amount, r.Currency), r.Used)
}

// CouponRepository はクーポン永続化のPostgreSQL実装
type CouponRepository struct{ db *sqlx.DB }

func NewCouponRepository(db *sqlx.DB) *CouponRepository { return &CouponRepository{db: db} }

func (r *CouponRepository) LoadAll(ctx context.Context) ([]*coupon.Coupon, error) {
	query := `SELECT id, code, amount, currency, used FROM coupons ORDER BY id`
	var rows []couponRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("クーポン一覧取得に失敗: %w", err)
	}
	coupons := make([]*coupon.Coupon, len(rows))
	for i, row := range rows {
		coupons[i] = row.toEntity()
	}
	return coupons, nil
}

func (r *CouponRepository) Load(ctx context.Context, code string) (*coupon.Coupon, error) {
	query := `SELECT id, code, amount, currency, used FROM coupons WHERE code = $1`
	var row couponRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, coupon.ErrCouponNotFound
		}
		return nil, fmt.Errorf("クーポン取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CouponRepository) MarkUsed(ctx context.Context, code string) error {
	query := `UPDATE coupons SET used = TRUE WHERE code = $1`
	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("クーポン使用済み更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return coupon.ErrCouponNotFound
	}
	return nil
}

var _ coupon.Repository = (*CouponRepository)(nil)
