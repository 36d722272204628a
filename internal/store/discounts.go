package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Discount mirrors a discount code row. A code targets either a product or a
// course, never both.
type Discount struct {
	ID        pgtype.UUID
	Code      string
	Percent   int32
	ProductID pgtype.UUID
	CourseID  pgtype.UUID
	MaxUses   int32
	UsedCount int32
	CreatorID pgtype.UUID
	CreatedAt time.Time
}

const discountColumns = `id, code, percent, product_id, course_id, max_uses, used_count, creator_id, created_at`

func scanDiscount(row interface{ Scan(dest ...any) error }) (Discount, error) {
	var d Discount
	err := row.Scan(&d.ID, &d.Code, &d.Percent, &d.ProductID, &d.CourseID,
		&d.MaxUses, &d.UsedCount, &d.CreatorID, &d.CreatedAt)
	return d, err
}

// CreateDiscountParams captures the fields required to insert a code.
type CreateDiscountParams struct {
	Code      string
	Percent   int32
	ProductID pgtype.UUID
	CourseID  pgtype.UUID
	MaxUses   int32
	CreatorID pgtype.UUID
}

const createDiscountSQL = `
INSERT INTO discounts (code, percent, product_id, course_id, max_uses, creator_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + discountColumns

// CreateDiscount inserts a discount code.
func (s *Store) CreateDiscount(ctx context.Context, arg CreateDiscountParams) (Discount, error) {
	return scanDiscount(s.pool.QueryRow(ctx, createDiscountSQL,
		arg.Code, arg.Percent, arg.ProductID, arg.CourseID, arg.MaxUses, arg.CreatorID))
}

const getDiscountByCodeSQL = `SELECT ` + discountColumns + ` FROM discounts WHERE code = $1`

// GetDiscountByCode resolves a code to its rule row.
func (s *Store) GetDiscountByCode(ctx context.Context, code string) (Discount, error) {
	return scanDiscount(s.pool.QueryRow(ctx, getDiscountByCodeSQL, code))
}

const listDiscountsSQL = `SELECT ` + discountColumns + ` FROM discounts ORDER BY created_at DESC`

// ListDiscounts returns every discount code, newest first.
func (s *Store) ListDiscounts(ctx context.Context) ([]Discount, error) {
	rows, err := s.pool.Query(ctx, listDiscountsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const incrementDiscountUsesSQL = `
UPDATE discounts SET used_count = used_count + 1
WHERE id = $1 AND used_count < max_uses
RETURNING used_count`

// IncrementDiscountUses consumes one use of the code. The guard on max_uses
// makes concurrent redemptions safe without an explicit lock.
func (s *Store) IncrementDiscountUses(ctx context.Context, id pgtype.UUID) (int32, error) {
	var used int32
	err := s.pool.QueryRow(ctx, incrementDiscountUsesSQL, id).Scan(&used)
	return used, err
}

const deleteDiscountSQL = `DELETE FROM discounts WHERE id = $1`

// DeleteDiscount removes a code.
func (s *Store) DeleteDiscount(ctx context.Context, id pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, deleteDiscountSQL, id)
	return err
}
