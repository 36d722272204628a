package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// ProductLine is a basket product entry: catalog id plus quantity.
type ProductLine struct {
	ProductID pgtype.UUID
	Count     int32
}

// CourseLine is a basket course entry. Courses carry no quantity.
type CourseLine struct {
	CourseID pgtype.UUID
}

const basketProductsSQL = `
SELECT product_id, count FROM basket_products WHERE user_id = $1 ORDER BY added_at`

// BasketProducts returns the user's product line items.
func (s *Store) BasketProducts(ctx context.Context, userID pgtype.UUID) ([]ProductLine, error) {
	rows, err := s.pool.Query(ctx, basketProductsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductLine
	for rows.Next() {
		var l ProductLine
		if err := rows.Scan(&l.ProductID, &l.Count); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const basketCoursesSQL = `
SELECT course_id FROM basket_courses WHERE user_id = $1 ORDER BY added_at`

// BasketCourses returns the user's course line items.
func (s *Store) BasketCourses(ctx context.Context, userID pgtype.UUID) ([]CourseLine, error) {
	rows, err := s.pool.Query(ctx, basketCoursesSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CourseLine
	for rows.Next() {
		var l CourseLine
		if err := rows.Scan(&l.CourseID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const addBasketProductSQL = `
INSERT INTO basket_products (user_id, product_id, count)
VALUES ($1, $2, 1)
ON CONFLICT (user_id, product_id) DO UPDATE SET count = basket_products.count + 1
RETURNING count`

// AddBasketProduct inserts a product line or increments the existing one.
// One row per (user, product) pair holds the whole quantity.
func (s *Store) AddBasketProduct(ctx context.Context, userID, productID pgtype.UUID) (int32, error) {
	var count int32
	err := s.pool.QueryRow(ctx, addBasketProductSQL, userID, productID).Scan(&count)
	return count, err
}

const decrementBasketProductSQL = `
WITH removed AS (
	DELETE FROM basket_products
	WHERE user_id = $1 AND product_id = $2 AND count <= 1
	RETURNING 0 AS count
), lowered AS (
	UPDATE basket_products SET count = count - 1
	WHERE user_id = $1 AND product_id = $2
	  AND NOT EXISTS (SELECT 1 FROM removed)
	RETURNING count
)
SELECT count FROM removed
UNION ALL
SELECT count FROM lowered`

// DecrementBasketProduct lowers a product line's count, deleting the line
// instead when the count would reach zero. The delete happens in the same
// statement so the count > 0 check constraint is never violated. The
// returned count reflects the new quantity, zero when the line is gone.
func (s *Store) DecrementBasketProduct(ctx context.Context, userID, productID pgtype.UUID) (int32, error) {
	var count int32
	if err := s.pool.QueryRow(ctx, decrementBasketProductSQL, userID, productID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

const clearBasketProductsSQL = `
DELETE FROM basket_products WHERE user_id = $1`

// ClearBasketProducts removes every product line from the user's basket.
// Course lines are untouched.
func (s *Store) ClearBasketProducts(ctx context.Context, userID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, clearBasketProductsSQL, userID)
	return err
}

const addBasketCourseSQL = `
INSERT INTO basket_courses (user_id, course_id)
VALUES ($1, $2)
ON CONFLICT (user_id, course_id) DO NOTHING`

// AddBasketCourse inserts a course line if not already present.
func (s *Store) AddBasketCourse(ctx context.Context, userID, courseID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, addBasketCourseSQL, userID, courseID)
	return err
}

const removeBasketCourseSQL = `
DELETE FROM basket_courses WHERE user_id = $1 AND course_id = $2`

// RemoveBasketCourse deletes a course line.
func (s *Store) RemoveBasketCourse(ctx context.Context, userID, courseID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, removeBasketCourseSQL, userID, courseID)
	return err
}
