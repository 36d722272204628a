package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addBookmarkSQL = `
INSERT INTO course_bookmarks (user_id, course_id)
VALUES ($1, $2)
ON CONFLICT (user_id, course_id) DO NOTHING`

// AddBookmark marks a course as bookmarked by the user.
func (s *Store) AddBookmark(ctx context.Context, userID, courseID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, addBookmarkSQL, userID, courseID)
	return err
}

const removeBookmarkSQL = `
DELETE FROM course_bookmarks WHERE user_id = $1 AND course_id = $2`

// RemoveBookmark deletes a bookmark.
func (s *Store) RemoveBookmark(ctx context.Context, userID, courseID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, removeBookmarkSQL, userID, courseID)
	return err
}

const listBookmarkedCoursesSQL = `
SELECT ` + courseColumns + ` FROM courses c
JOIN course_bookmarks b ON b.course_id = c.id
WHERE b.user_id = $1
ORDER BY b.added_at DESC`

// ListBookmarkedCourses returns the user's bookmarked courses, newest first.
func (s *Store) ListBookmarkedCourses(ctx context.Context, userID pgtype.UUID) ([]Course, error) {
	rows, err := s.pool.Query(ctx, listBookmarkedCoursesSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const addProductBookmarkSQL = `
INSERT INTO product_bookmarks (user_id, product_id)
VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING`

// AddProductBookmark marks a product as bookmarked by the user.
func (s *Store) AddProductBookmark(ctx context.Context, userID, productID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, addProductBookmarkSQL, userID, productID)
	return err
}

const removeProductBookmarkSQL = `
DELETE FROM product_bookmarks WHERE user_id = $1 AND product_id = $2`

// RemoveProductBookmark deletes a product bookmark.
func (s *Store) RemoveProductBookmark(ctx context.Context, userID, productID pgtype.UUID) error {
	_, err := s.pool.Exec(ctx, removeProductBookmarkSQL, userID, productID)
	return err
}

const listBookmarkedProductsSQL = `
SELECT ` + productColumns + ` FROM products p
JOIN product_bookmarks b ON b.product_id = p.id
WHERE b.user_id = $1
ORDER BY b.added_at DESC`

// ListBookmarkedProducts returns the user's bookmarked products, newest first.
func (s *Store) ListBookmarkedProducts(ctx context.Context, userID pgtype.UUID) ([]Product, error) {
	rows, err := s.pool.Query(ctx, listBookmarkedProductsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
