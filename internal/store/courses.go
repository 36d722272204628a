package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Course mirrors a row of the courses table. Pricing fields follow the same
// shape as Product; the rest is course metadata.
type Course struct {
	ID          pgtype.UUID
	Title       string
	Slug        string
	Description string
	Price       int64
	Discount    int32
	Level       string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const courseColumns = `id, title, slug, description, price, discount, level, tags, created_at, updated_at`

func scanCourse(row interface{ Scan(dest ...any) error }) (Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Price, &c.Discount,
		&c.Level, &c.Tags, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCourseParams captures the fields required to insert a course.
type CreateCourseParams struct {
	Title       string
	Slug        string
	Description string
	Price       int64
	Discount    int32
	Level       string
	Tags        []string
}

const createCourseSQL = `
INSERT INTO courses (title, slug, description, price, discount, level, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + courseColumns

// CreateCourse inserts a catalog course.
func (s *Store) CreateCourse(ctx context.Context, arg CreateCourseParams) (Course, error) {
	return scanCourse(s.pool.QueryRow(ctx, createCourseSQL,
		arg.Title, arg.Slug, arg.Description, arg.Price, arg.Discount, arg.Level, arg.Tags))
}

const getCourseByIDSQL = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

// GetCourseByID loads a course by primary key.
func (s *Store) GetCourseByID(ctx context.Context, id pgtype.UUID) (Course, error) {
	return scanCourse(s.pool.QueryRow(ctx, getCourseByIDSQL, id))
}

const getCourseBySlugSQL = `SELECT ` + courseColumns + ` FROM courses WHERE slug = $1`

// GetCourseBySlug loads a course by its URL slug.
func (s *Store) GetCourseBySlug(ctx context.Context, slug string) (Course, error) {
	return scanCourse(s.pool.QueryRow(ctx, getCourseBySlugSQL, slug))
}

const coursesByIDsSQL = `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`

// CoursesByIDs resolves the given ids to full course rows. Missing ids are
// absent from the result.
func (s *Store) CoursesByIDs(ctx context.Context, ids []pgtype.UUID) ([]Course, error) {
	rows, err := s.pool.Query(ctx, coursesByIDsSQL, ids)
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

// ListCoursesParams captures list pagination and search filters.
type ListCoursesParams struct {
	Query  string
	Limit  int32
	Offset int32
}

const listCoursesSQL = `
SELECT ` + courseColumns + ` FROM courses
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR $1 = ANY(tags))
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListCourses returns a page of courses, newest first.
func (s *Store) ListCourses(ctx context.Context, arg ListCoursesParams) ([]Course, error) {
	rows, err := s.pool.Query(ctx, listCoursesSQL, arg.Query, arg.Limit, arg.Offset)
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

const countCoursesSQL = `
SELECT count(*) FROM courses
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR $1 = ANY(tags))`

// CountCourses returns the total matching the same filter as ListCourses.
func (s *Store) CountCourses(ctx context.Context, query string) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, countCoursesSQL, query).Scan(&total)
	return total, err
}

const setCourseDiscountSQL = `
UPDATE courses SET discount = $2, updated_at = now() WHERE id = $1`

// SetCourseDiscount overwrites the course's percent discount.
func (s *Store) SetCourseDiscount(ctx context.Context, id pgtype.UUID, percent int32) error {
	_, err := s.pool.Exec(ctx, setCourseDiscountSQL, id, percent)
	return err
}
