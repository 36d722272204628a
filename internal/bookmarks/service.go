package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-academy/internal/store"
)

var (
	// ErrNotFound is returned when the bookmarked item does not exist in the catalog.
	ErrNotFound = errors.New("bookmarks: not found")
	// ErrInvalidInput is returned for malformed identifiers.
	ErrInvalidInput = errors.New("bookmarks: invalid input")
)

type querier interface {
	AddBookmark(ctx context.Context, userID, courseID pgtype.UUID) error
	RemoveBookmark(ctx context.Context, userID, courseID pgtype.UUID) error
	ListBookmarkedCourses(ctx context.Context, userID pgtype.UUID) ([]store.Course, error)
	GetCourseByID(ctx context.Context, id pgtype.UUID) (store.Course, error)
	AddProductBookmark(ctx context.Context, userID, productID pgtype.UUID) error
	RemoveProductBookmark(ctx context.Context, userID, productID pgtype.UUID) error
	ListBookmarkedProducts(ctx context.Context, userID pgtype.UUID) ([]store.Product, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (store.Product, error)
}

// Service manages per-user course and product bookmarks. Adding an
// already bookmarked item is a no-op, so all mutations are idempotent.
type Service struct {
	Q querier
}

// Course is the bookmark listing payload.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Price    int64  `json:"price"`
	Discount int32  `json:"discount"`
	Level    string `json:"level"`
}

// Add bookmarks the course for the user.
func (s *Service) Add(ctx context.Context, userID, courseID string) error {
	uid, cid, err := parseIDs(userID, courseID)
	if err != nil {
		return err
	}
	if _, err := s.Q.GetCourseByID(ctx, cid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, courseID)
		}
		return fmt.Errorf("get course: %w", err)
	}
	if err := s.Q.AddBookmark(ctx, uid, cid); err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

// Remove drops the bookmark if present.
func (s *Service) Remove(ctx context.Context, userID, courseID string) error {
	uid, cid, err := parseIDs(userID, courseID)
	if err != nil {
		return err
	}
	if err := s.Q.RemoveBookmark(ctx, uid, cid); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// List returns the user's bookmarked courses, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Course, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id", ErrInvalidInput)
	}
	rows, err := s.Q.ListBookmarkedCourses(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	out := make([]Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, Course{
			ID:       store.UUIDString(row.ID),
			Title:    row.Title,
			Slug:     row.Slug,
			Price:    row.Price,
			Discount: row.Discount,
			Level:    row.Level,
		})
	}
	return out, nil
}

// Product is the product bookmark listing payload.
type Product struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Price    int64    `json:"price"`
	Discount int32    `json:"discount"`
	Tags     []string `json:"tags"`
}

// AddProduct bookmarks the product for the user.
func (s *Service) AddProduct(ctx context.Context, userID, productID string) error {
	uid, pid, err := parseIDs(userID, productID)
	if err != nil {
		return err
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, productID)
		}
		return fmt.Errorf("get product: %w", err)
	}
	if err := s.Q.AddProductBookmark(ctx, uid, pid); err != nil {
		return fmt.Errorf("add product bookmark: %w", err)
	}
	return nil
}

// RemoveProduct drops the product bookmark if present.
func (s *Service) RemoveProduct(ctx context.Context, userID, productID string) error {
	uid, pid, err := parseIDs(userID, productID)
	if err != nil {
		return err
	}
	if err := s.Q.RemoveProductBookmark(ctx, uid, pid); err != nil {
		return fmt.Errorf("remove product bookmark: %w", err)
	}
	return nil
}

// ListProducts returns the user's bookmarked products, newest first.
func (s *Service) ListProducts(ctx context.Context, userID string) ([]Product, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user id", ErrInvalidInput)
	}
	rows, err := s.Q.ListBookmarkedProducts(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list product bookmarks: %w", err)
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, Product{
			ID:       store.UUIDString(row.ID),
			Title:    row.Title,
			Slug:     row.Slug,
			Price:    row.Price,
			Discount: row.Discount,
			Tags:     row.Tags,
		})
	}
	return out, nil
}

func parseIDs(userID, itemID string) (pgtype.UUID, pgtype.UUID, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, fmt.Errorf("%w: user id", ErrInvalidInput)
	}
	iid, err := store.ToUUID(itemID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, fmt.Errorf("%w: item id", ErrInvalidInput)
	}
	return uid, iid, nil
}
