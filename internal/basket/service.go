package basket

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-academy/internal/pricing"
	"github.com/noah-isme/backend-academy/internal/store"
)

// ErrNotFound indicates the referenced catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// ErrItemGone is returned in strict mode when a basket line references a
// catalog item that has since been removed.
var ErrItemGone = errors.New("basket item no longer in catalog")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Store describes the queries the basket service depends on.
type Store interface {
	BasketProducts(ctx context.Context, userID pgtype.UUID) ([]store.ProductLine, error)
	BasketCourses(ctx context.Context, userID pgtype.UUID) ([]store.CourseLine, error)
	ProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]store.Product, error)
	CoursesByIDs(ctx context.Context, ids []pgtype.UUID) ([]store.Course, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (store.Product, error)
	GetCourseByID(ctx context.Context, id pgtype.UUID) (store.Course, error)
	AddBasketProduct(ctx context.Context, userID, productID pgtype.UUID) (int32, error)
	DecrementBasketProduct(ctx context.Context, userID, productID pgtype.UUID) (int32, error)
	ClearBasketProducts(ctx context.Context, userID pgtype.UUID) error
	AddBasketCourse(ctx context.Context, userID, courseID pgtype.UUID) error
	RemoveBasketCourse(ctx context.Context, userID, courseID pgtype.UUID) error
}

// Service builds priced basket snapshots and applies basket mutations.
//
// Snapshot is read-only and idempotent: it writes nothing back, caches
// nothing, and two calls over unchanged data return identical results.
type Service struct {
	Q Store
	// Strict turns a basket line referencing a missing catalog item into
	// ErrItemGone instead of silently dropping it from the snapshot.
	Strict bool
}

// ProductDetail is a resolved product line merged with its priced fields.
type ProductDetail struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Price       pricing.Money `json:"price"`
	Discount    int           `json:"discount"`
	Tags        []string      `json:"tags"`
	BasketCount int           `json:"basketCount"`
	TotalPrice  pricing.Money `json:"totalPrice"`
	FinalPrice  pricing.Money `json:"finalPrice"`
}

// CourseDetail is a resolved course line merged with its final price.
// Courses carry no quantity, so there is no total.
type CourseDetail struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Price       pricing.Money `json:"price"`
	Discount    int           `json:"discount"`
	Level       string        `json:"level"`
	FinalPrice  pricing.Money `json:"finalPrice"`
}

// PayDetail aggregates payable amounts across the resolved basket.
type PayDetail struct {
	ProductAmount pricing.Money `json:"productAmount"`
	CourseAmount  pricing.Money `json:"courseAmount"`
	PaymentAmount pricing.Money `json:"paymentAmount"`
	ProductIDs    []string      `json:"productIds"`
	CourseIDs     []string      `json:"courseIds"`
}

// Snapshot is the priced view of a basket at a point in time. It is computed
// per request and never persisted.
type Snapshot struct {
	ProductDetail []ProductDetail `json:"productDetail"`
	CourseDetail  []CourseDetail  `json:"courseDetail"`
	PayDetail     PayDetail       `json:"payDetail"`
}

// Snapshot joins the user's basket lines against the catalog and prices the
// result. An unknown user yields an empty snapshot with zero amounts; lines
// referencing catalog items that no longer exist are dropped unless the
// service runs in strict mode.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	if s == nil || s.Q == nil {
		return Snapshot{}, errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}

	productLines, err := s.Q.BasketProducts(ctx, uid)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load basket products: %w", err)
	}
	courseLines, err := s.Q.BasketCourses(ctx, uid)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load basket courses: %w", err)
	}

	products, err := s.resolveProducts(ctx, productLines)
	if err != nil {
		return Snapshot{}, err
	}
	courses, err := s.resolveCourses(ctx, courseLines)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		ProductDetail: make([]ProductDetail, 0, len(productLines)),
		CourseDetail:  make([]CourseDetail, 0, len(courseLines)),
		PayDetail: PayDetail{
			ProductIDs: make([]string, 0, len(productLines)),
			CourseIDs:  make([]string, 0, len(courseLines)),
		},
	}
	priceProducts := make([]pricing.ProductLine, 0, len(productLines))
	priceCourses := make([]pricing.CourseLine, 0, len(courseLines))

	for _, line := range productLines {
		product, ok := products[line.ProductID.Bytes]
		if !ok {
			if s.Strict {
				return Snapshot{}, fmt.Errorf("product %s: %w", store.UUIDString(line.ProductID), ErrItemGone)
			}
			continue
		}
		pl := pricing.ProductLine{
			Count:       int(line.Count),
			UnitPrice:   product.Price,
			DiscountPct: int(product.Discount),
		}
		snap.ProductDetail = append(snap.ProductDetail, ProductDetail{
			ID:          store.UUIDString(product.ID),
			Title:       product.Title,
			Slug:        product.Slug,
			Description: product.Description,
			Price:       product.Price,
			Discount:    int(product.Discount),
			Tags:        product.Tags,
			BasketCount: int(line.Count),
			TotalPrice:  pricing.ProductTotal(pl),
			FinalPrice:  pricing.ProductFinal(pl),
		})
		snap.PayDetail.ProductIDs = append(snap.PayDetail.ProductIDs, store.UUIDString(product.ID))
		priceProducts = append(priceProducts, pl)
	}

	for _, line := range courseLines {
		course, ok := courses[line.CourseID.Bytes]
		if !ok {
			if s.Strict {
				return Snapshot{}, fmt.Errorf("course %s: %w", store.UUIDString(line.CourseID), ErrItemGone)
			}
			continue
		}
		cl := pricing.CourseLine{
			UnitPrice:   course.Price,
			DiscountPct: int(course.Discount),
		}
		snap.CourseDetail = append(snap.CourseDetail, CourseDetail{
			ID:          store.UUIDString(course.ID),
			Title:       course.Title,
			Slug:        course.Slug,
			Description: course.Description,
			Price:       course.Price,
			Discount:    int(course.Discount),
			Level:       course.Level,
			FinalPrice:  pricing.CourseFinal(cl),
		})
		snap.PayDetail.CourseIDs = append(snap.PayDetail.CourseIDs, store.UUIDString(course.ID))
		priceCourses = append(priceCourses, cl)
	}

	summary := pricing.Compute(priceProducts, priceCourses)
	snap.PayDetail.ProductAmount = summary.ProductAmount
	snap.PayDetail.CourseAmount = summary.CourseAmount
	snap.PayDetail.PaymentAmount = summary.PaymentAmount
	return snap, nil
}

func (s *Service) resolveProducts(ctx context.Context, lines []store.ProductLine) (map[[16]byte]store.Product, error) {
	ids := make([]pgtype.UUID, 0, len(lines))
	seen := make(map[[16]byte]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ProductID.Bytes]; dup {
			continue
		}
		seen[line.ProductID.Bytes] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	out := make(map[[16]byte]store.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := s.Q.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	for _, p := range products {
		out[p.ID.Bytes] = p
	}
	return out, nil
}

func (s *Service) resolveCourses(ctx context.Context, lines []store.CourseLine) (map[[16]byte]store.Course, error) {
	ids := make([]pgtype.UUID, 0, len(lines))
	seen := make(map[[16]byte]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.CourseID.Bytes]; dup {
			continue
		}
		seen[line.CourseID.Bytes] = struct{}{}
		ids = append(ids, line.CourseID)
	}
	out := make(map[[16]byte]store.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	courses, err := s.Q.CoursesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve courses: %w", err)
	}
	for _, c := range courses {
		out[c.ID.Bytes] = c
	}
	return out, nil
}

// AddProduct inserts the product into the basket or increments its count.
// The catalog item must exist.
func (s *Service) AddProduct(ctx context.Context, userID, productID string) (int, error) {
	if s == nil || s.Q == nil {
		return 0, errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return 0, fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	pid, err := store.ToUUID(productID)
	if err != nil {
		return 0, fmt.Errorf("parse product id: %w", ErrInvalidInput)
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	count, err := s.Q.AddBasketProduct(ctx, uid, pid)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// RemoveProduct decrements the product's count, dropping the line at zero.
// A line that is not in the basket maps to ErrNotFound.
func (s *Service) RemoveProduct(ctx context.Context, userID, productID string) (int, error) {
	if s == nil || s.Q == nil {
		return 0, errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return 0, fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	pid, err := store.ToUUID(productID)
	if err != nil {
		return 0, fmt.Errorf("parse product id: %w", ErrInvalidInput)
	}
	count, err := s.Q.DecrementBasketProduct(ctx, uid, pid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return int(count), nil
}

// ClearProducts empties every product line from the basket in one go.
// Course lines stay. Clearing an already empty basket is a no-op.
func (s *Service) ClearProducts(ctx context.Context, userID string) error {
	if s == nil || s.Q == nil {
		return errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	return s.Q.ClearBasketProducts(ctx, uid)
}

// AddCourse inserts the course into the basket. Adding the same course twice
// is a no-op; courses never carry a quantity.
func (s *Service) AddCourse(ctx context.Context, userID, courseID string) error {
	if s == nil || s.Q == nil {
		return errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	cid, err := store.ToUUID(courseID)
	if err != nil {
		return fmt.Errorf("parse course id: %w", ErrInvalidInput)
	}
	if _, err := s.Q.GetCourseByID(ctx, cid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.Q.AddBasketCourse(ctx, uid, cid)
}

// RemoveCourse deletes the course line from the basket.
func (s *Service) RemoveCourse(ctx context.Context, userID, courseID string) error {
	if s == nil || s.Q == nil {
		return errors.New("basket service not configured")
	}
	uid, err := store.ToUUID(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", ErrInvalidInput)
	}
	cid, err := store.ToUUID(courseID)
	if err != nil {
		return fmt.Errorf("parse course id: %w", ErrInvalidInput)
	}
	return s.Q.RemoveBasketCourse(ctx, uid, cid)
}
