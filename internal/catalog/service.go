package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/store"
)

type querier interface {
	ListProducts(ctx context.Context, arg store.ListProductsParams) ([]store.Product, error)
	CountProducts(ctx context.Context, query string) (int64, error)
	GetProductBySlug(ctx context.Context, slug string) (store.Product, error)
	CreateProduct(ctx context.Context, arg store.CreateProductParams) (store.Product, error)
	ListCourses(ctx context.Context, arg store.ListCoursesParams) ([]store.Course, error)
	CountCourses(ctx context.Context, query string) (int64, error)
	GetCourseBySlug(ctx context.Context, slug string) (store.Course, error)
	CreateCourse(ctx context.Context, arg store.CreateCourseParams) (store.Course, error)
}

// Service serves public product and course listings and the admin
// creation paths. Detail and unfiltered first-page lookups go through
// the Redis cache when one is configured.
type Service struct {
	Q     querier
	Cache *Cache

	DefaultLimit int
	MaxLimit     int
}

// Product is the public catalog payload for a store product.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Discount    int32    `json:"discount"`
	Stock       int32    `json:"stock"`
	Tags        []string `json:"tags"`
}

// Course is the public catalog payload for a course.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Discount    int32    `json:"discount"`
	Level       string   `json:"level"`
	Tags        []string `json:"tags"`
}

// ListParams captures search and pagination filters for either listing.
type ListParams struct {
	Query string
	Page  int
	Limit int
}

// ProductListResult bundles a product page with its total count.
type ProductListResult struct {
	Items []Product
	Total int64
}

// CourseListResult bundles a course page with its total count.
type CourseListResult struct {
	Items []Course
	Total int64
}

func (s *Service) clamp(p ListParams) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = s.DefaultLimit
	}
	if limit < 1 {
		limit = 20
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	p.Limit = limit
	return p
}

func (s *Service) cacheable(p ListParams) bool {
	return p.Query == "" && p.Page == 1 && p.Limit == s.DefaultLimit
}

// ListProducts returns one page of products matching the filters.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	params = s.clamp(params)
	key := "catalog:products:first"
	if s.cacheable(params) {
		var cached ProductListResult
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	total, err := s.Q.CountProducts(ctx, params.Query)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}
	rows, err := s.Q.ListProducts(ctx, store.ListProductsParams{
		Query:  params.Query,
		Limit:  int32(params.Limit),
		Offset: int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}
	result := ProductListResult{Items: make([]Product, 0, len(rows)), Total: total}
	for _, row := range rows {
		result.Items = append(result.Items, toProduct(row))
	}
	if s.cacheable(params) {
		_ = s.Cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

// GetProduct returns one product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Product{}, badRequest("slug", "slug is required")
	}
	key := "catalog:products:detail:" + slug
	var cached Product
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	row, err := s.Q.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, notFound("product not found", err)
		}
		return Product{}, fmt.Errorf("get product by slug: %w", err)
	}
	dto := toProduct(row)
	_ = s.Cache.SetJSON(ctx, key, dto)
	return dto, nil
}

// ListCourses returns one page of courses matching the filters.
func (s *Service) ListCourses(ctx context.Context, params ListParams) (CourseListResult, error) {
	params = s.clamp(params)
	key := "catalog:courses:first"
	if s.cacheable(params) {
		var cached CourseListResult
		if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	total, err := s.Q.CountCourses(ctx, params.Query)
	if err != nil {
		return CourseListResult{}, fmt.Errorf("count courses: %w", err)
	}
	rows, err := s.Q.ListCourses(ctx, store.ListCoursesParams{
		Query:  params.Query,
		Limit:  int32(params.Limit),
		Offset: int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return CourseListResult{}, fmt.Errorf("list courses: %w", err)
	}
	result := CourseListResult{Items: make([]Course, 0, len(rows)), Total: total}
	for _, row := range rows {
		result.Items = append(result.Items, toCourse(row))
	}
	if s.cacheable(params) {
		_ = s.Cache.SetJSON(ctx, key, result)
	}
	return result, nil
}

// GetCourse returns one course by slug.
func (s *Service) GetCourse(ctx context.Context, slug string) (Course, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Course{}, badRequest("slug", "slug is required")
	}
	key := "catalog:courses:detail:" + slug
	var cached Course
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	row, err := s.Q.GetCourseBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, notFound("course not found", err)
		}
		return Course{}, fmt.Errorf("get course by slug: %w", err)
	}
	dto := toCourse(row)
	_ = s.Cache.SetJSON(ctx, key, dto)
	return dto, nil
}

// CreateProductInput is the admin payload for inserting a product.
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Slug        string   `json:"slug" validate:"required,min=2,max=200"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Discount    int32    `json:"discount" validate:"gte=0,lte=100"`
	Stock       int32    `json:"stock" validate:"gte=0"`
	Tags        []string `json:"tags"`
}

// CreateProduct inserts a product and returns its public payload.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (Product, error) {
	if err := common.ValidateStruct(in); err != nil {
		return Product{}, validationError(err)
	}
	row, err := s.Q.CreateProduct(ctx, store.CreateProductParams{
		Title:       strings.TrimSpace(in.Title),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		Stock:       in.Stock,
		Tags:        in.Tags,
	})
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return toProduct(row), nil
}

// CreateCourseInput is the admin payload for inserting a course.
type CreateCourseInput struct {
	Title       string   `json:"title" validate:"required,min=2,max=200"`
	Slug        string   `json:"slug" validate:"required,min=2,max=200"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Discount    int32    `json:"discount" validate:"gte=0,lte=100"`
	Level       string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Tags        []string `json:"tags"`
}

// CreateCourse inserts a course and returns its public payload.
func (s *Service) CreateCourse(ctx context.Context, in CreateCourseInput) (Course, error) {
	if err := common.ValidateStruct(in); err != nil {
		return Course{}, validationError(err)
	}
	row, err := s.Q.CreateCourse(ctx, store.CreateCourseParams{
		Title:       strings.TrimSpace(in.Title),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		Price:       in.Price,
		Discount:    in.Discount,
		Level:       in.Level,
		Tags:        in.Tags,
	})
	if err != nil {
		return Course{}, fmt.Errorf("create course: %w", err)
	}
	return toCourse(row), nil
}

func toProduct(row store.Product) Product {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Product{
		ID:          store.UUIDString(row.ID),
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		Price:       row.Price,
		Discount:    row.Discount,
		Stock:       row.Stock,
		Tags:        tags,
	}
}

func toCourse(row store.Course) Course {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Course{
		ID:          store.UUIDString(row.ID),
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		Price:       row.Price,
		Discount:    row.Discount,
		Level:       row.Level,
		Tags:        tags,
	}
}

func badRequest(field, message string) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

func notFound(message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "NOT_FOUND",
		Message:    message,
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}

func validationError(err error) *common.AppError {
	return &common.AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "payload validation failed",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
		Details:    map[string]any{"fields": common.ValidationDetails(err)},
	}
}
