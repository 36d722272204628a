package discount

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/obs"
	"github.com/noah-isme/backend-academy/internal/store"
)

type querier interface {
	CreateDiscount(ctx context.Context, arg store.CreateDiscountParams) (store.Discount, error)
	GetDiscountByCode(ctx context.Context, code string) (store.Discount, error)
	ListDiscounts(ctx context.Context) ([]store.Discount, error)
	IncrementDiscountUses(ctx context.Context, id pgtype.UUID) (int32, error)
	DeleteDiscount(ctx context.Context, id pgtype.UUID) error
	GetProductByID(ctx context.Context, id pgtype.UUID) (store.Product, error)
	GetCourseByID(ctx context.Context, id pgtype.UUID) (store.Course, error)
	SetProductDiscount(ctx context.Context, id pgtype.UUID, percent int32) error
	SetCourseDiscount(ctx context.Context, id pgtype.UUID, percent int32) error
}

// Service manages discount codes. Each code targets exactly one product
// or one course; redeeming it writes the percent onto the catalog row so
// basket pricing picks it up.
type Service struct {
	Q querier
}

// Code is the API payload for a discount code.
type Code struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Percent   int32  `json:"percent"`
	ProductID string `json:"productId,omitempty"`
	CourseID  string `json:"courseId,omitempty"`
	MaxUses   int32  `json:"maxUses"`
	UsedCount int32  `json:"usedCount"`
}

// CreateInput is the admin payload for minting a code.
type CreateInput struct {
	Code      string `json:"code" validate:"required,min=3,max=64"`
	Percent   int32  `json:"percent" validate:"gt=0,lte=100"`
	ProductID string `json:"productId" validate:"omitempty,uuid4"`
	CourseID  string `json:"courseId" validate:"omitempty,uuid4"`
	MaxUses   int32  `json:"maxUses" validate:"gt=0"`
}

// Create mints a discount code targeting a product or a course.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (Code, error) {
	if err := common.ValidateStruct(in); err != nil {
		return Code{}, &common.AppError{
			Code:       "VALIDATION_FAILED",
			Message:    "payload validation failed",
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
			Details:    map[string]any{"fields": common.ValidationDetails(err)},
		}
	}
	if (in.ProductID == "") == (in.CourseID == "") {
		return Code{}, &common.AppError{
			Code:       "BAD_REQUEST",
			Message:    "exactly one of productId or courseId must be set",
			HTTPStatus: http.StatusBadRequest,
		}
	}
	creator, err := store.ToUUID(creatorID)
	if err != nil {
		return Code{}, fmt.Errorf("parse creator id: %w", err)
	}
	params := store.CreateDiscountParams{
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Percent:   in.Percent,
		MaxUses:   in.MaxUses,
		CreatorID: creator,
	}
	if in.ProductID != "" {
		id, err := store.ToUUID(in.ProductID)
		if err != nil {
			return Code{}, fmt.Errorf("parse product id: %w", err)
		}
		if _, err := s.Q.GetProductByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Code{}, notFound("product not found", err)
			}
			return Code{}, fmt.Errorf("get product: %w", err)
		}
		params.ProductID = id
	}
	if in.CourseID != "" {
		id, err := store.ToUUID(in.CourseID)
		if err != nil {
			return Code{}, fmt.Errorf("parse course id: %w", err)
		}
		if _, err := s.Q.GetCourseByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Code{}, notFound("course not found", err)
			}
			return Code{}, fmt.Errorf("get course: %w", err)
		}
		params.CourseID = id
	}
	row, err := s.Q.CreateDiscount(ctx, params)
	if err != nil {
		return Code{}, fmt.Errorf("create discount: %w", err)
	}
	return toCode(row), nil
}

// List returns every code, newest first.
func (s *Service) List(ctx context.Context) ([]Code, error) {
	rows, err := s.Q.ListDiscounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	out := make([]Code, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCode(row))
	}
	return out, nil
}

// RedeemResult reports the outcome of applying a code.
type RedeemResult struct {
	Code      string `json:"code"`
	Percent   int32  `json:"percent"`
	ProductID string `json:"productId,omitempty"`
	CourseID  string `json:"courseId,omitempty"`
	UsesLeft  int32  `json:"usesLeft"`
}

// Redeem consumes one use of the code and writes its percent onto the
// targeted catalog item.
func (s *Service) Redeem(ctx context.Context, code string) (result RedeemResult, err error) {
	defer func() { obs.CountDiscountRedeem(err) }()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return RedeemResult{}, ErrUnknownCode
	}
	row, err := s.Q.GetDiscountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RedeemResult{}, ErrUnknownCode
		}
		return RedeemResult{}, fmt.Errorf("get discount by code: %w", err)
	}
	rule := Rule{Code: row.Code, Percent: row.Percent, MaxUses: row.MaxUses, UsedCount: row.UsedCount}
	if err := rule.Validate(); err != nil {
		return RedeemResult{}, err
	}
	used, err := s.Q.IncrementDiscountUses(ctx, row.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RedeemResult{}, ErrUsageLimitReached
		}
		return RedeemResult{}, fmt.Errorf("increment discount uses: %w", err)
	}
	switch {
	case row.ProductID.Valid:
		if err := s.Q.SetProductDiscount(ctx, row.ProductID, row.Percent); err != nil {
			return RedeemResult{}, fmt.Errorf("apply product discount: %w", err)
		}
	case row.CourseID.Valid:
		if err := s.Q.SetCourseDiscount(ctx, row.CourseID, row.Percent); err != nil {
			return RedeemResult{}, fmt.Errorf("apply course discount: %w", err)
		}
	}
	return RedeemResult{
		Code:      row.Code,
		Percent:   row.Percent,
		ProductID: optionalUUID(row.ProductID),
		CourseID:  optionalUUID(row.CourseID),
		UsesLeft:  row.MaxUses - used,
	}, nil
}

// Delete removes a code by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := store.ToUUID(id)
	if err != nil {
		return &common.AppError{Code: "BAD_REQUEST", Message: "invalid discount id", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	if err := s.Q.DeleteDiscount(ctx, parsed); err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}
	return nil
}

func toCode(row store.Discount) Code {
	return Code{
		ID:        store.UUIDString(row.ID),
		Code:      row.Code,
		Percent:   row.Percent,
		ProductID: optionalUUID(row.ProductID),
		CourseID:  optionalUUID(row.CourseID),
		MaxUses:   row.MaxUses,
		UsedCount: row.UsedCount,
	}
}

func optionalUUID(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return store.UUIDString(id)
}

func notFound(message string, err error) *common.AppError {
	return &common.AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}
