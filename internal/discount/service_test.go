package discount_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/discount"
	"github.com/noah-isme/backend-academy/internal/store"
)

type fakeQuerier struct {
	discounts map[string]store.Discount
	products  map[[16]byte]store.Product
	courses   map[[16]byte]store.Course

	appliedProductPct map[[16]byte]int32
	appliedCoursePct  map[[16]byte]int32
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		discounts:         map[string]store.Discount{},
		products:          map[[16]byte]store.Product{},
		courses:           map[[16]byte]store.Course{},
		appliedProductPct: map[[16]byte]int32{},
		appliedCoursePct:  map[[16]byte]int32{},
	}
}

func (f *fakeQuerier) CreateDiscount(_ context.Context, arg store.CreateDiscountParams) (store.Discount, error) {
	d := store.Discount{
		ID:        newUUID(),
		Code:      arg.Code,
		Percent:   arg.Percent,
		ProductID: arg.ProductID,
		CourseID:  arg.CourseID,
		MaxUses:   arg.MaxUses,
		CreatorID: arg.CreatorID,
	}
	f.discounts[d.Code] = d
	return d, nil
}

func (f *fakeQuerier) GetDiscountByCode(_ context.Context, code string) (store.Discount, error) {
	d, ok := f.discounts[code]
	if !ok {
		return store.Discount{}, pgx.ErrNoRows
	}
	return d, nil
}

func (f *fakeQuerier) ListDiscounts(context.Context) ([]store.Discount, error) {
	out := make([]store.Discount, 0, len(f.discounts))
	for _, d := range f.discounts {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeQuerier) IncrementDiscountUses(_ context.Context, id pgtype.UUID) (int32, error) {
	for code, d := range f.discounts {
		if d.ID.Bytes == id.Bytes {
			if d.UsedCount >= d.MaxUses {
				return 0, pgx.ErrNoRows
			}
			d.UsedCount++
			f.discounts[code] = d
			return d.UsedCount, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (f *fakeQuerier) DeleteDiscount(_ context.Context, id pgtype.UUID) error {
	for code, d := range f.discounts {
		if d.ID.Bytes == id.Bytes {
			delete(f.discounts, code)
		}
	}
	return nil
}

func (f *fakeQuerier) GetProductByID(_ context.Context, id pgtype.UUID) (store.Product, error) {
	p, ok := f.products[id.Bytes]
	if !ok {
		return store.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQuerier) GetCourseByID(_ context.Context, id pgtype.UUID) (store.Course, error) {
	c, ok := f.courses[id.Bytes]
	if !ok {
		return store.Course{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeQuerier) SetProductDiscount(_ context.Context, id pgtype.UUID, percent int32) error {
	f.appliedProductPct[id.Bytes] = percent
	return nil
}

func (f *fakeQuerier) SetCourseDiscount(_ context.Context, id pgtype.UUID, percent int32) error {
	f.appliedCoursePct[id.Bytes] = percent
	return nil
}

func newUUID() pgtype.UUID {
	id := uuid.New()
	var out pgtype.UUID
	copy(out.Bytes[:], id[:])
	out.Valid = true
	return out
}

func TestCreateRequiresExactlyOneTarget(t *testing.T) {
	svc := &discount.Service{Q: newFakeQuerier()}
	creator := uuid.NewString()

	_, err := svc.Create(context.Background(), creator, discount.CreateInput{
		Code: "SAVE10", Percent: 10, MaxUses: 5,
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "BAD_REQUEST", appErr.Code)

	_, err = svc.Create(context.Background(), creator, discount.CreateInput{
		Code: "SAVE10", Percent: 10, MaxUses: 5,
		ProductID: uuid.NewString(), CourseID: uuid.NewString(),
	})
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := &discount.Service{Q: newFakeQuerier()}

	_, err := svc.Create(context.Background(), uuid.NewString(), discount.CreateInput{
		Code: "SAVE10", Percent: 10, MaxUses: 5, ProductID: uuid.NewString(),
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestRedeemAppliesPercentToProduct(t *testing.T) {
	q := newFakeQuerier()
	productID := newUUID()
	q.products[productID.Bytes] = store.Product{ID: productID, Title: "Go Mug", Price: 1500}
	svc := &discount.Service{Q: q}

	created, err := svc.Create(context.Background(), uuid.NewString(), discount.CreateInput{
		Code: "save10", Percent: 10, MaxUses: 2, ProductID: store.UUIDString(productID),
	})
	require.NoError(t, err)
	require.Equal(t, "SAVE10", created.Code)

	result, err := svc.Redeem(context.Background(), "save10")
	require.NoError(t, err)
	require.EqualValues(t, 10, result.Percent)
	require.EqualValues(t, 1, result.UsesLeft)
	require.EqualValues(t, 10, q.appliedProductPct[productID.Bytes])
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := &discount.Service{Q: newFakeQuerier()}

	_, err := svc.Redeem(context.Background(), "NOPE")
	require.ErrorIs(t, err, discount.ErrUnknownCode)
}

func TestRedeemExhaustedCode(t *testing.T) {
	q := newFakeQuerier()
	courseID := newUUID()
	q.courses[courseID.Bytes] = store.Course{ID: courseID, Title: "Intro to Go", Price: 5000}
	svc := &discount.Service{Q: q}

	_, err := svc.Create(context.Background(), uuid.NewString(), discount.CreateInput{
		Code: "ONCE", Percent: 50, MaxUses: 1, CourseID: store.UUIDString(courseID),
	})
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "ONCE")
	require.NoError(t, err)
	require.EqualValues(t, 50, q.appliedCoursePct[courseID.Bytes])

	_, err = svc.Redeem(context.Background(), "ONCE")
	require.ErrorIs(t, err, discount.ErrUsageLimitReached)
}
