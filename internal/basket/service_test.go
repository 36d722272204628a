package basket_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/basket"
	"github.com/noah-isme/backend-academy/internal/pricing"
	"github.com/noah-isme/backend-academy/internal/store"
)

type fakeStore struct {
	products       map[[16]byte]store.Product
	courses        map[[16]byte]store.Course
	basketProducts map[[16]byte][]store.ProductLine
	basketCourses  map[[16]byte][]store.CourseLine
	failWith       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:       map[[16]byte]store.Product{},
		courses:        map[[16]byte]store.Course{},
		basketProducts: map[[16]byte][]store.ProductLine{},
		basketCourses:  map[[16]byte][]store.CourseLine{},
	}
}

func (f *fakeStore) BasketProducts(_ context.Context, userID pgtype.UUID) ([]store.ProductLine, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.basketProducts[userID.Bytes], nil
}

func (f *fakeStore) BasketCourses(_ context.Context, userID pgtype.UUID) ([]store.CourseLine, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.basketCourses[userID.Bytes], nil
}

func (f *fakeStore) ProductsByIDs(_ context.Context, ids []pgtype.UUID) ([]store.Product, error) {
	var out []store.Product
	for _, id := range ids {
		if p, ok := f.products[id.Bytes]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) CoursesByIDs(_ context.Context, ids []pgtype.UUID) ([]store.Course, error) {
	var out []store.Course
	for _, id := range ids {
		if c, ok := f.courses[id.Bytes]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProductByID(_ context.Context, id pgtype.UUID) (store.Product, error) {
	if p, ok := f.products[id.Bytes]; ok {
		return p, nil
	}
	return store.Product{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCourseByID(_ context.Context, id pgtype.UUID) (store.Course, error) {
	if c, ok := f.courses[id.Bytes]; ok {
		return c, nil
	}
	return store.Course{}, pgx.ErrNoRows
}

func (f *fakeStore) AddBasketProduct(_ context.Context, userID, productID pgtype.UUID) (int32, error) {
	lines := f.basketProducts[userID.Bytes]
	for i := range lines {
		if lines[i].ProductID.Bytes == productID.Bytes {
			lines[i].Count++
			return lines[i].Count, nil
		}
	}
	f.basketProducts[userID.Bytes] = append(lines, store.ProductLine{ProductID: productID, Count: 1})
	return 1, nil
}

func (f *fakeStore) DecrementBasketProduct(_ context.Context, userID, productID pgtype.UUID) (int32, error) {
	lines := f.basketProducts[userID.Bytes]
	for i := range lines {
		if lines[i].ProductID.Bytes == productID.Bytes {
			// The real query deletes the row before its count could hit
			// zero; the schema forbids stored zero-count lines.
			if lines[i].Count <= 1 {
				f.basketProducts[userID.Bytes] = append(lines[:i], lines[i+1:]...)
				return 0, f.checkCountConstraint(userID)
			}
			lines[i].Count--
			return lines[i].Count, f.checkCountConstraint(userID)
		}
	}
	return 0, pgx.ErrNoRows
}

// checkCountConstraint mirrors the basket_products count > 0 check: any
// stored line at or below zero surfaces the same error Postgres would.
func (f *fakeStore) checkCountConstraint(userID pgtype.UUID) error {
	for _, l := range f.basketProducts[userID.Bytes] {
		if l.Count <= 0 {
			return &pgconn.PgError{Code: "23514", ConstraintName: "basket_products_count_check"}
		}
	}
	return nil
}

func (f *fakeStore) ClearBasketProducts(_ context.Context, userID pgtype.UUID) error {
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.basketProducts, userID.Bytes)
	return nil
}

func (f *fakeStore) AddBasketCourse(_ context.Context, userID, courseID pgtype.UUID) error {
	for _, l := range f.basketCourses[userID.Bytes] {
		if l.CourseID.Bytes == courseID.Bytes {
			return nil
		}
	}
	f.basketCourses[userID.Bytes] = append(f.basketCourses[userID.Bytes], store.CourseLine{CourseID: courseID})
	return nil
}

func (f *fakeStore) RemoveBasketCourse(_ context.Context, userID, courseID pgtype.UUID) error {
	lines := f.basketCourses[userID.Bytes]
	for i := range lines {
		if lines[i].CourseID.Bytes == courseID.Bytes {
			f.basketCourses[userID.Bytes] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func newUUID(t *testing.T) (pgtype.UUID, string) {
	t.Helper()
	raw := uuid.New()
	id, err := store.ToUUID(raw.String())
	require.NoError(t, err)
	return id, raw.String()
}

func (f *fakeStore) addProduct(id pgtype.UUID, price int64, discount int32) {
	f.products[id.Bytes] = store.Product{ID: id, Title: "p", Slug: "p", Price: price, Discount: discount}
}

func (f *fakeStore) addCourse(id pgtype.UUID, price int64, discount int32) {
	f.courses[id.Bytes] = store.Course{ID: id, Title: "c", Slug: "c", Price: price, Discount: discount}
}

func TestSnapshotEmptyBasket(t *testing.T) {
	fs := newFakeStore()
	svc := &basket.Service{Q: fs}
	_, userID := newUUID(t)

	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, snap.ProductDetail)
	require.Empty(t, snap.CourseDetail)
	require.Equal(t, pricing.Money(0), snap.PayDetail.PaymentAmount)
	require.Empty(t, snap.PayDetail.ProductIDs)
	require.Empty(t, snap.PayDetail.CourseIDs)
}

func TestSnapshotPricesProductsAndCourses(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, p1Str := newUUID(t)
	c1, c1Str := newUUID(t)
	fs.addProduct(p1, 100, 10)
	fs.addCourse(c1, 50, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: p1, Count: 2}}
	fs.basketCourses[uid.Bytes] = []store.CourseLine{{CourseID: c1}}

	svc := &basket.Service{Q: fs}
	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, snap.ProductDetail, 1)
	require.Equal(t, pricing.Money(200), snap.ProductDetail[0].TotalPrice)
	require.Equal(t, pricing.Money(180), snap.ProductDetail[0].FinalPrice)
	require.Equal(t, 2, snap.ProductDetail[0].BasketCount)

	require.Len(t, snap.CourseDetail, 1)
	require.Equal(t, pricing.Money(50), snap.CourseDetail[0].FinalPrice)

	require.Equal(t, pricing.Money(180), snap.PayDetail.ProductAmount)
	require.Equal(t, pricing.Money(50), snap.PayDetail.CourseAmount)
	require.Equal(t, pricing.Money(230), snap.PayDetail.PaymentAmount)
	require.Equal(t, []string{p1Str}, snap.PayDetail.ProductIDs)
	require.Equal(t, []string{c1Str}, snap.PayDetail.CourseIDs)
}

func TestSnapshotZeroDiscountMatchesTotal(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, _ := newUUID(t)
	fs.addProduct(p1, 250, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: p1, Count: 3}}

	svc := &basket.Service{Q: fs}
	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, snap.ProductDetail[0].TotalPrice, snap.ProductDetail[0].FinalPrice)
	require.Equal(t, pricing.Money(750), snap.ProductDetail[0].TotalPrice)
}

func TestSnapshotLenientJoinDropsMissingItems(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, _ := newUUID(t)
	gone, _ := newUUID(t)
	fs.addProduct(p1, 100, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{
		{ProductID: p1, Count: 1},
		{ProductID: gone, Count: 4},
	}

	svc := &basket.Service{Q: fs}
	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, snap.ProductDetail, 1)
	require.Equal(t, pricing.Money(100), snap.PayDetail.ProductAmount)
	require.Len(t, snap.PayDetail.ProductIDs, 1)
}

func TestSnapshotStrictModeRejectsMissingItems(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	gone, _ := newUUID(t)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: gone, Count: 1}}

	svc := &basket.Service{Q: fs, Strict: true}
	_, err := svc.Snapshot(context.Background(), userID)
	require.ErrorIs(t, err, basket.ErrItemGone)
}

func TestSnapshotIdempotent(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, _ := newUUID(t)
	c1, _ := newUUID(t)
	fs.addProduct(p1, 999, 33)
	fs.addCourse(c1, 120, 25)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: p1, Count: 7}}
	fs.basketCourses[uid.Bytes] = []store.CourseLine{{CourseID: c1}}

	svc := &basket.Service{Q: fs}
	first, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSnapshotPaymentIsSumOfAmounts(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, _ := newUUID(t)
	p2, _ := newUUID(t)
	c1, _ := newUUID(t)
	fs.addProduct(p1, 100, 10)
	fs.addProduct(p2, 300, 0)
	fs.addCourse(c1, 80, 25)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{
		{ProductID: p1, Count: 2},
		{ProductID: p2, Count: 1},
	}
	fs.basketCourses[uid.Bytes] = []store.CourseLine{{CourseID: c1}}

	svc := &basket.Service{Q: fs}
	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, snap.PayDetail.ProductAmount+snap.PayDetail.CourseAmount, snap.PayDetail.PaymentAmount)

	var fromDetails pricing.Money
	for _, d := range snap.ProductDetail {
		fromDetails += d.FinalPrice
	}
	require.Equal(t, snap.PayDetail.ProductAmount, fromDetails)
}

func TestSnapshotStoreErrorPropagates(t *testing.T) {
	fs := newFakeStore()
	fs.failWith = errors.New("connection refused")
	svc := &basket.Service{Q: fs}
	_, userID := newUUID(t)

	_, err := svc.Snapshot(context.Background(), userID)
	require.ErrorContains(t, err, "connection refused")
}

func TestAddProductIncrementsExistingLine(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, p1Str := newUUID(t)
	fs.addProduct(p1, 100, 0)

	svc := &basket.Service{Q: fs}
	count, err := svc.AddProduct(context.Background(), userID, p1Str)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = svc.AddProduct(context.Background(), userID, p1Str)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, fs.basketProducts[uid.Bytes], 1)
}

func TestAddProductUnknownCatalogID(t *testing.T) {
	fs := newFakeStore()
	_, userID := newUUID(t)
	_, ghost := newUUID(t)

	svc := &basket.Service{Q: fs}
	_, err := svc.AddProduct(context.Background(), userID, ghost)
	require.ErrorIs(t, err, basket.ErrNotFound)
}

func TestRemoveProductDropsLineAtZero(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, p1Str := newUUID(t)
	fs.addProduct(p1, 100, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: p1, Count: 1}}

	svc := &basket.Service{Q: fs}
	count, err := svc.RemoveProduct(context.Background(), userID, p1Str)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Empty(t, fs.basketProducts[uid.Bytes])

	_, err = svc.RemoveProduct(context.Background(), userID, p1Str)
	require.ErrorIs(t, err, basket.ErrNotFound)
}

func TestRemoveProductNeverStoresZeroCount(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, p1Str := newUUID(t)
	fs.addProduct(p1, 100, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{{ProductID: p1, Count: 2}}

	svc := &basket.Service{Q: fs}

	count, err := svc.RemoveProduct(context.Background(), userID, p1Str)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Removing the last unit must delete the line, not leave a zero-count
	// row behind for the check constraint to reject.
	count, err = svc.RemoveProduct(context.Background(), userID, p1Str)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	require.Empty(t, fs.basketProducts[uid.Bytes])
}

func TestClearProductsLeavesCourses(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	p1, _ := newUUID(t)
	p2, _ := newUUID(t)
	c1, _ := newUUID(t)
	fs.addProduct(p1, 100, 0)
	fs.addProduct(p2, 200, 0)
	fs.addCourse(c1, 50, 0)
	fs.basketProducts[uid.Bytes] = []store.ProductLine{
		{ProductID: p1, Count: 2},
		{ProductID: p2, Count: 1},
	}
	fs.basketCourses[uid.Bytes] = []store.CourseLine{{CourseID: c1}}

	svc := &basket.Service{Q: fs}
	require.NoError(t, svc.ClearProducts(context.Background(), userID))
	require.Empty(t, fs.basketProducts[uid.Bytes])

	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, snap.ProductDetail)
	require.Equal(t, pricing.Money(0), snap.PayDetail.ProductAmount)
	require.Equal(t, pricing.Money(50), snap.PayDetail.CourseAmount)
}

func TestClearProductsEmptyBasketIsNoop(t *testing.T) {
	fs := newFakeStore()
	_, userID := newUUID(t)

	svc := &basket.Service{Q: fs}
	require.NoError(t, svc.ClearProducts(context.Background(), userID))
}

func TestAddCourseIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	uid, userID := newUUID(t)
	c1, c1Str := newUUID(t)
	fs.addCourse(c1, 50, 0)

	svc := &basket.Service{Q: fs}
	require.NoError(t, svc.AddCourse(context.Background(), userID, c1Str))
	require.NoError(t, svc.AddCourse(context.Background(), userID, c1Str))
	require.Len(t, fs.basketCourses[uid.Bytes], 1)

	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, pricing.Money(50), snap.PayDetail.CourseAmount)
}
