package bookmarks_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/bookmarks"
	"github.com/noah-isme/backend-academy/internal/store"
)

type fakeQuerier struct {
	courses      map[[16]byte]store.Course
	marks        map[[16]byte][][16]byte
	products     map[[16]byte]store.Product
	productMarks map[[16]byte][][16]byte
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		courses:      map[[16]byte]store.Course{},
		marks:        map[[16]byte][][16]byte{},
		products:     map[[16]byte]store.Product{},
		productMarks: map[[16]byte][][16]byte{},
	}
}

func (f *fakeQuerier) AddBookmark(_ context.Context, userID, courseID pgtype.UUID) error {
	for _, id := range f.marks[userID.Bytes] {
		if id == courseID.Bytes {
			return nil
		}
	}
	f.marks[userID.Bytes] = append(f.marks[userID.Bytes], courseID.Bytes)
	return nil
}

func (f *fakeQuerier) RemoveBookmark(_ context.Context, userID, courseID pgtype.UUID) error {
	kept := f.marks[userID.Bytes][:0]
	for _, id := range f.marks[userID.Bytes] {
		if id != courseID.Bytes {
			kept = append(kept, id)
		}
	}
	f.marks[userID.Bytes] = kept
	return nil
}

func (f *fakeQuerier) ListBookmarkedCourses(_ context.Context, userID pgtype.UUID) ([]store.Course, error) {
	var out []store.Course
	for _, id := range f.marks[userID.Bytes] {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeQuerier) GetCourseByID(_ context.Context, id pgtype.UUID) (store.Course, error) {
	c, ok := f.courses[id.Bytes]
	if !ok {
		return store.Course{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeQuerier) AddProductBookmark(_ context.Context, userID, productID pgtype.UUID) error {
	for _, id := range f.productMarks[userID.Bytes] {
		if id == productID.Bytes {
			return nil
		}
	}
	f.productMarks[userID.Bytes] = append(f.productMarks[userID.Bytes], productID.Bytes)
	return nil
}

func (f *fakeQuerier) RemoveProductBookmark(_ context.Context, userID, productID pgtype.UUID) error {
	kept := f.productMarks[userID.Bytes][:0]
	for _, id := range f.productMarks[userID.Bytes] {
		if id != productID.Bytes {
			kept = append(kept, id)
		}
	}
	f.productMarks[userID.Bytes] = kept
	return nil
}

func (f *fakeQuerier) ListBookmarkedProducts(_ context.Context, userID pgtype.UUID) ([]store.Product, error) {
	var out []store.Product
	for _, id := range f.productMarks[userID.Bytes] {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeQuerier) GetProductByID(_ context.Context, id pgtype.UUID) (store.Product, error) {
	p, ok := f.products[id.Bytes]
	if !ok {
		return store.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func newUUID() pgtype.UUID {
	id := uuid.New()
	var out pgtype.UUID
	copy(out.Bytes[:], id[:])
	out.Valid = true
	return out
}

func TestAddListRemove(t *testing.T) {
	q := newFakeQuerier()
	courseID := newUUID()
	q.courses[courseID.Bytes] = store.Course{ID: courseID, Title: "Intro to Go", Slug: "intro-to-go", Price: 5000, Level: "beginner"}
	svc := &bookmarks.Service{Q: q}
	userID := uuid.NewString()

	require.NoError(t, svc.Add(context.Background(), userID, store.UUIDString(courseID)))
	// adding twice stays a single bookmark
	require.NoError(t, svc.Add(context.Background(), userID, store.UUIDString(courseID)))

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "intro-to-go", list[0].Slug)

	require.NoError(t, svc.Remove(context.Background(), userID, store.UUIDString(courseID)))
	list, err = svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestAddUnknownCourse(t *testing.T) {
	svc := &bookmarks.Service{Q: newFakeQuerier()}

	err := svc.Add(context.Background(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, bookmarks.ErrNotFound)
}

func TestAddInvalidID(t *testing.T) {
	svc := &bookmarks.Service{Q: newFakeQuerier()}

	err := svc.Add(context.Background(), "not-a-uuid", uuid.NewString())
	require.ErrorIs(t, err, bookmarks.ErrInvalidInput)
}

func TestProductAddListRemove(t *testing.T) {
	q := newFakeQuerier()
	productID := newUUID()
	q.products[productID.Bytes] = store.Product{ID: productID, Title: "Sticker Pack", Slug: "sticker-pack", Price: 1500, Tags: []string{"merch"}}
	svc := &bookmarks.Service{Q: q}
	userID := uuid.NewString()

	require.NoError(t, svc.AddProduct(context.Background(), userID, store.UUIDString(productID)))
	// adding twice stays a single bookmark
	require.NoError(t, svc.AddProduct(context.Background(), userID, store.UUIDString(productID)))

	list, err := svc.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "sticker-pack", list[0].Slug)
	require.Equal(t, []string{"merch"}, list[0].Tags)

	require.NoError(t, svc.RemoveProduct(context.Background(), userID, store.UUIDString(productID)))
	list, err = svc.ListProducts(context.Background(), userID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestProductBookmarksIndependentOfCourses(t *testing.T) {
	q := newFakeQuerier()
	courseID := newUUID()
	productID := newUUID()
	q.courses[courseID.Bytes] = store.Course{ID: courseID, Title: "Intro to Go", Slug: "intro-to-go", Price: 5000, Level: "beginner"}
	q.products[productID.Bytes] = store.Product{ID: productID, Title: "Mug", Slug: "mug", Price: 2500}
	svc := &bookmarks.Service{Q: q}
	userID := uuid.NewString()

	require.NoError(t, svc.Add(context.Background(), userID, store.UUIDString(courseID)))
	require.NoError(t, svc.AddProduct(context.Background(), userID, store.UUIDString(productID)))
	require.NoError(t, svc.RemoveProduct(context.Background(), userID, store.UUIDString(productID)))

	courses, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := &bookmarks.Service{Q: newFakeQuerier()}

	err := svc.AddProduct(context.Background(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, bookmarks.ErrNotFound)
}
