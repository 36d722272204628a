package bookmarks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/bookmarks"
	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/store"
)

func authedRequest(t *testing.T, method, target, userID string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	ctx := common.WithUserID(req.Context(), userID)
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func TestProductBookmarkHandlers(t *testing.T) {
	q := newFakeQuerier()
	productID := newUUID()
	pidStr := store.UUIDString(productID)
	q.products[productID.Bytes] = store.Product{ID: productID, Title: "Mug", Slug: "mug", Price: 2500}
	h := &bookmarks.Handler{Svc: &bookmarks.Service{Q: q}}
	userID := uuid.NewString()

	rec := httptest.NewRecorder()
	h.AddProduct(rec, authedRequest(t, http.MethodPut, "/api/v1/users/me/bookmarks/products/"+pidStr, userID, map[string]string{"productID": pidStr}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListProducts(rec, authedRequest(t, http.MethodGet, "/api/v1/users/me/bookmarks/products", userID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []bookmarks.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "mug", resp.Data[0].Slug)

	rec = httptest.NewRecorder()
	h.RemoveProduct(rec, authedRequest(t, http.MethodDelete, "/api/v1/users/me/bookmarks/products/"+pidStr, userID, map[string]string{"productID": pidStr}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListProducts(rec, authedRequest(t, http.MethodGet, "/api/v1/users/me/bookmarks/products", userID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data)
}

func TestAddProductBookmarkUnknownProduct(t *testing.T) {
	h := &bookmarks.Handler{Svc: &bookmarks.Service{Q: newFakeQuerier()}}
	pidStr := uuid.NewString()

	rec := httptest.NewRecorder()
	h.AddProduct(rec, authedRequest(t, http.MethodPut, "/api/v1/users/me/bookmarks/products/"+pidStr, uuid.NewString(), map[string]string{"productID": pidStr}))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductBookmarksRequireAuth(t *testing.T) {
	h := &bookmarks.Handler{Svc: &bookmarks.Service{Q: newFakeQuerier()}}

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/bookmarks/products", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
