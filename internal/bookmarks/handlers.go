package bookmarks

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-academy/internal/common"
)

// Handler exposes the bookmark endpoints.
type Handler struct {
	Svc *Service
}

// List handles GET /api/v1/users/me/bookmarks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	courses, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": courses})
}

// Add handles PUT /api/v1/users/me/bookmarks/{courseID}.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "courseID", h.Svc.Add)
}

// Remove handles DELETE /api/v1/users/me/bookmarks/{courseID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "courseID", h.Svc.Remove)
}

// ListProducts handles GET /api/v1/users/me/bookmarks/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	products, err := h.Svc.ListProducts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// AddProduct handles PUT /api/v1/users/me/bookmarks/products/{productID}.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "productID", h.Svc.AddProduct)
}

// RemoveProduct handles DELETE /api/v1/users/me/bookmarks/products/{productID}.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "productID", h.Svc.RemoveProduct)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, param string, op func(ctx context.Context, userID, itemID string) error) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	itemID := chi.URLParam(r, param)
	if err := op(r.Context(), userID, itemID); err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{param: itemID}})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
