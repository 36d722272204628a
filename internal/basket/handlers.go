package basket

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-academy/internal/common"
	"github.com/noah-isme/backend-academy/internal/obs"
)

// Handler wires the basket service to HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the priced snapshot of the authenticated user's basket.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	start := time.Now()
	snap, err := h.Svc.Snapshot(r.Context(), userID)
	obs.ObserveBasketSnapshot(time.Since(start), err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

// AddProduct adds one unit of the product to the basket.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	h.mutateProduct(w, r, "add_product", func(userID, productID string) (int, error) {
		return h.Svc.AddProduct(r.Context(), userID, productID)
	})
}

// RemoveProduct removes one unit of the product from the basket.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.mutateProduct(w, r, "remove_product", func(userID, productID string) (int, error) {
		return h.Svc.RemoveProduct(r.Context(), userID, productID)
	})
}

func (h *Handler) mutateProduct(w http.ResponseWriter, r *http.Request, kind string, op func(userID, productID string) (int, error)) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	productID := chi.URLParam(r, "productID")
	count, err := op(userID, productID)
	obs.CountBasketMutation(kind, err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"productID": productID,
		"count":     count,
	}})
}

// RemoveAllProducts empties every product line from the basket.
func (h *Handler) RemoveAllProducts(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	err := h.Svc.ClearProducts(r.Context(), userID)
	obs.CountBasketMutation("remove_all_products", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"message": "all products removed from basket",
	}})
}

// AddCourse places the course into the basket.
func (h *Handler) AddCourse(w http.ResponseWriter, r *http.Request) {
	h.mutateCourse(w, r, "add_course", func(userID, courseID string) error {
		return h.Svc.AddCourse(r.Context(), userID, courseID)
	})
}

// RemoveCourse drops the course from the basket.
func (h *Handler) RemoveCourse(w http.ResponseWriter, r *http.Request) {
	h.mutateCourse(w, r, "remove_course", func(userID, courseID string) error {
		return h.Svc.RemoveCourse(r.Context(), userID, courseID)
	})
}

func (h *Handler) mutateCourse(w http.ResponseWriter, r *http.Request, kind string, op func(userID, courseID string) error) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "basket service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	courseID := chi.URLParam(r, "courseID")
	err := op(userID, courseID)
	obs.CountBasketMutation(kind, err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"courseID": courseID,
	}})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrItemGone):
		common.JSONError(w, http.StatusConflict, "ITEM_GONE", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process basket", nil)
	}
}
