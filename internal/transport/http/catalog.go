package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/grubline/order-svc/internal/service/models/product"
)

func (h *HTTPTransport) listDishes(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.URL.Query().Get("categoryId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)

		return
	}

	list, err := h.catalog.ListDishesByCategory(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *HTTPTransport) saveDish(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, h.catalog.SaveDish)
}

func (h *HTTPTransport) updateDish(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, h.catalog.UpdateDish)
}

func (h *HTTPTransport) saveSetmeal(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, h.catalog.SaveSetmeal)
}

func (h *HTTPTransport) updateSetmeal(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, h.catalog.UpdateSetmeal)
}

func (h *HTTPTransport) saveProduct(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, p *product.Product) error,
) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := op(r.Context(), &p); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPTransport) deleteDishes(w http.ResponseWriter, r *http.Request) {
	h.deleteProducts(w, r, h.catalog.DeleteDishes)
}

func (h *HTTPTransport) deleteSetmeals(w http.ResponseWriter, r *http.Request) {
	h.deleteProducts(w, r, h.catalog.DeleteSetmeals)
}

func (h *HTTPTransport) deleteProducts(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, ids []int64) error,
) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		http.Error(w, "invalid ids", http.StatusBadRequest)

		return
	}

	if err := op(r.Context(), ids); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *HTTPTransport) setDishStatus(w http.ResponseWriter, r *http.Request) {
	h.setProductStatus(w, r, h.catalog.SetDishStatus)
}

func (h *HTTPTransport) setSetmealStatus(w http.ResponseWriter, r *http.Request) {
	h.setProductStatus(w, r, h.catalog.SetSetmealStatus)
}

func (h *HTTPTransport) setProductStatus(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id int64, status int32) error,
) {
	status, err := pathID(r, "status")
	if err != nil {
		http.Error(w, "invalid status", http.StatusBadRequest)

		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)

		return
	}

	if err := op(r.Context(), id, int32(status)); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
