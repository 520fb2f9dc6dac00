package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/grubline/order-svc/internal/service/models/cart"
)

func (h *HTTPTransport) addToCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.carts.Add)
}

func (h *HTTPTransport) subFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.carts.Sub)
}

func (h *HTTPTransport) mutateCart(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID int64, sel cart.Selector) error,
) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid user id", http.StatusUnauthorized)

		return
	}

	var sel cart.Selector
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := op(r.Context(), uid, sel); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *HTTPTransport) listCart(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid user id", http.StatusUnauthorized)

		return
	}

	lines, err := h.carts.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, lines)
}

func (h *HTTPTransport) cleanCart(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid user id", http.StatusUnauthorized)

		return
	}

	if err := h.carts.Clean(r.Context(), uid); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}
