package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grubline/order-svc/internal/sequence"
	"github.com/grubline/order-svc/internal/service/models/cart"
	"github.com/grubline/order-svc/internal/service/models/order"
	"github.com/grubline/order-svc/internal/service/models/product"
)

// userHeader carries the authenticated user id, set by the gateway in front
// of this service. Identity is threaded explicitly through every service
// call, never kept in ambient request state.
const userHeader = "X-User-Id"

func userID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.Header.Get(userHeader), 10, 64)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// writeError maps the service error taxonomy to HTTP statuses: validation
// errors are the caller's to fix, state errors signal a stale view, and
// infrastructure failures surface as server errors.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrPriceMismatch),
		errors.Is(err, order.ErrAddressNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrInvalidSelector):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, sequence.ErrUnavailable):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
		slog.Error("Request failed", "error", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
