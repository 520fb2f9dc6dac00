package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

type submitOrderRequest struct {
	AddressID int64           `json:"addressId"`
	Amount    decimal.Decimal `json:"amount"`
}

func (h *HTTPTransport) submitOrder(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		http.Error(w, "missing or invalid user id", http.StatusUnauthorized)

		return
	}

	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	result, err := h.orders.Submit(r.Context(), uid, req.AddressID, req.Amount)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, result)
}

type paymentRequest struct {
	OrderNumber string `json:"orderNumber"`
}

func (h *HTTPTransport) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := h.orders.ConfirmPayment(r.Context(), req.OrderNumber); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

type cancelOrderRequest struct {
	ID     int64  `json:"id"`
	Reason string `json:"cancelReason"`
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := h.orders.Cancel(r.Context(), req.ID, req.Reason); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

type confirmOrderRequest struct {
	ID int64 `json:"id"`
}

func (h *HTTPTransport) confirmOrder(w http.ResponseWriter, r *http.Request) {
	var req confirmOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := h.orders.Confirm(r.Context(), req.ID); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *HTTPTransport) startDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	if err := h.orders.StartDelivery(r.Context(), id); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *HTTPTransport) completeOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	if err := h.orders.Complete(r.Context(), id); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, o)
}
