package httptransport

import (
	"net/http"
)

func (h *HTTPTransport) shopStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.shop.Status(r.Context())
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]int32{"status": status})
}

func (h *HTTPTransport) setShopStatus(w http.ResponseWriter, r *http.Request) {
	status, err := pathID(r, "status")
	if err != nil {
		http.Error(w, "invalid status", http.StatusBadRequest)

		return
	}

	if err := h.shop.SetStatus(r.Context(), int32(status)); err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, nil)
}
