package http

import (
	"errors"
	"net/http"
	"strconv"

	"farmrent-backend/internal/domain"
	"farmrent-backend/internal/handover"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// HandoverQRHandler renders the caller's current handover code as a PNG.
type HandoverQRHandler struct {
	bookingSvc service.BookingService
}

func NewHandoverQRHandler(bookingSvc service.BookingService) *HandoverQRHandler {
	return &HandoverQRHandler{bookingSvc: bookingSvc}
}

func (h *HandoverQRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	requestID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || requestID <= 0 {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}
	direction, err := domain.ParseHandoverDirection(vars["direction"])
	if err != nil {
		http.Error(w, "Invalid direction", http.StatusBadRequest)
		return
	}
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		size, err = strconv.Atoi(s)
		if err != nil || size < 64 || size > maxQRSize {
			http.Error(w, "Invalid size", http.StatusBadRequest)
			return
		}
	}

	rt, err := h.bookingSvc.GetRequest(r.Context(), actor, requestID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	value := rt.PickupToken
	if direction == domain.HandoverReturn {
		value = rt.ReturnToken
	}
	if value == "" {
		http.Error(w, "No handover code available", http.StatusNotFound)
		return
	}

	png, err := handover.QRCode(value, size)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to render handover QR", "request_id", requestID, "error", err)
		http.Error(w, "Failed to render code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrStorageUnavailable):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "HTTP request failed", "error", err)
	}
	http.Error(w, domain.Reason(err), code)
}
