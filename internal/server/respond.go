package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/checkout"
)

// encodeLog is the fallback logger for response-encoding failures; the
// respond helpers are free functions, so New installs the server's logger
// here.
var encodeLog = zap.NewNop()

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		encodeLog.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondAPIError maps the api/checkout error taxonomy onto HTTP responses.
// Server-provided messages pass through so the UI can show them verbatim.
func respondAPIError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   vErr.Message,
			Code:    "validation_failed",
			Details: vErr.Field,
		})
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
		return
	}
	if errors.Is(err, checkout.ErrSubmitInProgress) {
		respondError(w, http.StatusConflict, "in_progress", err.Error())
		return
	}
	if errors.Is(err, api.ErrTimeout) {
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
		return
	}

	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		respondError(w, httpErr.Status, "upstream_error", httpErr.Message)
		return
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		respondError(w, http.StatusBadGateway, "network_error", "upstream unreachable")
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
