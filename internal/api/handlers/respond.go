package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeBadBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_body"})
}

// writeError maps domain errors onto HTTP statuses. Unknown errors are logged
// and reported as internal_error without detail.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code := models.ErrorCode(err)
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidProduct),
		errors.Is(err, models.ErrInvalidCartID),
		errors.Is(err, models.ErrInvalidCustomer),
		errors.Is(err, models.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrLineNotFound),
		errors.Is(err, models.ErrCustomerNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrEmptyCart):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err))
		writeJSON(w, status, ErrorResponse{Error: code})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: code, Detail: err.Error()})
}
