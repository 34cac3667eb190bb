// Package httpx is the REST surface of the retail backend. Handlers decode
// JSON, call into the domain aggregate and the store ports, and map domain
// errors onto HTTP status codes. No business rule lives here.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcmexdev/retail-manager/internal/domain"
	"github.com/jcmexdev/retail-manager/internal/pkg/cache"
	"github.com/jcmexdev/retail-manager/internal/store"
)

// Handler carries the store ports and the optional catalog cache.
type Handler struct {
	orders     store.OrderStore
	products   store.ProductStore
	customers  store.CustomerStore
	categories store.CategoryStore
	payments   store.PaymentStore
	cache      cache.Cache // nil means no caching
}

// NewHandler builds a Handler. c may be nil, in which case product reads
// always hit the store.
func NewHandler(
	orders store.OrderStore,
	products store.ProductStore,
	customers store.CustomerStore,
	categories store.CategoryStore,
	payments store.PaymentStore,
	c cache.Cache,
) *Handler {
	return &Handler{
		orders:     orders,
		products:   products,
		customers:  customers,
		categories: categories,
		payments:   payments,
		cache:      c,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps domain and store errors onto HTTP responses:
// missing rows are 404, rejected inputs 400, guarded lifecycle
// transitions 409, and anything else is a persistence failure.
func writeDomainError(w http.ResponseWriter, err error) {
	var transErr *domain.InvalidTransitionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrInvalidRefundAmount):
		writeError(w, http.StatusBadRequest, "invalid_refund_amount", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.As(err, &transErr):
		writeError(w, http.StatusConflict, "invalid_state_transition", transErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "persistence_failure", err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}
