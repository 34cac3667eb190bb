package httpx

import (
	"net/http"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "first_name, last_name and email are required")
		return
	}

	customer := domain.NewCustomer(req.FirstName, req.LastName, req.Email)
	customer.PhoneNumber = req.PhoneNumber
	customer.Address = req.Address
	customer.City = req.City
	customer.PostalCode = req.PostalCode
	customer.Country = req.Country

	if err := h.customers.Save(r.Context(), customer); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCustomer(customer))
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if term := r.URL.Query().Get("search"); term != "" {
		customers, err := h.customers.SearchByName(ctx, term)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCustomers(w, customers)
		return
	}

	if email := r.URL.Query().Get("email"); email != "" {
		customer, err := h.customers.GetByEmail(ctx, email)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeCustomers(w, []*domain.Customer{customer})
		return
	}

	customers, err := h.customers.ListActive(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCustomers(w, customers)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(customer))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	customer.PhoneNumber = req.PhoneNumber
	customer.Address = req.Address
	customer.City = req.City
	customer.PostalCode = req.PostalCode
	customer.Country = req.Country
	if req.Active != nil {
		customer.Active = *req.Active
	}

	if err := h.customers.Save(r.Context(), customer); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(customer))
}

// DeactivateCustomer soft-deletes so order history keeps its customer
// reference.
func (h *Handler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	if err := h.customers.Deactivate(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCustomers(w http.ResponseWriter, customers []*domain.Customer) {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = mapCustomer(c)
	}
	writeJSON(w, http.StatusOK, out)
}
