package httpx

import (
	"net/http"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	category := domain.NewCategory(req.Name, req.Description)
	if err := h.categories.Save(r.Context(), category); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCategory(category))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = mapCategory(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(category))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	category.Description = req.Description
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := h.categories.Save(r.Context(), category); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
