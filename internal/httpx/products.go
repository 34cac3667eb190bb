package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

// productCacheTTL bounds staleness of cached product reads. Writes
// invalidate eagerly, so the TTL only matters for out-of-band DB edits.
const productCacheTTL = 5 * time.Minute

func (h *Handler) getProduct(r *http.Request, id int64) (*domain.Product, error) {
	return h.products.GetByID(r.Context(), id)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.SKU == "" || req.CategoryID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, sku and category_id are required")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "price must be a decimal string")
		return
	}

	product := domain.NewProduct(req.Name, req.SKU, price, req.StockQty, req.CategoryID)
	product.Description = req.Description
	product.MinStockQty = req.MinStockQty
	product.ImageURL = req.ImageURL
	if req.CostPrice != "" {
		if product.CostPrice, err = decimal.NewFromString(req.CostPrice); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "cost_price must be a decimal string")
			return
		}
	}

	if err := h.products.Save(r.Context(), product); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(product))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if term := q.Get("search"); term != "" {
		products, err := h.products.SearchByName(ctx, term)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeProducts(w, products)
		return
	}

	if cid := q.Get("category_id"); cid != "" {
		categoryID, ok := parseID(cid)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_request", "category_id must be an integer")
			return
		}
		products, err := h.products.ListByCategory(ctx, categoryID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeProducts(w, products)
		return
	}

	products, err := h.products.ListActive(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeProducts(w, products)
}

func (h *Handler) ListLowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListLowStock(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeProducts(w, products)
}

// GetProduct serves a single product, read-through the Redis cache when
// one is configured. A cache failure is only logged; the store answers.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	ctx := r.Context()

	if h.cache != nil {
		key := h.cache.GenerateKey("product", strconv.FormatInt(id, 10))
		if cached, err := h.cache.Get(ctx, key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		} else if err != nil {
			slog.WarnContext(ctx, "product cache read failed", "error", err)
		}
	}

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := mapProduct(product)
	if h.cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			key := h.cache.GenerateKey("product", strconv.FormatInt(id, 10))
			if err := h.cache.Set(ctx, key, string(body), productCacheTTL); err != nil {
				slog.WarnContext(ctx, "product cache write failed", "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.SKU != "" {
		product.SKU = req.SKU
	}
	product.Description = req.Description
	product.ImageURL = req.ImageURL
	product.MinStockQty = req.MinStockQty
	if req.Price != "" {
		if product.Price, err = decimal.NewFromString(req.Price); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "price must be a decimal string")
			return
		}
	}
	if req.CostPrice != "" {
		if product.CostPrice, err = decimal.NewFromString(req.CostPrice); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "cost_price must be a decimal string")
			return
		}
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.products.Save(r.Context(), product); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidateProduct(r, product.ID)
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (h *Handler) UpdateProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req UpdateStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity cannot be negative")
		return
	}

	if err := h.products.UpdateStock(r.Context(), id, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidateProduct(r, id)

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

// DeactivateProduct soft-deletes: old orders keep a valid product
// reference while the product drops out of the catalog.
func (h *Handler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	if err := h.products.Deactivate(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidateProduct(r, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidateProduct(r *http.Request, id int64) {
	if h.cache == nil {
		return
	}
	key := h.cache.GenerateKey("product", strconv.FormatInt(id, 10))
	if err := h.cache.Delete(r.Context(), key); err != nil {
		slog.WarnContext(r.Context(), "product cache invalidation failed", "product_id", id, "error", err)
	}
}

func writeProducts(w http.ResponseWriter, products []*domain.Product) {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, out)
}
