package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

func pathID(r *http.Request) (int64, bool) {
	return parseID(chi.URLParam(r, "id"))
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// CreateOrder persists a new PENDING order with its line items. Items that
// carry no unit price get the product's current catalog price attached
// (price at time of order, not a live link).
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CustomerID == 0 || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id and items are required")
		return
	}

	order := domain.NewOrder(req.CustomerID)
	order.Notes = req.Notes

	items, ok := h.buildItems(w, r, req.Items)
	if !ok {
		return
	}
	order.SetItems(items)

	if req.TaxAmount != "" {
		tax, err := decimal.NewFromString(req.TaxAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "tax_amount must be a decimal string")
			return
		}
		order.SetTaxAmount(tax)
	}
	if req.DiscountAmount != "" {
		discount, err := decimal.NewFromString(req.DiscountAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "discount_amount must be a decimal string")
			return
		}
		order.SetDiscountAmount(discount)
	}

	if err := h.orders.Save(r.Context(), order); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total", order.TotalAmount.StringFixed(2),
	)
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// buildItems turns item DTOs into domain items, resolving catalog prices
// where needed. On failure it writes the error response and returns false.
func (h *Handler) buildItems(w http.ResponseWriter, r *http.Request, reqs []OrderItemRequest) ([]*domain.OrderItem, bool) {
	items := make([]*domain.OrderItem, 0, len(reqs))
	for _, ir := range reqs {
		if ir.ProductID == 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_id is required")
			return nil, false
		}

		if ir.UnitPrice == "" {
			product, err := h.getProduct(r, ir.ProductID)
			if err != nil {
				writeDomainError(w, err)
				return nil, false
			}
			item, err := domain.NewOrderItem(ir.ProductID, ir.Quantity, decimal.Zero)
			if err != nil {
				writeDomainError(w, err)
				return nil, false
			}
			item.AttachProduct(product)
			items = append(items, item)
			continue
		}

		price, err := decimal.NewFromString(ir.UnitPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_item", "unit_price must be a decimal string")
			return nil, false
		}
		item, err := domain.NewOrderItem(ir.ProductID, ir.Quantity, price)
		if err != nil {
			writeDomainError(w, err)
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		if !domain.ValidOrderStatus(domain.OrderStatus(status)) {
			writeError(w, http.StatusBadRequest, "invalid_status", "unknown order status: "+status)
			return
		}
		orders, err := h.orders.ListByStatus(ctx, domain.OrderStatus(status))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mapOrders(orders))
		return
	}

	if cid := q.Get("customer_id"); cid != "" {
		customerID, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "customer_id must be an integer")
			return
		}
		orders, err := h.orders.ListByCustomer(ctx, customerID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mapOrders(orders))
		return
	}

	orders, err := h.orders.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// ReplaceOrderItems swaps the order's full line item collection, the same
// way an edit session in a desktop client replaces the basket wholesale.
func (h *Handler) ReplaceOrderItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req ReplaceItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items, ok := h.buildItems(w, r, req.Items)
	if !ok {
		return
	}
	order.SetItems(items)

	if err := h.orders.Save(r.Context(), order); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// CancelOrder runs the one transition the aggregate guards. A 409 carries
// the current status back to the caller.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := order.Cancel(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), order.ID, order.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "order cancelled", "order_id", order.ID)
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// UpdateOrderStatus is the unguarded status override for service-level
// workflows (fulfilment, admin corrections).
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status := domain.OrderStatus(req.Status)
	if !domain.ValidOrderStatus(status) {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown order status: "+req.Status)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		writeDomainError(w, err)
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
