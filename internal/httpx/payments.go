package httpx

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

var paymentMethods = map[domain.PaymentMethod]bool{
	domain.MethodCash:         true,
	domain.MethodCreditCard:   true,
	domain.MethodDebitCard:    true,
	domain.MethodBankTransfer: true,
	domain.MethodPayPal:       true,
	domain.MethodStripe:       true,
	domain.MethodOther:        true,
}

// CreatePayment registers a PENDING payment against an order. When no
// amount is given the order's current total is charged.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	method := domain.PaymentMethod(req.Method)
	if !paymentMethods[method] {
		writeError(w, http.StatusBadRequest, "invalid_method", "unknown payment method: "+req.Method)
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	amount := order.TotalAmount
	if req.Amount != "" {
		if amount, err = decimal.NewFromString(req.Amount); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "amount must be a decimal string")
			return
		}
	}

	payment := domain.NewPayment(order.ID, method, amount)
	payment.Notes = req.Notes
	payment.Reference = req.Reference
	if payment.Reference == "" {
		payment.Reference = uuid.NewString()
	}

	if err := h.payments.Save(r.Context(), payment); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "payment created",
		"payment_id", payment.ID,
		"order_id", order.ID,
		"amount", payment.Amount.StringFixed(2),
	)
	writeJSON(w, http.StatusCreated, mapPayment(payment))
}

func (h *Handler) ListOrderPayments(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	payments, err := h.payments.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePayments(w, payments)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if status := r.URL.Query().Get("status"); status != "" {
		payments, err := h.payments.ListByStatus(ctx, domain.PaymentStatus(status))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writePayments(w, payments)
		return
	}

	payments, err := h.payments.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePayments(w, payments)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}

	payment, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPayment(payment))
}

// CompletePayment marks a charge successful. Without an upstream
// processor a transaction id is minted locally.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req CompletePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	txID := req.TransactionID
	if txID == "" {
		txID = uuid.NewString()
	}
	payment.MarkCompleted(txID)

	if err := h.payments.Save(r.Context(), payment); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPayment(payment))
}

// RefundPayment refunds part or all of a completed payment. Over-refunds
// are 400s; refunding a payment in the wrong state is a 409 carrying the
// current status.
func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_id", "")
		return
	}
	var req RefundPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "amount must be a decimal string")
		return
	}

	payment, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := payment.Refund(amount); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.payments.Save(r.Context(), payment); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "payment refunded",
		"payment_id", payment.ID,
		"amount", amount.StringFixed(2),
		"status", string(payment.Status),
	)
	writeJSON(w, http.StatusOK, mapPayment(payment))
}

func writePayments(w http.ResponseWriter, payments []*domain.Payment) {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = mapPayment(p)
	}
	writeJSON(w, http.StatusOK, out)
}
