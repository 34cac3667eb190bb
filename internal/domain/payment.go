package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodDebitCard    PaymentMethod = "DEBIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodPayPal       PaymentMethod = "PAYPAL"
	MethodStripe       PaymentMethod = "STRIPE"
	MethodOther        PaymentMethod = "OTHER"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentProcessing    PaymentStatus = "PROCESSING"
	PaymentCompleted     PaymentStatus = "COMPLETED"
	PaymentFailed        PaymentStatus = "FAILED"
	PaymentCancelled     PaymentStatus = "CANCELLED"
	PaymentRefunded      PaymentStatus = "REFUNDED"
	PaymentPartialRefund PaymentStatus = "PARTIAL_REFUND"
)

// Payment records money taken against an order. Refunds are guarded the
// same way order cancellation is: only a COMPLETED payment can be
// refunded, and never for more than was paid.
type Payment struct {
	ID            int64
	OrderID       int64
	Method        PaymentMethod
	Status        PaymentStatus
	Amount        decimal.Decimal
	TransactionID string
	Reference     string
	Notes         string
	PaymentDate   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment returns a PENDING payment against the given order.
func NewPayment(orderID int64, method PaymentMethod, amount decimal.Decimal) *Payment {
	now := time.Now()
	return &Payment{
		OrderID:     orderID,
		Method:      method,
		Status:      PaymentPending,
		Amount:      amount,
		PaymentDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsSuccessful reports whether the payment went through.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentCompleted
}

// IsPending reports whether the payment is still in flight.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentPending || p.Status == PaymentProcessing
}

// IsFailed reports whether the payment terminally failed.
func (p *Payment) IsFailed() bool {
	return p.Status == PaymentFailed || p.Status == PaymentCancelled
}

// CanBeRefunded reports whether Refund would be allowed right now.
func (p *Payment) CanBeRefunded() bool {
	return p.Status == PaymentCompleted
}

// MarkCompleted records a successful charge with the processor's
// transaction id and stamps the payment date.
func (p *Payment) MarkCompleted(transactionID string) {
	p.Status = PaymentCompleted
	p.TransactionID = transactionID
	p.PaymentDate = time.Now()
	p.touch()
}

// MarkFailed records a failed charge with the failure reason in Notes.
func (p *Payment) MarkFailed(reason string) {
	p.Status = PaymentFailed
	p.Notes = reason
	p.touch()
}

// Refund refunds amount of the payment. A full-amount refund moves the
// payment to REFUNDED, a smaller one to PARTIAL_REFUND. Refunding more
// than was paid returns ErrInvalidRefundAmount; refunding a payment that
// is not COMPLETED returns an InvalidTransitionError. On error the
// payment is left unchanged.
func (p *Payment) Refund(amount decimal.Decimal) error {
	if !p.CanBeRefunded() {
		return &InvalidTransitionError{Op: "refund payment", Status: string(p.Status)}
	}
	switch amount.Cmp(p.Amount) {
	case 0:
		p.Status = PaymentRefunded
	case -1:
		p.Status = PaymentPartialRefund
	default:
		return ErrInvalidRefundAmount
	}
	p.touch()
	return nil
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
}
