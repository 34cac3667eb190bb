package httpx

import (
	"time"

	"github.com/jcmexdev/retail-manager/internal/domain"
)

// Monetary amounts cross the wire as strings with 2 fractional digits
// ("35.15"), never as JSON numbers. This is the display boundary of the
// decimal money rules. Timestamps are RFC3339.

type CreateOrderRequest struct {
	CustomerID     int64              `json:"customer_id"`
	Notes          string             `json:"notes,omitempty"`
	TaxAmount      string             `json:"tax_amount,omitempty"`
	DiscountAmount string             `json:"discount_amount,omitempty"`
	Items          []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	// UnitPrice is optional; when omitted the product's current catalog
	// price is attached instead.
	UnitPrice string `json:"unit_price,omitempty"`
}

type ReplaceItemsRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID             int64               `json:"id"`
	CustomerID     int64               `json:"customer_id"`
	OrderDate      string              `json:"order_date"`
	Status         string              `json:"status"`
	Subtotal       string              `json:"subtotal"`
	TaxAmount      string              `json:"tax_amount"`
	DiscountAmount string              `json:"discount_amount"`
	TotalAmount    string              `json:"total_amount"`
	Notes          string              `json:"notes,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	TotalItemCount int                 `json:"total_item_count"`
	CanBeCancelled bool                `json:"can_be_cancelled"`
	Completed      bool                `json:"completed"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CustomerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

type CustomerResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	CostPrice   string `json:"cost_price,omitempty"`
	StockQty    int    `json:"stock_quantity"`
	MinStockQty int    `json:"min_stock_level,omitempty"`
	CategoryID  int64  `json:"category_id"`
	ImageURL    string `json:"image_url,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity"`
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	CostPrice   string `json:"cost_price"`
	StockQty    int    `json:"stock_quantity"`
	MinStockQty int    `json:"min_stock_level"`
	CategoryID  int64  `json:"category_id"`
	ImageURL    string `json:"image_url,omitempty"`
	InStock     bool   `json:"in_stock"`
	LowStock    bool   `json:"low_stock"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreatePaymentRequest struct {
	Method string `json:"method"`
	// Amount is optional; when omitted the order's total is charged.
	Amount    string `json:"amount,omitempty"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id,omitempty"`
}

type RefundPaymentRequest struct {
	Amount string `json:"amount"`
}

type PaymentResponse struct {
	ID            int64  `json:"id"`
	OrderID       int64  `json:"order_id"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	TransactionID string `json:"transaction_id,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Notes         string `json:"notes,omitempty"`
	PaymentDate   string `json:"payment_date"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapOrder(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.Round(2).StringFixed(2),
			LineTotal: it.LineTotal.Round(2).StringFixed(2),
		}
	}
	return OrderResponse{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		OrderDate:      formatTimestamp(o.OrderDate),
		Status:         string(o.Status),
		Subtotal:       o.Subtotal.Round(2).StringFixed(2),
		TaxAmount:      o.TaxAmount.Round(2).StringFixed(2),
		DiscountAmount: o.DiscountAmount.Round(2).StringFixed(2),
		TotalAmount:    o.TotalAmount.Round(2).StringFixed(2),
		Notes:          o.Notes,
		Items:          items,
		TotalItemCount: o.TotalItemCount(),
		CanBeCancelled: o.CanBeCancelled(),
		Completed:      o.IsCompleted(),
		CreatedAt:      formatTimestamp(o.CreatedAt),
		UpdatedAt:      formatTimestamp(o.UpdatedAt),
	}
}

func mapOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	return out
}

func mapCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   formatTimestamp(c.CreatedAt),
		UpdatedAt:   formatTimestamp(c.UpdatedAt),
	}
}

func mapCustomer(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		City:        c.City,
		PostalCode:  c.PostalCode,
		Country:     c.Country,
		Active:      c.Active,
		CreatedAt:   formatTimestamp(c.CreatedAt),
		UpdatedAt:   formatTimestamp(c.UpdatedAt),
	}
}

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price.Round(2).StringFixed(2),
		CostPrice:   p.CostPrice.Round(2).StringFixed(2),
		StockQty:    p.StockQty,
		MinStockQty: p.MinStockQty,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		InStock:     p.IsInStock(),
		LowStock:    p.IsLowStock(),
		Active:      p.Active,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}

func mapPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Status:        string(p.Status),
		Amount:        p.Amount.Round(2).StringFixed(2),
		TransactionID: p.TransactionID,
		Reference:     p.Reference,
		Notes:         p.Notes,
		PaymentDate:   formatTimestamp(p.PaymentDate),
		CreatedAt:     formatTimestamp(p.CreatedAt),
		UpdatedAt:     formatTimestamp(p.UpdatedAt),
	}
}
