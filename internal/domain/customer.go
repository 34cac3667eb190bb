package domain

import "time"

// Customer is a retail customer record. Orders reference customers by ID
// only; a customer is never embedded in an order except as an optional
// display snapshot.
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	PostalCode  string
	Country     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Active      bool
}

// NewCustomer returns an active customer with audit timestamps set.
func NewCustomer(firstName, lastName, email string) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
	}
}

// FullName is the display name, "First Last".
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
