package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellDetail is one sell-invoice line: a catalog product and how many.
type SellDetail struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SellInvoiceRequest creates a forward-sale invoice.
type SellInvoiceRequest struct {
	CustomerID       string       `json:"customerId" validate:"required"`
	OrderSellDetails []SellDetail `json:"orderSellDetails" validate:"required,min=1"`
}

// BuyBackStoreRequest repurchases catalog products previously sold by the
// store; the backend reprices them from the product ids alone.
type BuyBackStoreRequest struct {
	CustomerID string   `json:"customerId" validate:"required"`
	ProductIDs []string `json:"productIds" validate:"required,min=1"`
}

// BuyBackDetail describes one ad-hoc repurchased piece. Material entries
// carry materialId and weight; diamond entries carry the grading fields.
type BuyBackDetail struct {
	MaterialID  string          `json:"materialId,omitempty"`
	Quantity    int             `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
	Origin      string          `json:"origin"`
	CaratWeight decimal.Decimal `json:"caratWeight"`
	Color       string          `json:"color"`
	Clarity     string          `json:"clarity"`
	Cut         string          `json:"cut"`
}

// BuyBackInvoiceRequest creates a buy-back invoice for ad-hoc pieces.
type BuyBackInvoiceRequest struct {
	CustomerID          string          `json:"customerId" validate:"required"`
	OrderBuyBackDetails []BuyBackDetail `json:"orderBuyBackDetails" validate:"required,min=1"`
}

// Invoice is the record returned by the backend on creation.
type Invoice struct {
	InvoiceID  string          `json:"invoiceId"`
	CustomerID string          `json:"customerId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Order is one row in the order history listings.
type Order struct {
	OrderID      string          `json:"orderId"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
}
