package invoices

import (
	"github.com/lamvungoc/jewelpos/internal/staging"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// DiscountPreview shows the operator what a customer's loyalty tier does
// to the cart total before submission. The backend recomputes the
// authoritative figures on create.
type DiscountPreview struct {
	Total    decimal.Decimal
	Discount decimal.Decimal
	Payable  decimal.Decimal
}

// PreviewSellTotals sums the staged sell cart at snapshot prices and
// applies the tier discount percentage.
func PreviewSellTotals(items []staging.SellItem, discountPercent decimal.Decimal) DiscountPreview {
	total := decimal.Zero
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	}
	discount := total.Mul(discountPercent).Div(oneHundred)
	return DiscountPreview{
		Total:    total,
		Discount: discount,
		Payable:  total.Sub(discount),
	}
}
