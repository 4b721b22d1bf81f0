package buyback

import (
	"github.com/lamvungoc/jewelpos/internal/catalog"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Quote is the derived repurchase price for one catalog product. It is a
// view computed from the backend's current figures and is never persisted.
type Quote struct {
	ProductPrice      decimal.Decimal
	BuyBackPrice      decimal.Decimal
	DiscountRate      decimal.Decimal
	PriceDifference   decimal.Decimal
	DiscountAmount    decimal.Decimal
	FinalBuyBackPrice decimal.Decimal
}

// ComputeQuote derives the final repurchase price:
//
//	final = buyBack + (product - buyBack) * rate / 100
func ComputeQuote(details catalog.ProductDetails) Quote {
	difference := details.ProductPrice.Sub(details.BuyBackPrice)
	discount := difference.Mul(details.DiscountRate).Div(oneHundred)
	return Quote{
		ProductPrice:      details.ProductPrice,
		BuyBackPrice:      details.BuyBackPrice,
		DiscountRate:      details.DiscountRate,
		PriceDifference:   difference,
		DiscountAmount:    discount,
		FinalBuyBackPrice: details.BuyBackPrice.Add(discount),
	}
}
