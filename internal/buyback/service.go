package buyback

import (
	"context"

	"github.com/lamvungoc/jewelpos/internal/catalog"
	"github.com/lamvungoc/jewelpos/internal/staging"
	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
	"github.com/lamvungoc/jewelpos/pkg/logger"
	"github.com/lamvungoc/jewelpos/pkg/metrics"
	"github.com/shopspring/decimal"
)

// PricingSource is the catalog surface the quoter needs. *catalog.Client
// satisfies it.
type PricingSource interface {
	FetchProductByID(ctx context.Context, productID string) (*catalog.ProductDetails, error)
}

// PricedItem pairs a staged buy-back item with its derived quote. Quote is
// nil when the pricing fetch failed; the item still renders, priced "N/A".
type PricedItem struct {
	Item  staging.BuyBackItem
	Quote *Quote
}

// ServiceParams groups dependencies for the quoter.
type ServiceParams struct {
	Cart    *staging.Repository[staging.BuyBackItem]
	Pricing PricingSource
	Logger  *logger.Logger
	Metrics *metrics.StagingMetrics
}

// Service recomputes derived buy-back prices for the staged cart.
type Service interface {
	PricedItems(ctx context.Context) []PricedItem
}

type service struct {
	cart    *staging.Repository[staging.BuyBackItem]
	pricing PricingSource
	log     *logger.Logger
	met     *metrics.StagingMetrics
}

// NewService builds the quoter with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy-back cart is required")
	}
	if params.Pricing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pricing source is required")
	}
	return &service{
		cart:    params.Cart,
		pricing: params.Pricing,
		log:     params.Logger,
		met:     params.Metrics,
	}, nil
}

// PricedItems loads the staged cart and attaches a fresh quote per item.
// One item's fetch failure degrades only that item, never the batch.
func (s *service) PricedItems(ctx context.Context) []PricedItem {
	items := s.cart.Items(ctx)
	priced := make([]PricedItem, 0, len(items))
	for _, item := range items {
		details, err := s.pricing.FetchProductByID(ctx, item.ProductID)
		if err != nil {
			if s.log != nil {
				s.log.Warn(s.log.WithItemID(ctx, item.ProductID), "buy-back quote fetch failed")
			}
			s.met.IncQuoteFailure(s.cart.Key())
			priced = append(priced, PricedItem{Item: item})
			continue
		}
		quote := ComputeQuote(*details)
		priced = append(priced, PricedItem{Item: item, Quote: &quote})
	}
	return priced
}

// Total sums final buy-back price times quantity over the quoted items.
// Unquoted items contribute nothing, mirroring their "N/A" display.
func Total(priced []PricedItem) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range priced {
		if entry.Quote == nil {
			continue
		}
		quantity := entry.Item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		total = total.Add(entry.Quote.FinalBuyBackPrice.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return total
}
