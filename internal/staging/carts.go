package staging

import (
	"github.com/lamvungoc/jewelpos/pkg/kv"
	"github.com/lamvungoc/jewelpos/pkg/logger"
	"github.com/lamvungoc/jewelpos/pkg/metrics"
)

// Durable-store keys, one per staging purpose. Each key holds a JSON array
// of line items and is removed on clear or successful submission.
const (
	SellCartKey       = "cart"
	BuyBackCartKey    = "cartBuyBack"
	StagedProductsKey = "products"
)

// NewSellCart returns the forward-sale cart repository.
func NewSellCart(store kv.Store, log *logger.Logger, met *metrics.StagingMetrics) *Repository[SellItem] {
	return NewRepository[SellItem](store, SellCartKey, log, met)
}

// NewBuyBackCart returns the repurchase cart for catalog products.
func NewBuyBackCart(store kv.Store, log *logger.Logger, met *metrics.StagingMetrics) *Repository[BuyBackItem] {
	return NewRepository[BuyBackItem](store, BuyBackCartKey, log, met)
}

// NewStagedProducts returns the staging list for ad-hoc buy-back entries.
func NewStagedProducts(store kv.Store, log *logger.Logger, met *metrics.StagingMetrics) *Repository[StagedItem] {
	return NewRepository[StagedItem](store, StagedProductsKey, log, met)
}
