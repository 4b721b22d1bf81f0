package staging

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// SellItem is a catalog product staged in the forward-sale cart. UnitPrice
// is a snapshot taken at add-time; it is not refreshed until checkout.
type SellItem struct {
	ProductID    string          `json:"productId"`
	ProductCode  string          `json:"productCode,omitempty"`
	ProductName  string          `json:"productName"`
	Description  string          `json:"description,omitempty"`
	Material     string          `json:"material,omitempty"`
	ProductImage string          `json:"productImage,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
}

func (i SellItem) Key() string {
	return i.ProductID
}

// BuyBackItem is a previously sold catalog product staged for repurchase.
// Each entry represents a single physical piece.
type BuyBackItem struct {
	ProductID    string          `json:"productId"`
	ProductCode  string          `json:"productCode,omitempty"`
	ProductName  string          `json:"productName"`
	Description  string          `json:"description,omitempty"`
	Material     string          `json:"material,omitempty"`
	ProductImage string          `json:"productImage,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"price"`
}

func (i BuyBackItem) Key() string {
	return i.ProductID
}

// StagedItem is an ad-hoc buy-back entry describing a walk-in piece that
// has no catalog id. Descriptive attributes are carried through unchanged
// into the buy-back invoice payload.
type StagedItem struct {
	ID          string          `json:"id"`
	ProductType string          `json:"productType"`
	JewelryType string          `json:"jewelryType,omitempty"`
	MaterialID  string          `json:"materialId,omitempty"`
	Material    string          `json:"material,omitempty"`
	GoldType    string          `json:"goldType,omitempty"`
	WeightGrams decimal.Decimal `json:"gram"`
	Origin      string          `json:"origin,omitempty"`
	CaratWeight decimal.Decimal `json:"carat"`
	Color       string          `json:"color,omitempty"`
	Clarity     string          `json:"clarity,omitempty"`
	Cut         string          `json:"cut,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

func (i StagedItem) Key() string {
	return i.ID
}

// NewStagedID generates the client-side id for an ad-hoc entry. Ids are
// timestamp-based so entries sort in creation order.
func NewStagedID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
