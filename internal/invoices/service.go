package invoices

import (
	"context"

	"github.com/google/uuid"
	"github.com/lamvungoc/jewelpos/internal/customers"
	"github.com/lamvungoc/jewelpos/internal/staging"
	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
	"github.com/lamvungoc/jewelpos/pkg/logger"
	"github.com/lamvungoc/jewelpos/pkg/metrics"
)

// Submission kinds used for logging and metrics labels.
const (
	kindSell         = "sell"
	kindBuyBackStore = "buyback_store"
	kindBuyBackAdHoc = "buyback_adhoc"
)

// API is the invoice-service surface the submitter needs. *Client
// satisfies it.
type API interface {
	CreateInvoice(ctx context.Context, req SellInvoiceRequest) (*Invoice, error)
	CreateOrderBuyBackStore(ctx context.Context, req BuyBackStoreRequest) (*Invoice, error)
	CreateBuyBackInvoice(ctx context.Context, req BuyBackInvoiceRequest) (*Invoice, error)
}

// SubmitterParams groups dependencies for the submitter.
type SubmitterParams struct {
	SellCart       *staging.Repository[staging.SellItem]
	BuyBackCart    *staging.Repository[staging.BuyBackItem]
	StagedProducts *staging.Repository[staging.StagedItem]
	Invoices       API
	Logger         *logger.Logger
	Metrics        *metrics.StagingMetrics
}

// Submitter maps a staged cart into an invoice payload, submits it once,
// and clears the cart only when the backend confirms creation. A failed
// submission leaves the cart byte-for-byte untouched so the operator can
// retry without re-entering anything.
type Submitter interface {
	SubmitSellInvoice(ctx context.Context, customer customers.Customer) (*Invoice, error)
	SubmitBuyBackStoreOrder(ctx context.Context, customer customers.Customer) (*Invoice, error)
	SubmitBuyBackInvoice(ctx context.Context, customer customers.Customer) (*Invoice, error)
}

type submitter struct {
	sellCart       *staging.Repository[staging.SellItem]
	buyBackCart    *staging.Repository[staging.BuyBackItem]
	stagedProducts *staging.Repository[staging.StagedItem]
	invoices       API
	log            *logger.Logger
	met            *metrics.StagingMetrics
}

// NewSubmitter builds the submitter with the required dependencies.
func NewSubmitter(params SubmitterParams) (Submitter, error) {
	if params.SellCart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell cart is required")
	}
	if params.BuyBackCart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy-back cart is required")
	}
	if params.StagedProducts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staged products list is required")
	}
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice client is required")
	}
	return &submitter{
		sellCart:       params.SellCart,
		buyBackCart:    params.BuyBackCart,
		stagedProducts: params.StagedProducts,
		invoices:       params.Invoices,
		log:            params.Logger,
		met:            params.Metrics,
	}, nil
}

// SubmitSellInvoice creates a sell invoice from the forward-sale cart.
func (s *submitter) SubmitSellInvoice(ctx context.Context, customer customers.Customer) (*Invoice, error) {
	items := s.sellCart.Items(ctx)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sell cart is empty")
	}

	details := make([]SellDetail, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		details = append(details, SellDetail{ProductID: item.ProductID, Quantity: quantity})
	}

	req := SellInvoiceRequest{CustomerID: customer.CustomerID, OrderSellDetails: details}
	return s.submit(ctx, kindSell, customer, func(ctx context.Context) (*Invoice, error) {
		return s.invoices.CreateInvoice(ctx, req)
	}, func(ctx context.Context) { s.sellCart.Clear(ctx) })
}

// SubmitBuyBackStoreOrder creates a repurchase order from the buy-back
// cart of store-sold products.
func (s *submitter) SubmitBuyBackStoreOrder(ctx context.Context, customer customers.Customer) (*Invoice, error) {
	items := s.buyBackCart.Items(ctx)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy-back cart is empty")
	}

	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	req := BuyBackStoreRequest{CustomerID: customer.CustomerID, ProductIDs: productIDs}
	return s.submit(ctx, kindBuyBackStore, customer, func(ctx context.Context) (*Invoice, error) {
		return s.invoices.CreateOrderBuyBackStore(ctx, req)
	}, func(ctx context.Context) { s.buyBackCart.Clear(ctx) })
}

// SubmitBuyBackInvoice creates a buy-back invoice from the ad-hoc staging
// list.
func (s *submitter) SubmitBuyBackInvoice(ctx context.Context, customer customers.Customer) (*Invoice, error) {
	items := s.stagedProducts.Items(ctx)
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no staged buy-back products")
	}

	details := make([]BuyBackDetail, 0, len(items))
	for _, item := range items {
		details = append(details, BuyBackDetail{
			MaterialID:  item.MaterialID,
			Quantity:    1,
			Weight:      item.WeightGrams,
			Origin:      item.Origin,
			CaratWeight: item.CaratWeight,
			Color:       item.Color,
			Clarity:     item.Clarity,
			Cut:         item.Cut,
		})
	}

	req := BuyBackInvoiceRequest{CustomerID: customer.CustomerID, OrderBuyBackDetails: details}
	return s.submit(ctx, kindBuyBackAdHoc, customer, func(ctx context.Context) (*Invoice, error) {
		return s.invoices.CreateBuyBackInvoice(ctx, req)
	}, func(ctx context.Context) { s.stagedProducts.Clear(ctx) })
}

// submit runs one create call and clears the source cart only on success.
func (s *submitter) submit(ctx context.Context, kind string, customer customers.Customer,
	create func(context.Context) (*Invoice, error), clear func(context.Context)) (*Invoice, error) {

	if customer.CustomerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}

	requestID := uuid.NewString()
	if s.log != nil {
		ctx = s.log.WithRequestID(ctx, requestID)
		ctx = s.log.WithCustomerID(ctx, customer.CustomerID)
		ctx = s.log.WithField(ctx, "kind", kind)
	}

	invoice, err := create(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Error(ctx, "invoice submission failed", err)
		}
		s.met.IncSubmission(kind, "failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "create invoice")
	}

	clear(ctx)
	s.met.IncSubmission(kind, "success")
	if s.log != nil {
		s.log.Info(s.log.WithField(ctx, "invoice_id", invoice.InvoiceID), "invoice created")
	}
	return invoice, nil
}
