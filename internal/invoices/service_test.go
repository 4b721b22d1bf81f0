package invoices

import (
	"context"
	"errors"
	"testing"

	"github.com/lamvungoc/jewelpos/internal/customers"
	"github.com/lamvungoc/jewelpos/internal/staging"
	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
	"github.com/lamvungoc/jewelpos/pkg/kv"
	"github.com/shopspring/decimal"
)

type stubAPI struct {
	failWith error

	sellReq         *SellInvoiceRequest
	buyBackStoreReq *BuyBackStoreRequest
	buyBackReq      *BuyBackInvoiceRequest
}

func (s *stubAPI) CreateInvoice(_ context.Context, req SellInvoiceRequest) (*Invoice, error) {
	s.sellReq = &req
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &Invoice{InvoiceID: "INV-1", CustomerID: req.CustomerID}, nil
}

func (s *stubAPI) CreateOrderBuyBackStore(_ context.Context, req BuyBackStoreRequest) (*Invoice, error) {
	s.buyBackStoreReq = &req
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &Invoice{InvoiceID: "INV-2", CustomerID: req.CustomerID}, nil
}

func (s *stubAPI) CreateBuyBackInvoice(_ context.Context, req BuyBackInvoiceRequest) (*Invoice, error) {
	s.buyBackReq = &req
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &Invoice{InvoiceID: "INV-3", CustomerID: req.CustomerID}, nil
}

type fixture struct {
	store     *kv.MemoryStore
	sell      *staging.Repository[staging.SellItem]
	buyBack   *staging.Repository[staging.BuyBackItem]
	staged    *staging.Repository[staging.StagedItem]
	api       *stubAPI
	submitter Submitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := kv.NewMemoryStore()
	f := &fixture{
		store:   store,
		sell:    staging.NewSellCart(store, nil, nil),
		buyBack: staging.NewBuyBackCart(store, nil, nil),
		staged:  staging.NewStagedProducts(store, nil, nil),
		api:     &stubAPI{},
	}

	submitter, err := NewSubmitter(SubmitterParams{
		SellCart:       f.sell,
		BuyBackCart:    f.buyBack,
		StagedProducts: f.staged,
		Invoices:       f.api,
	})
	if err != nil {
		t.Fatalf("new submitter: %v", err)
	}
	f.submitter = submitter
	return f
}

var testCustomer = customers.Customer{CustomerID: "C1", Name: "Ngọc Lam"}

func TestSubmitSellInvoiceClearsCartOnSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.sell.Add(ctx, staging.SellItem{ProductID: "P1", Quantity: 2, UnitPrice: decimal.NewFromInt(500000)})
	f.sell.Add(ctx, staging.SellItem{ProductID: "P2", Quantity: 1, UnitPrice: decimal.NewFromInt(300000)})

	invoice, err := f.submitter.SubmitSellInvoice(ctx, testCustomer)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if invoice.InvoiceID != "INV-1" {
		t.Fatalf("unexpected invoice %+v", invoice)
	}

	if f.api.sellReq.CustomerID != "C1" {
		t.Fatalf("unexpected payload customer %q", f.api.sellReq.CustomerID)
	}
	want := []SellDetail{{ProductID: "P1", Quantity: 2}, {ProductID: "P2", Quantity: 1}}
	if len(f.api.sellReq.OrderSellDetails) != 2 ||
		f.api.sellReq.OrderSellDetails[0] != want[0] ||
		f.api.sellReq.OrderSellDetails[1] != want[1] {
		t.Fatalf("unexpected details %+v", f.api.sellReq.OrderSellDetails)
	}

	if items := f.sell.Items(ctx); len(items) != 0 {
		t.Fatalf("expected cart cleared after success, got %+v", items)
	}
}

func TestSubmitSellInvoiceFailureLeavesCartUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.sell.Add(ctx, staging.SellItem{ProductID: "P1", Quantity: 1, UnitPrice: decimal.NewFromInt(500000)})

	before, ok, err := f.store.Get(ctx, staging.SellCartKey)
	if err != nil || !ok {
		t.Fatalf("expected stored cart blob: ok=%v err=%v", ok, err)
	}

	f.api.failWith = errors.New("backend down")
	_, err = f.submitter.SubmitSellInvoice(ctx, testCustomer)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("expected submission error, got %v", err)
	}
	if !typed.Retryable() {
		t.Fatal("submission failures must be retryable")
	}

	after, ok, err := f.store.Get(ctx, staging.SellCartKey)
	if err != nil || !ok {
		t.Fatalf("cart blob disappeared: ok=%v err=%v", ok, err)
	}
	if before != after {
		t.Fatalf("cart blob changed across failed submission:\nbefore: %s\nafter:  %s", before, after)
	}

	// Retrying after the backend recovers succeeds without re-entry.
	f.api.failWith = nil
	if _, err := f.submitter.SubmitSellInvoice(ctx, testCustomer); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if items := f.sell.Items(ctx); len(items) != 0 {
		t.Fatalf("expected cart cleared after retry, got %+v", items)
	}
}

func TestSubmitSellInvoiceRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.submitter.SubmitSellInvoice(context.Background(), testCustomer)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.api.sellReq != nil {
		t.Fatal("empty cart must not reach the backend")
	}
}

func TestSubmitSellInvoiceRequiresCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.sell.Add(ctx, staging.SellItem{ProductID: "P1", Quantity: 1})

	_, err := f.submitter.SubmitSellInvoice(ctx, customers.Customer{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitBuyBackStoreOrderMapsProductIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.buyBack.Add(ctx, staging.BuyBackItem{ProductID: "P10", Quantity: 1})
	f.buyBack.Add(ctx, staging.BuyBackItem{ProductID: "P11", Quantity: 1})

	if _, err := f.submitter.SubmitBuyBackStoreOrder(ctx, testCustomer); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	got := f.api.buyBackStoreReq.ProductIDs
	if len(got) != 2 || got[0] != "P10" || got[1] != "P11" {
		t.Fatalf("unexpected product ids %v", got)
	}
	if items := f.buyBack.Items(ctx); len(items) != 0 {
		t.Fatalf("expected buy-back cart cleared, got %+v", items)
	}
}

func TestSubmitBuyBackInvoiceCarriesDetailFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.staged.Add(ctx, staging.StagedItem{
		ID:          staging.NewStagedID(),
		ProductType: "Kim Cương",
		Origin:      "natural",
		CaratWeight: decimal.NewFromFloat(1.2),
		Color:       "D",
		Clarity:     "VS1",
		Cut:         "Excellent",
	})
	f.staged.Add(ctx, staging.StagedItem{
		ID:          staging.NewStagedID(),
		ProductType: "Vàng",
		MaterialID:  "M-24K",
		WeightGrams: decimal.NewFromFloat(3.5),
	})

	if _, err := f.submitter.SubmitBuyBackInvoice(ctx, testCustomer); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	details := f.api.buyBackReq.OrderBuyBackDetails
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if details[0].Color != "D" || details[0].Quantity != 1 {
		t.Fatalf("unexpected diamond detail %+v", details[0])
	}
	if details[1].MaterialID != "M-24K" || !details[1].Weight.Equal(decimal.NewFromFloat(3.5)) {
		t.Fatalf("unexpected material detail %+v", details[1])
	}
	if items := f.staged.Items(ctx); len(items) != 0 {
		t.Fatalf("expected staging list cleared, got %+v", items)
	}
}

func TestSubmitFailureDoesNotClearOtherCarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.sell.Add(ctx, staging.SellItem{ProductID: "P1", Quantity: 1})
	f.buyBack.Add(ctx, staging.BuyBackItem{ProductID: "P2", Quantity: 1})

	f.api.failWith = errors.New("backend down")
	_, _ = f.submitter.SubmitBuyBackStoreOrder(ctx, testCustomer)

	if len(f.sell.Items(ctx)) != 1 || len(f.buyBack.Items(ctx)) != 1 {
		t.Fatal("failed submission must leave every cart intact")
	}
}
