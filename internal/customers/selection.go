package customers

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/lamvungoc/jewelpos/pkg/errors"
	"github.com/lamvungoc/jewelpos/pkg/kv"
	"github.com/lamvungoc/jewelpos/pkg/logger"
)

// SelectedCustomerKey is the durable-store key the checkout flow reads the
// chosen customer from.
const SelectedCustomerKey = "customer"

// Selection stages the customer picked for the in-progress invoice, so the
// choose-customer and create-invoice screens hand off through the store
// rather than through navigation params.
type Selection struct {
	store kv.Store
	log   *logger.Logger
}

// NewSelection binds the selection to the durable store.
func NewSelection(store kv.Store, log *logger.Logger) *Selection {
	return &Selection{store: store, log: log}
}

// Save stages the customer for the next submission step.
func (s *Selection) Save(ctx context.Context, customer Customer) error {
	blob, err := json.Marshal(customer)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode customer")
	}
	if err := s.store.Set(ctx, SelectedCustomerKey, string(blob)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "stage customer")
	}
	return nil
}

// Load returns the staged customer, or ok=false when none is staged or the
// blob cannot be read. Like the carts, a broken selection never errors.
func (s *Selection) Load(ctx context.Context) (Customer, bool) {
	blob, ok, err := s.store.Get(ctx, SelectedCustomerKey)
	if err != nil || !ok || blob == "" {
		if err != nil && s.log != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "read staged customer")
		}
		return Customer{}, false
	}
	var customer Customer
	if err := json.Unmarshal([]byte(blob), &customer); err != nil {
		if s.log != nil {
			s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "decode staged customer")
		}
		return Customer{}, false
	}
	return customer, true
}

// Clear drops the staged customer.
func (s *Selection) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, SelectedCustomerKey); err != nil && s.log != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "clear staged customer")
	}
}
