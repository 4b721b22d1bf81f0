package staging

import (
	"context"
	"errors"
	"testing"

	"github.com/lamvungoc/jewelpos/pkg/kv"
	"github.com/shopspring/decimal"
)

func newTestSellCart() (*Repository[SellItem], *kv.MemoryStore) {
	store := kv.NewMemoryStore()
	return NewSellCart(store, nil, nil), store
}

func TestItemsPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, _ := newTestSellCart()

	ids := []string{"P3", "P1", "P2"}
	for _, id := range ids {
		if ok := cart.Add(ctx, SellItem{ProductID: id, ProductName: "ring", Quantity: 1}); !ok {
			t.Fatalf("add %s failed", id)
		}
	}

	items := cart.Items(ctx)
	if len(items) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(items))
	}
	for i, id := range ids {
		if items[i].ProductID != id {
			t.Fatalf("position %d: expected %s got %s", i, id, items[i].ProductID)
		}
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, _ := newTestSellCart()

	item := SellItem{ProductID: "P100", Quantity: 1, UnitPrice: decimal.NewFromInt(500000)}
	if ok := cart.Add(ctx, item); !ok {
		t.Fatal("first add should succeed")
	}
	if ok := cart.Add(ctx, item); ok {
		t.Fatal("second add with same id should be rejected")
	}
	if items := cart.Items(ctx); len(items) != 1 {
		t.Fatalf("expected cart length 1, got %d", len(items))
	}
}

func TestRemoveFiltersMatchingID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, _ := newTestSellCart()

	cart.Add(ctx, SellItem{ProductID: "P1", Quantity: 1})
	cart.Add(ctx, SellItem{ProductID: "P2", Quantity: 1})
	cart.Remove(ctx, "P1")

	items := cart.Items(ctx)
	if len(items) != 1 || items[0].ProductID != "P2" {
		t.Fatalf("expected only P2 to remain, got %+v", items)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, _ := newTestSellCart()

	cart.Add(ctx, SellItem{ProductID: "P1", Quantity: 1})
	before := cart.Items(ctx)

	cart.Remove(ctx, "does-not-exist")

	after := cart.Items(ctx)
	if len(after) != len(before) || after[0].ProductID != before[0].ProductID {
		t.Fatalf("remove of absent id changed the cart: %+v -> %+v", before, after)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, store := newTestSellCart()

	cart.Add(ctx, SellItem{ProductID: "P1", Quantity: 1})
	cart.Add(ctx, SellItem{ProductID: "P2", Quantity: 2})
	cart.Clear(ctx)

	if items := cart.Items(ctx); len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", items)
	}
	if _, ok, _ := store.Get(ctx, SellCartKey); ok {
		t.Fatal("expected the cart key to be removed, not emptied")
	}
}

func TestItemsFailsOpenOnCorruptBlob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart, store := newTestSellCart()

	if err := store.Set(ctx, SellCartKey, "{not json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	if items := cart.Items(ctx); len(items) != 0 {
		t.Fatalf("corrupt blob should read as empty, got %+v", items)
	}

	// Shopping continues: the next add overwrites the corrupt blob.
	if ok := cart.Add(ctx, SellItem{ProductID: "P9", Quantity: 1}); !ok {
		t.Fatal("add over corrupt blob should succeed")
	}
	if items := cart.Items(ctx); len(items) != 1 || items[0].ProductID != "P9" {
		t.Fatalf("expected fresh cart with P9, got %+v", items)
	}
}

// brokenStore fails every operation to exercise the fail-open paths.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("io failure")
}

func (brokenStore) Set(context.Context, string, string) error {
	return errors.New("io failure")
}

func (brokenStore) Delete(context.Context, string) error {
	return errors.New("io failure")
}

func TestStorageFailuresNeverPropagate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cart := NewSellCart(brokenStore{}, nil, nil)

	if items := cart.Items(ctx); len(items) != 0 {
		t.Fatalf("expected empty items on read failure, got %+v", items)
	}
	if ok := cart.Add(ctx, SellItem{ProductID: "P1", Quantity: 1}); ok {
		t.Fatal("add should report false when the write fails")
	}
	cart.Remove(ctx, "P1")
	cart.Clear(ctx)
}

func TestThreeCartsUseDistinctKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := kv.NewMemoryStore()

	sell := NewSellCart(store, nil, nil)
	buyBack := NewBuyBackCart(store, nil, nil)
	staged := NewStagedProducts(store, nil, nil)

	sell.Add(ctx, SellItem{ProductID: "P1", Quantity: 1})
	buyBack.Add(ctx, BuyBackItem{ProductID: "P1", Quantity: 1})
	staged.Add(ctx, StagedItem{ID: NewStagedID(), ProductType: "Vàng"})

	if len(sell.Items(ctx)) != 1 || len(buyBack.Items(ctx)) != 1 || len(staged.Items(ctx)) != 1 {
		t.Fatal("each cart should hold exactly its own entry")
	}

	sell.Clear(ctx)
	if len(buyBack.Items(ctx)) != 1 || len(staged.Items(ctx)) != 1 {
		t.Fatal("clearing one cart must not touch the others")
	}
}

func TestStagedIDsAreOrderedAndDistinct(t *testing.T) {
	t.Parallel()

	a := NewStagedID()
	b := NewStagedID()
	if a == b {
		t.Fatal("consecutive staged ids should differ")
	}
}
