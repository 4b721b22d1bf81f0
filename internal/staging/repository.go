package staging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lamvungoc/jewelpos/pkg/kv"
	"github.com/lamvungoc/jewelpos/pkg/logger"
	"github.com/lamvungoc/jewelpos/pkg/metrics"
)

// Item is implemented by every line item a cart can hold.
type Item interface {
	Key() string
}

// Repository stages an ordered list of line items as one JSON blob under a
// single durable-store key. It is a best-effort local cache, not a system
// of record: reads fail open to empty and failed writes no-op so a broken
// store never blocks the sales flow.
//
// Mutations are read-modify-write over the whole blob. The repository
// serializes its own calls with a mutex, so two in-flight Adds from the
// same instance cannot lose each other's write; separate processes sharing
// a store key remain last-write-wins.
type Repository[T Item] struct {
	store kv.Store
	key   string
	log   *logger.Logger
	met   *metrics.StagingMetrics

	mu sync.Mutex
}

// NewRepository binds a repository to one store key.
func NewRepository[T Item](store kv.Store, key string, log *logger.Logger, met *metrics.StagingMetrics) *Repository[T] {
	return &Repository[T]{store: store, key: key, log: log, met: met}
}

// Key returns the durable-store key this repository owns.
func (r *Repository[T]) Key() string {
	return r.key
}

// Items returns the staged items in insertion order. An absent key, a
// corrupt blob or a storage failure all yield an empty slice, never an
// error.
func (r *Repository[T]) Items(ctx context.Context) []T {
	return r.load(ctx)
}

// Add appends the item unless an entry with the same key already exists.
// It reports whether the item was stored; duplicates and storage failures
// both leave the cart unchanged and return false.
func (r *Repository[T]) Add(ctx context.Context, item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	for _, existing := range items {
		if existing.Key() == item.Key() {
			r.incOp("add", "duplicate")
			return false
		}
	}

	if err := r.persist(ctx, append(items, item)); err != nil {
		r.warn(ctx, "persist cart after add", err)
		r.incOp("add", "error")
		return false
	}
	r.incOp("add", "ok")
	return true
}

// Remove drops any entry whose key matches id. Removing an absent id is a
// silent no-op.
func (r *Repository[T]) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.Key() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		r.incOp("remove", "absent")
		return
	}

	if err := r.persist(ctx, kept); err != nil {
		r.warn(ctx, "persist cart after remove", err)
		r.incOp("remove", "error")
		return
	}
	r.incOp("remove", "ok")
}

// Clear deletes the underlying key entirely.
func (r *Repository[T]) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, r.key); err != nil {
		r.warn(ctx, "clear cart", err)
		r.incOp("clear", "error")
		return
	}
	r.incOp("clear", "ok")
}

func (r *Repository[T]) load(ctx context.Context) []T {
	blob, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.warn(ctx, "read cart", err)
		return nil
	}
	if !ok || blob == "" {
		return nil
	}

	var items []T
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		r.warn(ctx, "decode cart blob", err)
		return nil
	}
	return items
}

func (r *Repository[T]) persist(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, r.key, string(blob))
}

func (r *Repository[T]) warn(ctx context.Context, msg string, err error) {
	if r.log == nil {
		return
	}
	scoped := r.log.WithCartKey(ctx, r.key)
	r.log.Warn(r.log.WithField(scoped, "error", err.Error()), msg)
}

func (r *Repository[T]) incOp(op, result string) {
	r.met.IncCartOp(r.key, op, result)
}
