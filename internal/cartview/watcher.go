package cartview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mgallardo/cartfront-backend/pkg/enums"
	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
	"github.com/mgallardo/cartfront-backend/pkg/logger"
)

const defaultFetchTimeout = 10 * time.Second

// Snapshot is the externally visible state of a Watcher at one instant.
// While a fetch for a new cart id is in flight, Cart still holds the
// previously loaded value.
type Snapshot struct {
	CartID string
	Phase  enums.FetchPhase
	Cart   *Cart
	Err    error
}

// Watcher holds the cart view for one page. Setting a cart id starts an
// asynchronous fetch; setting the same id again is a no-op. Each fetch is
// stamped with a generation so that a slow response for a superseded id can
// never overwrite newer state, and no response lands after Close.
type Watcher struct {
	svc          Service
	logg         *logger.Logger
	fetchTimeout time.Duration

	mu     sync.Mutex
	cartID string
	phase  enums.FetchPhase
	cart   *Cart
	err    error
	gen    uint64
	closed bool
}

// WatcherOption configures optional watcher behavior.
type WatcherOption func(*Watcher)

// WithFetchTimeout bounds each background fetch.
func WithFetchTimeout(timeout time.Duration) WatcherOption {
	return func(w *Watcher) {
		if timeout > 0 {
			w.fetchTimeout = timeout
		}
	}
}

// NewWatcher builds an empty watcher over the given service.
func NewWatcher(svc Service, logg *logger.Logger, opts ...WatcherOption) (*Watcher, error) {
	if svc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	w := &Watcher{
		svc:          svc,
		logg:         logg,
		fetchTimeout: defaultFetchTimeout,
		phase:        enums.FetchPhaseLoading,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// SetCartID switches the watched cart. An unchanged id does not refetch;
// a new id invalidates any in-flight fetch and starts exactly one new one.
func (w *Watcher) SetCartID(cartID string) error {
	trimmed := strings.TrimSpace(cartID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeInternal, "cart watcher is closed")
	}
	if trimmed == w.cartID {
		w.mu.Unlock()
		return nil
	}

	w.cartID = trimmed
	w.gen++
	gen := w.gen
	if w.cart == nil {
		w.phase = enums.FetchPhaseLoading
		w.err = nil
	}
	w.mu.Unlock()

	go w.fetch(gen, trimmed)
	return nil
}

// Snapshot returns the current view state.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		CartID: w.cartID,
		Phase:  w.phase,
		Cart:   w.cart,
		Err:    w.err,
	}
}

// Close tears the watcher down. Fetches still in flight are orphaned: their
// results are discarded when they complete.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.gen++
}

func (w *Watcher) fetch(gen uint64, cartID string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.fetchTimeout)
	defer cancel()
	if w.logg != nil {
		ctx = w.logg.WithCartID(ctx, cartID)
	}

	cart, err := w.svc.GetCartByID(ctx, cartID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || gen != w.gen {
		if w.logg != nil {
			w.logg.Warn(ctx, "discarding stale cart response")
		}
		return
	}

	if err != nil {
		w.phase = enums.FetchPhaseFailed
		w.err = err
		return
	}

	w.phase = enums.FetchPhaseReady
	w.cart = cart
	w.err = nil
}
