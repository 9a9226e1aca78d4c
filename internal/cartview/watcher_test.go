package cartview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mgallardo/cartfront-backend/pkg/enums"
	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
)

// gateService blocks each GetCartByID call until the gate for that cart id
// is released, so tests can decide completion order.
type gateService struct {
	mu     sync.Mutex
	calls  []string
	gates  map[string]chan struct{}
	carts  map[string]*Cart
	errors map[string]error
}

func newGateService() *gateService {
	return &gateService{
		gates:  map[string]chan struct{}{},
		carts:  map[string]*Cart{},
		errors: map[string]error{},
	}
}

func (s *gateService) gate(cartID string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gates[cartID]; !ok {
		s.gates[cartID] = make(chan struct{})
	}
	return s.gates[cartID]
}

func (s *gateService) release(cartID string) {
	close(s.gate(cartID))
}

func (s *gateService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *gateService) GetCartByID(ctx context.Context, cartID string) (*Cart, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cartID)
	s.mu.Unlock()

	select {
	case <-s.gate(cartID):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errors[cartID]; err != nil {
		return nil, err
	}
	return s.carts[cartID], nil
}

func waitForSnapshot(t *testing.T, w *Watcher, ok func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := w.Snapshot()
		if ok(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("snapshot never settled; last=%+v", w.Snapshot())
	return Snapshot{}
}

func TestWatcherLoadsCart(t *testing.T) {
	svc := newGateService()
	svc.carts["54i3c31"] = &Cart{ID: "54i3c31", TotalItems: 10}

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if snap := w.Snapshot(); snap.Phase != enums.FetchPhaseLoading {
		t.Fatalf("expected loading before first fetch, got %s", snap.Phase)
	}

	if err := w.SetCartID("54i3c31"); err != nil {
		t.Fatalf("set cart id: %v", err)
	}
	svc.release("54i3c31")

	snap := waitForSnapshot(t, w, func(s Snapshot) bool { return s.Phase == enums.FetchPhaseReady })
	if snap.Cart == nil || snap.Cart.TotalItems != 10 {
		t.Fatalf("unexpected cart %+v", snap.Cart)
	}
	if snap.Err != nil {
		t.Fatalf("unexpected error %v", snap.Err)
	}
}

func TestWatcherUnchangedIDDoesNotRefetch(t *testing.T) {
	svc := newGateService()
	svc.carts["54i3c31"] = &Cart{ID: "54i3c31", TotalItems: 3}
	svc.release("54i3c31")

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if err := w.SetCartID("54i3c31"); err != nil {
		t.Fatalf("set cart id: %v", err)
	}
	waitForSnapshot(t, w, func(s Snapshot) bool { return s.Phase == enums.FetchPhaseReady })

	for i := 0; i < 5; i++ {
		if err := w.SetCartID("54i3c31"); err != nil {
			t.Fatalf("set cart id again: %v", err)
		}
	}
	time.Sleep(50 * time.Millisecond)

	if got := svc.callCount(); got != 1 {
		t.Fatalf("expected exactly one outbound fetch, got %d", got)
	}
}

func TestWatcherNewIDFetchesOnceAndKeepsOldCartMeanwhile(t *testing.T) {
	svc := newGateService()
	svc.carts["first"] = &Cart{ID: "first", TotalItems: 1}
	svc.carts["second"] = &Cart{ID: "second", TotalItems: 2}
	svc.release("first")

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if err := w.SetCartID("first"); err != nil {
		t.Fatalf("set first: %v", err)
	}
	waitForSnapshot(t, w, func(s Snapshot) bool { return s.Phase == enums.FetchPhaseReady })

	// second fetch still gated: the previous cart stays visible
	if err := w.SetCartID("second"); err != nil {
		t.Fatalf("set second: %v", err)
	}
	snap := w.Snapshot()
	if snap.Cart == nil || snap.Cart.TotalItems != 1 {
		t.Fatalf("expected previous cart to remain visible, got %+v", snap.Cart)
	}

	svc.release("second")
	snap = waitForSnapshot(t, w, func(s Snapshot) bool {
		return s.Cart != nil && s.Cart.TotalItems == 2
	})
	if snap.Phase != enums.FetchPhaseReady {
		t.Fatalf("unexpected phase %s", snap.Phase)
	}
	if got := svc.callCount(); got != 2 {
		t.Fatalf("expected two outbound fetches, got %d", got)
	}
}

func TestWatcherDiscardsStaleResponse(t *testing.T) {
	svc := newGateService()
	svc.carts["slow"] = &Cart{ID: "slow", TotalItems: 99}
	svc.carts["fast"] = &Cart{ID: "fast", TotalItems: 2}

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if err := w.SetCartID("slow"); err != nil {
		t.Fatalf("set slow: %v", err)
	}
	if err := w.SetCartID("fast"); err != nil {
		t.Fatalf("set fast: %v", err)
	}

	svc.release("fast")
	waitForSnapshot(t, w, func(s Snapshot) bool {
		return s.Cart != nil && s.Cart.TotalItems == 2
	})

	// the superseded fetch completes late and must be dropped
	svc.release("slow")
	time.Sleep(50 * time.Millisecond)

	snap := w.Snapshot()
	if snap.Cart == nil || snap.Cart.TotalItems != 2 {
		t.Fatalf("stale response overwrote newer state: %+v", snap.Cart)
	}
	if snap.CartID != "fast" {
		t.Fatalf("unexpected cart id %q", snap.CartID)
	}
}

func TestWatcherSurfacesFetchFailure(t *testing.T) {
	svc := newGateService()
	svc.errors["broken"] = pkgerrors.New(pkgerrors.CodeDependency, "upstream down")
	svc.release("broken")

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if err := w.SetCartID("broken"); err != nil {
		t.Fatalf("set cart id: %v", err)
	}

	snap := waitForSnapshot(t, w, func(s Snapshot) bool { return s.Phase == enums.FetchPhaseFailed })
	if !pkgerrors.IsCode(snap.Err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error in snapshot, got %v", snap.Err)
	}
}

func TestWatcherCloseDropsLateResponses(t *testing.T) {
	svc := newGateService()
	svc.carts["late"] = &Cart{ID: "late", TotalItems: 7}

	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	if err := w.SetCartID("late"); err != nil {
		t.Fatalf("set cart id: %v", err)
	}
	w.Close()
	svc.release("late")
	time.Sleep(50 * time.Millisecond)

	if snap := w.Snapshot(); snap.Cart != nil {
		t.Fatalf("response landed after close: %+v", snap.Cart)
	}
	if err := w.SetCartID("another"); err == nil {
		t.Fatalf("expected error when setting id on a closed watcher")
	}
}

func TestWatcherRejectsEmptyID(t *testing.T) {
	svc := newGateService()
	w, err := NewWatcher(svc, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(w.Close)

	if err := w.SetCartID("  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := svc.callCount(); got != 0 {
		t.Fatalf("empty id must not fetch, got %d calls", got)
	}
}
