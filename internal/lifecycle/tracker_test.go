package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestBeginSupersedesPrevious(t *testing.T) {
	tr := NewTracker()

	ctx1, first := tr.Begin(context.Background(), "client-1/search")
	ctx2, second := tr.Begin(context.Background(), "client-1/search")

	select {
	case <-ctx1.Done():
	default:
		t.Fatal("first context should be canceled")
	}
	if !errors.Is(context.Cause(ctx1), ErrSuperseded) {
		t.Errorf("cause = %v, want ErrSuperseded", context.Cause(ctx1))
	}
	if ctx2.Err() != nil {
		t.Error("second context must stay live")
	}
	if first.Current() {
		t.Error("first ticket should not be current")
	}
	if !second.Current() {
		t.Error("second ticket should be current")
	}

	first.Done()
	if !second.Current() {
		t.Error("a stale Done must not release the newer ticket")
	}
	second.Done()
	if tr.InFlight() != 0 {
		t.Errorf("InFlight = %d, want 0", tr.InFlight())
	}
}

func TestKeysAreIndependent(t *testing.T) {
	tr := NewTracker()
	ctxA, a := tr.Begin(context.Background(), "client-1/search")
	_, b := tr.Begin(context.Background(), "client-1/poc")
	_, c := tr.Begin(context.Background(), "client-2/search")

	if ctxA.Err() != nil {
		t.Error("different keys must not cancel each other")
	}
	if !a.Current() || !b.Current() || !c.Current() {
		t.Error("all tickets should be current")
	}
	if tr.InFlight() != 3 {
		t.Errorf("InFlight = %d, want 3", tr.InFlight())
	}
}

func TestDoneCancelsContext(t *testing.T) {
	tr := NewTracker()
	ctx, tk := tr.Begin(context.Background(), "k")
	tk.Done()
	if ctx.Err() == nil {
		t.Error("Done should release the context")
	}
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		t.Error("Done is not a supersede")
	}
}
