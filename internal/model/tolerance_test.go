package model

import (
	"testing"
	"time"
)

func TestWouldOverflow_StrictBoundary(t *testing.T) {
	tol := GrosirTolerance{MaxExcessUnits: 8, CurrentExcess: 4}

	if tol.WouldOverflow(4) {
		t.Error("landing exactly at the maximum must be allowed")
	}
	if !tol.WouldOverflow(5) {
		t.Error("one unit past the maximum must overflow")
	}
}

func TestReduceExcess_FloorsAtZero(t *testing.T) {
	tol := GrosirTolerance{MaxExcessUnits: 8, CurrentExcess: 3}

	tol.ReduceExcess(10)
	if tol.CurrentExcess != 0 {
		t.Errorf("expected excess floored at 0, got %d", tol.CurrentExcess)
	}

	tol.ReduceExcess(-5)
	if tol.CurrentExcess != 0 {
		t.Errorf("negative units must be ignored, got %d", tol.CurrentExcess)
	}
}

func TestAddExcess_IgnoresNonPositive(t *testing.T) {
	tol := GrosirTolerance{CurrentExcess: 2}

	tol.AddExcess(0)
	tol.AddExcess(-3)
	if tol.CurrentExcess != 2 {
		t.Errorf("expected excess unchanged at 2, got %d", tol.CurrentExcess)
	}

	tol.AddExcess(5)
	if tol.CurrentExcess != 7 {
		t.Errorf("expected excess 7, got %d", tol.CurrentExcess)
	}
}

func TestRecalculateLock_LocksWithReason(t *testing.T) {
	now := time.Now()
	tol := GrosirTolerance{MaxExcessUnits: 8, CurrentExcess: 9}

	changed, locked := tol.RecalculateLock(now)
	if !changed || !locked {
		t.Fatalf("expected lock transition, got changed=%v locked=%v", changed, locked)
	}
	if !tol.IsLocked {
		t.Error("expected is_locked true")
	}
	if tol.LockedReason == "" {
		t.Error("expected a locked reason")
	}
	if tol.LockedAt == nil {
		t.Error("expected locked_at to be set")
	}

	// Recalculating again in the same state reports no change.
	changed, locked = tol.RecalculateLock(now)
	if changed {
		t.Error("expected no change on second recalculation")
	}
	if !locked {
		t.Error("expected locked to remain true")
	}
}

func TestRecalculateLock_UnlocksWhenBackUnderMax(t *testing.T) {
	now := time.Now()
	tol := GrosirTolerance{MaxExcessUnits: 8, CurrentExcess: 9}
	tol.RecalculateLock(now)

	tol.ReduceExcess(5)
	changed, locked := tol.RecalculateLock(now)
	if !changed || locked {
		t.Fatalf("expected unlock transition, got changed=%v locked=%v", changed, locked)
	}
	if tol.IsLocked || tol.LockedReason != "" || tol.LockedAt != nil {
		t.Error("expected lock fields cleared after unlock")
	}
}

func TestRecalculateLock_ExactlyAtMaxIsNotLocked(t *testing.T) {
	now := time.Now()
	tol := GrosirTolerance{MaxExcessUnits: 8, CurrentExcess: 8}

	changed, locked := tol.RecalculateLock(now)
	if changed || locked {
		t.Errorf("excess equal to maximum must not lock, got changed=%v locked=%v", changed, locked)
	}
}
