package model

import (
	"errors"
	"testing"
)

func TestReserve_MovesAvailableToReserved(t *testing.T) {
	rec := InventoryRecord{Quantity: 10, AvailableQuantity: 10}

	if err := rec.Reserve(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AvailableQuantity != 6 {
		t.Errorf("expected available 6, got %d", rec.AvailableQuantity)
	}
	if rec.ReservedQuantity != 4 {
		t.Errorf("expected reserved 4, got %d", rec.ReservedQuantity)
	}
	if rec.Quantity != 10 {
		t.Errorf("physical quantity must not change on reserve, got %d", rec.Quantity)
	}
	if !rec.IsBalanced() {
		t.Error("counters out of balance after reserve")
	}
}

func TestReserve_RejectsNonPositiveQuantity(t *testing.T) {
	rec := InventoryRecord{Quantity: 10, AvailableQuantity: 10}

	if err := rec.Reserve(0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for zero, got %v", err)
	}
	if err := rec.Reserve(-3); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for negative, got %v", err)
	}
}

func TestReserve_GuardsAgainstOverdraw(t *testing.T) {
	rec := InventoryRecord{Quantity: 3, AvailableQuantity: 3}

	err := rec.Reserve(5)
	var negErr *NegativeQuantityError
	if !errors.As(err, &negErr) {
		t.Fatalf("expected NegativeQuantityError, got %v", err)
	}
	if negErr.Counter != "available_quantity" {
		t.Errorf("expected counter available_quantity, got %s", negErr.Counter)
	}
	if rec.AvailableQuantity != 3 || rec.ReservedQuantity != 0 {
		t.Error("counters must not change when the guard trips")
	}
}

func TestReleaseHold_CreditsBackExactly(t *testing.T) {
	rec := InventoryRecord{Quantity: 10, AvailableQuantity: 6, ReservedQuantity: 4}

	if err := rec.ReleaseHold(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.AvailableQuantity != 10 || rec.ReservedQuantity != 0 {
		t.Errorf("expected available 10 reserved 0, got %d/%d", rec.AvailableQuantity, rec.ReservedQuantity)
	}
	if !rec.IsBalanced() {
		t.Error("counters out of balance after release")
	}
}

func TestReleaseHold_GuardsReservedCounter(t *testing.T) {
	rec := InventoryRecord{Quantity: 10, AvailableQuantity: 8, ReservedQuantity: 2}

	err := rec.ReleaseHold(5)
	var negErr *NegativeQuantityError
	if !errors.As(err, &negErr) {
		t.Fatalf("expected NegativeQuantityError, got %v", err)
	}
	if negErr.Counter != "reserved_quantity" {
		t.Errorf("expected counter reserved_quantity, got %s", negErr.Counter)
	}
}

func TestConsumeHold_DeductsPhysicalStock(t *testing.T) {
	rec := InventoryRecord{Quantity: 10, AvailableQuantity: 6, ReservedQuantity: 4}

	if err := rec.ConsumeHold(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", rec.Quantity)
	}
	if rec.ReservedQuantity != 0 {
		t.Errorf("expected reserved 0, got %d", rec.ReservedQuantity)
	}
	if rec.AvailableQuantity != 6 {
		t.Errorf("available must not change on consume, got %d", rec.AvailableQuantity)
	}
	if !rec.IsBalanced() {
		t.Error("counters out of balance after consume")
	}
}

func TestAdjustStock_AllowsNegativeDeltaDownToZero(t *testing.T) {
	rec := InventoryRecord{Quantity: 5, AvailableQuantity: 5}

	if err := rec.AdjustStock(-5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Quantity != 0 || rec.AvailableQuantity != 0 {
		t.Errorf("expected both counters at 0, got %d/%d", rec.Quantity, rec.AvailableQuantity)
	}
}

func TestAdjustStock_GuardsReservedPortion(t *testing.T) {
	// 2 of 5 units are reserved; removing 4 would drive available negative
	// even though physical quantity could absorb it.
	rec := InventoryRecord{Quantity: 5, AvailableQuantity: 3, ReservedQuantity: 2}

	err := rec.AdjustStock(-4)
	var negErr *NegativeQuantityError
	if !errors.As(err, &negErr) {
		t.Fatalf("expected NegativeQuantityError, got %v", err)
	}
	if negErr.Counter != "available_quantity" {
		t.Errorf("expected counter available_quantity, got %s", negErr.Counter)
	}
	if rec.Quantity != 5 || rec.AvailableQuantity != 3 {
		t.Error("counters must not change when the guard trips")
	}
}

func TestStockStatus_Thresholds(t *testing.T) {
	cases := []struct {
		name      string
		available int
		min       int
		want      string
	}{
		{"above minimum", 10, 3, StockStatusInStock},
		{"at minimum", 3, 3, StockStatusLowStock},
		{"below minimum", 2, 3, StockStatusLowStock},
		{"zero", 0, 3, StockStatusOutOfStock},
		{"zero with zero minimum", 0, 0, StockStatusOutOfStock},
	}
	for _, tc := range cases {
		rec := InventoryRecord{AvailableQuantity: tc.available, MinStockLevel: tc.min}
		if got := rec.StockStatus(); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
