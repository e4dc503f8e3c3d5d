package model

import (
	"testing"
)

func TestSizeBreakdown_ScanFromBytesAndString(t *testing.T) {
	var fromBytes SizeBreakdown
	if err := fromBytes.Scan([]byte(`{"S":4,"M":4,"L":4}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromBytes["M"] != 4 {
		t.Errorf("expected M=4, got %d", fromBytes["M"])
	}

	var fromString SizeBreakdown
	if err := fromString.Scan(`{"S":2}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromString["S"] != 2 {
		t.Errorf("expected S=2, got %d", fromString["S"])
	}

	var fromNil SizeBreakdown
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fromNil != nil {
		t.Error("expected nil breakdown from nil column")
	}

	if err := fromBytes.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestSizeBreakdown_ValueRoundTrip(t *testing.T) {
	breakdown := SizeBreakdown{"S": 4, "M": 4, "L": 4}

	raw, err := breakdown.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back SizeBreakdown
	if err := back.Scan(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(back) != 3 || back["L"] != 4 {
		t.Errorf("round trip mismatch: %v", back)
	}
}

func TestUnitsFor_MissingSizeIsZero(t *testing.T) {
	bundle := BundleConfig{SizeBreakdown: SizeBreakdown{"S": 4}}

	if bundle.UnitsFor("S") != 4 {
		t.Errorf("expected 4, got %d", bundle.UnitsFor("S"))
	}
	if bundle.UnitsFor("XL") != 0 {
		t.Errorf("expected 0 for missing size, got %d", bundle.UnitsFor("XL"))
	}
}
