package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestApplyDelivery_AccumulatesAcrossDeliveries(t *testing.T) {
	item := PurchaseOrderItem{TotalUnits: 10, Status: POItemStatusPending}

	item.ApplyDelivery(4, 1)
	if item.ReceivedUnits != 4 || item.DamagedUnits != 1 {
		t.Errorf("expected 4/1 after first delivery, got %d/%d", item.ReceivedUnits, item.DamagedUnits)
	}
	if item.Status != POItemStatusPartial {
		t.Errorf("expected partial, got %s", item.Status)
	}

	item.ApplyDelivery(6, 0)
	if item.ReceivedUnits != 10 || item.DamagedUnits != 1 {
		t.Errorf("expected 10/1 after second delivery, got %d/%d", item.ReceivedUnits, item.DamagedUnits)
	}
	if item.Status != POItemStatusReceived {
		t.Errorf("expected received, got %s", item.Status)
	}
}

func TestApplyDelivery_OverDeliveryStillCompletesItem(t *testing.T) {
	item := PurchaseOrderItem{TotalUnits: 10, Status: POItemStatusPending}

	// Supplier ships 12 against an order of 10, 2 damaged.
	item.ApplyDelivery(12, 2)
	if item.ReceivedUnits != 12 {
		t.Errorf("expected cumulative received 12, got %d", item.ReceivedUnits)
	}
	if item.Status != POItemStatusReceived {
		t.Errorf("expected received, got %s", item.Status)
	}
}

func TestLineCost_MultipliesUnitCost(t *testing.T) {
	item := PurchaseOrderItem{
		TotalUnits: 12,
		UnitCost:   decimal.RequireFromString("3.50"),
	}
	want := decimal.RequireFromString("42.00")
	if !item.LineCost().Equal(want) {
		t.Errorf("expected %s, got %s", want, item.LineCost())
	}
}

func TestRecomputeStatus_DerivesFromItems(t *testing.T) {
	now := time.Now()
	po := PurchaseOrder{
		Status: PurchaseOrderStatusPending,
		Items: []PurchaseOrderItem{
			{TotalUnits: 5, ReceivedUnits: 5, Status: POItemStatusReceived},
			{TotalUnits: 5, ReceivedUnits: 2, Status: POItemStatusPartial},
		},
	}

	po.RecomputeStatus(now)
	if po.Status != PurchaseOrderStatusPartial {
		t.Errorf("expected partial, got %s", po.Status)
	}
	if po.ReceivedAt != nil {
		t.Error("received_at must not be set on a partial order")
	}

	po.Items[1].ApplyDelivery(3, 0)
	po.RecomputeStatus(now)
	if po.Status != PurchaseOrderStatusReceived {
		t.Errorf("expected received, got %s", po.Status)
	}
	if po.ReceivedAt == nil {
		t.Error("received_at must be set once the order completes")
	}

	// A later recompute must not move the completion timestamp.
	first := po.ReceivedAt
	po.RecomputeStatus(now.Add(time.Hour))
	if po.ReceivedAt != first {
		t.Error("received_at must not change after completion")
	}
}

func TestRecomputeStatus_CancelledIsSticky(t *testing.T) {
	now := time.Now()
	po := PurchaseOrder{
		Status: PurchaseOrderStatusCancelled,
		Items: []PurchaseOrderItem{
			{TotalUnits: 5, ReceivedUnits: 5, Status: POItemStatusReceived},
		},
	}

	po.RecomputeStatus(now)
	if po.Status != PurchaseOrderStatusCancelled {
		t.Errorf("cancelled order must stay cancelled, got %s", po.Status)
	}
}

func TestRecomputeStatus_NoItemsIsNeverReceived(t *testing.T) {
	now := time.Now()
	po := PurchaseOrder{Status: PurchaseOrderStatusPending}

	po.RecomputeStatus(now)
	if po.Status != PurchaseOrderStatusPending {
		t.Errorf("order without items must stay pending, got %s", po.Status)
	}
}

func TestTotalUnits_SumAcrossItems(t *testing.T) {
	po := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{ReceivedUnits: 7, DamagedUnits: 1},
			{ReceivedUnits: 3, DamagedUnits: 2},
		},
	}
	if po.TotalReceivedUnits() != 10 {
		t.Errorf("expected total received 10, got %d", po.TotalReceivedUnits())
	}
	if po.TotalDamagedUnits() != 3 {
		t.Errorf("expected total damaged 3, got %d", po.TotalDamagedUnits())
	}
}
