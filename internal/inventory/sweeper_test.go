package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"warehouse-service/internal/model"
)

func TestSweepExpired_CreditsOverdueHolds(t *testing.T) {
	svc, db := newTestService(t)
	rec := seedInventory(t, db, "prod-1", "M", 10, 0)

	overdue, _ := svc.Reserve(context.Background(), ReserveRequest{
		ProductID: "prod-1", VariantID: "M", Quantity: 4, OrderID: "order-1",
	})
	fresh, _ := svc.Reserve(context.Background(), ReserveRequest{
		ProductID: "prod-1", VariantID: "M", Quantity: 2, OrderID: "order-2",
	})

	db.Model(&model.StockReservation{}).
		Where("id = ?", overdue.ReservationID).
		Update("expires_at", time.Now().Add(-time.Hour))

	expired, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected 1 expired, got %d", expired)
	}

	var res model.StockReservation
	db.Where("id = ?", overdue.ReservationID).First(&res)
	if res.Status != model.ReservationStatusExpired {
		t.Errorf("expected status expired, got %s", res.Status)
	}
	if res.ReleaseReason != model.ReleaseReasonExpired {
		t.Errorf("expected release reason %q, got %q", model.ReleaseReasonExpired, res.ReleaseReason)
	}

	var untouched model.StockReservation
	db.Where("id = ?", fresh.ReservationID).First(&untouched)
	if untouched.Status != model.ReservationStatusReserved {
		t.Errorf("fresh hold must survive the sweep, got %s", untouched.Status)
	}

	after := reloadRecord(t, db, rec.ID)
	if after.AvailableQuantity != 8 || after.ReservedQuantity != 2 {
		t.Errorf("expected only the overdue 4 credited back: %+v", after)
	}
	if !after.IsBalanced() {
		t.Error("counters out of balance after sweep")
	}

	if n := countOutbox(t, db, model.EventInventoryReleased); n != 1 {
		t.Errorf("expected 1 released event for the expiry, got %d", n)
	}
}

func TestSweepExpired_NothingOverdue(t *testing.T) {
	svc, db := newTestService(t)
	seedInventory(t, db, "prod-1", "M", 10, 0)
	svc.Reserve(context.Background(), ReserveRequest{
		ProductID: "prod-1", VariantID: "M", Quantity: 4, OrderID: "order-1",
	})

	expired, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 0 {
		t.Errorf("expected 0 expired, got %d", expired)
	}
}

func TestSweepExpired_ExpiredHoldCannotBeConfirmed(t *testing.T) {
	svc, db := newTestService(t)
	rec := seedInventory(t, db, "prod-1", "M", 10, 0)

	reserved, _ := svc.Reserve(context.Background(), ReserveRequest{
		ProductID: "prod-1", VariantID: "M", Quantity: 4, OrderID: "order-1",
	})
	db.Model(&model.StockReservation{}).
		Where("id = ?", reserved.ReservationID).
		Update("expires_at", time.Now().Add(-time.Minute))

	if _, err := svc.SweepExpired(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Confirm(context.Background(), reserved.ReservationID)
	var stateErr *StateTransitionError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}
	if stateErr.Current != model.ReservationStatusExpired {
		t.Errorf("expected current expired, got %s", stateErr.Current)
	}

	after := reloadRecord(t, db, rec.ID)
	if after.Quantity != 10 || after.AvailableQuantity != 10 {
		t.Errorf("confirm after expiry must not touch the ledger: %+v", after)
	}
}
