package inventory

import (
	"context"
	"errors"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/prometheus"

	"go.uber.org/zap"
)

// sweepBatchSize caps how many overdue holds one sweep picks up
const sweepBatchSize = 100

// SweepExpired finds reservations past their deadline and expires each one
// in its own transaction, so a single bad row cannot stall the rest.
// Returns the number successfully expired.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.StockReservation{}).
		Where("status = ? AND expires_at < ?", model.ReservationStatusReserved, time.Now()).
		Order("expires_at").
		Limit(sweepBatchSize).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if _, err := s.expire(ctx, id); err != nil {
			var stateErr *StateTransitionError
			if errors.As(err, &stateErr) {
				// Raced with a release or confirm; nothing left to credit.
				continue
			}
			zap.L().Error("Failed to expire reservation",
				zap.String("reservation_id", id),
				zap.Error(err))
			continue
		}
		expired++
		prometheus.ReservationsExpiredCounter.Inc()
	}
	return expired, nil
}

// Sweeper periodically expires overdue reservations
type Sweeper struct {
	svc      *Service
	interval time.Duration
}

func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	return &Sweeper{svc: svc, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled
func (w *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	zap.L().Info("Reservation sweeper started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Reservation sweeper stopped")
			return
		case <-ticker.C:
			expired, err := w.svc.SweepExpired(ctx)
			if err != nil {
				zap.L().Error("Reservation sweep failed", zap.Error(err))
				continue
			}
			if expired > 0 {
				zap.L().Info("Expired overdue reservations", zap.Int("count", expired))
			}
		}
	}
}
