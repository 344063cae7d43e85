package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"go.uber.org/zap"
)

const (
	// DefaultThresholdHours is how long an order may sit awaiting payment
	// before a sweep cancels it.
	DefaultThresholdHours = 24

	sweepInterval = time.Hour
)

// Storage is the slice of the order store the sweeper needs: a filtered
// read of the candidate set and a per-row conditional cancel that appends
// the history entry in the same transaction.
type Storage interface {
	GetExpiredPendingOrders(context.Context, time.Time) ([]entities.Order, error)
	CancelExpiredOrder(context.Context, entities.Order, string) (bool, error)
}

// Sweeper cancels orders that have been awaiting payment for longer than a
// threshold. It keeps no state between runs: each sweep is a pure function
// of the current time and the store contents, so overlapping invocations
// (the hourly loop, the CLI, the post-checkout guard) are safe.
type Sweeper struct {
	storage Storage
	now     func() time.Time
}

func NewSweeper(storage Storage) *Sweeper {
	return &Sweeper{
		storage: storage,
		now:     time.Now,
	}
}

// Start runs a sweep with the default threshold every hour until the
// context is cancelled. A failed sweep is logged and retried on the next
// tick.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx, DefaultThresholdHours, false); err != nil {
			zap.L().Error("error sweep expired orders", zap.Error(err))
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Sweep evaluates every order against the expiry predicate and, unless
// dryRun is set, cancels the matches. It returns the number of orders
// affected (or, for a dry run, the number that would have been).
func (s *Sweeper) Sweep(ctx context.Context, thresholdHours int, dryRun bool) (int, error) {
	if thresholdHours <= 0 {
		return 0, fmt.Errorf("threshold hours must be positive, got %d", thresholdHours)
	}

	cutoff := s.now().Add(-time.Duration(thresholdHours) * time.Hour)

	orders, err := s.storage.GetExpiredPendingOrders(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error get expired pending orders: %w", err)
	}

	if dryRun {
		zap.L().Info(
			"expired orders sweep dry run",
			zap.Int("matched", len(orders)),
			zap.Int("threshold_hours", thresholdHours),
		)

		return len(orders), nil
	}

	note := fmt.Sprintf("automatic cancellation: payment pending for more than %dh", thresholdHours)

	cancelled := 0
	for _, order := range orders {
		applied, err := s.storage.CancelExpiredOrder(ctx, order, note)
		if err != nil {
			zap.L().Error(
				"error cancel expired order",
				zap.String("number", order.Number),
				zap.Error(err),
			)

			continue
		}

		if applied {
			cancelled++
		}
	}

	zap.L().Info(
		"expired orders sweep finished",
		zap.Int("cancelled", cancelled),
		zap.Int("matched", len(orders)),
		zap.Int("threshold_hours", thresholdHours),
	)

	return cancelled, nil
}

// OnOrderCreated is the guard hook the checkout flow calls right after
// creating an order, so expiry cleanup also happens on write traffic
// without waiting for the next scheduled tick. Errors are only logged; a
// failed sweep must not fail the creation it follows.
func (s *Sweeper) OnOrderCreated(ctx context.Context) {
	if _, err := s.Sweep(ctx, DefaultThresholdHours, false); err != nil {
		zap.L().Error("error sweep expired orders after order creation", zap.Error(err))
	}
}
