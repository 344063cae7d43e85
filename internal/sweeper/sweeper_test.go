package sweeper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	orders  map[string]*entities.Order
	history []entities.OrderStatusHistory
	failIDs map[string]bool
	readErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		orders:  make(map[string]*entities.Order),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeStorage) addOrder(id string, status string, paymentStatus string, createdAt time.Time) {
	f.orders[id] = &entities.Order{
		ID:            id,
		Number:        "order-" + id,
		Status:        status,
		PaymentStatus: paymentStatus,
		CreatedAt:     createdAt,
	}
}

func (f *fakeStorage) GetExpiredPendingOrders(_ context.Context, cutoff time.Time) ([]entities.Order, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}

	var orders []entities.Order
	for _, order := range f.orders {
		if order.AwaitingPayment() && order.CreatedAt.Before(cutoff) {
			orders = append(orders, *order)
		}
	}

	return orders, nil
}

func (f *fakeStorage) CancelExpiredOrder(_ context.Context, order entities.Order, note string) (bool, error) {
	if f.failIDs[order.ID] {
		return false, fmt.Errorf("update failed for %s", order.ID)
	}

	stored := f.orders[order.ID]
	if !stored.AwaitingPayment() {
		return false, nil
	}

	stored.Status = entities.OrderStatusCancelled
	stored.PaymentStatus = entities.PaymentStatusFailed

	f.history = append(f.history, entities.OrderStatusHistory{
		OrderID:   order.ID,
		OldStatus: entities.OrderStatusPending,
		NewStatus: entities.OrderStatusCancelled,
		ChangedBy: entities.HistoryActorSystem,
		Note:      note,
		CreatedAt: time.Now(),
	})

	return true, nil
}

func newTestSweeper(storage Storage, now time.Time) *Sweeper {
	s := NewSweeper(storage)
	s.now = func() time.Time { return now }

	return s
}

func TestSweepThresholdBoundary(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		age  time.Duration
		want int
	}{
		{name: "younger than threshold", age: 23 * time.Hour, want: 0},
		{name: "older than threshold", age: 25 * time.Hour, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newFakeStorage()
			storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-tt.age))

			count, err := newTestSweeper(storage, now).Sweep(context.Background(), DefaultThresholdHours, false)

			require.NoError(t, err)
			assert.Equal(t, tt.want, count)

			order := storage.orders["1"]
			if tt.want == 0 {
				assert.Equal(t, entities.OrderStatusPending, order.Status)
				assert.Equal(t, entities.PaymentStatusPending, order.PaymentStatus)
				assert.Empty(t, storage.history)
			} else {
				assert.Equal(t, entities.OrderStatusCancelled, order.Status)
				assert.Equal(t, entities.PaymentStatusFailed, order.PaymentStatus)
				require.Len(t, storage.history, 1)
			}
		})
	}
}

func TestSweepHistoryEntry(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-30*time.Hour))

	count, err := newTestSweeper(storage, now).Sweep(context.Background(), DefaultThresholdHours, false)

	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, storage.history, 1)

	entry := storage.history[0]
	assert.Equal(t, "1", entry.OrderID)
	assert.Equal(t, entities.OrderStatusPending, entry.OldStatus)
	assert.Equal(t, entities.OrderStatusCancelled, entry.NewStatus)
	assert.Equal(t, entities.HistoryActorSystem, entry.ChangedBy)
	assert.Contains(t, entry.Note, "24h")
}

func TestSweepCustomThreshold(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-13*time.Hour))

	count, err := newTestSweeper(storage, now).Sweep(context.Background(), DefaultThresholdHours, false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = newTestSweeper(storage, now).Sweep(context.Background(), 12, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, storage.history, 1)
	assert.Contains(t, storage.history[0].Note, "12h")
}

func TestSweepSkipsNonPendingOrders(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("paid", entities.OrderStatusProcessing, entities.PaymentStatusPaid, now.Add(-30*time.Hour))
	storage.addOrder("pending", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-30*time.Hour))

	count, err := newTestSweeper(storage, now).Sweep(context.Background(), DefaultThresholdHours, false)

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, entities.OrderStatusProcessing, storage.orders["paid"].Status)
	assert.Equal(t, entities.PaymentStatusPaid, storage.orders["paid"].PaymentStatus)
	assert.Equal(t, entities.OrderStatusCancelled, storage.orders["pending"].Status)
}

func TestSweepIdempotent(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))
	storage.addOrder("2", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))

	s := newTestSweeper(storage, now)

	count, err := s.Sweep(context.Background(), DefaultThresholdHours, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.Sweep(context.Background(), DefaultThresholdHours, false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.Len(t, storage.history, 2)
}

func TestSweepDryRun(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))
	storage.addOrder("2", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-1*time.Hour))

	s := newTestSweeper(storage, now)

	count, err := s.Sweep(context.Background(), DefaultThresholdHours, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	for _, order := range storage.orders {
		assert.Equal(t, entities.OrderStatusPending, order.Status)
		assert.Equal(t, entities.PaymentStatusPending, order.PaymentStatus)
	}
	assert.Empty(t, storage.history)

	// A real run affects exactly what the dry run reported.
	realCount, err := s.Sweep(context.Background(), DefaultThresholdHours, false)
	require.NoError(t, err)
	assert.Equal(t, count, realCount)
}

func TestSweepContinuesAfterRowFailure(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("bad", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))
	storage.addOrder("good", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))
	storage.failIDs["bad"] = true

	count, err := newTestSweeper(storage, now).Sweep(context.Background(), DefaultThresholdHours, false)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, entities.OrderStatusCancelled, storage.orders["good"].Status)
	assert.Equal(t, entities.OrderStatusPending, storage.orders["bad"].Status)
}

func TestSweepConcurrentRunNotDoubleCounted(t *testing.T) {
	now := time.Now()

	storage := newFakeStorage()
	storage.addOrder("1", entities.OrderStatusPending, entities.PaymentStatusPending, now.Add(-48*time.Hour))

	s := newTestSweeper(storage, now)

	// Simulate another process winning the race between the read and the
	// update: the conditional update applies to zero rows.
	storage.orders["1"].Status = entities.OrderStatusCancelled
	storage.orders["1"].PaymentStatus = entities.PaymentStatusFailed

	cutoffOrders := []entities.Order{{ID: "1", Status: entities.OrderStatusPending, PaymentStatus: entities.PaymentStatusPending}}
	applied, err := storage.CancelExpiredOrder(context.Background(), cutoffOrders[0], "note")
	require.NoError(t, err)
	assert.False(t, applied)

	count, err := s.Sweep(context.Background(), DefaultThresholdHours, false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, storage.history)
}

func TestSweepReadFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.readErr = errors.New("connection refused")

	_, err := newTestSweeper(storage, time.Now()).Sweep(context.Background(), DefaultThresholdHours, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, storage.readErr)
}

func TestSweepRejectsNonPositiveThreshold(t *testing.T) {
	_, err := newTestSweeper(newFakeStorage(), time.Now()).Sweep(context.Background(), 0, false)
	require.Error(t, err)

	_, err = newTestSweeper(newFakeStorage(), time.Now()).Sweep(context.Background(), -3, false)
	require.Error(t, err)
}
