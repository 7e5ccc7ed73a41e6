package booking_attempt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
	"github.com/wellside/barber-booking/pkg/logger"
)

const grace = 10 * time.Second

type fakeCommitter struct {
	mu        sync.Mutex
	calls     int
	customers []uuid.UUID
	err       error

	// если задан, Execute сигналит в entered и ждёт закрытия release
	release chan struct{}
	entered chan struct{}
}

func (c *fakeCommitter) Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	if c.release != nil {
		c.entered <- struct{}{}
		<-c.release
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if identity, ok := auth.FromContext(ctx); ok {
		c.customers = append(c.customers, identity.UserID)
	}
	if c.err != nil {
		return nil, c.err
	}
	return &create_booking.Response{
		BookingID:  uuid.New(),
		BookingRef: "WS-1",
		BarberID:   req.Selection.Barber.ID,
		StartAt:    req.Selection.Slot.StartAt,
		EndAt:      req.Selection.Slot.EndAt,
		Status:     domain.StatusScheduled,
	}, nil
}

func (c *fakeCommitter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.AttemptRecord
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]*domain.AttemptRecord)}
}

func (s *memoryStore) Save(_ context.Context, record *domain.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[record.ID] = record
	return nil
}

func (s *memoryStore) Load(_ context.Context, id uuid.UUID) (*domain.AttemptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return nil, domain.ErrAttemptRecordNotFound
	}
	return record, nil
}

func (s *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *memoryStore) ListPending(_ context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type phaseRecorder struct {
	mu     sync.Mutex
	phases []string
}

func (r *phaseRecorder) RecordGracePhase(phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, phase)
}

type testEnv struct {
	clock     *fakeClock
	committer *fakeCommitter
	store     *memoryStore
	phases    *phaseRecorder
	manager   *Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock:     newFakeClock(time.Date(2025, 3, 14, 2, 0, 0, 0, time.UTC)),
		committer: &fakeCommitter{},
		store:     newMemoryStore(),
		phases:    &phaseRecorder{},
	}
	env.manager = NewManager(env.committer, auth.NewProviderWithClock(env.clock.Now), Settings{
		GracePeriod: grace,
		Retention:   time.Minute,
	}, logger.NewNop()).
		WithClock(env.clock).
		WithSnapshotStore(env.store).
		WithMetrics(env.phases)
	return env
}

func (env *testEnv) customer(id uuid.UUID) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{
		UserID:    id,
		Role:      domain.RoleCustomer,
		ExpiresAt: env.clock.Now().Add(time.Hour),
	})
}

func testSelection() domain.Selection {
	start := time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	return domain.Selection{
		Service: &domain.ServiceSelection{ID: uuid.New(), Name: "Haircut", Price: 35, DurationMinutes: 60},
		Barber:  &domain.BarberSelection{ID: uuid.New(), Name: "Adam"},
		Date:    &date,
		Slot:    &domain.Slot{Label: "2:00 PM - 3:00 PM", StartAt: start, EndAt: start.Add(time.Hour)},
	}
}

func TestManager_Start(t *testing.T) {
	t.Run("counting snapshot and stored record", func(t *testing.T) {
		env := newTestEnv(t)
		customerID := uuid.New()

		snapshot, err := env.manager.Start(env.customer(customerID), testSelection())
		require.NoError(t, err)

		assert.Equal(t, PhaseCounting, snapshot.Phase)
		assert.Equal(t, customerID, snapshot.CustomerID)
		assert.Equal(t, grace, snapshot.Remaining)
		assert.Equal(t, grace, snapshot.Duration)
		assert.Zero(t, snapshot.Progress)
		assert.Equal(t, 1, env.store.Len())
		assert.Zero(t, env.committer.Calls())
	})

	t.Run("incomplete selection", func(t *testing.T) {
		env := newTestEnv(t)
		sel := testSelection()
		sel.Barber = nil

		_, err := env.manager.Start(env.customer(uuid.New()), sel)
		require.ErrorIs(t, err, create_booking.ErrIncompleteSelection)
		assert.Contains(t, err.Error(), "barber")
		assert.Zero(t, env.store.Len())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.manager.Start(context.Background(), testSelection())
		assert.ErrorIs(t, err, create_booking.ErrAuthentication)
	})

	t.Run("snapshot store failure does not block the attempt", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.saveErr = errors.New("redis down")

		snapshot, err := env.manager.Start(env.customer(uuid.New()), testSelection())
		require.NoError(t, err)
		assert.Equal(t, PhaseCounting, snapshot.Phase)

		env.clock.Advance(grace)
		assert.Equal(t, 1, env.committer.Calls())
	})
}

func TestManager_Countdown(t *testing.T) {
	t.Run("timeout finalizes with the customer identity", func(t *testing.T) {
		env := newTestEnv(t)
		customerID := uuid.New()
		ctx := env.customer(customerID)

		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(4 * time.Second)
		snapshot, err := env.manager.Get(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseCounting, snapshot.Phase)
		assert.Equal(t, 6*time.Second, snapshot.Remaining)
		assert.InDelta(t, 0.4, snapshot.Progress, 1e-9)

		env.clock.Advance(6 * time.Second)
		snapshot, err = env.manager.Get(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseConfirmed, snapshot.Phase)
		require.NotNil(t, snapshot.Booking)
		assert.Equal(t, domain.StatusScheduled, snapshot.Booking.Status)
		assert.Equal(t, []uuid.UUID{customerID}, env.committer.customers)
		assert.Zero(t, env.store.Len())

		assert.Equal(t, []string{"counting", "confirming", "confirmed"}, env.phases.phases)
	})

	t.Run("cancel while counting stops the timer", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(3 * time.Second)
		snapshot, err := env.manager.Cancel(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseCancelled, snapshot.Phase)
		require.NotNil(t, snapshot.FinishedAt)

		env.clock.Advance(time.Minute / 2)
		assert.Zero(t, env.committer.Calls())
		assert.Zero(t, env.store.Len())

		_, err = env.manager.Cancel(ctx, started.AttemptID)
		assert.ErrorIs(t, err, ErrNotCancellable)

		_, err = env.manager.Confirm(ctx, started.AttemptID)
		assert.ErrorIs(t, err, ErrAttemptCancelled)
	})

	t.Run("eager confirm then timer is a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		snapshot, err := env.manager.Confirm(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseConfirmed, snapshot.Phase)

		env.clock.Advance(grace)
		_, err = env.manager.Confirm(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, 1, env.committer.Calls())

		_, err = env.manager.Cancel(ctx, started.AttemptID)
		assert.ErrorIs(t, err, ErrNotCancellable)
	})

	t.Run("concurrent confirms commit once", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = env.manager.Confirm(ctx, started.AttemptID)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, env.committer.Calls())
	})

	t.Run("commit failure is terminal", func(t *testing.T) {
		env := newTestEnv(t)
		env.committer.err = create_booking.ErrSlotConflict
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(grace)
		snapshot, err := env.manager.Get(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseError, snapshot.Phase)
		assert.ErrorIs(t, snapshot.Err, create_booking.ErrSlotConflict)

		env.clock.Advance(grace)
		assert.Equal(t, 1, env.committer.Calls())
	})

	t.Run("other customer cannot see the attempt", func(t *testing.T) {
		env := newTestEnv(t)
		started, err := env.manager.Start(env.customer(uuid.New()), testSelection())
		require.NoError(t, err)

		other := env.customer(uuid.New())
		_, err = env.manager.Get(other, started.AttemptID)
		assert.ErrorIs(t, err, ErrAttemptNotFound)
		_, err = env.manager.Cancel(other, started.AttemptID)
		assert.ErrorIs(t, err, ErrAttemptNotFound)
	})

	t.Run("terminal attempts are evicted after retention", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(grace)
		_, err = env.manager.Get(ctx, started.AttemptID)
		require.NoError(t, err)

		env.clock.Advance(time.Minute)
		_, err = env.manager.Get(ctx, started.AttemptID)
		assert.ErrorIs(t, err, ErrAttemptNotFound)
	})
}

func TestManager_SuspendResume(t *testing.T) {
	t.Run("resume after grace window finalizes immediately", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(3 * time.Second)
		assert.Equal(t, 1, env.manager.SuspendAll())
		assert.Zero(t, env.clock.Pending())

		env.clock.Jump(12 * time.Second)
		assert.Zero(t, env.committer.Calls())

		snapshot, err := env.manager.Resume(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseConfirmed, snapshot.Phase)
		assert.Equal(t, 1, env.committer.Calls())
	})

	t.Run("resume inside grace window re-arms the remainder", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		env.clock.Advance(3 * time.Second)
		env.manager.SuspendAll()
		env.clock.Jump(2 * time.Second)

		snapshot, err := env.manager.Resume(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseCounting, snapshot.Phase)
		assert.Equal(t, 5*time.Second, snapshot.Remaining)

		env.clock.Advance(5 * time.Second)
		assert.Equal(t, 1, env.committer.Calls())
	})

	t.Run("resume of a running attempt keeps a single timer", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		_, err = env.manager.Resume(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, 1, env.clock.Pending())
	})
}

func TestManager_WaitConfirming(t *testing.T) {
	t.Run("nothing to wait for", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.manager.Start(env.customer(uuid.New()), testSelection())
		require.NoError(t, err)

		n, err := env.manager.WaitConfirming(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("shutdown waits for an in-flight commit", func(t *testing.T) {
		env := newTestEnv(t)
		env.committer.release = make(chan struct{})
		env.committer.entered = make(chan struct{}, 1)

		ctx := env.customer(uuid.New())
		started, err := env.manager.Start(ctx, testSelection())
		require.NoError(t, err)

		confirmed := make(chan *Snapshot, 1)
		go func() {
			snapshot, err := env.manager.Confirm(ctx, started.AttemptID)
			assert.NoError(t, err)
			confirmed <- snapshot
		}()
		<-env.committer.entered

		// фиксация уже идёт, приостанавливать нечего
		assert.Zero(t, env.manager.SuspendAll())

		short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		n, err := env.manager.WaitConfirming(short)
		assert.Equal(t, 1, n)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		waited := make(chan error, 1)
		go func() {
			_, err := env.manager.WaitConfirming(context.Background())
			waited <- err
		}()

		close(env.committer.release)

		select {
		case err := <-waited:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("WaitConfirming did not return after commit finished")
		}

		current, err := env.manager.Get(ctx, started.AttemptID)
		require.NoError(t, err)
		assert.Equal(t, PhaseConfirmed, current.Phase)

		snapshot := <-confirmed
		assert.Equal(t, PhaseConfirmed, snapshot.Phase)
		assert.Equal(t, 1, env.committer.Calls())
	})
}

func TestManager_RestorePending(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	now := env.clock.Now()

	elapsed := &domain.AttemptRecord{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Role:        domain.RoleCustomer,
		AuthExpires: now.Add(time.Hour),
		Selection:   testSelection(),
		StartedAt:   now.Add(-15 * time.Second),
		Duration:    grace,
	}
	running := &domain.AttemptRecord{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		Role:        domain.RoleCustomer,
		AuthExpires: now.Add(time.Hour),
		Selection:   testSelection(),
		StartedAt:   now.Add(-4 * time.Second),
		Duration:    grace,
	}
	require.NoError(t, env.store.Save(context.Background(), elapsed))
	require.NoError(t, env.store.Save(context.Background(), running))

	restored, err := env.manager.RestorePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, restored)

	// Истёкшая попытка зафиксирована сразу, идентичность восстановлена из снимка
	assert.Equal(t, 1, env.committer.Calls())
	assert.Equal(t, []uuid.UUID{customerID}, env.committer.customers)

	snapshot, err := env.manager.Get(env.customer(running.CustomerID), running.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseCounting, snapshot.Phase)
	assert.Equal(t, 6*time.Second, snapshot.Remaining)

	env.clock.Advance(6 * time.Second)
	assert.Equal(t, 2, env.committer.Calls())
	assert.Zero(t, env.store.Len())
}

func TestManager_LoadOnDemand(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	record := &domain.AttemptRecord{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Role:        domain.RoleCustomer,
		AuthExpires: env.clock.Now().Add(time.Hour),
		Selection:   testSelection(),
		StartedAt:   env.clock.Now().Add(-2 * time.Second),
		Duration:    grace,
	}
	require.NoError(t, env.store.Save(context.Background(), record))

	_, err := env.manager.Get(env.customer(uuid.New()), record.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	snapshot, err := env.manager.Get(env.customer(customerID), record.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseCounting, snapshot.Phase)
	assert.Equal(t, 8*time.Second, snapshot.Remaining)

	_, err = env.manager.Get(env.customer(customerID), uuid.New())
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}
