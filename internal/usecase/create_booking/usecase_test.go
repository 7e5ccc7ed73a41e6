package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	bookingRepo "github.com/wellside/barber-booking/internal/infra/storage/booking"
	"github.com/wellside/barber-booking/pkg/logger"
)

// memoryRepo хранилище в памяти с теми же ограничениями, что и таблица bookings
type memoryRepo struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	activeErr error
	createErr error
	creates   int
}

func (r *memoryRepo) GetActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, b := range r.bookings {
		if !b.IsActive() {
			continue
		}
		if b.BarberID == booking.BarberID && b.Overlaps(booking.StartAt, booking.EndAt) {
			return nil, bookingRepo.ErrSlotOverlap
		}
		if b.CustomerID == booking.CustomerID {
			return nil, bookingRepo.ErrActiveBookingExists
		}
	}
	created := *booking
	created.ID = uuid.New()
	created.BookingRef = "WS-" + created.ID.String()[:6]
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.bookings = append(r.bookings, &created)
	return &created, nil
}

type hoursRepo struct {
	hours *domain.WorkingHours
	err   error
}

func (r *hoursRepo) GetWorkingHours(_ context.Context, barberID uuid.UUID) (*domain.WorkingHours, error) {
	if r.err != nil {
		return nil, r.err
	}
	hours := *r.hours
	hours.BarberID = barberID
	return &hours, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type passThroughTx struct {
	err error
}

func (m passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (n *recordingNotifier) Publish(event domain.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []domain.BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.BookingEvent(nil), n.events...)
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) RecordBookingCommit(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

type fixture struct {
	repo     *memoryRepo
	barbers  *hoursRepo
	notifier *recordingNotifier
	metrics  *recordingMetrics
	uc       *UseCase
}

func kualaLumpur(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	require.NoError(t, err)
	return loc
}

// fixtureNow пятница 2025-03-14 09:30 по времени бизнеса
func fixtureNow(t *testing.T) time.Time {
	return time.Date(2025, 3, 14, 9, 30, 0, 0, kualaLumpur(t))
}

func businessSettings(t *testing.T) Settings {
	return Settings{
		Location:     kualaLumpur(t),
		Break:        domain.BreakWindow{Start: "19:00", End: "20:00"},
		Unit:         time.Hour,
		MaxDaysAhead: 14,
	}
}

func newFixture(t *testing.T, tx TransactionManager) *fixture {
	t.Helper()
	if tx == nil {
		tx = passThroughTx{}
	}
	f := &fixture{
		repo:     &memoryRepo{},
		barbers:  &hoursRepo{hours: &domain.WorkingHours{StartTime: "10:00", EndTime: "20:00"}},
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.barbers, auth.NewProvider(), f.notifier, tx, f.metrics, businessSettings(t), logger.NewNop()).
		WithTimeProvider(fixedTime{now: fixtureNow(t)})
	return f
}

func customerCtx(id uuid.UUID) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{
		UserID:    id,
		Role:      domain.RoleCustomer,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func selection(barberID uuid.UUID, start time.Time) domain.Selection {
	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return domain.Selection{
		Service: &domain.ServiceSelection{ID: uuid.New(), Name: "Haircut", Price: 35, DurationMinutes: 60},
		Barber:  &domain.BarberSelection{ID: barberID, Name: "Adam"},
		Date:    &date,
		Slot: &domain.Slot{
			Label:   "2:00 PM - 3:00 PM",
			StartAt: start,
			EndAt:   start.Add(time.Hour),
		},
	}
}

func TestUseCase_Execute(t *testing.T) {
	barberID := uuid.New()
	start := time.Date(2025, 3, 16, 14, 0, 0, 0, kualaLumpur(t))

	t.Run("success creates scheduled booking and notifies", func(t *testing.T) {
		f := newFixture(t, nil)
		customerID := uuid.New()

		resp, err := f.uc.Execute(customerCtx(customerID), &Request{Selection: selection(barberID, start)})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, resp.BookingID)
		assert.NotEmpty(t, resp.BookingRef)
		assert.Equal(t, customerID, resp.CustomerID)
		assert.Equal(t, barberID, resp.BarberID)
		assert.Equal(t, domain.StatusScheduled, resp.Status)
		assert.True(t, resp.StartAt.Equal(start))
		assert.True(t, resp.EndAt.Equal(start.Add(time.Hour)))

		assert.Equal(t, []domain.BookingEvent{{Kind: domain.EventConfirmation, BookingID: resp.BookingID}}, f.notifier.Events())
		assert.Equal(t, []string{OutcomeConfirmed}, f.metrics.outcomes)
	})

	t.Run("incomplete selection is rejected before any lookup", func(t *testing.T) {
		f := newFixture(t, nil)
		sel := selection(barberID, start)
		sel.Slot = nil

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: sel})
		require.ErrorIs(t, err, ErrIncompleteSelection)
		assert.Contains(t, err.Error(), "slot")
		assert.Zero(t, f.repo.creates)
		assert.Empty(t, f.notifier.Events())
		assert.Equal(t, []string{OutcomeIncomplete}, f.metrics.outcomes)
	})

	t.Run("nil request", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.uc.Execute(customerCtx(uuid.New()), nil)
		assert.ErrorIs(t, err, ErrIncompleteSelection)
	})

	t.Run("missing identity", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.uc.Execute(context.Background(), &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrAuthentication)
		assert.Zero(t, f.repo.creates)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := auth.WithIdentity(context.Background(), &auth.Identity{
			UserID:    uuid.New(),
			Role:      domain.RoleCustomer,
			ExpiresAt: time.Now().Add(-time.Minute),
		})
		_, err := f.uc.Execute(ctx, &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrAuthentication)
		assert.ErrorIs(t, err, auth.ErrSessionExpired)
	})

	t.Run("customer with active booking gets duplicate error and no insert", func(t *testing.T) {
		f := newFixture(t, nil)
		customerID := uuid.New()
		f.repo.bookings = append(f.repo.bookings, &domain.Booking{
			ID:         uuid.New(),
			CustomerID: customerID,
			BarberID:   uuid.New(),
			StartAt:    start.Add(24 * time.Hour),
			EndAt:      start.Add(25 * time.Hour),
			Status:     domain.StatusScheduled,
		})

		_, err := f.uc.Execute(customerCtx(customerID), &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrDuplicateActiveBooking)
		assert.Zero(t, f.repo.creates)
		assert.Empty(t, f.notifier.Events())
		assert.Equal(t, []string{OutcomeDuplicate}, f.metrics.outcomes)
	})

	t.Run("cancelled booking does not block a new one", func(t *testing.T) {
		f := newFixture(t, nil)
		customerID := uuid.New()
		f.repo.bookings = append(f.repo.bookings, &domain.Booking{
			ID:         uuid.New(),
			CustomerID: customerID,
			BarberID:   barberID,
			StartAt:    start,
			EndAt:      start.Add(time.Hour),
			Status:     domain.StatusCancelled,
		})

		_, err := f.uc.Execute(customerCtx(customerID), &Request{Selection: selection(barberID, start)})
		assert.NoError(t, err)
	})

	t.Run("overlap with another customer maps to slot conflict", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.bookings = append(f.repo.bookings, &domain.Booking{
			ID:         uuid.New(),
			CustomerID: uuid.New(),
			BarberID:   barberID,
			StartAt:    start.Add(30 * time.Minute),
			EndAt:      start.Add(90 * time.Minute),
			Status:     domain.StatusInProgress,
		})

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrSlotConflict)
		assert.Empty(t, f.notifier.Events())
		assert.Equal(t, []string{OutcomeSlotConflict}, f.metrics.outcomes)
	})

	t.Run("adjacent booking is not a conflict", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.bookings = append(f.repo.bookings, &domain.Booking{
			ID:         uuid.New(),
			CustomerID: uuid.New(),
			BarberID:   barberID,
			StartAt:    start.Add(time.Hour),
			EndAt:      start.Add(2 * time.Hour),
			Status:     domain.StatusScheduled,
		})

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		assert.NoError(t, err)
	})

	t.Run("unique index violation maps to duplicate", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.createErr = bookingRepo.ErrActiveBookingExists

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		assert.ErrorIs(t, err, ErrDuplicateActiveBooking)
	})

	t.Run("storage failure on lookup", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.activeErr = errors.New("connection reset")

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrDataAccess)
		assert.Zero(t, f.repo.creates)
		assert.Equal(t, []string{OutcomeDataAccess}, f.metrics.outcomes)
	})

	t.Run("storage failure on insert", func(t *testing.T) {
		f := newFixture(t, nil)
		f.repo.createErr = errors.New("disk full")

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		require.ErrorIs(t, err, ErrDataAccess)
		assert.NotErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("transaction failure", func(t *testing.T) {
		f := newFixture(t, passThroughTx{err: errors.New("begin failed")})

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		assert.ErrorIs(t, err, ErrDataAccess)
	})

	t.Run("nil metrics and notifier are allowed", func(t *testing.T) {
		repo := &memoryRepo{}
		barbers := &hoursRepo{hours: &domain.WorkingHours{StartTime: "10:00", EndTime: "20:00"}}
		uc := NewUseCase(repo, barbers, auth.NewProvider(), nil, passThroughTx{}, nil, businessSettings(t), logger.NewNop()).
			WithTimeProvider(fixedTime{now: fixtureNow(t)})

		_, err := uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
		assert.NoError(t, err)
	})
}

func TestUseCase_Execute_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t, nil)
	barberID := uuid.New()
	start := time.Date(2025, 3, 17, 11, 0, 0, 0, kualaLumpur(t))

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, start)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.notifier.Events(), 1)
}

func TestUseCase_Execute_SlotMustMatchSchedule(t *testing.T) {
	barberID := uuid.New()
	loc := kualaLumpur(t)
	at := func(day, hour int) time.Time { return time.Date(2025, 3, day, hour, 0, 0, 0, loc) }

	tests := []struct {
		name    string
		sel     func() domain.Selection
		wantErr error
		outcome string
	}{
		{
			name:    "slot in the past",
			sel:     func() domain.Selection { return selection(barberID, at(13, 14)) },
			wantErr: ErrSlotConflict,
			outcome: OutcomeSlotConflict,
		},
		{
			name:    "slot that already started today",
			sel:     func() domain.Selection { return selection(barberID, at(14, 9)) },
			wantErr: ErrSlotConflict,
			outcome: OutcomeSlotConflict,
		},
		{
			name: "slot on a different day than the selected date",
			sel: func() domain.Selection {
				sel := selection(barberID, at(16, 14))
				other := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
				sel.Date = &other
				return sel
			},
			wantErr: ErrIncompleteSelection,
			outcome: OutcomeIncomplete,
		},
		{
			name: "nine hour interval outside working hours",
			sel: func() domain.Selection {
				sel := selection(barberID, at(16, 3))
				sel.Slot.EndAt = at(16, 12)
				return sel
			},
			wantErr: ErrIncompleteSelection,
			outcome: OutcomeIncomplete,
		},
		{
			name:    "slot inside the daily break",
			sel:     func() domain.Selection { return selection(barberID, at(16, 19)) },
			wantErr: ErrIncompleteSelection,
			outcome: OutcomeIncomplete,
		},
		{
			name: "slot not aligned to the grid",
			sel:     func() domain.Selection { return selection(barberID, at(16, 14).Add(30*time.Minute)) },
			wantErr: ErrIncompleteSelection,
			outcome: OutcomeIncomplete,
		},
		{
			name:    "date beyond the booking horizon",
			sel:     func() domain.Selection { return selection(barberID, at(29, 14)) },
			wantErr: ErrIncompleteSelection,
			outcome: OutcomeIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			resp, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: tt.sel()})
			assert.Nil(t, resp)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.repo.creates)
			assert.Empty(t, f.notifier.Events())
			assert.Equal(t, []string{tt.outcome}, f.metrics.outcomes)
		})
	}

	t.Run("last day of the horizon is accepted", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, at(28, 10))})
		assert.NoError(t, err)
	})

	t.Run("date given as UTC midnight matches the business day", func(t *testing.T) {
		f := newFixture(t, nil)
		sel := selection(barberID, at(16, 10))
		utcDate := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
		sel.Date = &utcDate

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: sel})
		assert.NoError(t, err)
	})

	t.Run("missing working hours is a configuration error", func(t *testing.T) {
		f := newFixture(t, nil)
		f.barbers.err = errors.New("barber has no schedule")

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, at(16, 14))})
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Zero(t, f.repo.creates)
		assert.Equal(t, []string{OutcomeConfig}, f.metrics.outcomes)
	})

	t.Run("inverted working hours is a configuration error", func(t *testing.T) {
		f := newFixture(t, nil)
		f.barbers.hours = &domain.WorkingHours{StartTime: "20:00", EndTime: "10:00"}

		_, err := f.uc.Execute(customerCtx(uuid.New()), &Request{Selection: selection(barberID, at(16, 14))})
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Zero(t, f.repo.creates)
	})
}
