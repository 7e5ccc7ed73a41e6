package bookings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	bookingRepo "github.com/wellside/barber-booking/internal/infra/storage/booking"
	"github.com/wellside/barber-booking/internal/service/bookings/models"
	"github.com/wellside/barber-booking/pkg/logger"
	"github.com/wellside/barber-booking/pkg/ptr"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockRepo) GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *mockRepo) GetUpcomingByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.BookingDetails, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *mockRepo) GetByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.BookingStatus) ([]*domain.BookingDetails, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingDetails), args.Error(1)
}

func (m *mockRepo) GetDetailsByBarberInRange(ctx context.Context, filter domain.BarberBookingsFilter) ([]*domain.BookingDetails, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BookingDetails), args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockRepo) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	return m.Called(ctx, id, cancelledAt).Error(0)
}

type recordingNotifier struct {
	events []domain.BookingEvent
}

func (n *recordingNotifier) Publish(event domain.BookingEvent) {
	n.events = append(n.events, event)
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) RecordBookingCancel(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func kualaLumpur(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(domain.DefaultBusinessTimezone)
	require.NoError(t, err)
	return loc
}

type fixture struct {
	repo     *mockRepo
	notifier *recordingNotifier
	metrics  *recordingMetrics
	svc      *Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	loc := kualaLumpur(t)
	f := &fixture{
		repo:     &mockRepo{},
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
		now:      time.Date(2025, 3, 14, 9, 0, 0, 0, loc),
	}
	f.svc = NewService(f.repo, auth.NewProvider(), f.notifier, f.metrics, Settings{
		Location:           loc,
		CancellationCutoff: 2 * time.Hour,
	}, logger.NewNop()).WithTimeProvider(fixedTime{now: f.now})
	return f
}

func as(userID uuid.UUID, role domain.Role) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{UserID: userID, Role: role})
}

func TestService_Cancel(t *testing.T) {
	customerID := uuid.New()
	barberID := uuid.New()

	scheduledAt := func(f *fixture, start time.Time) *domain.Booking {
		return &domain.Booking{
			ID:         uuid.New(),
			CustomerID: customerID,
			BarberID:   barberID,
			StartAt:    start,
			EndAt:      start.Add(time.Hour),
			Status:     domain.StatusScheduled,
		}
	}

	t.Run("owner cancels more than cutoff before start", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(3*time.Hour))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("Cancel", mock.Anything, booking.ID, f.now).Return(nil)

		resp, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), booking.ID)
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusCancelled), resp.Status)
		require.NotNil(t, resp.CancelledAt)
		assert.Equal(t, "12:00 PM - 1:00 PM", resp.TimeLabel)
		assert.Equal(t, []domain.BookingEvent{{Kind: domain.EventCancellation, BookingID: booking.ID}}, f.notifier.events)
		assert.Equal(t, []string{outcomeCancelled}, f.metrics.outcomes)
		f.repo.AssertExpectations(t)
	})

	t.Run("exactly at cutoff is rejected", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(2*time.Hour))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), booking.ID)
		require.ErrorIs(t, err, ErrCancellationWindowClosed)
		f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.notifier.events)
		assert.Equal(t, []string{outcomeWindowClosed}, f.metrics.outcomes)
	})

	t.Run("one minute past the cutoff boundary is allowed", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(2*time.Hour+time.Minute))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("Cancel", mock.Anything, booking.ID, f.now).Return(nil)

		_, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), booking.ID)
		assert.NoError(t, err)
	})

	t.Run("other customer is denied", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(5*time.Hour))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err := f.svc.Cancel(as(uuid.New(), domain.RoleCustomer), booking.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("another barber is denied, admin is allowed", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(5*time.Hour))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("Cancel", mock.Anything, booking.ID, f.now).Return(nil)

		_, err := f.svc.Cancel(as(uuid.New(), domain.RoleBarber), booking.ID)
		require.ErrorIs(t, err, ErrAccessDenied)

		_, err = f.svc.Cancel(as(uuid.New(), domain.RoleAdmin), booking.ID)
		assert.NoError(t, err)
	})

	t.Run("non scheduled booking cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(5*time.Hour))
		booking.Status = domain.StatusCompleted
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

		_, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), booking.ID)
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("concurrent status change", func(t *testing.T) {
		f := newFixture(t)
		booking := scheduledAt(f, f.now.Add(5*time.Hour))
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("Cancel", mock.Anything, booking.ID, f.now).Return(bookingRepo.ErrBookingNotActive)

		_, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), booking.ID)
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("not found and storage errors", func(t *testing.T) {
		f := newFixture(t)
		missing, broken := uuid.New(), uuid.New()
		f.repo.On("GetByID", mock.Anything, missing).Return(nil, bookingRepo.ErrBookingNotFound)
		f.repo.On("GetByID", mock.Anything, broken).Return(nil, errors.New("timeout"))

		_, err := f.svc.Cancel(as(customerID, domain.RoleCustomer), missing)
		assert.ErrorIs(t, err, ErrBookingNotFound)

		_, err = f.svc.Cancel(as(customerID, domain.RoleCustomer), broken)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Cancel(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestService_Reads(t *testing.T) {
	customerID := uuid.New()
	barberID := uuid.New()

	details := func(start time.Time) *domain.BookingDetails {
		return &domain.BookingDetails{
			Booking: domain.Booking{
				ID:         uuid.New(),
				CustomerID: customerID,
				BarberID:   barberID,
				StartAt:    start,
				EndAt:      start.Add(time.Hour),
				Status:     domain.StatusScheduled,
			},
			ServiceName:  "Haircut",
			ServicePrice: 35,
			BarberName:   "Adam Lee",
		}
	}

	t.Run("GetByID for owner and barber", func(t *testing.T) {
		f := newFixture(t)
		d := details(f.now.Add(24 * time.Hour))
		f.repo.On("GetDetailsByID", mock.Anything, d.ID).Return(d, nil)

		resp, err := f.svc.GetByID(as(customerID, domain.RoleCustomer), d.ID)
		require.NoError(t, err)
		assert.Equal(t, "Haircut", resp.ServiceName)
		assert.Equal(t, "Saturday, 15 March 2025", resp.DateLabel)

		_, err = f.svc.GetByID(as(barberID, domain.RoleBarber), d.ID)
		assert.NoError(t, err)

		_, err = f.svc.GetByID(as(uuid.New(), domain.RoleCustomer), d.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("GetActive without booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetUpcomingByCustomer", mock.Anything, customerID).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := f.svc.GetActive(as(customerID, domain.RoleCustomer))
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("GetMyBookings with status filter", func(t *testing.T) {
		f := newFixture(t)
		status := domain.StatusCancelled
		f.repo.On("GetByCustomer", mock.Anything, customerID, &status).
			Return([]*domain.BookingDetails{details(f.now)}, nil)

		resp, err := f.svc.GetMyBookings(as(customerID, domain.RoleCustomer), &models.GetMyBookingsRequest{Status: ptr.Ptr("cancelled")})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)

		_, err = f.svc.GetMyBookings(as(customerID, domain.RoleCustomer), &models.GetMyBookingsRequest{Status: ptr.Ptr("pending")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("GetBarberBookings covers whole business days", func(t *testing.T) {
		f := newFixture(t)
		loc := kualaLumpur(t)
		day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		f.repo.On("GetDetailsByBarberInRange", mock.Anything, mock.MatchedBy(func(filter domain.BarberBookingsFilter) bool {
			return filter.BarberID == barberID &&
				filter.From.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, loc)) &&
				filter.To.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, loc)) &&
				!filter.IncludeInactive
		})).Return([]*domain.BookingDetails{}, nil)

		req := &models.GetBarberBookingsRequest{BarberID: barberID, StartDate: day, EndDate: day}
		resp, err := f.svc.GetBarberBookings(as(barberID, domain.RoleBarber), req)
		require.NoError(t, err)
		assert.NotNil(t, resp.Bookings)
		assert.Empty(t, resp.Bookings)

		_, err = f.svc.GetBarberBookings(as(customerID, domain.RoleCustomer), req)
		assert.ErrorIs(t, err, ErrAccessDenied)

		bad := &models.GetBarberBookingsRequest{BarberID: barberID, StartDate: day, EndDate: day.AddDate(0, 0, -1)}
		_, err = f.svc.GetBarberBookings(as(barberID, domain.RoleBarber), bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	barberID := uuid.New()
	booking := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: domain.StatusScheduled}
	cancelled := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: domain.StatusCancelled}

	f := newFixture(t)
	f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.repo.On("GetByID", mock.Anything, cancelled.ID).Return(cancelled, nil)
	f.repo.On("UpdateStatus", mock.Anything, booking.ID, domain.StatusScheduled, domain.StatusInProgress).Return(nil)

	err := f.svc.UpdateStatus(as(barberID, domain.RoleBarber), booking.ID, &models.UpdateStatusRequest{Status: "in_progress"})
	require.NoError(t, err)

	err = f.svc.UpdateStatus(as(barberID, domain.RoleBarber), booking.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = f.svc.UpdateStatus(as(barberID, domain.RoleBarber), cancelled.ID, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = f.svc.UpdateStatus(as(booking.CustomerID, domain.RoleCustomer), booking.ID, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	f.repo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestService_UpdateStatus_Transitions(t *testing.T) {
	barberID := uuid.New()
	barber := func() context.Context { return as(barberID, domain.RoleBarber) }

	t.Run("backward transitions are rejected without touching storage", func(t *testing.T) {
		tests := []struct {
			from domain.BookingStatus
			to   string
		}{
			{domain.StatusInProgress, "scheduled"},
			{domain.StatusCompleted, "scheduled"},
			{domain.StatusCompleted, "in_progress"},
			{domain.StatusScheduled, "scheduled"},
		}

		for _, tt := range tests {
			t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
				booking := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: tt.from}
				f := newFixture(t)
				f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

				err := f.svc.UpdateStatus(barber(), booking.ID, &models.UpdateStatusRequest{Status: tt.to})
				assert.ErrorIs(t, err, ErrInvalidStatus)
				f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("in progress booking can be completed", func(t *testing.T) {
		booking := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: domain.StatusInProgress}
		f := newFixture(t)
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("UpdateStatus", mock.Anything, booking.ID, domain.StatusInProgress, domain.StatusCompleted).Return(nil)

		require.NoError(t, f.svc.UpdateStatus(barber(), booking.ID, &models.UpdateStatusRequest{Status: "completed"}))
	})

	t.Run("constraint violation is a conflict, not an internal error", func(t *testing.T) {
		booking := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: domain.StatusScheduled}
		f := newFixture(t)
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("UpdateStatus", mock.Anything, booking.ID, domain.StatusScheduled, domain.StatusInProgress).
			Return(fmt.Errorf("%w: UpdateStatus - pq: exclusion", bookingRepo.ErrSlotOverlap))

		err := f.svc.UpdateStatus(barber(), booking.ID, &models.UpdateStatusRequest{Status: "in_progress"})
		assert.ErrorIs(t, err, ErrStatusConflict)
		assert.NotErrorIs(t, err, ErrInternal)
	})

	t.Run("status changed concurrently is a conflict", func(t *testing.T) {
		booking := &domain.Booking{ID: uuid.New(), CustomerID: uuid.New(), BarberID: barberID, Status: domain.StatusScheduled}
		f := newFixture(t)
		f.repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
		f.repo.On("UpdateStatus", mock.Anything, booking.ID, domain.StatusScheduled, domain.StatusCompleted).
			Return(bookingRepo.ErrStatusChanged)

		err := f.svc.UpdateStatus(barber(), booking.ID, &models.UpdateStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}
