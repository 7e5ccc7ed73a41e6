package barbers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	barberRepo "github.com/wellside/barber-booking/internal/infra/storage/barber"
	"github.com/wellside/barber-booking/internal/service/barbers/models"
	"github.com/wellside/barber-booking/pkg/logger"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Barber, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Barber), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context) ([]*domain.Barber, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Barber), args.Error(1)
}

func (m *mockRepo) GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*domain.WorkingHours, error) {
	args := m.Called(ctx, barberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkingHours), args.Error(1)
}

func (m *mockRepo) UpdateWorkingHours(ctx context.Context, hours *domain.WorkingHours) error {
	return m.Called(ctx, hours).Error(0)
}

func as(userID uuid.UUID, role domain.Role) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{UserID: userID, Role: role})
}

func TestService_List(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, auth.NewProvider(), logger.NewNop())
	repo.On("List", mock.Anything).Return([]*domain.Barber{
		{ID: uuid.New(), FirstName: "Adam", LastName: "Lee", WorkingStart: "10:00", WorkingEnd: "20:00"},
	}, nil).Once()
	repo.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Barbers, 1)
	assert.Equal(t, "Adam Lee", resp.Barbers[0].Name)
	assert.Equal(t, "10:00", resp.Barbers[0].WorkingStart)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetWorkingHours(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, auth.NewProvider(), logger.NewNop())
	set, unset, missing := uuid.New(), uuid.New(), uuid.New()

	repo.On("GetWorkingHours", mock.Anything, set).
		Return(&domain.WorkingHours{BarberID: set, StartTime: "09:00", EndTime: "18:00"}, nil)
	repo.On("GetWorkingHours", mock.Anything, unset).Return(nil, barberRepo.ErrWorkingHoursNotSet)
	repo.On("GetWorkingHours", mock.Anything, missing).Return(nil, barberRepo.ErrBarberNotFound)

	resp, err := svc.GetWorkingHours(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.StartTime)

	_, err = svc.GetWorkingHours(context.Background(), unset)
	assert.ErrorIs(t, err, ErrWorkingHoursNotSet)

	_, err = svc.GetWorkingHours(context.Background(), missing)
	assert.ErrorIs(t, err, ErrBarberNotFound)
}

func TestService_UpdateWorkingHours(t *testing.T) {
	barberID := uuid.New()
	valid := &models.UpdateWorkingHoursRequest{StartTime: "10:00", EndTime: "21:00"}

	t.Run("barber updates own hours", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, auth.NewProvider(), logger.NewNop())
		repo.On("UpdateWorkingHours", mock.Anything, &domain.WorkingHours{
			BarberID: barberID, StartTime: "10:00", EndTime: "21:00",
		}).Return(nil)

		resp, err := svc.UpdateWorkingHours(as(barberID, domain.RoleBarber), barberID, valid)
		require.NoError(t, err)
		assert.Equal(t, "21:00", resp.EndTime)
		repo.AssertExpectations(t)
	})

	t.Run("admin updates any barber", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, auth.NewProvider(), logger.NewNop())
		repo.On("UpdateWorkingHours", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.UpdateWorkingHours(as(uuid.New(), domain.RoleAdmin), barberID, valid)
		assert.NoError(t, err)
	})

	t.Run("other barber and customer are denied", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, auth.NewProvider(), logger.NewNop())

		_, err := svc.UpdateWorkingHours(as(uuid.New(), domain.RoleBarber), barberID, valid)
		assert.ErrorIs(t, err, ErrAccessDenied)
		_, err = svc.UpdateWorkingHours(as(barberID, domain.RoleCustomer), barberID, valid)
		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "UpdateWorkingHours", mock.Anything, mock.Anything)
	})

	t.Run("invalid window", func(t *testing.T) {
		repo := &mockRepo{}
		svc := NewService(repo, auth.NewProvider(), logger.NewNop())

		_, err := svc.UpdateWorkingHours(as(barberID, domain.RoleBarber), barberID,
			&models.UpdateWorkingHoursRequest{StartTime: "20:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.UpdateWorkingHours(as(barberID, domain.RoleBarber), barberID,
			&models.UpdateWorkingHoursRequest{StartTime: "25:00", EndTime: "10:00"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewService(&mockRepo{}, auth.NewProvider(), logger.NewNop())
		_, err := svc.UpdateWorkingHours(context.Background(), barberID, valid)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
