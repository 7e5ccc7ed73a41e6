package barbers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	barberRepo "github.com/wellside/barber-booking/internal/infra/storage/barber"
	"github.com/wellside/barber-booking/internal/service/barbers/models"
)

// Service сервис для работы с барберами и их рабочими часами
type Service struct {
	barberRepo BarberRepository
	identity   IdentityProvider
	logger     Logger
}

// NewService создает новый экземпляр сервиса барберов
func NewService(barberRepo BarberRepository, identity IdentityProvider, logger Logger) *Service {
	return &Service{
		barberRepo: barberRepo,
		identity:   identity,
		logger:     logger,
	}
}

// List получает всех барберов
// Публичный метод - доступен всем
func (s *Service) List(ctx context.Context) (*models.BarberListResponse, error) {
	s.logger.Info("List: fetching barbers")

	barbers, err := s.barberRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d barbers", len(barbers))
	return models.FromDomainBarberList(barbers), nil
}

// GetWorkingHours получает рабочие часы барбера
// Публичный метод - доступен всем
func (s *Service) GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*models.WorkingHoursResponse, error) {
	s.logger.Info("GetWorkingHours: fetching working hours for barber=%s", barberID)

	hours, err := s.barberRepo.GetWorkingHours(ctx, barberID)
	if err != nil {
		switch {
		case errors.Is(err, barberRepo.ErrBarberNotFound):
			s.logger.Warn("GetWorkingHours: barber=%s not found", barberID)
			return nil, ErrBarberNotFound
		case errors.Is(err, barberRepo.ErrWorkingHoursNotSet):
			s.logger.Warn("GetWorkingHours: barber=%s has no working hours", barberID)
			return nil, ErrWorkingHoursNotSet
		default:
			s.logger.Error("GetWorkingHours: repository error for barber=%s: %v", barberID, err)
			return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
		}
	}

	return models.FromDomainWorkingHours(hours), nil
}

// UpdateWorkingHours изменяет рабочие часы барбера
// Доступно администратору и самому барберу
func (s *Service) UpdateWorkingHours(ctx context.Context, barberID uuid.UUID, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	identity, err := s.identity.Current(ctx)
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: no authenticated user: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	s.logger.Info("UpdateWorkingHours: updating barber=%s to %s-%s by user=%s",
		barberID, req.StartTime, req.EndTime, identity.UserID)

	// 1. Проверяем права доступа
	if identity.Role != domain.RoleAdmin && !(identity.Role == domain.RoleBarber && identity.UserID == barberID) {
		s.logger.Warn("UpdateWorkingHours: user=%s has no access to barber=%s", identity.UserID, barberID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем входные данные
	hours, err := req.ToDomain(barberID)
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем
	if err := s.barberRepo.UpdateWorkingHours(ctx, hours); err != nil {
		if errors.Is(err, barberRepo.ErrBarberNotFound) {
			s.logger.Warn("UpdateWorkingHours: barber=%s not found", barberID)
			return nil, ErrBarberNotFound
		}
		s.logger.Error("UpdateWorkingHours: repository error for barber=%s: %v", barberID, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: successfully updated barber=%s", barberID)
	return models.FromDomainWorkingHours(hours), nil
}
