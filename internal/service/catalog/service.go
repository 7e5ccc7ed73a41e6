package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	catalogRepo "github.com/wellside/barber-booking/internal/infra/storage/catalog"
	"github.com/wellside/barber-booking/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	repo     ServiceRepository
	currency string
	logger   Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo ServiceRepository, currency string, logger Logger) *Service {
	return &Service{
		repo:     repo,
		currency: currency,
		logger:   logger,
	}
}

// List возвращает услуги. Неактивные услуги отдаются только при activeOnly=false
func (s *Service) List(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error) {
	services, err := s.repo.ListServices(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services, s.currency), nil
}

// GetByID возвращает услугу по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	service, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service=%s not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service, s.currency), nil
}
