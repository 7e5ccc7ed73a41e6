package models

import (
	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	PriceLabel      string    `json:"priceLabel"` // "MYR 35"
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service, currency string) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.BasePrice,
		PriceLabel:      domain.PriceLabel(currency, s.BasePrice),
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}

// FromDomainServiceList конвертирует список услуг в DTO
func FromDomainServiceList(services []*domain.Service, currency string) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}
	for _, s := range services {
		if r := FromDomainService(s, currency); r != nil {
			resp.Services = append(resp.Services, *r)
		}
	}
	return resp
}
