package models

import (
	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/pkg/types"
)

// Request модели

// UpdateWorkingHoursRequest запрос на изменение рабочих часов барбера
type UpdateWorkingHoursRequest struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "20:00"
}

// ToDomain конвертирует request в domain модель
func (r *UpdateWorkingHoursRequest) ToDomain(barberID uuid.UUID) (*domain.WorkingHours, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	hours := &domain.WorkingHours{BarberID: barberID, StartTime: start, EndTime: end}
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return hours, nil
}

// Response модели

// BarberResponse ответ с данными барбера
type BarberResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	WorkingStart string    `json:"workingStart,omitempty"`
	WorkingEnd   string    `json:"workingEnd,omitempty"`
}

// BarberListResponse ответ со списком барберов
type BarberListResponse struct {
	Barbers []BarberResponse `json:"barbers"`
}

// WorkingHoursResponse ответ с рабочими часами барбера
type WorkingHoursResponse struct {
	BarberID  uuid.UUID `json:"barberId"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
}

// Методы конвертации

// FromDomainBarber конвертирует domain модель в DTO
func FromDomainBarber(b *domain.Barber) *BarberResponse {
	if b == nil {
		return nil
	}
	return &BarberResponse{
		ID:           b.ID,
		Name:         b.DisplayName(),
		FirstName:    b.FirstName,
		LastName:     b.LastName,
		WorkingStart: b.WorkingStart.String(),
		WorkingEnd:   b.WorkingEnd.String(),
	}
}

// FromDomainBarberList конвертирует список барберов в DTO
func FromDomainBarberList(barbers []*domain.Barber) *BarberListResponse {
	resp := &BarberListResponse{
		Barbers: make([]BarberResponse, 0, len(barbers)),
	}
	for _, barber := range barbers {
		if barberResp := FromDomainBarber(barber); barberResp != nil {
			resp.Barbers = append(resp.Barbers, *barberResp)
		}
	}
	return resp
}

// FromDomainWorkingHours конвертирует рабочие часы в DTO
func FromDomainWorkingHours(h *domain.WorkingHours) *WorkingHoursResponse {
	if h == nil {
		return nil
	}
	return &WorkingHoursResponse{
		BarberID:  h.BarberID,
		StartTime: h.StartTime.String(),
		EndTime:   h.EndTime.String(),
	}
}
