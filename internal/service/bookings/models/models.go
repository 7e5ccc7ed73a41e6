package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetMyBookingsRequest запрос на получение истории бронирований текущего клиента
type GetMyBookingsRequest struct {
	Status *string `json:"status,omitempty"`
}

// GetBarberBookingsRequest запрос на получение бронирований барбера
type GetBarberBookingsRequest struct {
	BarberID        uuid.UUID `json:"barberId"`
	StartDate       time.Time `json:"startDate"` // первый день периода
	EndDate         time.Time `json:"endDate"`   // последний день периода включительно
	IncludeInactive bool      `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр. Даты берутся в часовом поясе бизнеса
func (r *GetBarberBookingsRequest) ToDomainFilter(loc *time.Location) (domain.BarberBookingsFilter, error) {
	from := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, loc)
	last := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, loc)
	if last.Before(from) {
		return domain.BarberBookingsFilter{}, errors.New("endDate is before startDate")
	}

	return domain.BarberBookingsFilter{
		BarberID:        r.BarberID,
		From:            from,
		To:              last.AddDate(0, 0, 1),
		IncludeInactive: r.IncludeInactive,
	}, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingRef string    `json:"bookingRef"`
	CustomerID uuid.UUID `json:"customerId"`
	BarberID   uuid.UUID `json:"barberId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`

	// Подписи в часовом поясе бизнеса
	DateLabel string `json:"dateLabel"` // "Friday, 14 March 2025"
	TimeLabel string `json:"timeLabel"` // "2:00 PM - 3:00 PM"

	// Денормализованные данные
	ServiceName  string  `json:"serviceName,omitempty"`
	ServicePrice float64 `json:"servicePrice,omitempty"`
	BarberName   string  `json:"barberName,omitempty"`
	CustomerName string  `json:"customerName,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, loc *time.Location) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		BookingRef: b.BookingRef,
		CustomerID: b.CustomerID,
		BarberID:   b.BarberID,
		ServiceID:  b.ServiceID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt,
		Status:     string(b.Status),
		DateLabel:  b.StartAt.In(loc).Format(domain.LabelDateFormat),
		TimeLabel:  domain.SlotLabel(b.StartAt, b.EndAt, loc),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainDetails конвертирует бронирование с деталями в DTO
func FromDomainDetails(d *domain.BookingDetails, loc *time.Location) *BookingResponse {
	if d == nil {
		return nil
	}

	resp := FromDomainBooking(&d.Booking, loc)
	resp.ServiceName = d.ServiceName
	resp.ServicePrice = d.ServicePrice
	resp.BarberName = d.BarberName
	resp.CustomerName = d.CustomerName
	return resp
}

// FromDomainDetailsList конвертирует список бронирований в DTO
func FromDomainDetailsList(bookings []*domain.BookingDetails, loc *time.Location) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainDetails(booking, loc); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
