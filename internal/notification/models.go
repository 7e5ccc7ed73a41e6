package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/wellside/barber-booking/internal/domain"
)

const (
	// DefaultCustomerName обращение в письме клиенту, если имя не заполнено
	DefaultCustomerName = "there"
	// DefaultAdminCustomerName подпись клиента в письме администратору
	DefaultAdminCustomerName = "Customer"
)

// Request письмо одному адресату (клиенту или администраторам)
// Сериализуется в payload задачи booking:email
type Request struct {
	Event         domain.BookingEventKind `json:"event"`
	Audience      domain.Audience         `json:"audience"`
	BookingID     string                  `json:"bookingId"`
	BookingRef    string                  `json:"bookingRef,omitempty"`
	CustomerEmail string                  `json:"email,omitempty"`
	CustomerName  string                  `json:"customerName"`
	CustomerPhone string                  `json:"customerPhone,omitempty"`
	ServiceName   string                  `json:"services"`
	BarberName    string                  `json:"barberName"`
	DateLabel     string                  `json:"bookingDate"`
	TimeLabel     string                  `json:"bookingTime"`
	TotalPrice    string                  `json:"totalPrice"`
}

// Reference номер брони для письма: человекочитаемый код или ID
func (r *Request) Reference() string {
	if ref := strings.TrimSpace(r.BookingRef); ref != "" {
		return ref
	}
	return strings.TrimSpace(r.BookingID)
}

// Validate проверяет тип события, аудиторию и обязательные поля письма
func (r *Request) Validate() error {
	if r.Event != domain.EventConfirmation && r.Event != domain.EventCancellation {
		return fmt.Errorf("%w: unknown event %q", ErrInvalidPayload, r.Event)
	}
	if r.Audience != domain.AudienceCustomer && r.Audience != domain.AudienceAdmin {
		return fmt.Errorf("%w: unknown audience %q", ErrInvalidPayload, r.Audience)
	}

	fields := []struct {
		value string
		label string
	}{
		{r.Reference(), "booking reference"},
		{r.ServiceName, "service"},
		{r.BarberName, "barber name"},
		{r.DateLabel, "booking date"},
		{r.TimeLabel, "booking time"},
		{r.TotalPrice, "total price"},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidPayload, f.label)
		}
	}
	return nil
}

// Settings параметры формирования писем
type Settings struct {
	Location *time.Location
	Currency string
}

// Compose формирует письма клиенту и администраторам по одному событию
func Compose(details *domain.BookingDetails, kind domain.BookingEventKind, settings Settings) []Request {
	customerName := strings.TrimSpace(details.CustomerName)

	base := Request{
		Event:         kind,
		BookingID:     details.ID.String(),
		BookingRef:    details.BookingRef,
		CustomerName:  customerName,
		CustomerPhone: details.CustomerPhone,
		ServiceName:   details.ServiceName,
		BarberName:    details.BarberName,
		DateLabel:     details.StartAt.In(settings.Location).Format(domain.LabelDateFormat),
		TimeLabel:     domain.SlotLabel(details.StartAt, details.EndAt, settings.Location),
		TotalPrice:    domain.PriceLabel(settings.Currency, details.ServicePrice),
	}

	customer := base
	customer.Audience = domain.AudienceCustomer
	customer.CustomerEmail = details.CustomerEmail
	if customer.CustomerName == "" {
		customer.CustomerName = DefaultCustomerName
	}

	admin := base
	admin.Audience = domain.AudienceAdmin
	if admin.CustomerName == "" {
		admin.CustomerName = DefaultAdminCustomerName
	}

	return []Request{customer, admin}
}
