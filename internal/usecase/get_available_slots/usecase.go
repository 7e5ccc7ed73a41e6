package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/wellside/barber-booking/internal/domain"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	barberRepo   BarberRepository
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	barberRepo BarberRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Unit <= 0 {
		settings.Unit = domain.DefaultSlotUnit
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		barberRepo:   barberRepo,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
// Никогда не возвращает частичный список: при любой ошибке чтения слотов нет вовсе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateHorizon(req.Date, now, uc.settings.Location, uc.settings.MaxDaysAhead); err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}

	date := req.Date.Format(domain.DateFormat)
	uc.logger.Info("GetAvailableSlots: barber=%s, date=%s", req.BarberID, date)

	// 2. Рабочие часы барбера
	hours, err := uc.barberRepo.GetWorkingHours(ctx, req.BarberID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get working hours for barber=%s: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	// 3. Бронирования барбера за календарный день в часовом поясе бизнеса
	dayStart, dayEnd := DayBounds(req.Date, uc.settings.Location)
	bookings, err := uc.bookingRepo.GetByBarberInRange(ctx, domain.BarberBookingsFilter{
		BarberID: req.BarberID,
		From:     dayStart,
		To:       dayEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for barber=%s, date=%s: %v", req.BarberID, date, err)
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	// 4. Расчёт слотов
	slots, err := ComputeSlots(SlotInput{
		WorkingHours: hours,
		Break:        uc.settings.Break,
		Date:         req.Date,
		Location:     uc.settings.Location,
		Bookings:     bookings,
		Now:          now,
		Unit:         uc.settings.Unit,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots for barber=%s: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	uc.logger.Info("GetAvailableSlots: %d slots for barber=%s, date=%s (bookings=%d)",
		len(slots), req.BarberID, date, len(bookings))

	return &Response{
		BarberID: req.BarberID,
		Date:     req.Date,
		Slots:    slots,
	}, nil
}
