package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wellside/barber-booking/internal/domain"
	bookingRepo "github.com/wellside/barber-booking/internal/infra/storage/booking"
)

// UseCase use case фиксации бронирования (шаги finalize после окончания grace-периода)
type UseCase struct {
	bookingRepo  BookingRepository
	barberRepo   BarberRepository
	identity     IdentityProvider
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	barberRepo BarberRepository,
	identity IdentityProvider,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
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
		identity:     identity,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
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

// Execute фиксирует бронирование
//
// Порядок: проверка выбора, проверка пользователя, проверка слота по расписанию
// барбера, проверка отсутствия активного бронирования, вставка. Пересечения с чужими
// бронированиями отсекает ограничение БД, поэтому из двух одновременных попыток
// на один слот успешна ровно одна.
// Ни один шаг не повторяется автоматически
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	result, err := uc.execute(ctx, req)
	if uc.metrics != nil {
		uc.metrics.RecordBookingCommit(outcomeOf(err))
	}
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Повторная проверка выбора
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	sel := req.Selection

	// 2. Пользователь
	identity, err := uc.identity.Current(ctx)
	if err != nil {
		uc.logger.Warn("CreateBooking: no authenticated customer: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	uc.logger.Info("CreateBooking: customer=%s, barber=%s, service=%s, start=%s",
		identity.UserID, sel.Barber.ID, sel.Service.ID, sel.Slot.StartAt.Format("2006-01-02T15:04Z07:00"))

	// 3. Слот должен относиться к выбранной дате, попадать в горизонт и еще не начаться
	if err := validateSlotTiming(sel, uc.timeProvider.Now(), uc.settings); err != nil {
		uc.logger.Warn("CreateBooking: slot rejected for customer=%s: %v", identity.UserID, err)
		return nil, err
	}

	var created *domain.Booking

	// 4-6. Сверка с сеткой слотов, проверка активного бронирования и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		hours, err := uc.barberRepo.GetWorkingHours(txCtx, sel.Barber.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get working hours for barber=%s: %v", sel.Barber.ID, err)
			return fmt.Errorf("%w: GetWorkingHours: %v", ErrConfiguration, err)
		}
		if err := validateSlotOnGrid(sel, hours, uc.settings); err != nil {
			uc.logger.Warn("CreateBooking: slot rejected for barber=%s: %v", sel.Barber.ID, err)
			return err
		}

		active, err := uc.bookingRepo.GetActiveByCustomer(txCtx, identity.UserID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check active bookings for customer=%s: %v", identity.UserID, err)
			return fmt.Errorf("%w: GetActiveByCustomer: %v", ErrDataAccess, err)
		}
		if len(active) > 0 {
			uc.logger.Warn("CreateBooking: customer=%s already has active booking id=%s", identity.UserID, active[0].ID)
			return ErrDuplicateActiveBooking
		}

		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CustomerID: identity.UserID,
			BarberID:   sel.Barber.ID,
			ServiceID:  sel.Service.ID,
			StartAt:    sel.Slot.StartAt,
			EndAt:      sel.Slot.EndAt,
			Status:     domain.StatusScheduled,
		})
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrSlotOverlap):
				uc.logger.Warn("CreateBooking: slot conflict for barber=%s at %s", sel.Barber.ID, sel.Slot.Label)
				return ErrSlotConflict
			case errors.Is(err, bookingRepo.ErrActiveBookingExists):
				uc.logger.Warn("CreateBooking: concurrent active booking for customer=%s", identity.UserID)
				return ErrDuplicateActiveBooking
			default:
				uc.logger.Error("CreateBooking: failed to insert booking: %v", err)
				return fmt.Errorf("%w: Create: %v", ErrDataAccess, err)
			}
		}

		created = booking
		return nil
	})
	if err != nil {
		if isTaxonomyError(err) {
			return nil, err
		}
		// Ошибки begin/commit транзакции
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	uc.logger.Info("CreateBooking: booking id=%s ref=%s created", created.ID, created.BookingRef)

	// 7. Уведомления отправляются в фоне и не влияют на результат
	if uc.notifier != nil {
		uc.notifier.Publish(domain.BookingEvent{Kind: domain.EventConfirmation, BookingID: created.ID})
	}

	return &Response{
		BookingID:  created.ID,
		BookingRef: created.BookingRef,
		CustomerID: created.CustomerID,
		BarberID:   created.BarberID,
		ServiceID:  created.ServiceID,
		StartAt:    created.StartAt,
		EndAt:      created.EndAt,
		Status:     created.Status,
		CreatedAt:  created.CreatedAt,
	}, nil
}

func isTaxonomyError(err error) bool {
	return errors.Is(err, ErrIncompleteSelection) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrDuplicateActiveBooking) ||
		errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrDataAccess)
}
