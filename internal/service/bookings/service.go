package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	bookingRepo "github.com/wellside/barber-booking/internal/infra/storage/booking"
	"github.com/wellside/barber-booking/internal/service/bookings/models"
)

// Settings бизнес-параметры сервиса
type Settings struct {
	Location           *time.Location
	CancellationCutoff time.Duration
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	identity     IdentityProvider
	notifier     Notifier
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	identity IdentityProvider,
	notifier Notifier,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		identity:     identity,
		notifier:     notifier,
		metrics:      metrics,
		settings:     settings,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, барбер и администратор видят любое
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	identity, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, identity.UserID)

	details, err := s.bookingRepo.GetDetailsByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !canAccess(identity, &details.Booking) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", identity.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainDetails(details, s.settings.Location), nil
}

// GetActive получает ближайшее активное бронирование текущего клиента
func (s *Service) GetActive(ctx context.Context) (*models.BookingResponse, error) {
	identity, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetActive: fetching active booking for customer=%s", identity.UserID)

	details, err := s.bookingRepo.GetUpcomingByCustomer(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Info("GetActive: customer=%s has no active booking", identity.UserID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetActive: repository error for customer=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: GetActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDetails(details, s.settings.Location), nil
}

// GetMyBookings получает историю бронирований текущего клиента
// Опционально фильтрует по статусу
func (s *Service) GetMyBookings(ctx context.Context, req *models.GetMyBookingsRequest) (*models.BookingListResponse, error) {
	identity, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetMyBookings: fetching bookings for customer=%s, status=%v", identity.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetMyBookings: invalid status=%s for customer=%s", *req.Status, identity.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, identity.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetMyBookings: repository error for customer=%s: %v", identity.UserID, err)
		return nil, fmt.Errorf("%w: GetMyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMyBookings: successfully fetched %d bookings for customer=%s", len(bookings), identity.UserID)
	return models.FromDomainDetailsList(bookings, s.settings.Location), nil
}

// GetBarberBookings получает бронирования барбера за период
// Барбер видит только своё расписание, администратор видит любое
func (s *Service) GetBarberBookings(ctx context.Context, req *models.GetBarberBookingsRequest) (*models.BookingListResponse, error) {
	identity, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetBarberBookings: fetching bookings for barber=%s, period=%s to %s by user=%s",
		req.BarberID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), identity.UserID)

	if !canManageBarber(identity, req.BarberID) {
		s.logger.Warn("GetBarberBookings: user=%s has no access to barber=%s", identity.UserID, req.BarberID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter(s.settings.Location)
	if err != nil {
		s.logger.Warn("GetBarberBookings: invalid filter for barber=%s: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetDetailsByBarberInRange(ctx, filter)
	if err != nil {
		s.logger.Error("GetBarberBookings: repository error for barber=%s: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: GetBarberBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberBookings: successfully fetched %d bookings for barber=%s", len(bookings), req.BarberID)
	return models.FromDomainDetailsList(bookings, s.settings.Location), nil
}

// Cancel отменяет бронирование
//
// Клиент отменяет своё бронирование, барбер свои записи, администратор любые.
// Отмена возможна, пока до начала визита остаётся больше CancellationCutoff.
// Уведомление об отмене отправляется в фоне, его ошибка отмену не откатывает
func (s *Service) Cancel(ctx context.Context, bookingID uuid.UUID) (*models.BookingResponse, error) {
	resp, outcome, err := s.cancel(ctx, bookingID)
	if s.metrics != nil {
		s.metrics.RecordBookingCancel(outcome)
	}
	return resp, err
}

func (s *Service) cancel(ctx context.Context, bookingID uuid.UUID) (*models.BookingResponse, string, error) {
	identity, err := s.current(ctx)
	if err != nil {
		return nil, outcomeDenied, err
	}

	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, identity.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", bookingID)
			return nil, outcomeError, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, outcomeError, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !canAccess(identity, booking) {
		s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%s", identity.UserID, bookingID)
		return nil, outcomeDenied, ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, outcomeNotCancel, ErrCannotCancel
	}

	now := s.timeProvider.Now()
	deadline := booking.StartAt.Add(-s.settings.CancellationCutoff)
	if !now.Before(deadline) {
		s.logger.Warn("Cancel: booking id=%s starts at %s, cancellation closed at %s",
			bookingID, booking.StartAt.Format(time.RFC3339), deadline.Format(time.RFC3339))
		return nil, outcomeWindowClosed, ErrCancellationWindowClosed
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, now); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotActive) {
			s.logger.Warn("Cancel: booking id=%s changed status during cancellation", bookingID)
			return nil, outcomeNotCancel, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, outcomeError, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	if s.notifier != nil {
		s.notifier.Publish(domain.BookingEvent{Kind: domain.EventCancellation, BookingID: bookingID})
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return models.FromDomainBooking(booking, s.settings.Location), outcomeCancelled, nil
}

// UpdateStatus обновляет статус бронирования
// Доступно барберу этого бронирования и администратору.
// Отмена выполняется только через Cancel, отменённое бронирование не меняется
func (s *Service) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *models.UpdateStatusRequest) error {
	identity, err := s.current(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by user=%s",
		bookingID, req.Status, identity.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil || newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !canManageBarber(identity, booking.BarberID) {
		s.logger.Warn("UpdateStatus: user=%s has no access to booking id=%s", identity.UserID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Warn("UpdateStatus: booking id=%s is cancelled", bookingID)
		return fmt.Errorf("%w: booking is cancelled", ErrInvalidStatus)
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%s",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: transition %s -> %s is not allowed", ErrInvalidStatus, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusChanged):
			s.logger.Warn("UpdateStatus: booking id=%s changed status during update", bookingID)
			return fmt.Errorf("%w: status is no longer %s", ErrStatusConflict, booking.Status)
		case errors.Is(err, bookingRepo.ErrSlotOverlap), errors.Is(err, bookingRepo.ErrActiveBookingExists):
			s.logger.Warn("UpdateStatus: constraint violation for booking id=%s: %v", bookingID, err)
			return fmt.Errorf("%w: %v", ErrStatusConflict, err)
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

func (s *Service) current(ctx context.Context) (*auth.Identity, error) {
	identity, err := s.identity.Current(ctx)
	if err != nil {
		s.logger.Warn("bookings: no authenticated user: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return identity, nil
}

// canAccess владелец бронирования, его барбер или администратор
func canAccess(identity *auth.Identity, booking *domain.Booking) bool {
	if booking.CustomerID == identity.UserID {
		return true
	}
	return canManageBarber(identity, booking.BarberID)
}

// canManageBarber администратор или сам барбер
func canManageBarber(identity *auth.Identity, barberID uuid.UUID) bool {
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleBarber:
		return identity.UserID == barberID
	default:
		return false
	}
}
