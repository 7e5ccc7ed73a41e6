package handlers

import (
	"errors"
	"net/http"

	"github.com/wellside/barber-booking/internal/usecase/create_booking"
	"github.com/wellside/barber-booking/internal/usecase/get_available_slots"
)

// Коды ошибок бронирования
const (
	CodeConfigurationError     = "configuration_error"
	CodeDataAccessError        = "data_access_error"
	CodeIncompleteSelection    = "incomplete_selection"
	CodeAuthenticationRequired = "authentication_required"
	CodeDuplicateActiveBooking = "duplicate_active_booking"
	CodeSlotConflict           = "slot_conflict"
)

const (
	msgConfiguration   = "расписание барбера не настроено, попробуйте позже"
	msgDataAccess      = "не удалось получить данные, попробуйте ещё раз"
	msgIncomplete      = "выберите услугу, барбера, дату и время"
	msgAuthentication  = "требуется авторизация"
	msgDuplicateActive = "у вас уже есть активное бронирование"
	msgSlotConflict    = "выбранное время уже занято, выберите другой слот"
)

// BookingError HTTP представление ошибки бронирования
type BookingError struct {
	Status  int
	Code    string
	Message string
}

// ClassifyBookingError сопоставляет ошибку бронирования статусу и коду.
// Для ошибок вне таксономии возвращает false
func ClassifyBookingError(err error) (BookingError, bool) {
	switch {
	case err == nil:
		return BookingError{}, false
	case errors.Is(err, get_available_slots.ErrConfiguration), errors.Is(err, create_booking.ErrConfiguration):
		return BookingError{http.StatusServiceUnavailable, CodeConfigurationError, msgConfiguration}, true
	case errors.Is(err, get_available_slots.ErrDataAccess), errors.Is(err, create_booking.ErrDataAccess):
		return BookingError{http.StatusServiceUnavailable, CodeDataAccessError, msgDataAccess}, true
	case errors.Is(err, create_booking.ErrIncompleteSelection):
		return BookingError{http.StatusUnprocessableEntity, CodeIncompleteSelection, msgIncomplete}, true
	case errors.Is(err, create_booking.ErrAuthentication):
		return BookingError{http.StatusUnauthorized, CodeAuthenticationRequired, msgAuthentication}, true
	case errors.Is(err, create_booking.ErrDuplicateActiveBooking):
		return BookingError{http.StatusConflict, CodeDuplicateActiveBooking, msgDuplicateActive}, true
	case errors.Is(err, create_booking.ErrSlotConflict):
		return BookingError{http.StatusConflict, CodeSlotConflict, msgSlotConflict}, true
	}
	return BookingError{}, false
}

// RespondBookingError пишет ошибку бронирования. Возвращает false, если ошибка не из таксономии
func RespondBookingError(w http.ResponseWriter, err error) bool {
	be, ok := ClassifyBookingError(err)
	if !ok {
		return false
	}
	RespondErrorCode(w, be.Status, be.Code, be.Message)
	return true
}
