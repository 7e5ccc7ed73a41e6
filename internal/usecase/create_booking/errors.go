package create_booking

import "errors"

var (
	// ErrIncompleteSelection возвращается, когда не выбраны услуга, барбер, дата или слот,
	// либо слот не совпадает с сеткой расписания барбера на выбранную дату
	ErrIncompleteSelection = errors.New("create_booking: booking selection is incomplete")

	// ErrAuthentication возвращается, когда нет пользователя или его сессия истекла
	ErrAuthentication = errors.New("create_booking: customer is not authenticated")

	// ErrDuplicateActiveBooking возвращается, когда у клиента уже есть активное бронирование
	ErrDuplicateActiveBooking = errors.New("create_booking: customer already has an active booking")

	// ErrSlotConflict возвращается, когда интервал занят другим бронированием этого барбера
	// или уже начался
	ErrSlotConflict = errors.New("create_booking: slot was taken by another booking")

	// ErrConfiguration возвращается, когда рабочие часы барбера отсутствуют или некорректны
	ErrConfiguration = errors.New("create_booking: barber schedule is not configured")

	// ErrDataAccess возвращается при ошибке чтения или записи бронирований
	ErrDataAccess = errors.New("create_booking: failed to access bookings")
)

// Исходы финализации для метрик
const (
	OutcomeConfirmed    = "confirmed"
	OutcomeIncomplete   = "incomplete_selection"
	OutcomeUnauthorized = "authentication"
	OutcomeDuplicate    = "duplicate_active_booking"
	OutcomeSlotConflict = "slot_conflict"
	OutcomeConfig       = "configuration"
	OutcomeDataAccess   = "data_access"
)

// outcomeOf сопоставляет ошибку use case исходу для метрик
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, ErrIncompleteSelection):
		return OutcomeIncomplete
	case errors.Is(err, ErrAuthentication):
		return OutcomeUnauthorized
	case errors.Is(err, ErrDuplicateActiveBooking):
		return OutcomeDuplicate
	case errors.Is(err, ErrSlotConflict):
		return OutcomeSlotConflict
	case errors.Is(err, ErrConfiguration):
		return OutcomeConfig
	default:
		return OutcomeDataAccess
	}
}
