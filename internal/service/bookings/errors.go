package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUnauthenticated возвращается, когда нет пользователя или его сессия истекла
	ErrUnauthenticated = errors.New("authentication required")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не в статусе scheduled
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationWindowClosed возвращается, когда до начала визита осталось меньше допустимого
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrStatusConflict возвращается, когда статус сменился параллельно или новый
	// статус нарушает ограничения бронирований
	ErrStatusConflict = errors.New("booking status conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// Исходы отмены для метрик
const (
	outcomeCancelled    = "cancelled"
	outcomeDenied       = "access_denied"
	outcomeNotCancel    = "not_cancellable"
	outcomeWindowClosed = "window_closed"
	outcomeError        = "error"
)
