package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrConfiguration возвращается, когда рабочие часы барбера отсутствуют,
	// не читаются или некорректны. Это не "нет свободных слотов"
	ErrConfiguration = errors.New("get_available_slots: barber schedule is not configured")

	// ErrDataAccess возвращается, когда не удалось прочитать бронирования.
	// Ошибка временная, запрос можно повторить
	ErrDataAccess = errors.New("get_available_slots: failed to read bookings")
)
