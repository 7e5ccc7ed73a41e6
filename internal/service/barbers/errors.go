package barbers

import "errors"

var (
	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("barber not found")

	// ErrWorkingHoursNotSet возвращается, когда у барбера не заданы рабочие часы
	ErrWorkingHoursNotSet = errors.New("working hours not set")

	// ErrUnauthenticated возвращается, когда нет пользователя или его сессия истекла
	ErrUnauthenticated = errors.New("authentication required")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
