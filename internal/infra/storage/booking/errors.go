package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotOverlap возвращается, когда интервал пересекается с активным бронированием
	// того же барбера (нарушение exclusion constraint bookings_no_overlap)
	ErrSlotOverlap = errors.New("booking.repository: interval overlaps an active booking")

	// ErrActiveBookingExists возвращается, когда у клиента уже есть активное бронирование
	// (нарушение уникального индекса bookings_one_active_per_customer)
	ErrActiveBookingExists = errors.New("booking.repository: customer already has an active booking")

	// ErrBookingNotActive возвращается при попытке отменить неактивное бронирование
	ErrBookingNotActive = errors.New("booking.repository: booking is not active")

	// ErrStatusChanged возвращается, когда бронирования нет или его статус
	// успел смениться до обновления
	ErrStatusChanged = errors.New("booking.repository: booking status has changed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
