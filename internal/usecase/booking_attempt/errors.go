package booking_attempt

import (
	"errors"

	"github.com/wellside/barber-booking/internal/domain"
)

var (
	// ErrAttemptNotFound возвращается, если попытки нет или она принадлежит другому клиенту
	ErrAttemptNotFound = errors.New("booking_attempt: attempt not found")

	// ErrNotCancellable возвращается при отмене попытки, которая уже вышла из обратного отсчёта
	ErrNotCancellable = errors.New("booking_attempt: attempt can no longer be cancelled")

	// ErrAttemptCancelled возвращается при подтверждении отменённой попытки
	ErrAttemptCancelled = errors.New("booking_attempt: attempt was cancelled")

	// ErrSnapshotNotFound возвращается хранилищем, если снимка попытки нет
	ErrSnapshotNotFound = domain.ErrAttemptRecordNotFound
)
