package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AttemptRecord durable snapshot of a booking attempt in its grace period.
// Позволяет продолжить попытку после перезапуска процесса
type AttemptRecord struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Role        Role
	Email       string
	AuthExpires time.Time
	Selection   Selection
	StartedAt   time.Time
	Duration    time.Duration
}

// ErrAttemptRecordNotFound возвращается хранилищем снимков, если попытки нет
var ErrAttemptRecordNotFound = errors.New("domain: attempt record not found")
