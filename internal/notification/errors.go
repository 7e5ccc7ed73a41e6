package notification

import "errors"

var (
	// ErrInvalidPayload задача не содержит обязательных полей письма
	ErrInvalidPayload = errors.New("notification: invalid payload")

	// ErrNoRecipient не удалось определить адрес получателя
	ErrNoRecipient = errors.New("notification: no recipient")

	// ErrSend ошибка отправки письма
	ErrSend = errors.New("notification: send failed")
)
