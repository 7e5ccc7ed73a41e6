package resend

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("resend client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Resend
	ErrInvalidResponse = errors.New("resend client: invalid response")

	// ErrRejected возвращается, когда Resend отклонил письмо (4xx кроме 429)
	// Повторная отправка того же письма не поможет
	ErrRejected = errors.New("resend client: email rejected")

	// ErrUnavailable возвращается, когда circuit breaker разомкнут
	ErrUnavailable = errors.New("resend client: service unavailable")
)
