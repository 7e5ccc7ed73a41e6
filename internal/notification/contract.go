package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/integrations/resend"
)

// BookingReader читает бронирование вместе с данными клиента, барбера и услуги
type BookingReader interface {
	GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error)
}

// Enqueuer ставит задачи в очередь (реализуется *asynq.Client)
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ProfileReader отдаёт адреса пользователей с заданной ролью
type ProfileReader interface {
	GetEmailsByRole(ctx context.Context, role domain.Role) ([]string, error)
}

// EmailSender отправляет письмо (реализуется resend.Client)
type EmailSender interface {
	Send(ctx context.Context, email *resend.SendRequest) (*resend.SendResponse, error)
}

// Metrics метрики уведомлений
type Metrics interface {
	RecordNotificationEnqueued(event, audience string, err error)
	RecordNotificationSent(audience string, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
