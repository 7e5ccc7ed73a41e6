package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/integrations/resend"
)

// WorkerSettings параметры отправки
type WorkerSettings struct {
	From string
	// AdminEmail используется, если в profiles нет ни одного администратора
	AdminEmail string
}

// EmailHandler обработчик задач booking:email
type EmailHandler struct {
	profiles ProfileReader
	sender   EmailSender
	settings WorkerSettings
	metrics  Metrics
	logger   Logger
}

// NewEmailHandler создаёт обработчик задач отправки писем
func NewEmailHandler(profiles ProfileReader, sender EmailSender, settings WorkerSettings, metrics Metrics, logger Logger) *EmailHandler {
	return &EmailHandler{
		profiles: profiles,
		sender:   sender,
		settings: settings,
		metrics:  metrics,
		logger:   logger,
	}
}

// ProcessTask реализует asynq.Handler
// Ошибки в данных задачи не ретраятся, ошибки доставки отдаются asynq на повтор
func (h *EmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var req Request
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		h.logger.Error("ProcessTask: invalid payload: %v", err)
		return fmt.Errorf("%w: %v: %w", ErrInvalidPayload, err, asynq.SkipRetry)
	}

	err := h.process(ctx, &req)
	if h.metrics != nil {
		h.metrics.RecordNotificationSent(string(req.Audience), err)
	}
	return err
}

func (h *EmailHandler) process(ctx context.Context, req *Request) error {
	if err := req.Validate(); err != nil {
		h.logger.Error("ProcessTask: booking=%s: %v", req.BookingID, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	to, err := h.recipients(ctx, req)
	if err != nil {
		h.logger.Error("ProcessTask: booking=%s audience=%s: %v", req.BookingID, req.Audience, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	subject, body := Render(req)
	_, err = h.sender.Send(ctx, &resend.SendRequest{
		From:    h.settings.From,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		if errors.Is(err, resend.ErrRejected) {
			h.logger.Error("ProcessTask: %s email for booking=%s rejected: %v", req.Event, req.BookingID, err)
			return fmt.Errorf("%w: %v: %w", ErrSend, err, asynq.SkipRetry)
		}
		h.logger.Warn("ProcessTask: %s email for booking=%s failed, will retry: %v", req.Event, req.BookingID, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	h.logger.Info("ProcessTask: %s email for booking=%s sent to %s", req.Event, req.BookingID, req.Audience)
	return nil
}

// recipients адрес клиента или адреса администраторов с запасным адресом из конфигурации
func (h *EmailHandler) recipients(ctx context.Context, req *Request) ([]string, error) {
	if req.Audience == domain.AudienceCustomer {
		email := strings.TrimSpace(req.CustomerEmail)
		if email == "" {
			return nil, fmt.Errorf("%w: customer email is empty", ErrNoRecipient)
		}
		return []string{email}, nil
	}

	emails, err := h.profiles.GetEmailsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		h.logger.Warn("ProcessTask: admin email lookup failed, using fallback: %v", err)
		emails = nil
	}

	to := make([]string, 0, len(emails))
	for _, email := range emails {
		if email = strings.TrimSpace(email); email != "" {
			to = append(to, email)
		}
	}
	if len(to) == 0 && strings.TrimSpace(h.settings.AdminEmail) != "" {
		to = append(to, strings.TrimSpace(h.settings.AdminEmail))
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no admin email configured", ErrNoRecipient)
	}
	return to, nil
}
