package notification

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wellside/barber-booking/internal/domain"
)

// QueueSettings параметры постановки задач в asynq
type QueueSettings struct {
	Queue       string
	MaxRetry    int
	TaskTimeout time.Duration
}

// Dispatcher принимает события бронирований и превращает их в задачи на отправку писем
// Publish никогда не блокирует и не возвращает ошибок: уведомления не влияют на бронирование
type Dispatcher struct {
	bookings BookingReader
	enqueuer Enqueuer
	settings Settings
	queue    QueueSettings
	events   chan domain.BookingEvent
	stopped  atomic.Bool
	metrics  Metrics
	logger   Logger
}

// NewDispatcher создаёт диспетчер с буфером на bufferSize событий
func NewDispatcher(
	bookings BookingReader,
	enqueuer Enqueuer,
	settings Settings,
	queue QueueSettings,
	bufferSize int,
	metrics Metrics,
	logger Logger,
) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Dispatcher{
		bookings: bookings,
		enqueuer: enqueuer,
		settings: settings,
		queue:    queue,
		events:   make(chan domain.BookingEvent, bufferSize),
		metrics:  metrics,
		logger:   logger,
	}
}

// Publish отдаёт событие диспетчеру. При переполненном буфере или после
// остановки Run событие теряется с записью в лог
func (d *Dispatcher) Publish(event domain.BookingEvent) {
	if d.stopped.Load() {
		d.logger.Warn("Publish: dispatcher stopped, dropping %s event for booking=%s", event.Kind, event.BookingID)
		return
	}
	select {
	case d.events <- event:
	default:
		d.logger.Warn("Publish: buffer full, dropping %s event for booking=%s", event.Kind, event.BookingID)
	}
}

// Run обрабатывает события до отмены ctx, после чего дообрабатывает накопленный буфер
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Notification dispatcher started")
	for {
		select {
		case event := <-d.events:
			d.handle(ctx, event)
		case <-ctx.Done():
			d.stopped.Store(true)
			d.drain(context.WithoutCancel(ctx))
			d.logger.Info("Notification dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.events:
			d.handle(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, event domain.BookingEvent) {
	details, err := d.bookings.GetDetailsByID(ctx, event.BookingID)
	if err != nil {
		d.logger.Error("Dispatch: failed to load booking=%s for %s email: %v", event.BookingID, event.Kind, err)
		return
	}

	for _, req := range Compose(details, event.Kind, d.settings) {
		err := d.enqueue(ctx, &req)
		if d.metrics != nil {
			d.metrics.RecordNotificationEnqueued(string(req.Event), string(req.Audience), err)
		}
		if err != nil {
			d.logger.Error("Dispatch: failed to enqueue %s email for booking=%s audience=%s: %v",
				req.Event, event.BookingID, req.Audience, err)
			continue
		}
		d.logger.Info("Dispatch: enqueued %s email for booking=%s audience=%s", req.Event, event.BookingID, req.Audience)
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, req *Request) error {
	opts := []asynq.Option{asynq.MaxRetry(d.queue.MaxRetry)}
	if d.queue.Queue != "" {
		opts = append(opts, asynq.Queue(d.queue.Queue))
	}
	if d.queue.TaskTimeout > 0 {
		opts = append(opts, asynq.Timeout(d.queue.TaskTimeout))
	}

	task, err := NewEmailTask(req, opts...)
	if err != nil {
		return err
	}
	_, err = d.enqueuer.EnqueueContext(ctx, task)
	return err
}
