package notification

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeBookingEmail тип задачи отправки письма о бронировании
const TypeBookingEmail = "booking:email"

// NewEmailTask упаковывает письмо в задачу asynq
func NewEmailTask(req *Request, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingEmail, payload, opts...), nil
}
