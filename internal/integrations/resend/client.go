package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Settings параметры клиента
type Settings struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// MaxFailures подряд идущих ошибок до размыкания
	MaxFailures uint32
	// OpenTimeout сколько breaker остаётся разомкнутым
	OpenTimeout time.Duration
}

// Client клиент для Resend Email API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*SendResponse]
	log        Logger
}

// NewClient создает новый экземпляр клиента Resend
func NewClient(settings Settings, log Logger) *Client {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}

	c := &Client{
		baseURL: settings.BaseURL,
		apiKey:  settings.APIKey,
		httpClient: &http.Client{
			Timeout: settings.Timeout,
		},
		log: log,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*SendResponse](gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		// Отклонённое письмо не говорит о недоступности Resend
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("Circuit breaker %s state changed: %s -> %s", name, from.String(), to.String())
		},
	})

	return c
}

// Send отправляет письмо
func (c *Client) Send(ctx context.Context, email *SendRequest) (*SendResponse, error) {
	resp, err := c.breaker.Execute(func() (*SendResponse, error) {
		return c.send(ctx, email)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}

	c.log.Info("Email sent via Resend: id=%s, to=%d recipients", resp.ID, len(email.To))
	return resp, nil
}

func (c *Client) send(ctx context.Context, email *SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	default:
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return nil, fmt.Errorf("%w: status code %d", ErrRejected, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrRejected, errResp.Name, errResp.Message)
	}

	// Парсим ответ
	var sent SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &sent, nil
}
