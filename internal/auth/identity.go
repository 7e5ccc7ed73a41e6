package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

var (
	// ErrUnauthenticated возвращается, если в контексте нет пользователя
	ErrUnauthenticated = errors.New("auth: no authenticated user")

	// ErrSessionExpired возвращается, если срок действия токена истёк
	ErrSessionExpired = errors.New("auth: session expired")
)

// Identity аутентифицированный пользователь
type Identity struct {
	UserID    uuid.UUID
	Role      domain.Role
	Email     string
	ExpiresAt time.Time
}

// IsStaff returns true for barbers and admins
func (i *Identity) IsStaff() bool {
	return i.Role.IsStaff()
}

type identityKey struct{}

// WithIdentity кладёт пользователя в контекст
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext достаёт пользователя из контекста
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok && identity != nil
}

// Provider отдаёт текущего пользователя и проверяет, что его сессия ещё действует
// Проверка срока нужна для отложенных операций: grace-сессия финализируется
// через несколько секунд после запроса, который её начал
type Provider struct {
	now func() time.Time
}

// NewProvider создаёт провайдер с системными часами
func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// NewProviderWithClock создаёт провайдер с заданными часами
func NewProviderWithClock(now func() time.Time) *Provider {
	return &Provider{now: now}
}

// Current возвращает пользователя из контекста
func (p *Provider) Current(ctx context.Context) (*Identity, error) {
	identity, ok := FromContext(ctx)
	if !ok || identity.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	if !identity.ExpiresAt.IsZero() && !p.now().Before(identity.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return identity, nil
}
