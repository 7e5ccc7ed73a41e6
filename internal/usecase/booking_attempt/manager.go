package booking_attempt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
)

// Manager реестр попыток бронирования.
// Каждая попытка принадлежит одному клиенту, общих таймеров у попыток нет
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	committer Committer
	identity  IdentityProvider
	store     SnapshotStore
	metrics   Metrics
	clock     Clock
	settings  Settings
	logger    Logger
}

// NewManager создает реестр попыток
func NewManager(committer Committer, identity IdentityProvider, settings Settings, logger Logger) *Manager {
	if settings.GracePeriod <= 0 {
		settings.GracePeriod = domain.DefaultGracePeriod
	}
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		committer: committer,
		identity:  identity,
		clock:     RealClock{},
		settings:  settings,
		logger:    logger,
	}
}

// WithClock устанавливает источник времени (для тестов)
func (m *Manager) WithClock(clock Clock) *Manager {
	m.clock = clock
	return m
}

// WithSnapshotStore включает сохранение незавершённых попыток
func (m *Manager) WithSnapshotStore(store SnapshotStore) *Manager {
	m.store = store
	return m
}

// WithMetrics включает счётчики фаз
func (m *Manager) WithMetrics(metrics Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Start начинает обратный отсчёт для полного выбора клиента
func (m *Manager) Start(ctx context.Context, selection domain.Selection) (*Snapshot, error) {
	if missing := selection.Missing(); len(missing) > 0 {
		m.logger.Warn("BookingAttempt: start rejected, missing %s", strings.Join(missing, ", "))
		return nil, fmt.Errorf("%w: missing %s", create_booking.ErrIncompleteSelection, strings.Join(missing, ", "))
	}

	identity, err := m.identity.Current(ctx)
	if err != nil {
		m.logger.Warn("BookingAttempt: start rejected, no authenticated customer: %v", err)
		return nil, fmt.Errorf("%w: %v", create_booking.ErrAuthentication, err)
	}

	session := m.newSession(uuid.New(), identity, selection, m.clock.Now(), m.settings.GracePeriod)

	if m.store != nil {
		if err := m.store.Save(ctx, session.record()); err != nil {
			// Попытка продолжается без сохранения, пережить перезапуск она не сможет
			m.logger.Warn("BookingAttempt %s: failed to save snapshot: %v", session.id, err)
		}
	}

	m.register(session)
	m.recordPhase(PhaseCounting)
	session.Resume()

	m.logger.Info("BookingAttempt %s: started for customer=%s, barber=%s, slot=%s, grace=%s",
		session.id, identity.UserID, selection.Barber.ID, selection.Slot.Label, m.settings.GracePeriod)

	return session.Snapshot(), nil
}

// Get возвращает состояние попытки. Попытка, сохранённая до перезапуска, продолжается
func (m *Manager) Get(ctx context.Context, attemptID uuid.UUID) (*Snapshot, error) {
	session, err := m.lookup(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// Cancel отменяет попытку в фазе counting
func (m *Manager) Cancel(ctx context.Context, attemptID uuid.UUID) (*Snapshot, error) {
	session, err := m.lookup(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if err := session.Cancel(); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

// Confirm фиксирует бронирование не дожидаясь конца обратного отсчёта
func (m *Manager) Confirm(ctx context.Context, attemptID uuid.UUID) (*Snapshot, error) {
	session, err := m.lookup(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	return session.Confirm(ctx)
}

// Resume пересчитывает таймер попытки по абсолютному времени старта
func (m *Manager) Resume(ctx context.Context, attemptID uuid.UUID) (*Snapshot, error) {
	session, err := m.lookup(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	session.Resume()
	return session.Snapshot(), nil
}

// SuspendAll останавливает таймеры всех попыток в обратном отсчёте.
// Вызывается при остановке процесса, снимки остаются в хранилище
func (m *Manager) SuspendAll() int {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	suspended := 0
	for _, s := range sessions {
		s.mu.Lock()
		counting := s.phase == PhaseCounting
		s.mu.Unlock()
		if counting {
			s.Suspend()
			suspended++
		}
	}
	return suspended
}

// WaitConfirming ждёт завершения попыток, уже начавших фиксацию.
// Возвращает число таких попыток; при истечении ctx возвращает ctx.Err(),
// незавершённые попытки продолжают работу
func (m *Manager) WaitConfirming(ctx context.Context) (int, error) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var confirming []*Session
	for _, s := range sessions {
		s.mu.Lock()
		if s.phase == PhaseConfirming {
			confirming = append(confirming, s)
		}
		s.mu.Unlock()
	}

	for _, s := range confirming {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return len(confirming), ctx.Err()
		}
	}
	return len(confirming), nil
}

// RestorePending поднимает попытки, сохранённые до перезапуска.
// Попытки с истёкшим grace-периодом фиксируются сразу
func (m *Manager) RestorePending(ctx context.Context) (int, error) {
	if m.store == nil {
		return 0, nil
	}

	ids, err := m.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("booking_attempt: RestorePending - list: %w", err)
	}

	restored := 0
	for _, id := range ids {
		if _, ok := m.get(id); ok {
			continue
		}

		record, err := m.store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSnapshotNotFound) {
				_ = m.store.Delete(ctx, id)
				continue
			}
			m.logger.Error("BookingAttempt %s: failed to load snapshot: %v", id, err)
			continue
		}

		session := m.restore(record)
		session.Resume()
		restored++
	}

	m.logger.Info("BookingAttempt: restored %d pending attempts", restored)
	return restored, nil
}

func (m *Manager) lookup(ctx context.Context, attemptID uuid.UUID) (*Session, error) {
	identity, err := m.identity.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", create_booking.ErrAuthentication, err)
	}

	session, ok := m.get(attemptID)
	if !ok {
		session, err = m.load(ctx, attemptID, identity.UserID)
		if err != nil {
			return nil, err
		}
	}

	if session.CustomerID() != identity.UserID {
		m.logger.Warn("BookingAttempt %s: access by customer=%s denied", attemptID, identity.UserID)
		return nil, ErrAttemptNotFound
	}

	return session, nil
}

// load продолжает попытку из хранилища, если процесс перезапускался
func (m *Manager) load(ctx context.Context, attemptID, customerID uuid.UUID) (*Session, error) {
	if m.store == nil {
		return nil, ErrAttemptNotFound
	}

	record, err := m.store.Load(ctx, attemptID)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			m.logger.Error("BookingAttempt %s: failed to load snapshot: %v", attemptID, err)
		}
		return nil, ErrAttemptNotFound
	}
	if record.CustomerID != customerID {
		return nil, ErrAttemptNotFound
	}

	session := m.restore(record)
	session.Resume()
	return session, nil
}

func (m *Manager) restore(record *domain.AttemptRecord) *Session {
	identity := &auth.Identity{
		UserID:    record.CustomerID,
		Role:      record.Role,
		Email:     record.Email,
		ExpiresAt: record.AuthExpires,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[record.ID]; ok {
		return existing
	}
	session := m.newSession(record.ID, identity, record.Selection, record.StartedAt, record.Duration)
	m.sessions[session.id] = session
	return session
}

func (m *Manager) newSession(id uuid.UUID, identity *auth.Identity, selection domain.Selection, startedAt time.Time, duration time.Duration) *Session {
	return newSession(sessionConfig{
		id:        id,
		ctx:       context.Background(),
		identity:  identity,
		selection: selection,
		startedAt: startedAt,
		duration:  duration,
		clock:     m.clock,
		committer: m.committer,
		onPhase:   m.onPhase,
		logger:    m.logger,
	})
}

func (m *Manager) onPhase(s *Session, phase Phase) {
	m.recordPhase(phase)
	if !phase.IsTerminal() {
		return
	}

	if m.store != nil {
		if err := m.store.Delete(context.Background(), s.id); err != nil {
			m.logger.Warn("BookingAttempt %s: failed to delete snapshot: %v", s.id, err)
		}
	}

	id := s.id
	m.clock.AfterFunc(m.settings.Retention, func() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	})
}

func (m *Manager) register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) recordPhase(phase Phase) {
	if m.metrics != nil {
		m.metrics.RecordGracePhase(string(phase))
	}
}
