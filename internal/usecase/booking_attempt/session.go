package booking_attempt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
)

// Session одна попытка бронирования в grace-периоде.
//
// Состояния: counting -> confirming -> confirmed|error, либо counting -> cancelled.
// Истечение таймера и явное подтверждение идут через один вход finalize,
// повторный вызов после выхода из counting ничего не делает
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	ctx       context.Context
	identity  *auth.Identity
	selection domain.Selection
	startedAt time.Time
	duration  time.Duration

	phase      Phase
	suspended  bool
	timer      Timer
	result     *create_booking.Response
	err        error
	finishedAt time.Time
	done       chan struct{}

	clock     Clock
	committer Committer
	onPhase   func(s *Session, phase Phase)
	logger    Logger
}

type sessionConfig struct {
	id        uuid.UUID
	ctx       context.Context
	identity  *auth.Identity
	selection domain.Selection
	startedAt time.Time
	duration  time.Duration
	clock     Clock
	committer Committer
	onPhase   func(s *Session, phase Phase)
	logger    Logger
}

func newSession(cfg sessionConfig) *Session {
	return &Session{
		id:        cfg.id,
		ctx:       auth.WithIdentity(cfg.ctx, cfg.identity),
		identity:  cfg.identity,
		selection: cfg.selection,
		startedAt: cfg.startedAt,
		duration:  cfg.duration,
		phase:     PhaseCounting,
		suspended: true,
		done:      make(chan struct{}),
		clock:     cfg.clock,
		committer: cfg.committer,
		onPhase:   cfg.onPhase,
		logger:    cfg.logger,
	}
}

// ID идентификатор попытки
func (s *Session) ID() uuid.UUID {
	return s.id
}

// CustomerID владелец попытки
func (s *Session) CustomerID() uuid.UUID {
	return s.identity.UserID
}

// Done закрывается, когда попытка переходит в терминальную фазу
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancel отменяет попытку. Возможна только в фазе counting
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.phase != PhaseCounting {
		phase := s.phase
		s.mu.Unlock()
		s.logger.Warn("BookingAttempt %s: cancel rejected in phase %s", s.id, phase)
		return ErrNotCancellable
	}

	s.stopTimerLocked()
	s.phase = PhaseCancelled
	s.finishedAt = s.clock.Now()
	close(s.done)
	s.mu.Unlock()

	s.logger.Info("BookingAttempt %s: cancelled by customer=%s", s.id, s.identity.UserID)
	s.emit(PhaseCancelled)
	return nil
}

// Confirm подтверждает попытку досрочно и ждёт результата
func (s *Session) Confirm(ctx context.Context) (*Snapshot, error) {
	s.finalize()

	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	snapshot := s.Snapshot()
	if snapshot.Phase == PhaseCancelled {
		return snapshot, ErrAttemptCancelled
	}
	return snapshot, nil
}

// Suspend останавливает таймер, не меняя фазу.
// Отметка startedAt сохраняется, поэтому Resume учтёт всё прошедшее время
func (s *Session) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCounting || s.suspended {
		return
	}
	s.stopTimerLocked()
	s.suspended = true
}

// Resume пересчитывает остаток от startedAt. Если grace-период уже истёк,
// бронирование фиксируется сразу, иначе таймер взводится на остаток
func (s *Session) Resume() {
	s.mu.Lock()
	if s.phase != PhaseCounting {
		s.mu.Unlock()
		return
	}

	remaining := Remaining(s.clock.Now(), s.startedAt, s.duration)
	if remaining <= 0 {
		s.stopTimerLocked()
		s.mu.Unlock()
		s.finalize()
		return
	}

	if s.suspended {
		s.timer = s.clock.AfterFunc(remaining, s.finalize)
		s.suspended = false
	}
	s.mu.Unlock()
}

// finalize единственная точка фиксации
func (s *Session) finalize() {
	s.mu.Lock()
	if s.phase != PhaseCounting {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.phase = PhaseConfirming
	s.mu.Unlock()

	s.emit(PhaseConfirming)
	s.logger.Info("BookingAttempt %s: finalizing for customer=%s", s.id, s.identity.UserID)

	resp, err := s.committer.Execute(s.ctx, &create_booking.Request{Selection: s.selection})

	s.mu.Lock()
	s.finishedAt = s.clock.Now()
	if err != nil {
		s.phase = PhaseError
		s.err = err
	} else {
		s.phase = PhaseConfirmed
		s.result = resp
	}
	phase := s.phase
	close(s.done)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("BookingAttempt %s: finalize failed: %v", s.id, err)
	} else {
		s.logger.Info("BookingAttempt %s: confirmed booking id=%s", s.id, resp.BookingID)
	}
	s.emit(phase)
}

// Snapshot текущее состояние попытки
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	snapshot := &Snapshot{
		AttemptID:  s.id,
		CustomerID: s.identity.UserID,
		Phase:      s.phase,
		Selection:  s.selection,
		StartedAt:  s.startedAt,
		Duration:   s.duration,
		Booking:    s.result,
		Err:        s.err,
	}

	if s.phase.IsTerminal() {
		finished := s.finishedAt
		snapshot.FinishedAt = &finished
		now = finished
	}

	snapshot.Remaining = Remaining(now, s.startedAt, s.duration)
	snapshot.Elapsed = s.duration - snapshot.Remaining
	snapshot.Progress = Progress(now, s.startedAt, s.duration)
	if s.phase != PhaseCounting && s.phase != PhaseCancelled {
		snapshot.Remaining = 0
		snapshot.Progress = 1
	}

	return snapshot
}

func (s *Session) record() *domain.AttemptRecord {
	return &domain.AttemptRecord{
		ID:          s.id,
		CustomerID:  s.identity.UserID,
		Role:        s.identity.Role,
		Email:       s.identity.Email,
		AuthExpires: s.identity.ExpiresAt,
		Selection:   s.selection,
		StartedAt:   s.startedAt,
		Duration:    s.duration,
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) emit(phase Phase) {
	if s.onPhase != nil {
		s.onPhase(s, phase)
	}
}
