package booking_attempt

import "time"

// Timer отменяемый таймер
type Timer interface {
	Stop() bool
}

// Clock источник времени и таймеров для grace-сессий
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock системные часы
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Remaining возвращает остаток grace-периода.
// Считается только по абсолютным отметкам времени, поэтому одинаково работает
// после приостановки процесса и после перезапуска
func Remaining(now, startedAt time.Time, duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		return duration
	}
	if elapsed >= duration {
		return 0
	}
	return duration - elapsed
}

// Progress доля прошедшего grace-периода в диапазоне [0, 1]
func Progress(now, startedAt time.Time, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	remaining := Remaining(now, startedAt, duration)
	return float64(duration-remaining) / float64(duration)
}
