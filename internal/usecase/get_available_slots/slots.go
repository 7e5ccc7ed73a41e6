package get_available_slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/wellside/barber-booking/internal/domain"
)

var (
	// errInvalidWorkingHours рабочие часы не позволяют построить день
	errInvalidWorkingHours = errors.New("invalid working hours")

	// errInvalidBreak перерыв задан некорректно
	errInvalidBreak = errors.New("invalid break window")

	// errInvalidUnit длительность слота не положительная
	errInvalidUnit = errors.New("slot unit must be positive")
)

// SlotInput входные данные расчёта слотов одного барбера на одну дату
type SlotInput struct {
	WorkingHours *domain.WorkingHours
	Break        domain.BreakWindow
	// Date календарная дата; используются только год, месяц и день
	Date     time.Time
	Location *time.Location
	// Bookings бронирования барбера; отменённые игнорируются
	Bookings []*domain.Booking
	Now      time.Time
	Unit     time.Duration
}

// ComputeSlots строит упорядоченный список свободных слотов
//
// Слоты идут от начала рабочего дня с шагом Unit, последний слот заканчивается
// не позже конца рабочего дня (неполный хвост отбрасывается). Слот исключается, если он
// пересекается с перерывом, пересекается с любым неотменённым бронированием
// или начинается не позже Now. Все интервалы полуоткрытые [start, end)
func ComputeSlots(in SlotInput) ([]domain.Slot, error) {
	if in.Unit <= 0 {
		return nil, errInvalidUnit
	}
	if in.WorkingHours == nil {
		return nil, fmt.Errorf("%w: not set", errInvalidWorkingHours)
	}
	if err := in.WorkingHours.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidWorkingHours, err)
	}
	if err := in.Break.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBreak, err)
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	workStart, err := in.WorkingHours.StartTime.On(in.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidWorkingHours, err)
	}
	workEnd, err := in.WorkingHours.EndTime.On(in.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidWorkingHours, err)
	}
	breakStart, err := in.Break.Start.On(in.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBreak, err)
	}
	breakEnd, err := in.Break.End.On(in.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBreak, err)
	}

	busy := activeIntervals(in.Bookings)

	slots := make([]domain.Slot, 0)
	for start := workStart; !start.Add(in.Unit).After(workEnd); start = start.Add(in.Unit) {
		end := start.Add(in.Unit)

		if domain.Overlaps(start, end, breakStart, breakEnd) {
			continue
		}
		if overlapsAny(start, end, busy) {
			continue
		}
		if !start.After(in.Now) {
			continue
		}

		slots = append(slots, domain.Slot{
			Label:   domain.SlotLabel(start, end, loc),
			StartAt: start,
			EndAt:   end,
		})
	}

	return slots, nil
}

type interval struct {
	start, end time.Time
}

// activeIntervals интервалы неотменённых бронирований
func activeIntervals(bookings []*domain.Booking) []interval {
	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || b.IsCancelled() {
			continue
		}
		busy = append(busy, interval{start: b.StartAt, end: b.EndAt})
	}
	return busy
}

func overlapsAny(start, end time.Time, busy []interval) bool {
	for _, iv := range busy {
		if domain.Overlaps(start, end, iv.start, iv.end) {
			return true
		}
	}
	return false
}

// DayBounds начало и конец календарного дня date в часовом поясе loc
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
