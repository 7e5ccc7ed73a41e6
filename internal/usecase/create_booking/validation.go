package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/get_available_slots"
)

// validateRequest проверяет, что выбор клиента полный и слот корректен
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrIncompleteSelection)
	}

	if missing := req.Selection.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteSelection, strings.Join(missing, ", "))
	}

	slot := req.Selection.Slot
	if !slot.StartAt.Before(slot.EndAt) {
		return fmt.Errorf("%w: slot start %s is not before end %s",
			ErrIncompleteSelection, slot.StartAt.Format("15:04"), slot.EndAt.Format("15:04"))
	}

	return nil
}

// validateSlotTiming проверяет слот относительно выбранной даты и текущего момента
func validateSlotTiming(sel domain.Selection, now time.Time, settings Settings) error {
	start := sel.Slot.StartAt.In(settings.Location)

	y, m, d := sel.Date.Date()
	if sy, sm, sd := start.Date(); sy != y || sm != m || sd != d {
		return fmt.Errorf("%w: slot %s is not on %s",
			ErrIncompleteSelection, start.Format(time.RFC3339), sel.Date.Format(domain.DateFormat))
	}

	if !domain.WithinBookingHorizon(*sel.Date, now, settings.Location, settings.MaxDaysAhead) {
		return fmt.Errorf("%w: date %s is more than %d days ahead",
			ErrIncompleteSelection, sel.Date.Format(domain.DateFormat), settings.MaxDaysAhead)
	}

	if !sel.Slot.StartAt.After(now) {
		return fmt.Errorf("%w: slot %s has already started", ErrSlotConflict, start.Format(time.RFC3339))
	}

	return nil
}

// validateSlotOnGrid проверяет, что слот совпадает с одним из слотов
// расписания барбера на выбранную дату (рабочие часы, перерыв, шаг сетки).
// Занятость слота здесь не проверяется, её отсекает ограничение БД
func validateSlotOnGrid(sel domain.Selection, hours *domain.WorkingHours, settings Settings) error {
	grid, err := get_available_slots.ComputeSlots(get_available_slots.SlotInput{
		WorkingHours: hours,
		Break:        settings.Break,
		Date:         *sel.Date,
		Location:     settings.Location,
		Unit:         settings.Unit,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	for _, slot := range grid {
		if slot.StartAt.Equal(sel.Slot.StartAt) && slot.EndAt.Equal(sel.Slot.EndAt) {
			return nil
		}
	}

	return fmt.Errorf("%w: slot %s-%s is not in the barber's schedule on %s",
		ErrIncompleteSelection,
		sel.Slot.StartAt.In(settings.Location).Format(domain.TimeFormat),
		sel.Slot.EndAt.In(settings.Location).Format(domain.TimeFormat),
		sel.Date.Format(domain.DateFormat))
}
