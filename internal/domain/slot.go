package domain

import "time"

// Slot bookable interval for one barber on one day. Never persisted
type Slot struct {
	Label   string // "9:00 AM - 10:00 AM"
	StartAt time.Time
	EndAt   time.Time
}

// Overlaps half-open interval intersection: [aStart, aEnd) and [bStart, bEnd)
// Интервалы, которые только касаются границей, не пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SlotLabel форматирует подпись слота в часовом поясе loc
func SlotLabel(start, end time.Time, loc *time.Location) string {
	return start.In(loc).Format(LabelTimeFormat) + " - " + end.In(loc).Format(LabelTimeFormat)
}
