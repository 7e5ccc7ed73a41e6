package domain

import "time"

// Default business values
const (
	DefaultBusinessTimezone   = "Asia/Kuala_Lumpur"
	DefaultSlotUnit           = time.Hour
	DefaultGracePeriod        = 10 * time.Second
	DefaultCancellationCutoff = 2 * time.Hour
	DefaultBreakStart         = "19:00"
	DefaultBreakEnd           = "20:00"
	DefaultCurrency           = "MYR"
	DefaultMaxDaysAhead       = 14
)

// Time format constants
const (
	TimeFormat      = "15:04"      // HH:MM
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	LabelTimeFormat = "3:04 PM"    // 9:00 AM
	LabelDateFormat = "Monday, 2 January 2006"
)

// ActiveStatuses статусы, при которых бронирование занимает барбера
// и блокирует новое бронирование того же клиента
var ActiveStatuses = []BookingStatus{
	StatusScheduled,
	StatusInProgress,
}

// ActiveStatusStrings ActiveStatuses в виде строк для SQL фильтров
func ActiveStatusStrings() []string {
	out := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		out[i] = string(s)
	}
	return out
}
