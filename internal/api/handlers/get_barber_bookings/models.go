package get_barber_bookings

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/service/bookings/models"
)

// ToServiceRequest создает запрос сервиса из query параметров
// date задаёт один день, startDate/endDate задают период включительно
func ToServiceRequest(barberID uuid.UUID, dateStr, startDateStr, endDateStr, includeInactiveStr string) (*models.GetBarberBookingsRequest, error) {
	req := &models.GetBarberBookingsRequest{BarberID: barberID}

	switch {
	case dateStr != "":
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate, req.EndDate = date, date

	case startDateStr != "" && endDateStr != "":
		start, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		end, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate, req.EndDate = start, end

	default:
		return nil, errors.New("date or startDate and endDate are required")
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
