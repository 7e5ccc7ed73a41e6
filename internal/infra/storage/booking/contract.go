package booking

import (
	"github.com/wellside/barber-booking/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// Имена ограничений из миграции, по которым различаются ошибки вставки
const (
	constraintNoOverlap  = "bookings_no_overlap"
	constraintOneActive  = "bookings_one_active_per_customer"
	pqExclusionViolation = "23P01"
	pqUniqueViolation    = "23505"
	bookingsTable        = "bookings b"
	joinServices         = "services s ON s.id = b.service_id"
	joinBarberProfile    = "profiles bp ON bp.id = b.barber_id"
	joinCustomerProfile  = "profiles cp ON cp.id = b.customer_id"
)

var bookingColumns = []string{
	"b.id",
	"b.booking_ref",
	"b.customer_id",
	"b.barber_id",
	"b.service_id",
	"b.start_at",
	"b.end_at",
	"b.status",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
}

var detailsColumns = append(append([]string{}, bookingColumns...),
	"COALESCE(s.name, '')",
	"COALESCE(s.base_price, 0)",
	"COALESCE(TRIM(CONCAT(bp.first_name, ' ', bp.last_name)), '')",
	"COALESCE(TRIM(CONCAT(cp.first_name, ' ', cp.last_name)), '')",
	"COALESCE(cp.email, '')",
	"COALESCE(cp.phone, '')",
)
