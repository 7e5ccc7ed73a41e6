package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/pkg/dbmetrics"
	"github.com/wellside/barber-booking/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Проверка пересечений и единственности активного бронирования выполняется самой БД:
// exclusion constraint bookings_no_overlap -> ErrSlotOverlap,
// частичный уникальный индекс bookings_one_active_per_customer -> ErrActiveBookingExists
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"barber_id",
			"service_id",
			"start_at",
			"end_at",
			"status",
		).
		Values(
			booking.CustomerID,
			booking.BarberID,
			booking.ServiceID,
			booking.StartAt.UTC(),
			booking.EndAt.UTC(),
			booking.Status,
		).
		Suffix("RETURNING id, booking_ref, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.BookingRef,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return nil, fmt.Errorf("%w: Create - %v", mapped, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetDetailsByID получает бронирование вместе с данными услуги, барбера и клиента
func (r *Repository) GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - build select query: %v", ErrBuildQuery, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByID - scan booking: %v", ErrScanRow, err)
	}

	return details, nil
}

// GetActiveByCustomer получает активные (scheduled, in_progress) бронирования клиента
// Внутри транзакции строки блокируются FOR UPDATE
func (r *Repository) GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"b.customer_id": customerID}).
		Where(squirrel.Eq{"b.status": domain.ActiveStatusStrings()}).
		OrderBy("b.start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetUpcomingByCustomer получает ближайшее активное бронирование клиента
func (r *Repository) GetUpcomingByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"b.customer_id": customerID}).
		Where(squirrel.Eq{"b.status": domain.ActiveStatusStrings()}).
		OrderBy("b.start_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUpcomingByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUpcomingByCustomer - scan booking: %v", ErrScanRow, err)
	}

	return details, nil
}

// GetByCustomer получает историю бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.BookingStatus) ([]*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := detailsSelect().
		Where(squirrel.Eq{"b.customer_id": customerID}).
		OrderBy("b.start_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanDetailsRows(rows)
}

// GetByBarberInRange получает бронирования барбера, пересекающиеся с [filter.From, filter.To)
// По умолчанию отменённые бронирования исключаются
func (r *Repository) GetByBarberInRange(ctx context.Context, filter domain.BarberBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyBarberFilter(psqlbuilder.Select(bookingColumns...).From(bookingsTable), filter).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarberInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarberInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetDetailsByBarberInRange то же, что GetByBarberInRange, но с данными услуги и клиента
func (r *Repository) GetDetailsByBarberInRange(ctx context.Context, filter domain.BarberBookingsFilter) ([]*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyBarberFilter(detailsSelect(), filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByBarberInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetailsByBarberInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanDetailsRows(rows)
}

// UpdateStatus переводит бронирование из статуса from в статус to.
// Если статус уже сменился параллельно, возвращает ErrStatusChanged
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateStatusQuery(id, from, to).ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return fmt.Errorf("%w: UpdateStatus - %v", mapped, err)
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func updateStatusQuery(id uuid.UUID, from, to domain.BookingStatus) squirrel.UpdateBuilder {
	return psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})
}

// Cancel переводит активное бронирование в cancelled
// Условие на статус в WHERE защищает от гонки с параллельной отменой или завершением
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", cancelledAt.UTC()).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.ActiveStatusStrings()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotActive
	}

	return nil
}

// detailsSelect SELECT бронирований с join на услугу, барбера и клиента
func detailsSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(detailsColumns...).
		From(bookingsTable).
		LeftJoin(joinServices).
		LeftJoin(joinBarberProfile).
		LeftJoin(joinCustomerProfile)
}

func applyBarberFilter(sb squirrel.SelectBuilder, filter domain.BarberBookingsFilter) squirrel.SelectBuilder {
	sb = sb.Where(squirrel.Eq{"b.barber_id": filter.BarberID}).
		Where(squirrel.Lt{"b.start_at": filter.To.UTC()}).
		Where(squirrel.Gt{"b.end_at": filter.From.UTC()})

	if !filter.IncludeInactive {
		sb = sb.Where(squirrel.NotEq{"b.status": string(domain.StatusCancelled)})
	}

	return sb.OrderBy("b.start_at ASC")
}

// mapConstraintError превращает нарушения ограничений PostgreSQL в ошибки репозитория
// Возвращает nil, если ошибка не связана с ограничениями бронирований
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch {
	case pqErr.Code == pqExclusionViolation:
		return ErrSlotOverlap
	case pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraintOneActive:
		return ErrActiveBookingExists
	case pqErr.Constraint == constraintNoOverlap:
		return ErrSlotOverlap
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func bookingDest(b *domain.Booking, cancelledAt *sql.NullTime) []interface{} {
	return []interface{}{
		&b.ID,
		&b.BookingRef,
		&b.CustomerID,
		&b.BarberID,
		&b.ServiceID,
		&b.StartAt,
		&b.EndAt,
		&b.Status,
		cancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var cancelledAt sql.NullTime

	if err := row.Scan(bookingDest(&booking, &cancelledAt)...); err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}

	return &booking, nil
}

func scanDetails(row rowScanner) (*domain.BookingDetails, error) {
	var details domain.BookingDetails
	var cancelledAt sql.NullTime

	dest := append(bookingDest(&details.Booking, &cancelledAt),
		&details.ServiceName,
		&details.ServicePrice,
		&details.BarberName,
		&details.CustomerName,
		&details.CustomerEmail,
		&details.CustomerPhone,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		details.CancelledAt = &cancelledAt.Time
	}

	return &details, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func scanDetailsRows(rows *sql.Rows) ([]*domain.BookingDetails, error) {
	result := make([]*domain.BookingDetails, 0)

	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanDetailsRows - scan row: %v", ErrScanRow, err)
		}
		result = append(result, details)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanDetailsRows - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
