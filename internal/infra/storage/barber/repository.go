package barber

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/pkg/dbmetrics"
	"github.com/wellside/barber-booking/pkg/psqlbuilder"
	"github.com/wellside/barber-booking/pkg/types"
)

// Барберы хранятся в profiles с ролью barber
const profilesTable = "profiles"

var barberColumns = []string{
	"id",
	"COALESCE(first_name, '')",
	"COALESCE(last_name, '')",
	"COALESCE(phone, '')",
	"working_start_time",
	"working_end_time",
}

// Repository репозиторий барберов и их рабочих часов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория барберов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает барбера по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(barberColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"id": id, "role": string(domain.RoleBarber)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	barber, err := scanBarber(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan barber: %v", ErrScanRow, err)
	}

	return barber, nil
}

// List получает всех барберов, отсортированных по имени
func (r *Repository) List(ctx context.Context) ([]*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(barberColumns...).
		From(profilesTable).
		Where(squirrel.Eq{"role": string(domain.RoleBarber)}).
		OrderBy("first_name ASC", "last_name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	barbers := make([]*domain.Barber, 0)
	for rows.Next() {
		barber, err := scanBarber(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		barbers = append(barbers, barber)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return barbers, nil
}

// GetWorkingHours получает рабочие часы барбера
// Возвращает ErrWorkingHoursNotSet, если часы не заполнены
func (r *Repository) GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*domain.WorkingHours, error) {
	barber, err := r.GetByID(ctx, barberID)
	if err != nil {
		return nil, err
	}

	if barber.WorkingStart.IsZero() || barber.WorkingEnd.IsZero() {
		return nil, ErrWorkingHoursNotSet
	}

	return barber.WorkingHours(), nil
}

// UpdateWorkingHours обновляет рабочие часы барбера
func (r *Repository) UpdateWorkingHours(ctx context.Context, hours *domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(profilesTable).
		Set("working_start_time", hours.StartTime).
		Set("working_end_time", hours.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": hours.BarberID, "role": string(domain.RoleBarber)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBarberNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBarber(row rowScanner) (*domain.Barber, error) {
	var barber domain.Barber
	var start, end types.TimeString

	if err := row.Scan(
		&barber.ID,
		&barber.FirstName,
		&barber.LastName,
		&barber.Phone,
		&start,
		&end,
	); err != nil {
		return nil, err
	}

	barber.WorkingStart = start
	barber.WorkingEnd = end

	return &barber, nil
}
