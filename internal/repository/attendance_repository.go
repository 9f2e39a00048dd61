package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// AttendanceFilter captures attendance search parameters. Date bounds
// apply to the record's work date.
type AttendanceFilter struct {
	EmployeeID *string
	Status     *domain.AttendanceStatus
	Late       *bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AttendanceRepository encapsulates attendance record persistence.
type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	Update(ctx context.Context, record *domain.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*domain.AttendanceRecord, error)
	GetOpenByEmployee(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error)
	ListWithFilter(ctx context.Context, filter AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository instantiates repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	const query = `
        INSERT INTO attendance_records (employee_id, work_date, clock_in_at, clock_in_location, clock_in_photo_key, notes, late, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		record.EmployeeID,
		record.WorkDate,
		record.ClockInAt,
		record.ClockInLocation,
		record.ClockInPhotoKey,
		record.Notes,
		record.Late,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *attendanceRepository) Update(ctx context.Context, record *domain.AttendanceRecord) error {
	const query = `
        UPDATE attendance_records
        SET clock_out_at=$1, clock_out_location=$2, clock_out_photo_key=$3, notes=$4, late=$5, status=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		record.ClockOutAt,
		record.ClockOutLocation,
		record.ClockOutPhotoKey,
		record.Notes,
		record.Late,
		record.Status,
		record.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*domain.AttendanceRecord, error) {
	const query = `
        SELECT id, employee_id, work_date, clock_in_at, clock_out_at, clock_in_location, clock_out_location,
               clock_in_photo_key, clock_out_photo_key, notes, late, status, created_at, updated_at
        FROM attendance_records WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetOpenByEmployee returns the employee's open record. A partial unique
// index guarantees at most one exists.
func (r *attendanceRepository) GetOpenByEmployee(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	const query = `
        SELECT id, employee_id, work_date, clock_in_at, clock_out_at, clock_in_location, clock_out_location,
               clock_in_photo_key, clock_out_photo_key, notes, late, status, created_at, updated_at
        FROM attendance_records WHERE employee_id=$1 AND status='open'`
	return r.fetchSingle(ctx, query, employeeID)
}

func (r *attendanceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&record.ID,
		&record.EmployeeID,
		&record.WorkDate,
		&record.ClockInAt,
		&record.ClockOutAt,
		&record.ClockInLocation,
		&record.ClockOutLocation,
		&record.ClockInPhotoKey,
		&record.ClockOutPhotoKey,
		&record.Notes,
		&record.Late,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) ListWithFilter(ctx context.Context, filter AttendanceFilter) ([]domain.AttendanceRecord, error) {
	base := `SELECT id, employee_id, work_date, clock_in_at, clock_out_at, clock_in_location, clock_out_location,
                    clock_in_photo_key, clock_out_photo_key, notes, late, status, created_at, updated_at
             FROM attendance_records`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Late != nil {
		args = append(args, *filter.Late)
		clauses = append(clauses, fmt.Sprintf("late=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("work_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("work_date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 31
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY work_date DESC, clock_in_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendanceRecords(rows)
}

func scanAttendanceRecords(rows pgx.Rows) ([]domain.AttendanceRecord, error) {
	var result []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord
		if err := rows.Scan(
			&record.ID,
			&record.EmployeeID,
			&record.WorkDate,
			&record.ClockInAt,
			&record.ClockOutAt,
			&record.ClockInLocation,
			&record.ClockOutLocation,
			&record.ClockInPhotoKey,
			&record.ClockOutPhotoKey,
			&record.Notes,
			&record.Late,
			&record.Status,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
