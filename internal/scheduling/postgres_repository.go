package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists appointments in Postgres. The no-double-booking
// guarantee rests on a partial unique index over (date, start_time) for rows
// with status <> 'cancelled': the insert itself is the conflict check, so
// concurrent bookings cannot both succeed.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("scheduling: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const appointmentColumns = `
	id, subject_id, contact_handle,
	to_char(date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'),
	duration_minutes, treatment_type, status, COALESCE(notes, ''),
	created_at, updated_at`

// CreateIfSlotFree inserts the appointment; a unique-index violation on the
// active-slot index maps to ErrSlotUnavailable. The id is assigned by the
// database default and written back onto appt.
func (r *PostgresRepository) CreateIfSlotFree(ctx context.Context, appt *Appointment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
		    (subject_id, contact_handle, date, start_time,
		     duration_minutes, treatment_type, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		appt.SubjectID, appt.ContactHandle, appt.Date, appt.StartTime,
		appt.DurationMinutes, appt.TreatmentType, string(appt.Status), appt.Notes,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("scheduling: insert appointment: %w", err)
	}
	return nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("scheduling: select appointment: %w", err)
	}
	return appt, nil
}

// Reschedule moves the appointment to the new slot. The partial unique index
// rejects a conflicting target slot; the old slot frees implicitly because
// collision checks only count rows at their current (date, start_time).
func (r *PostgresRepository) Reschedule(ctx context.Context, id uuid.UUID, newDate, newStartTime string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET date = $2, start_time = $3, status = 'rescheduled', updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns, id, newDate, newStartTime)
	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotUnavailable
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("scheduling: reschedule appointment: %w", err)
	}
	return appt, nil
}

// Cancel sets status=cancelled and stores the reason in notes, overwriting
// any prior notes. Cancelling an already-cancelled appointment is allowed.
func (r *PostgresRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled', notes = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns, id, reason)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("scheduling: cancel appointment: %w", err)
	}
	return appt, nil
}

// BookedStartTimes returns the active start times for a date.
func (r *PostgresRepository) BookedStartTimes(ctx context.Context, date string) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(start_time, 'HH24:MI')
		FROM appointments
		WHERE date = $1 AND status <> 'cancelled'`, date)
	if err != nil {
		return nil, fmt.Errorf("scheduling: select booked times: %w", err)
	}
	defer rows.Close()

	booked := make(map[string]bool)
	for rows.Next() {
		var startTime string
		if err := rows.Scan(&startTime); err != nil {
			return nil, fmt.Errorf("scheduling: scan booked time: %w", err)
		}
		booked[startTime] = true
	}
	return booked, rows.Err()
}

// ListByDate returns the date's non-cancelled appointments in start-time order.
func (r *PostgresRepository) ListByDate(ctx context.Context, date string) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1 AND status <> 'cancelled'
		ORDER BY start_time ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("scheduling: select daily schedule: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment row: %w", err)
		}
		out = append(out, appt)
	}
	if out == nil {
		out = []*Appointment{}
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		appt   Appointment
		status string
	)
	if err := row.Scan(
		&appt.ID, &appt.SubjectID, &appt.ContactHandle,
		&appt.Date, &appt.StartTime,
		&appt.DurationMinutes, &appt.TreatmentType, &status, &appt.Notes,
		&appt.CreatedAt, &appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	appt.Status = AppointmentStatus(status)
	return &appt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
