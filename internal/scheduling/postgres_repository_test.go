package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var apptCols = []string{
	"id", "subject_id", "contact_handle", "date", "start_time",
	"duration_minutes", "treatment_type", "status", "notes",
	"created_at", "updated_at",
}

func apptRow(mock pgxmock.PgxPoolIface, appt *Appointment) *pgxmock.Rows {
	return mock.NewRows(apptCols).AddRow(
		appt.ID, appt.SubjectID, appt.ContactHandle, appt.Date, appt.StartTime,
		appt.DurationMinutes, appt.TreatmentType, string(appt.Status), appt.Notes,
		appt.CreatedAt, appt.UpdatedAt,
	)
}

func testAppointment() *Appointment {
	now := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	return &Appointment{
		ID:              uuid.New(),
		SubjectID:       "subj-1",
		ContactHandle:   "447700900001",
		Date:            "2030-03-05",
		StartTime:       "09:00",
		DurationMinutes: 30,
		TreatmentType:   "blood_testing",
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPostgresCreateIfSlotFree(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	appt := testAppointment()
	appt.ID = uuid.Nil
	assigned := uuid.New()
	created := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(appt.SubjectID, appt.ContactHandle, appt.Date, appt.StartTime,
			appt.DurationMinutes, appt.TreatmentType, string(appt.Status), appt.Notes).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(assigned, created, created))

	require.NoError(t, repo.CreateIfSlotFree(context.Background(), appt))
	assert.Equal(t, assigned, appt.ID, "store assigns the id")
	assert.Equal(t, created, appt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateIfSlotFreeConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	appt := testAppointment()

	// The partial unique index rejects the second active row for the slot.
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(appt.SubjectID, appt.ContactHandle, appt.Date, appt.StartTime,
			appt.DurationMinutes, appt.TreatmentType, string(appt.Status), appt.Notes).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_slot"})

	err = repo.CreateIfSlotFree(context.Background(), appt)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	want := testAppointment()
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(want.ID).
		WillReturnRows(apptRow(mock, want))

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.StartTime, got.StartTime)
	assert.Equal(t, StatusPending, got.Status)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReschedule(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	want := testAppointment()
	want.Date = "2030-03-06"
	want.StartTime = "11:30"
	want.Status = StatusRescheduled

	mock.ExpectQuery("UPDATE appointments").
		WithArgs(want.ID, "2030-03-06", "11:30").
		WillReturnRows(apptRow(mock, want))

	got, err := repo.Reschedule(context.Background(), want.ID, "2030-03-06", "11:30")
	require.NoError(t, err)
	assert.Equal(t, StatusRescheduled, got.Status)
	assert.Equal(t, "11:30", got.StartTime)

	// Target slot occupied.
	mock.ExpectQuery("UPDATE appointments").
		WithArgs(want.ID, "2030-03-06", "12:00").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Reschedule(context.Background(), want.ID, "2030-03-06", "12:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCancel(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	want := testAppointment()
	want.Status = StatusCancelled
	want.Notes = "patient request"

	mock.ExpectQuery("UPDATE appointments").
		WithArgs(want.ID, "patient request").
		WillReturnRows(apptRow(mock, want))

	got, err := repo.Cancel(context.Background(), want.ID, "patient request")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, "patient request", got.Notes)

	mock.ExpectQuery("UPDATE appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Cancel(context.Background(), uuid.New(), "gone")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookedStartTimes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery("SELECT to_char").
		WithArgs("2030-03-05").
		WillReturnRows(mock.NewRows([]string{"to_char"}).AddRow("09:00").AddRow("14:30"))

	booked, err := repo.BookedStartTimes(context.Background(), "2030-03-05")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"09:00": true, "14:30": true}, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPostgresRepository(mock)

	a := testAppointment()
	b := testAppointment()
	b.ID = uuid.New()
	b.StartTime = "10:30"

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("2030-03-05").
		WillReturnRows(apptRow(mock, a).AddRow(
			b.ID, b.SubjectID, b.ContactHandle, b.Date, b.StartTime,
			b.DurationMinutes, b.TreatmentType, string(b.Status), b.Notes,
			b.CreatedAt, b.UpdatedAt,
		))

	appts, err := repo.ListByDate(context.Background(), "2030-03-05")
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, a.ID, appts[0].ID)
	assert.Equal(t, "10:30", appts[1].StartTime)

	// Empty days come back as an empty slice, not nil.
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs("2030-03-06").
		WillReturnRows(mock.NewRows(apptCols))

	appts, err = repo.ListByDate(context.Background(), "2030-03-06")
	require.NoError(t, err)
	assert.NotNil(t, appts)
	assert.Empty(t, appts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
