package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medibook/medibook/internal/db"
)

const appointmentColumns = `id, doctor_id, account_id,
	doctor_name, doctor_specialization, doctor_fees,
	patient_name, patient_email, patient_phone,
	date, slot_start, slot_end, documents,
	status, payment_status, reason, notes, cancellation_reason,
	created_at, updated_at`

// ErrSlotTakenDB surfaces a unique-index violation on the active-slot
// constraint; the service folds it into the conflict error.
var ErrSlotTakenDB = errors.New("active appointment already exists for slot")

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.AccountID,
		&a.DoctorInfo.Name,
		&a.DoctorInfo.Specialization,
		&a.DoctorInfo.Fees,
		&a.PatientInfo.Name,
		&a.PatientInfo.Email,
		&a.PatientInfo.Phone,
		&a.Date,
		&a.TimeSlot.Start,
		&a.TimeSlot.End,
		&a.Documents,
		&a.Status,
		&a.PaymentStatus,
		&a.Reason,
		&a.Notes,
		&a.CancellationReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if a.Documents == nil {
		a.Documents = []Document{}
	}
	return &a, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, day time.Time, slotStart string, exclude uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND date = $2
		  AND slot_start = $3
		  AND status IN ('pending', 'approved')
		  AND ($4::uuid IS NULL OR id <> $4)
		LIMIT 1
	`, doctorID, day, slotStart, nullableUUID(exclude))
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	id := uuid.New()

	docs := a.Documents
	if docs == nil {
		docs = []Document{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, account_id,
			doctor_name, doctor_specialization, doctor_fees,
			patient_name, patient_email, patient_phone,
			date, slot_start, slot_end, documents,
			status, payment_status, reason, notes, cancellation_reason,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			'pending', 'pending', $14, '', '', now(), now())
		RETURNING `+appointmentColumns+`
	`, id, a.DoctorID, a.AccountID,
		a.DoctorInfo.Name, a.DoctorInfo.Specialization, a.DoctorInfo.Fees,
		a.PatientInfo.Name, a.PatientInfo.Email, a.PatientInfo.Phone,
		a.Date, a.TimeSlot.Start, a.TimeSlot.End, docs, a.Reason)

	created, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotTakenDB
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, status)
	return scanAppointment(row)
}

func (r *PgRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
		    cancellation_reason = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, reason)
	return scanAppointment(row)
}

func (r *PgRepository) Reschedule(ctx context.Context, id uuid.UUID, day time.Time, slot TimeSlot) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET date = $2,
		    slot_start = $3,
		    slot_end = $4,
		    status = 'pending',
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, day, slot.Start, slot.End)

	a, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotTakenDB
		}
		return nil, err
	}
	return a, nil
}

func (r *PgRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE account_id = $1
		ORDER BY date DESC
	`, accountID)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY date DESC
	`, doctorID)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at DESC
	`)
}

func (r *PgRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) CountSince(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM appointments WHERE date >= $1`, day).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) PaidRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(sum(doctor_fees), 0)
		FROM appointments
		WHERE payment_status = 'paid'
	`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PgRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
