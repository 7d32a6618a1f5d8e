package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the booking workflow.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// FindActiveBySlot is the conflict probe: an appointment for this
	// doctor, day bucket and start time in an active status. exclude, when
	// not uuid.Nil, skips the appointment being rescheduled.
	FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, day time.Time, slotStart string, exclude uuid.UUID) (*Appointment, error)

	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, day time.Time, slot TimeSlot) (*Appointment, error)

	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)

	// Dashboard reads
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, day time.Time) (int64, error)
	PaidRevenue(ctx context.Context) (float64, error)
}
