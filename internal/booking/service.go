package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/doctor"
	"github.com/medibook/medibook/internal/notification"
	"github.com/medibook/medibook/internal/observability/metrics"
	redisclient "github.com/medibook/medibook/internal/redis"
	"github.com/medibook/medibook/pkg/logging"
)

var (
	ErrSlotTaken          = errors.New("this time slot is already booked")
	ErrSlotBeingBooked    = errors.New("slot is currently being booked, please retry")
	ErrDoctorNotBookable  = errors.New("doctor not found or not approved")
	ErrNotOwner           = errors.New("not authorized for this appointment")
	ErrAlreadyCompleted   = errors.New("cannot cancel completed appointment")
	ErrAlreadyFinalized   = errors.New("appointment is already finalized")
	ErrDoctorProfileGone  = errors.New("doctor profile not found")
)

// Doctors is the slice of the provider directory the workflow needs.
type Doctors interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*doctor.Doctor, error)
}

// Notifier appends a notification record, best-effort.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) error
}

type Service struct {
	repo    Repository
	doctors Doctors
	locker  redisclient.Locker
	notify  Notifier
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

func NewService(repo Repository, doctors Doctors, locker redisclient.Locker, notify Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:    repo,
		doctors: doctors,
		locker:  locker,
		notify:  notify,
		metrics: m,
		logger:  logger,
	}
}

type BookInput struct {
	DoctorID  uuid.UUID
	Date      time.Time
	Slot      TimeSlot
	Reason    string
	Documents []Document
}

// Book reserves a slot for the calling patient. The conflict check and the
// insert run inside a per-slot Redis lock so concurrent requests for the
// same doctor/day/start cannot both pass the probe; the partial unique
// index backstops the invariant if the lock is ever bypassed.
func (s *Service) Book(ctx context.Context, caller *account.Account, in BookInput) (*Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, apperr.Validationf("doctor ID is required")
	}
	if in.Date.IsZero() {
		return nil, apperr.Validationf("date is required")
	}
	if in.Slot.Start == "" {
		return nil, apperr.Validationf("time slot start time is required")
	}
	if _, err := parseClock(in.Slot.Start); err != nil {
		return nil, apperr.Validationf("invalid time slot format")
	}
	if in.Slot.End == "" {
		end, err := deriveEnd(in.Slot.Start)
		if err != nil {
			return nil, apperr.Validationf("invalid time slot format")
		}
		in.Slot.End = end
	}

	doc, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrDoctorNotBookable
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if doc.Status != doctor.StatusApproved {
		return nil, ErrDoctorNotBookable
	}

	day := DayBucket(in.Date)

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, doc.ID, day, in.Slot.Start, func(lockCtx context.Context) error {
		existing, err := s.repo.FindActiveBySlot(lockCtx, doc.ID, day, in.Slot.Start, uuid.Nil)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot conflict: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt := &Appointment{
			DoctorID:    doc.ID,
			AccountID:   caller.ID,
			DoctorInfo:  snapshotDoctor(doc),
			PatientInfo: PatientInfo{Name: caller.Name, Email: caller.Email, Phone: caller.Phone},
			Date:        day,
			TimeSlot:    in.Slot,
			Documents:   in.Documents,
			Reason:      in.Reason,
		}

		created, err = s.repo.Create(lockCtx, appt)
		if err != nil {
			if errors.Is(err, ErrSlotTakenDB) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			s.metrics.ObserveBooking("contended")
			return nil, ErrSlotBeingBooked
		}
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveBooking("conflict")
		}
		return nil, err
	}

	s.metrics.ObserveBooking("created")
	s.notifyAccount(ctx, doc.AccountID, notification.KindAppointment,
		fmt.Sprintf("New appointment request from %s", caller.Name), &created.ID)

	return created, nil
}

func snapshotDoctor(doc *doctor.Doctor) DoctorInfo {
	info := DoctorInfo{Name: doc.FullName}
	if doc.Specialization != nil {
		info.Specialization = *doc.Specialization
	}
	if doc.Fees != nil {
		info.Fees = *doc.Fees
	}
	return info
}

// ListMine returns the caller's appointments, newest date first.
func (s *Service) ListMine(ctx context.Context, accountID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// Cancel moves an appointment to cancelled. The booking patient and admins
// may cancel; a completed visit cannot be.
func (s *Service) Cancel(ctx context.Context, caller *account.Account, id uuid.UUID, reason string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.AccountID != caller.ID && caller.Role != account.RoleAdmin {
		return nil, ErrNotOwner
	}
	if appt.Status == StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	if reason == "" {
		reason = "Cancelled by user"
	}

	updated, err := s.repo.Cancel(ctx, id, reason)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.metrics.ObserveBooking("cancelled")

	if doc, err := s.doctors.GetByID(ctx, appt.DoctorID); err == nil {
		s.notifyAccount(ctx, doc.AccountID, notification.KindCancellation,
			fmt.Sprintf("Appointment cancelled by %s", caller.Name), &updated.ID)
	} else {
		s.logger.Warn("load doctor for cancel notification", "error", err, "appointment_id", id)
	}

	return updated, nil
}

// Reschedule moves an appointment to a new date/slot. Only the booking
// patient may reschedule, the new slot must be free, and the status resets
// to pending: moving an appointment always invalidates prior approval.
func (s *Service) Reschedule(ctx context.Context, caller *account.Account, id uuid.UUID, date time.Time, slot TimeSlot) (*Appointment, error) {
	if date.IsZero() {
		return nil, apperr.Validationf("date is required")
	}
	if slot.Start == "" {
		return nil, apperr.Validationf("time slot start time is required")
	}
	if _, err := parseClock(slot.Start); err != nil {
		return nil, apperr.Validationf("invalid time slot format")
	}
	if slot.End == "" {
		end, err := deriveEnd(slot.Start)
		if err != nil {
			return nil, apperr.Validationf("invalid time slot format")
		}
		slot.End = end
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.AccountID != caller.ID {
		return nil, ErrNotOwner
	}

	day := DayBucket(date)

	var updated *Appointment

	err = s.locker.WithSlotLock(ctx, appt.DoctorID, day, slot.Start, func(lockCtx context.Context) error {
		existing, err := s.repo.FindActiveBySlot(lockCtx, appt.DoctorID, day, slot.Start, appt.ID)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check slot conflict: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		updated, err = s.repo.Reschedule(lockCtx, id, day, slot)
		if err != nil {
			if errors.Is(err, ErrSlotTakenDB) {
				return ErrSlotTaken
			}
			return fmt.Errorf("reschedule appointment: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	if doc, err := s.doctors.GetByID(ctx, appt.DoctorID); err == nil {
		s.notifyAccount(ctx, doc.AccountID, notification.KindAppointment,
			fmt.Sprintf("Appointment rescheduled by %s", caller.Name), &updated.ID)
	} else {
		s.logger.Warn("load doctor for reschedule notification", "error", err, "appointment_id", id)
	}

	return updated, nil
}

// ListForDoctor returns the appointments booked against the caller's own
// profile, newest date first.
func (s *Service) ListForDoctor(ctx context.Context, accountID uuid.UUID) ([]Appointment, error) {
	doc, err := s.doctors.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return nil, ErrDoctorProfileGone
		}
		return nil, fmt.Errorf("load doctor profile: %w", err)
	}
	return s.repo.ListByDoctor(ctx, doc.ID)
}

// UpdateStatus lets the owning doctor (or an admin) move an appointment to
// approved, rejected, completed or cancelled. The only state-machine guard
// is that terminal statuses are frozen; in particular pending may jump
// straight to completed.
func (s *Service) UpdateStatus(ctx context.Context, caller *account.Account, id uuid.UUID, status Status) (*Appointment, error) {
	switch status {
	case StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
	default:
		return nil, apperr.Validationf("invalid status, must be one of: approved, rejected, completed, cancelled")
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if caller.Role != account.RoleAdmin {
		doc, err := s.doctors.GetByAccountID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, doctor.ErrDoctorNotFound) {
				return nil, ErrDoctorProfileGone
			}
			return nil, fmt.Errorf("load doctor profile: %w", err)
		}
		if appt.DoctorID != doc.ID {
			return nil, ErrNotOwner
		}
	}

	if appt.Status.Terminal() {
		return nil, ErrAlreadyFinalized
	}

	updated, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	s.metrics.ObserveBooking(string(status))
	s.notifyAccount(ctx, updated.AccountID, notification.KindAppointment,
		fmt.Sprintf("Your appointment on %s has been %s by the doctor",
			updated.Date.Format("1/2/2006"), status), &updated.ID)

	return updated, nil
}

// ListAllAdmin returns every appointment, newest created first.
func (s *Service) ListAllAdmin(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAll(ctx)
}

// Slots returns the bookable slot grid for one doctor on one date.
func (s *Service) Slots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]TimeSlot, error) {
	doc, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(doc.Timings, date), nil
}

// Stats summarizes the ledger for the admin dashboard.
type Stats struct {
	TotalAppointments int64   `json:"totalAppointments"`
	TodayAppointments int64   `json:"todayAppointments"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count appointments: %w", err)
	}
	today, err := s.repo.CountSince(ctx, DayBucket(time.Now()))
	if err != nil {
		return Stats{}, fmt.Errorf("count today appointments: %w", err)
	}
	revenue, err := s.repo.PaidRevenue(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("sum paid revenue: %w", err)
	}
	return Stats{TotalAppointments: total, TodayAppointments: today, TotalRevenue: revenue}, nil
}

func (s *Service) notifyAccount(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) {
	if err := s.notify.Notify(ctx, accountID, kind, message, appointmentID); err != nil {
		s.logger.Error("notification fan-out failed", "error", err, "account_id", accountID)
	}
}
