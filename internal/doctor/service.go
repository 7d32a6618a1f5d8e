package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/notification"
	"github.com/medibook/medibook/pkg/logging"
)

// AccountRoles flips the role on the owning account when a review lands.
type AccountRoles interface {
	SetRole(ctx context.Context, id uuid.UUID, role account.Role, isDoctor bool) error
	FindAdmin(ctx context.Context) (*account.Account, error)
}

// Notifier appends a notification record, best-effort.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) error
}

type Service struct {
	repo     Repository
	accounts AccountRoles
	notify   Notifier
	logger   *logging.Logger
}

func NewService(repo Repository, accounts AccountRoles, notify Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		accounts: accounts,
		notify:   notify,
		logger:   logger,
	}
}

type ApplyInput struct {
	FullName       string
	Phone          string
	Address        Address
	Specialization *string
	Experience     *int
	Fees           *float64
	Timings        WeeklyTimings
	Qualifications []Qualification
	Bio            string
}

// Apply files a provider application for the calling account. Only one
// application per account; the profile starts pending and the caller may
// fill in specialization/experience/fees later.
func (s *Service) Apply(ctx context.Context, caller *account.Account, in ApplyInput) (*Doctor, error) {
	if in.FullName == "" {
		return nil, apperr.Validationf("full name is required")
	}
	phone := in.Phone
	if phone == "" {
		phone = caller.Phone
	}

	d, err := s.repo.Create(ctx, CreateParams{
		AccountID:      caller.ID,
		FullName:       in.FullName,
		Email:          caller.Email,
		Phone:          phone,
		Address:        in.Address,
		Specialization: in.Specialization,
		Experience:     in.Experience,
		Fees:           in.Fees,
		Timings:        in.Timings,
		Qualifications: in.Qualifications,
		Bio:            in.Bio,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			return nil, err
		}
		return nil, fmt.Errorf("create doctor application: %w", err)
	}

	if err := s.accounts.SetRole(ctx, caller.ID, caller.Role, true); err != nil {
		s.logger.Error("mark account as applicant", "error", err, "account_id", caller.ID)
	}

	s.notifyAdmin(ctx, fmt.Sprintf("New doctor application from %s", caller.Name))

	return d, nil
}

// RegisterApplication files the minimal application created alongside
// registration. Unlike Apply, a failure here is fatal to the caller, which
// rolls the new account back.
func (s *Service) RegisterApplication(ctx context.Context, accountID uuid.UUID, fullName, email, phone string) error {
	_, err := s.repo.Create(ctx, CreateParams{
		AccountID: accountID,
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
	})
	return err
}

// StatusForAccount reports the application status for the login response.
func (s *Service) StatusForAccount(ctx context.Context, accountID uuid.UUID) (string, bool, error) {
	d, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(d.Status), true, nil
}

// UpdateInput carries the enumerated patch fields. Nil pointers and empty
// values leave the stored field untouched.
type UpdateInput struct {
	FullName       string
	Phone          string
	Address        *Address
	Specialization *string
	Experience     *int
	Fees           *float64
	Timings        WeeklyTimings
	Qualifications []Qualification
	Bio            *string
}

// UpdateProfileByAccount patches the caller's own profile. Changing
// specialization to a different non-empty value sends the profile back to
// pending so an admin reviews it again before it is bookable.
func (s *Service) UpdateProfileByAccount(ctx context.Context, accountID uuid.UUID, in UpdateInput) (*Doctor, error) {
	d, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	oldSpecialization := ""
	if d.Specialization != nil {
		oldSpecialization = *d.Specialization
	}

	if in.FullName != "" {
		d.FullName = in.FullName
	}
	if in.Phone != "" {
		d.Phone = in.Phone
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	if in.Specialization != nil {
		d.Specialization = in.Specialization
	}
	if in.Experience != nil {
		d.Experience = in.Experience
	}
	if in.Fees != nil {
		d.Fees = in.Fees
	}
	if in.Timings != nil {
		d.Timings = in.Timings
	}
	if in.Qualifications != nil {
		d.Qualifications = in.Qualifications
	}
	if in.Bio != nil {
		d.Bio = *in.Bio
	}

	if in.Specialization != nil && *in.Specialization != "" && *in.Specialization != oldSpecialization {
		d.Status = StatusPending
	}

	updated, err := s.repo.Update(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("update doctor profile: %w", err)
	}
	return updated, nil
}

// Search returns approved doctors matching the conjunctive filters, highest
// rated first.
func (s *Service) Search(ctx context.Context, f SearchFilters) ([]Doctor, error) {
	return s.repo.Search(ctx, f)
}

// GetByID is a public read with no status filter; callers decide bookability.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByAccount returns the profile owned by the account, if any.
func (s *Service) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Doctor, error) {
	return s.repo.GetByAccountID(ctx, accountID)
}

// ListAll returns profiles in any status, optionally filtered. Admin read.
func (s *Service) ListAll(ctx context.Context, status Status) ([]Doctor, error) {
	if status != "" && status != StatusPending && status != StatusApproved && status != StatusRejected {
		return nil, apperr.Validationf("invalid status filter %q", status)
	}
	return s.repo.List(ctx, status)
}

// CountByStatus reports how many profiles sit in a status. Admin dashboard read.
func (s *Service) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return s.repo.CountByStatus(ctx, status)
}

// Review approves or rejects an application. Approval promotes the owning
// account to the doctor role; rejection reverts it to a regular user. The
// owner is notified either way, best-effort.
func (s *Service) Review(ctx context.Context, id uuid.UUID, status Status, rejectionReason string) (*Doctor, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, apperr.Validationf(`status must be either "approved" or "rejected"`)
	}

	d, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	var message string
	if status == StatusApproved {
		if err := s.accounts.SetRole(ctx, d.AccountID, account.RoleDoctor, true); err != nil {
			return nil, fmt.Errorf("promote account to doctor: %w", err)
		}
		message = "Your doctor application has been approved!"
	} else {
		if err := s.accounts.SetRole(ctx, d.AccountID, account.RoleUser, false); err != nil {
			return nil, fmt.Errorf("revert account role: %w", err)
		}
		if rejectionReason == "" {
			rejectionReason = "Not specified by admin"
		}
		message = fmt.Sprintf("Your doctor application has been rejected. Reason: %s", rejectionReason)
	}

	if err := s.notify.Notify(ctx, d.AccountID, notification.KindApproval, message, nil); err != nil {
		s.logger.Error("notify doctor about review", "error", err, "doctor_id", d.ID)
	}

	return d, nil
}

func (s *Service) notifyAdmin(ctx context.Context, message string) {
	admin, err := s.accounts.FindAdmin(ctx)
	if err != nil {
		if !errors.Is(err, account.ErrAccountNotFound) {
			s.logger.Error("find admin for notification", "error", err)
		}
		return
	}
	if err := s.notify.Notify(ctx, admin.ID, notification.KindApproval, message, nil); err != nil {
		s.logger.Error("notify admin", "error", err, "account_id", admin.ID)
	}
}
