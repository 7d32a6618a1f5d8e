package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/notification"
	"github.com/medibook/medibook/pkg/logging"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var (
	emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// TokenSigner issues bearer tokens for an account identity.
type TokenSigner interface {
	Sign(accountID uuid.UUID) (string, error)
}

// Notifier appends a notification record, best-effort.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) error
}

// DoctorRegistrar files a minimal provider application during registration
// and reports application status for the login response.
type DoctorRegistrar interface {
	RegisterApplication(ctx context.Context, accountID uuid.UUID, fullName, email, phone string) error
	StatusForAccount(ctx context.Context, accountID uuid.UUID) (string, bool, error)
}

type Service struct {
	repo    Repository
	hasher  *auth.PasswordHasher
	signer  TokenSigner
	doctors DoctorRegistrar
	notify  Notifier
	logger  *logging.Logger
}

func NewService(repo Repository, hasher *auth.PasswordHasher, signer TokenSigner, doctors DoctorRegistrar, notify Notifier, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:    repo,
		hasher:  hasher,
		signer:  signer,
		doctors: doctors,
		notify:  notify,
		logger:  logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	IsDoctor bool
}

// Register creates an account, and when IsDoctor is set, a minimal pending
// provider application alongside it. The application failing rolls the
// account back; a failed admin notification does not.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, string, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Phone == "" {
		return nil, "", apperr.Validationf("please provide all required fields")
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		return nil, "", apperr.Validationf("please enter a valid email address")
	}
	if !phonePattern.MatchString(in.Phone) {
		return nil, "", apperr.Validationf("please enter a valid 10-digit phone number")
	}
	if len(in.Password) < 6 {
		return nil, "", apperr.Validationf("password must be at least 6 characters long")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	acct, err := s.repo.Create(ctx, CreateParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		IsDoctor:     in.IsDoctor,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	if in.IsDoctor {
		if err := s.doctors.RegisterApplication(ctx, acct.ID, acct.Name, acct.Email, acct.Phone); err != nil {
			if delErr := s.repo.Delete(ctx, acct.ID); delErr != nil {
				s.logger.Error("rollback of account after failed doctor application", "error", delErr, "account_id", acct.ID)
			}
			return nil, "", fmt.Errorf("create doctor application: %w", err)
		}
		s.notifyAdmin(ctx, fmt.Sprintf("New doctor application from %s", acct.Name))
	}

	token, err := s.signer.Sign(acct.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return acct, token, nil
}

// Login verifies credentials and returns the account, a fresh token, and the
// provider application status when the account has applied.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, string, error) {
	acct, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("load account: %w", err)
	}

	if !s.hasher.Compare(password, acct.PasswordHash) {
		return nil, "", "", ErrInvalidCredentials
	}

	doctorStatus := ""
	if acct.IsDoctor {
		status, found, err := s.doctors.StatusForAccount(ctx, acct.ID)
		if err != nil {
			s.logger.Warn("load doctor status for login", "error", err, "account_id", acct.ID)
		} else if found {
			doctorStatus = status
		}
	}

	token, err := s.signer.Sign(acct.ID)
	if err != nil {
		return nil, "", "", fmt.Errorf("sign token: %w", err)
	}

	return acct, token, doctorStatus, nil
}

// Get returns the account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

type UpdateProfileInput struct {
	Name     string
	Phone    string
	Password string
}

// UpdateProfile changes name/phone and optionally the password, then issues
// a fresh token so clients don't keep working with stale display data.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*Account, string, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	name := acct.Name
	if in.Name != "" {
		name = in.Name
	}
	phone := acct.Phone
	if in.Phone != "" {
		if !phonePattern.MatchString(in.Phone) {
			return nil, "", apperr.Validationf("please enter a valid 10-digit phone number")
		}
		phone = in.Phone
	}
	hash := acct.PasswordHash
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, "", apperr.Validationf("password must be at least 6 characters long")
		}
		hash, err = s.hasher.Hash(in.Password)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, name, phone, hash)
	if err != nil {
		return nil, "", fmt.Errorf("update profile: %w", err)
	}

	token, err := s.signer.Sign(updated.ID)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return updated, token, nil
}

// ListAll returns every account, newest first. Admin read.
func (s *Service) ListAll(ctx context.Context) ([]Account, error) {
	return s.repo.ListAll(ctx)
}

// CountByRole reports how many accounts hold a role. Admin dashboard read.
func (s *Service) CountByRole(ctx context.Context, role Role) (int64, error) {
	return s.repo.CountByRole(ctx, role)
}

func (s *Service) notifyAdmin(ctx context.Context, message string) {
	admin, err := s.repo.FindAdmin(ctx)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			s.logger.Error("find admin for notification", "error", err)
		}
		return
	}
	if err := s.notify.Notify(ctx, admin.ID, notification.KindApproval, message, nil); err != nil {
		s.logger.Error("notify admin", "error", err, "account_id", admin.ID)
	}
}
