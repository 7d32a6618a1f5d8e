package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/pkg/logging"
)

// Service is the fan-out side channel. Callers treat every Notify error as
// non-fatal: the triggering operation logs it and carries on.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Notify appends one notification to the account's feed.
func (s *Service) Notify(ctx context.Context, accountID uuid.UUID, kind Kind, message string, appointmentID *uuid.UUID) error {
	n := Notification{
		ID:            uuid.New(),
		AccountID:     accountID,
		Kind:          kind,
		Message:       message,
		AppointmentID: appointmentID,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the account's notifications, newest first.
func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]Notification, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// MarkRead is idempotent: marking an already-read or unknown notification
// succeeds without effect.
func (s *Service) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, accountID, notificationID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
