package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository contains all DB interactions needed by the fan-out service.
type Repository interface {
	Insert(ctx context.Context, n Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) error
}
