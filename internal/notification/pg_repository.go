package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/db"
)

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func (r *PgRepository) Insert(ctx context.Context, n Notification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, account_id, kind, message, read, appointment_id, created_at)
		VALUES ($1, $2, $3, $4, false, $5, now())
	`, n.ID, n.AccountID, n.Kind, n.Message, n.AppointmentID)
	return err
}

func (r *PgRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, kind, message, read, appointment_id, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Kind, &n.Message, &n.Read, &n.AppointmentID, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// MarkRead is scoped to the account so one caller cannot flip another
// account's notifications. Zero rows affected is not an error.
func (r *PgRepository) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET read = true
		WHERE id = $1 AND account_id = $2
	`, notificationID, accountID)
	return err
}
