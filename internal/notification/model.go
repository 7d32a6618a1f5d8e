package notification

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAppointment  Kind = "appointment"
	KindApproval     Kind = "approval"
	KindReminder     Kind = "reminder"
	KindCancellation Kind = "cancellation"
)

// Notification is one entry in an account's notification feed. The
// appointment reference is weak: the appointment may be gone or invisible
// to the reader.
type Notification struct {
	ID            uuid.UUID  `json:"id"`
	AccountID     uuid.UUID  `json:"accountId"`
	Kind          Kind       `json:"kind"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
