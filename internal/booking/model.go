package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// Active statuses hold a slot for conflict purposes.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// TimeSlot is a half-hour interval inside a doctor's daily window, both
// bounds as "HH:MM".
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Document struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DoctorInfo and PatientInfo are snapshots captured at booking time. They
// are never refreshed: historical bookings keep displaying what was true
// when they were made.
type DoctorInfo struct {
	Name           string  `json:"name"`
	Specialization string  `json:"specialization,omitempty"`
	Fees           float64 `json:"fees"`
}

type PatientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Appointment struct {
	ID                 uuid.UUID     `json:"id"`
	DoctorID           uuid.UUID     `json:"doctorId"`
	AccountID          uuid.UUID     `json:"accountId"`
	DoctorInfo         DoctorInfo    `json:"doctorInfo"`
	PatientInfo        PatientInfo   `json:"patientInfo"`
	Date               time.Time     `json:"date"`
	TimeSlot           TimeSlot      `json:"timeSlot"`
	Documents          []Document    `json:"documents"`
	Status             Status        `json:"status"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	Reason             string        `json:"reason,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
