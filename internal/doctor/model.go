package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Address struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	FullAddress string `json:"fullAddress,omitempty"`
}

// DayWindow is one weekday's working hours.
type DayWindow struct {
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Available bool   `json:"available"`
}

// WeeklyTimings maps lowercase weekday names ("monday".."sunday") to windows.
type WeeklyTimings map[string]DayWindow

type Qualification struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// Doctor is the practice-facing profile of an account. Specialization,
// experience and fees stay nil until the doctor completes the profile;
// only the approval status gates bookability.
type Doctor struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      uuid.UUID       `json:"accountId"`
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        Address         `json:"address"`
	Specialization *string         `json:"specialization,omitempty"`
	Experience     *int            `json:"experience,omitempty"`
	Fees           *float64        `json:"fees,omitempty"`
	Timings        WeeklyTimings   `json:"timings"`
	Status         Status          `json:"status"`
	Qualifications []Qualification `json:"qualifications"`
	ProfileImage   string          `json:"profileImage,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Rating         float64         `json:"rating"`
	TotalReviews   int             `json:"totalReviews"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
