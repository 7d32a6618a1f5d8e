package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/doctor"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	IsDoctor bool   `json:"isDoctor"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsDoctor     bool   `json:"isDoctor"`
	Role         string `json:"role"`
	DoctorStatus string `json:"doctorStatus,omitempty"`
	Token        string `json:"token"`
}

func newAuthData(acct *account.Account, token, doctorStatus string) authData {
	return authData{
		ID:           acct.ID.String(),
		Name:         acct.Name,
		Email:        acct.Email,
		Phone:        acct.Phone,
		IsDoctor:     acct.IsDoctor,
		Role:         string(acct.Role),
		DoctorStatus: doctorStatus,
		Token:        token,
	}
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type profileData struct {
	User   *account.Account `json:"user"`
	Doctor *doctor.Doctor   `json:"doctor,omitempty"`
}

type applyDoctorRequest struct {
	FullName       string                 `json:"fullName"`
	Phone          string                 `json:"phone"`
	Address        doctor.Address         `json:"address"`
	Specialization *string                `json:"specialization"`
	Experience     *int                   `json:"experience"`
	Fees           *float64               `json:"fees"`
	Timings        doctor.WeeklyTimings   `json:"timings"`
	Qualifications []doctor.Qualification `json:"qualifications"`
	Bio            string                 `json:"bio"`
}

type updateDoctorRequest struct {
	FullName       string                 `json:"fullName"`
	Phone          string                 `json:"phone"`
	Address        *doctor.Address        `json:"address"`
	Specialization *string                `json:"specialization"`
	Experience     *int                   `json:"experience"`
	Fees           *float64               `json:"fees"`
	Timings        doctor.WeeklyTimings   `json:"timings"`
	Qualifications []doctor.Qualification `json:"qualifications"`
	Bio            *string                `json:"bio"`
}

type bookRequest struct {
	DoctorID string          `json:"doctorId"`
	Date     string          `json:"date"`
	TimeSlot json.RawMessage `json:"timeSlot"`
	Reason   string          `json:"reason"`
}

type rescheduleRequest struct {
	Date     string          `json:"date"`
	TimeSlot json.RawMessage `json:"timeSlot"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type reviewDoctorRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

type dashboardStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalDoctors      int64   `json:"totalDoctors"`
	PendingDoctors    int64   `json:"pendingDoctors"`
	TotalAppointments int64   `json:"totalAppointments"`
	TodayAppointments int64   `json:"todayAppointments"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// decodeTimeSlot accepts either a JSON object or a JSON string holding a
// JSON object (clients sending multipart forms double-encode the field).
// Anything else fails closed.
func decodeTimeSlot(raw []byte) (booking.TimeSlot, error) {
	var slot booking.TimeSlot
	if len(raw) == 0 {
		return slot, fmt.Errorf("time slot is required")
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return slot, fmt.Errorf("invalid time slot format")
		}
		raw = []byte(inner)
	}

	if err := json.Unmarshal(raw, &slot); err != nil {
		return slot, fmt.Errorf("invalid time slot format")
	}
	return slot, nil
}

// decodeStatusBody accepts {"status":"x"} or a JSON string holding that
// object, failing closed on anything else.
func decodeStatusBody(raw []byte) (string, error) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &req); err == nil && req.Status != "" {
		return req.Status, nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &req); err == nil && req.Status != "" {
			return req.Status, nil
		}
	}

	return "", fmt.Errorf("status is required")
}

// parseDate accepts a bare calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date format")
}
