package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/doctor"
)

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.accounts.ListAll(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, users)
}

func (a *API) handleAdminListDoctors(w http.ResponseWriter, r *http.Request) {
	status := doctor.Status(r.URL.Query().Get("status"))

	doctors, err := a.doctors.ListAll(r.Context(), status)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, doctors)
}

func (a *API) handleAdminReviewDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	var req reviewDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, KindValidation, "status is required")
		return
	}

	doc, err := a.doctors.Review(r.Context(), id, doctor.Status(req.Status), req.RejectionReason)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, doc, "doctor "+req.Status+" successfully")
}

func (a *API) handleAdminListAppointments(w http.ResponseWriter, r *http.Request) {
	items, err := a.bookings.ListAllAdmin(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, items)
}

func (a *API) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalUsers, err := a.accounts.CountByRole(ctx, account.RoleUser)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	totalDoctors, err := a.doctors.CountByStatus(ctx, doctor.StatusApproved)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	pendingDoctors, err := a.doctors.CountByStatus(ctx, doctor.StatusPending)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	bookingStats, err := a.bookings.Stats(ctx)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, dashboardStats{
		TotalUsers:        totalUsers,
		TotalDoctors:      totalDoctors,
		PendingDoctors:    pendingDoctors,
		TotalAppointments: bookingStats.TotalAppointments,
		TodayAppointments: bookingStats.TodayAppointments,
		TotalRevenue:      bookingStats.TotalRevenue,
	})
}
