package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/doctor"
)

func (a *API) handleSearchDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := doctor.SearchFilters{
		Specialization: q.Get("specialization"),
		City:           q.Get("city"),
	}
	if v := q.Get("minExperience"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, KindValidation, "minExperience must be a number")
			return
		}
		filters.MinExperience = n
	}
	if v := q.Get("maxFees"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, KindValidation, "maxFees must be a number")
			return
		}
		filters.MaxFees = n
	}

	doctors, err := a.doctors.Search(r.Context(), filters)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, doctors)
}

func (a *API) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	doc, err := a.doctors.GetByID(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, doc)
}

func (a *API) handleDoctorSlots(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	slots, err := a.bookings.Slots(r.Context(), id, date)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, slots)
}

func (a *API) handleApplyDoctor(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	var req applyDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	doc, err := a.doctors.Apply(r.Context(), acct, doctor.ApplyInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Address:        req.Address,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Fees:           req.Fees,
		Timings:        req.Timings,
		Qualifications: req.Qualifications,
		Bio:            req.Bio,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusCreated, doc, "application submitted successfully")
}

func (a *API) handleUpdateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	var req updateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	doc, err := a.doctors.UpdateProfileByAccount(r.Context(), acct.ID, doctor.UpdateInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Address:        req.Address,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Fees:           req.Fees,
		Timings:        req.Timings,
		Qualifications: req.Qualifications,
		Bio:            req.Bio,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, doc, "profile updated successfully")
}

func (a *API) handleDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	items, err := a.bookings.ListForDoctor(r.Context(), acct.ID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, items)
}

func (a *API) handleUpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not read request body")
		return
	}

	status, err := decodeStatusBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	appt, err := a.bookings.UpdateStatus(r.Context(), acct, id, booking.Status(status))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, appt, "appointment "+status+" successfully")
}
