package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/booking"
)

const maxUploadBytes = 32 << 20

func (a *API) handleBookAppointment(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	var (
		req  bookRequest
		docs []booking.Document
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, KindValidation, "could not parse form")
			return
		}
		req.DoctorID = r.FormValue("doctorId")
		req.Date = r.FormValue("date")
		req.Reason = r.FormValue("reason")
		if v := r.FormValue("timeSlot"); v != "" {
			req.TimeSlot = json.RawMessage(v)
		}

		for _, header := range r.MultipartForm.File["documents"] {
			f, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, KindValidation, "could not read uploaded file")
				return
			}
			path, err := a.uploads.Save(r.Context(), header.Filename, f)
			_ = f.Close()
			if err != nil {
				a.writeDomainError(w, err)
				return
			}
			docs = append(docs, booking.Document{
				Filename:   header.Filename,
				Path:       path,
				UploadedAt: time.Now(),
			})
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
			return
		}
	}

	if req.DoctorID == "" {
		writeError(w, http.StatusBadRequest, KindValidation, "doctor ID is required")
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "invalid doctor ID format")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	slot, err := decodeTimeSlot(req.TimeSlot)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	appt, err := a.bookings.Book(r.Context(), acct, booking.BookInput{
		DoctorID:  doctorID,
		Date:      date,
		Slot:      slot,
		Reason:    req.Reason,
		Documents: docs,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusCreated, appt, "appointment booked successfully")
}

func (a *API) handleMyAppointments(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	items, err := a.bookings.ListMine(r.Context(), acct.ID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, items)
}

func (a *API) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	var req cancelRequest
	if r.Body != nil {
		// Body is optional; a missing reason falls back to the default.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	appt, err := a.bookings.Cancel(r.Context(), acct, id, req.Reason)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, appt, "appointment cancelled successfully")
}

func (a *API) handleRescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	slot, err := decodeTimeSlot(req.TimeSlot)
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	appt, err := a.bookings.Reschedule(r.Context(), acct, id, date, slot)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, appt, "appointment rescheduled successfully")
}
