package api

import (
	"errors"
	"net/http"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/doctor"
)

// Error taxonomy kinds, stable for clients.
const (
	KindValidation      = "ValidationError"
	KindNotFound        = "NotFound"
	KindConflict        = "Conflict"
	KindForbidden       = "Forbidden"
	KindUnauthenticated = "Unauthenticated"
	KindInvalidState    = "InvalidState"
	KindInternal        = "Internal"
)

// writeDomainError maps domain sentinels onto the error taxonomy. Anything
// unrecognized is an internal error; its detail is only surfaced in dev.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	var ve *apperr.Validation
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, KindValidation, ve.Message)
		return
	}

	switch {
	case errors.Is(err, account.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, KindConflict, "user already exists")
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, KindUnauthenticated, "invalid email or password")
	case errors.Is(err, account.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "user not found")

	case errors.Is(err, doctor.ErrAlreadyApplied):
		writeError(w, http.StatusBadRequest, KindConflict, "you have already applied")
	case errors.Is(err, doctor.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "doctor not found")

	case errors.Is(err, booking.ErrDoctorNotBookable):
		writeError(w, http.StatusNotFound, KindNotFound, "doctor not found or not approved")
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusBadRequest, KindConflict, "this time slot is already booked")
	case errors.Is(err, booking.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, KindConflict, "slot is currently being booked, please retry shortly")
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "appointment not found")
	case errors.Is(err, booking.ErrNotOwner):
		writeError(w, http.StatusForbidden, KindForbidden, "not authorized")
	case errors.Is(err, booking.ErrAlreadyCompleted):
		writeError(w, http.StatusBadRequest, KindInvalidState, "cannot cancel completed appointment")
	case errors.Is(err, booking.ErrAlreadyFinalized):
		writeError(w, http.StatusBadRequest, KindInvalidState, "appointment is already finalized")
	case errors.Is(err, booking.ErrDoctorProfileGone):
		writeError(w, http.StatusNotFound, KindNotFound, "doctor profile not found")

	default:
		a.logger.Error("unhandled error", "error", err)
		resp := ErrorResponse{Success: false, Kind: KindInternal, Message: "server error"}
		if a.env == "dev" {
			resp.Detail = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}
