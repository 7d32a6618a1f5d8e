package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/doctor"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	acct, token, err := a.accounts.Register(r.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		IsDoctor: req.IsDoctor,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusCreated, newAuthData(acct, token, ""))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	acct, token, doctorStatus, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, newAuthData(acct, token, doctorStatus))
}

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	data := profileData{User: acct}
	if acct.IsDoctor {
		doc, err := a.doctors.GetByAccount(r.Context(), acct.ID)
		if err == nil {
			data.Doctor = doc
		} else if !errors.Is(err, doctor.ErrDoctorNotFound) {
			a.writeDomainError(w, err)
			return
		}
	}

	writeData(w, http.StatusOK, data)
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "could not parse JSON")
		return
	}

	updated, token, err := a.accounts.UpdateProfile(r.Context(), acct.ID, account.UpdateProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, newAuthData(updated, token, ""))
}

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	items, err := a.notifications.List(r.Context(), acct.ID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeList(w, http.StatusOK, items)
}

func (a *API) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	acct := AccountFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, "id must be a valid UUID")
		return
	}

	if err := a.notifications.MarkRead(r.Context(), acct.ID, id); err != nil {
		a.writeDomainError(w, err)
		return
	}

	writeDataMsg(w, http.StatusOK, nil, "notification marked as read")
}
