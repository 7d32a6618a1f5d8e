package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/booking"
	"github.com/medibook/medibook/internal/doctor"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestWriteDomainError_Taxonomy(t *testing.T) {
	a := New(Deps{Env: "test"})

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", apperr.Validationf("bad input"), http.StatusBadRequest, KindValidation},
		{"email taken", account.ErrEmailTaken, http.StatusBadRequest, KindConflict},
		{"bad credentials", account.ErrInvalidCredentials, http.StatusUnauthorized, KindUnauthenticated},
		{"doctor missing", doctor.ErrDoctorNotFound, http.StatusNotFound, KindNotFound},
		{"already applied", doctor.ErrAlreadyApplied, http.StatusBadRequest, KindConflict},
		{"slot taken", booking.ErrSlotTaken, http.StatusBadRequest, KindConflict},
		{"slot contended", booking.ErrSlotBeingBooked, http.StatusConflict, KindConflict},
		{"not owner", booking.ErrNotOwner, http.StatusForbidden, KindForbidden},
		{"cancel completed", booking.ErrAlreadyCompleted, http.StatusBadRequest, KindInvalidState},
		{"finalized", booking.ErrAlreadyFinalized, http.StatusBadRequest, KindInvalidState},
		{"unknown", errors.New("pg: connection reset"), http.StatusInternalServerError, KindInternal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.writeDomainError(rec, c.err)

			if rec.Code != c.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, c.wantStatus)
			}
			body := decodeError(t, rec)
			if body.Success {
				t.Error("success should be false")
			}
			if body.Kind != c.wantKind {
				t.Errorf("kind = %q, want %q", body.Kind, c.wantKind)
			}
		})
	}
}

func TestWriteDomainError_DetailOnlyInDev(t *testing.T) {
	cause := errors.New("pg: connection reset")

	rec := httptest.NewRecorder()
	New(Deps{Env: "production"}).writeDomainError(rec, cause)
	if body := decodeError(t, rec); body.Detail != "" {
		t.Errorf("detail leaked outside dev: %q", body.Detail)
	}

	rec = httptest.NewRecorder()
	New(Deps{Env: "dev"}).writeDomainError(rec, cause)
	if body := decodeError(t, rec); body.Detail != cause.Error() {
		t.Errorf("detail = %q, want %q", body.Detail, cause.Error())
	}
}

func TestWriteList_NilBecomesEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	writeList[booking.Appointment](rec, http.StatusOK, nil)

	var body struct {
		Success bool                  `json:"success"`
		Count   int                   `json:"count"`
		Data    []booking.Appointment `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Count != 0 || body.Data == nil {
		t.Errorf("body = %+v, want empty array with count 0", body)
	}
}
