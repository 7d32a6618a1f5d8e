package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/medibook/internal/account"
	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/notification"
)

// memAccountRepo is a full in-memory account.Repository for handler tests.
type memAccountRepo struct {
	byID    map[uuid.UUID]*account.Account
	byEmail map[string]*account.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{
		byID:    map[uuid.UUID]*account.Account{},
		byEmail: map[string]*account.Account{},
	}
}

func (m *memAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, account.ErrAccountNotFound
}

func (m *memAccountRepo) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	if a, ok := m.byEmail[strings.ToLower(email)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, account.ErrAccountNotFound
}

func (m *memAccountRepo) Create(ctx context.Context, p account.CreateParams) (*account.Account, error) {
	email := strings.ToLower(p.Email)
	if _, ok := m.byEmail[email]; ok {
		return nil, account.ErrEmailTaken
	}
	a := &account.Account{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        email,
		PasswordHash: p.PasswordHash,
		Phone:        p.Phone,
		Role:         account.RoleUser,
		IsDoctor:     p.IsDoctor,
	}
	m.byID[a.ID] = a
	m.byEmail[email] = a
	return a, nil
}

func (m *memAccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, passwordHash string) (*account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	a.Name = name
	a.Phone = phone
	a.PasswordHash = passwordHash
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) SetRole(ctx context.Context, id uuid.UUID, role account.Role, isDoctor bool) error {
	if a, ok := m.byID[id]; ok {
		a.Role = role
		a.IsDoctor = isDoctor
		return nil
	}
	return account.ErrAccountNotFound
}

func (m *memAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if a, ok := m.byID[id]; ok {
		delete(m.byEmail, a.Email)
		delete(m.byID, id)
	}
	return nil
}

func (m *memAccountRepo) FindAdmin(ctx context.Context) (*account.Account, error) {
	for _, a := range m.byID {
		if a.Role == account.RoleAdmin {
			return a, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memAccountRepo) ListAll(ctx context.Context) ([]account.Account, error) {
	var out []account.Account
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAccountRepo) CountByRole(ctx context.Context, role account.Role) (int64, error) {
	var n int64
	for _, a := range m.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

type noopRegistrar struct{}

func (noopRegistrar) RegisterApplication(ctx context.Context, accountID uuid.UUID, fullName, email, phone string) error {
	return nil
}

func (noopRegistrar) StatusForAccount(ctx context.Context, accountID uuid.UUID) (string, bool, error) {
	return "", false, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) error {
	return nil
}

func newAuthTestAPI(t *testing.T) (*API, *memAccountRepo) {
	t.Helper()
	repo := newMemAccountRepo()
	tokens := auth.NewTokenIssuer("handler-test-secret", time.Hour)
	accounts := account.NewService(repo, auth.NewPasswordHasher(4), tokens, noopRegistrar{}, noopNotifier{}, nil)
	return New(Deps{
		Accounts:    accounts,
		AccountRepo: repo,
		Tokens:      tokens,
		Env:         "test",
	}), repo
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	a, _ := newAuthTestAPI(t)

	rec := postJSON(t, a.handleRegister, "/api/auth/register", registerRequest{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Password: "secret123",
		Phone:    "5551234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Success bool     `json:"success"`
		Data    authData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "pat@example.com", body.Data.Email)
	assert.Equal(t, "user", body.Data.Role)
	assert.NotEmpty(t, body.Data.Token)
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	a, _ := newAuthTestAPI(t)

	req := registerRequest{Name: "Pat", Email: "pat@example.com", Password: "secret123", Phone: "5551234567"}
	rec := postJSON(t, a.handleRegister, "/api/auth/register", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, a.handleRegister, "/api/auth/register", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindConflict, body.Kind)
}

func TestHandleRegister_MalformedJSON(t *testing.T) {
	a, _ := newAuthTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	a.handleRegister(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindValidation, body.Kind)
}

func TestHandleLogin(t *testing.T) {
	a, _ := newAuthTestAPI(t)

	rec := postJSON(t, a.handleRegister, "/api/auth/register", registerRequest{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Password: "secret123",
		Phone:    "5551234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, a.handleLogin, "/api/auth/login", loginRequest{
		Email:    "pat@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data authData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)

	// The token must authenticate follow-up requests.
	id, err := a.tokens.Verify(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, body.Data.ID, id.String())
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	a, _ := newAuthTestAPI(t)

	rec := postJSON(t, a.handleRegister, "/api/auth/register", registerRequest{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Password: "secret123",
		Phone:    "5551234567",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, a.handleLogin, "/api/auth/login", loginRequest{
		Email:    "pat@example.com",
		Password: "nope",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, KindUnauthenticated, body.Kind)
	assert.False(t, body.Success)
}
