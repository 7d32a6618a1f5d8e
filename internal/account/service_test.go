package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/apperr"
	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/notification"
)

// Mock implementations

type mockRepo struct {
	byID    map[uuid.UUID]*Account
	byEmail map[string]*Account
	admin   *Account
	deleted []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:    map[uuid.UUID]*Account{},
		byEmail: map[string]*Account{},
	}
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	if a, ok := m.byEmail[strings.ToLower(email)]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrAccountNotFound
}

func (m *mockRepo) Create(ctx context.Context, p CreateParams) (*Account, error) {
	email := strings.ToLower(p.Email)
	if _, ok := m.byEmail[email]; ok {
		return nil, ErrEmailTaken
	}
	a := &Account{
		ID:           uuid.New(),
		Name:         p.Name,
		Email:        email,
		PasswordHash: p.PasswordHash,
		Phone:        p.Phone,
		Role:         RoleUser,
		IsDoctor:     p.IsDoctor,
	}
	m.byID[a.ID] = a
	m.byEmail[email] = a
	return a, nil
}

func (m *mockRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, passwordHash string) (*Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	a.Name = name
	a.Phone = phone
	a.PasswordHash = passwordHash
	cp := *a
	return &cp, nil
}

func (m *mockRepo) SetRole(ctx context.Context, id uuid.UUID, role Role, isDoctor bool) error {
	a, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	a.Role = role
	a.IsDoctor = isDoctor
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	a, ok := m.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	delete(m.byEmail, a.Email)
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) FindAdmin(ctx context.Context) (*Account, error) {
	if m.admin == nil {
		return nil, ErrAccountNotFound
	}
	return m.admin, nil
}

func (m *mockRepo) ListAll(ctx context.Context) ([]Account, error) {
	var out []Account
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockRepo) CountByRole(ctx context.Context, role Role) (int64, error) {
	var n int64
	for _, a := range m.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

type stubSigner struct{ err error }

func (s stubSigner) Sign(accountID uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + accountID.String(), nil
}

type stubRegistrar struct {
	applications []uuid.UUID
	applyErr     error
	status       string
	hasProfile   bool
}

func (s *stubRegistrar) RegisterApplication(ctx context.Context, accountID uuid.UUID, fullName, email, phone string) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applications = append(s.applications, accountID)
	return nil
}

func (s *stubRegistrar) StatusForAccount(ctx context.Context, accountID uuid.UUID) (string, bool, error) {
	return s.status, s.hasProfile, nil
}

type stubNotifier struct{ messages []string }

func (s *stubNotifier) Notify(ctx context.Context, accountID uuid.UUID, kind notification.Kind, message string, appointmentID *uuid.UUID) error {
	s.messages = append(s.messages, message)
	return nil
}

func newTestService(repo *mockRepo, registrar *stubRegistrar, notify *stubNotifier) *Service {
	if registrar == nil {
		registrar = &stubRegistrar{}
	}
	if notify == nil {
		notify = &stubNotifier{}
	}
	return NewService(repo, auth.NewPasswordHasher(4), stubSigner{}, registrar, notify, nil)
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Password: "secret123",
		Phone:    "5551234567",
	}
}

// Tests

func TestRegister_Succeeds(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil, nil)

	acct, token, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acct.Role != RoleUser {
		t.Errorf("role = %s, want user", acct.Role)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if acct.PasswordHash == "secret123" {
		t.Error("password stored in clear")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMockRepo(), nil, nil)

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short phone", func(in *RegisterInput) { in.Phone = "12345" }},
		{"phone with letters", func(in *RegisterInput) { in.Phone = "55512345ab" }},
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := validInput()
			c.mutate(&in)
			_, _, err := svc.Register(context.Background(), in)
			var v *apperr.Validation
			if !errors.As(err, &v) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil, nil)

	if _, _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := svc.Register(context.Background(), validInput())
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_DoctorApplicationFiled(t *testing.T) {
	repo := newMockRepo()
	registrar := &stubRegistrar{}
	notify := &stubNotifier{}
	repo.admin = &Account{ID: uuid.New(), Role: RoleAdmin}
	svc := newTestService(repo, registrar, notify)

	in := validInput()
	in.IsDoctor = true
	acct, _, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(registrar.applications) != 1 || registrar.applications[0] != acct.ID {
		t.Errorf("application not filed for %s: %v", acct.ID, registrar.applications)
	}
	if len(notify.messages) != 1 || !strings.Contains(notify.messages[0], "New doctor application") {
		t.Errorf("admin not notified, got %v", notify.messages)
	}
}

func TestRegister_RollsBackAccountWhenApplicationFails(t *testing.T) {
	repo := newMockRepo()
	registrar := &stubRegistrar{applyErr: errors.New("doctors table down")}
	svc := newTestService(repo, registrar, nil)

	in := validInput()
	in.IsDoctor = true
	_, _, err := svc.Register(context.Background(), in)
	if err == nil {
		t.Fatal("expected registration to fail")
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("account not rolled back, deleted=%v", repo.deleted)
	}
	if _, err := repo.GetByEmail(context.Background(), "pat@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("account still present after rollback: %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &stubRegistrar{status: "approved", hasProfile: true}, nil)

	if _, _, err := svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	acct, token, doctorStatus, err := svc.Login(context.Background(), "pat@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if acct.Email != "pat@example.com" || token == "" {
		t.Errorf("login returned acct=%v token=%q", acct, token)
	}
	if doctorStatus != "" {
		t.Errorf("doctorStatus = %q for a non-applicant, want empty", doctorStatus)
	}

	if _, _, _, err := svc.Login(context.Background(), "pat@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ghost@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_ReturnsDoctorStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &stubRegistrar{status: "pending", hasProfile: true}, nil)

	in := validInput()
	in.IsDoctor = true
	if _, _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, doctorStatus, err := svc.Login(context.Background(), "pat@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if doctorStatus != "pending" {
		t.Errorf("doctorStatus = %q, want pending", doctorStatus)
	}
}

func TestUpdateProfile_IssuesFreshToken(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil, nil)

	acct, _, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, token, err := svc.UpdateProfile(context.Background(), acct.ID, UpdateProfileInput{Name: "New Name"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q, want New Name", updated.Name)
	}
	if updated.Phone != acct.Phone {
		t.Errorf("phone changed unexpectedly: %q", updated.Phone)
	}
	if token == "" {
		t.Error("expected a fresh token")
	}
}

func TestUpdateProfile_RejectsBadPhone(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil, nil)

	acct, _, err := svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err = svc.UpdateProfile(context.Background(), acct.ID, UpdateProfileInput{Phone: "abc"})
	var v *apperr.Validation
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "user-name@mail.example.org"}
	invalid := []string{"", "plain", "@nohost.com", "user@", "user@host", "user@@host.com"}

	for _, e := range valid {
		if !emailPattern.MatchString(e) {
			t.Errorf("%q should be a valid email", e)
		}
	}
	for _, e := range invalid {
		if emailPattern.MatchString(e) {
			t.Errorf("%q should be rejected", e)
		}
	}
}
