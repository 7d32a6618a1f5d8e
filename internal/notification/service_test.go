package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	byAccount map[uuid.UUID][]Notification
	insertErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byAccount: map[uuid.UUID][]Notification{}}
}

func (m *mockRepo) Insert(ctx context.Context, n Notification) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.byAccount[n.AccountID] = append(m.byAccount[n.AccountID], n)
	return nil
}

func (m *mockRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Notification, error) {
	return m.byAccount[accountID], nil
}

func (m *mockRepo) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) error {
	// Mirrors the SQL implementation: an UPDATE matching zero rows is not
	// an error.
	for i, n := range m.byAccount[accountID] {
		if n.ID == notificationID {
			m.byAccount[accountID][i].Read = true
		}
	}
	return nil
}

func TestNotify_AppendsToFeed(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	accountID := uuid.New()
	apptID := uuid.New()
	if err := svc.Notify(context.Background(), accountID, KindAppointment, "New appointment request from Pat", &apptID); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	feed, err := svc.List(context.Background(), accountID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed size = %d, want 1", len(feed))
	}
	n := feed[0]
	if n.Kind != KindAppointment || n.Read {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.AppointmentID == nil || *n.AppointmentID != apptID {
		t.Errorf("appointment link missing: %v", n.AppointmentID)
	}
}

func TestNotify_InsertFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	repo.insertErr = errors.New("db down")
	svc := NewService(repo, nil)

	if err := svc.Notify(context.Background(), uuid.New(), KindApproval, "hi", nil); err == nil {
		t.Fatal("expected error from failed insert")
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	accountID := uuid.New()
	if err := svc.Notify(context.Background(), accountID, KindApproval, "approved", nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	feed, _ := svc.List(context.Background(), accountID)
	id := feed[0].ID

	for range 2 {
		if err := svc.MarkRead(context.Background(), accountID, id); err != nil {
			t.Fatalf("MarkRead: %v", err)
		}
	}
	feed, _ = svc.List(context.Background(), accountID)
	if !feed[0].Read {
		t.Error("notification not marked read")
	}

	// Unknown IDs are a no-op, not an error.
	if err := svc.MarkRead(context.Background(), accountID, uuid.New()); err != nil {
		t.Errorf("MarkRead for unknown id: %v", err)
	}
}
