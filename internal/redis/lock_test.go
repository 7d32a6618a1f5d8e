package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotLocker(client, 5*time.Second), mr
}

func TestWithSlotLock_RunsCriticalSection(t *testing.T) {
	locker, _ := newTestLocker(t)

	ran := false
	err := locker.WithSlotLock(context.Background(), uuid.New(), time.Now(), "10:00", func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSlotLock: %v", err)
	}
	if !ran {
		t.Fatal("critical section did not run")
	}
}

func TestWithSlotLock_HeldLockRejectsSecondCaller(t *testing.T) {
	locker, _ := newTestLocker(t)

	doctorID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	err := locker.WithSlotLock(context.Background(), doctorID, day, "10:00", func(ctx context.Context) error {
		// Re-entering the same slot while held must fail.
		inner := locker.WithSlotLock(ctx, doctorID, day, "10:00", func(ctx context.Context) error {
			t.Fatal("second caller must not enter the critical section")
			return nil
		})
		if !errors.Is(inner, ErrLockNotAcquired) {
			t.Fatalf("expected ErrLockNotAcquired, got %v", inner)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer WithSlotLock: %v", err)
	}
}

func TestWithSlotLock_DifferentSlotsDoNotContend(t *testing.T) {
	locker, _ := newTestLocker(t)

	doctorID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	err := locker.WithSlotLock(context.Background(), doctorID, day, "10:00", func(ctx context.Context) error {
		return locker.WithSlotLock(ctx, doctorID, day, "10:30", func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("locks for different slots should not contend: %v", err)
	}
}

func TestWithSlotLock_ReleasesOnReturn(t *testing.T) {
	locker, mr := newTestLocker(t)

	doctorID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if err := locker.WithSlotLock(context.Background(), doctorID, day, "10:00", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("first acquisition: %v", err)
	}

	if got := len(mr.Keys()); got != 0 {
		t.Fatalf("lock key not released, %d keys remain", got)
	}

	// And the slot is acquirable again.
	if err := locker.WithSlotLock(context.Background(), doctorID, day, "10:00", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("second acquisition: %v", err)
	}
}

func TestWithSlotLock_CriticalSectionErrorPropagates(t *testing.T) {
	locker, _ := newTestLocker(t)

	boom := errors.New("boom")
	err := locker.WithSlotLock(context.Background(), uuid.New(), time.Now(), "10:00", func(ctx context.Context) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected critical section error, got %v", err)
	}
}
