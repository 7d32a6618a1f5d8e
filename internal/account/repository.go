package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	IsDoctor     bool
}

// Repository contains all DB interactions needed by the identity store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)

	Create(ctx context.Context, p CreateParams) (*Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, passwordHash string) (*Account, error)
	SetRole(ctx context.Context, id uuid.UUID, role Role, isDoctor bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Admin reads
	FindAdmin(ctx context.Context) (*Account, error)
	ListAll(ctx context.Context) ([]Account, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
