package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrAlreadyApplied = errors.New("account already has a doctor application")
)

type CreateParams struct {
	AccountID      uuid.UUID
	FullName       string
	Email          string
	Phone          string
	Address        Address
	Specialization *string
	Experience     *int
	Fees           *float64
	Timings        WeeklyTimings
	Qualifications []Qualification
	Bio            string
}

// SearchFilters are conjunctive; zero values mean "no constraint".
type SearchFilters struct {
	Specialization string
	City           string
	MinExperience  int
	MaxFees        float64
}

// Repository contains all DB interactions needed by the provider directory.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Doctor, error)

	Create(ctx context.Context, p CreateParams) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) (*Doctor, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Doctor, error)

	Search(ctx context.Context, f SearchFilters) ([]Doctor, error)
	List(ctx context.Context, status Status) ([]Doctor, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
