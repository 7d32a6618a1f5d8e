package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medibook/medibook/internal/db"
)

const doctorColumns = `id, account_id, full_name, email, phone, address, specialization,
	experience, fees, timings, qualifications, profile_image, bio,
	status, rating, total_reviews, created_at, updated_at`

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.AccountID,
		&d.FullName,
		&d.Email,
		&d.Phone,
		&d.Address,
		&d.Specialization,
		&d.Experience,
		&d.Fees,
		&d.Timings,
		&d.Qualifications,
		&d.ProfileImage,
		&d.Bio,
		&d.Status,
		&d.Rating,
		&d.TotalReviews,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	if d.Timings == nil {
		d.Timings = WeeklyTimings{}
	}
	return &d, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE account_id = $1
	`, accountID)
	return scanDoctor(row)
}

func (r *PgRepository) Create(ctx context.Context, p CreateParams) (*Doctor, error) {
	id := uuid.New()

	timings := p.Timings
	if timings == nil {
		timings = WeeklyTimings{}
	}
	quals := p.Qualifications
	if quals == nil {
		quals = []Qualification{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO doctors (id, account_id, full_name, email, phone, address, specialization,
			experience, fees, timings, qualifications, profile_image, bio,
			status, rating, total_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'default-doctor.png', $12,
			'pending', 0, 0, now(), now())
		RETURNING `+doctorColumns+`
	`, id, p.AccountID, p.FullName, p.Email, p.Phone, p.Address, p.Specialization,
		p.Experience, p.Fees, timings, quals, p.Bio)

	d, err := scanDoctor(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return d, nil
}

func (r *PgRepository) Update(ctx context.Context, d *Doctor) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE doctors
		SET full_name = $2,
		    phone = $3,
		    address = $4,
		    specialization = $5,
		    experience = $6,
		    fees = $7,
		    timings = $8,
		    qualifications = $9,
		    bio = $10,
		    status = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns+`
	`, d.ID, d.FullName, d.Phone, d.Address, d.Specialization, d.Experience,
		d.Fees, d.Timings, d.Qualifications, d.Bio, d.Status)
	return scanDoctor(row)
}

func (r *PgRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Doctor, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE doctors
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns+`
	`, id, status)
	return scanDoctor(row)
}

func (r *PgRepository) Search(ctx context.Context, f SearchFilters) ([]Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE status = 'approved'`

	args := []any{}
	n := 0

	next := func() string {
		n++
		return fmt.Sprintf("$%d", n)
	}

	if f.Specialization != "" {
		query += ` AND specialization ILIKE ` + next()
		args = append(args, "%"+f.Specialization+"%")
	}
	if f.City != "" {
		query += ` AND address->>'city' ILIKE ` + next()
		args = append(args, "%"+f.City+"%")
	}
	if f.MinExperience > 0 {
		query += ` AND experience >= ` + next()
		args = append(args, f.MinExperience)
	}
	if f.MaxFees > 0 {
		query += ` AND fees <= ` + next()
		args = append(args, f.MaxFees)
	}

	query += ` ORDER BY rating DESC`

	return r.queryDoctors(ctx, query, args...)
}

func (r *PgRepository) List(ctx context.Context, status Status) ([]Doctor, error) {
	if status == "" {
		return r.queryDoctors(ctx, `
			SELECT `+doctorColumns+`
			FROM doctors
			ORDER BY created_at DESC
		`)
	}
	return r.queryDoctors(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
}

func (r *PgRepository) CountByStatus(ctx context.Context, status Status) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM doctors WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) queryDoctors(ctx context.Context, query string, args ...any) ([]Doctor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
