package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medibook/medibook/internal/db"
)

const accountColumns = `id, name, email, password_hash, phone, role, is_doctor, created_at, updated_at`

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Phone,
		&a.Role,
		&a.IsDoctor,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

func (r *PgRepository) Create(ctx context.Context, p CreateParams) (*Account, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, phone, role, is_doctor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'user', $6, now(), now())
		RETURNING `+accountColumns+`
	`, id, p.Name, strings.ToLower(strings.TrimSpace(p.Email)), p.PasswordHash, p.Phone, p.IsDoctor)

	a, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return a, nil
}

func (r *PgRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone, passwordHash string) (*Account, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE accounts
		SET name = $2,
		    phone = $3,
		    password_hash = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns+`
	`, id, name, phone, passwordHash)
	return scanAccount(row)
}

func (r *PgRepository) SetRole(ctx context.Context, id uuid.UUID, role Role, isDoctor bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET role = $2,
		    is_doctor = $3,
		    updated_at = now()
		WHERE id = $1
	`, id, role, isDoctor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

func (r *PgRepository) FindAdmin(ctx context.Context) (*Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE role = 'admin'
		ORDER BY created_at
		LIMIT 1
	`)
	return scanAccount(row)
}

func (r *PgRepository) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CountByRole(ctx context.Context, role Role) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE role = $1`, role).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
