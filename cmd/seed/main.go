package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibook/medibook/internal/auth"
	"github.com/medibook/medibook/internal/db"
	"github.com/medibook/medibook/internal/doctor"
)

// Every seeded account gets the same development password.
const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	hasher := auth.NewPasswordHasher(10)
	passwordHash, err := hasher.Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if err := seedAdmin(context.Background(), pool, passwordHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, passwordHash, 25); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, passwordHash, 200); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, passwordHash string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, phone, role, is_doctor, created_at, updated_at)
		VALUES ($1, 'Admin', 'admin@medibook.local', $2, '5550000000', 'admin', false, now(), now())
		ON CONFLICT (email) DO NOTHING
	`, uuid.New(), passwordHash)
	if err != nil {
		return err
	}
	log.Println("admin seeded (admin@medibook.local)")
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) error {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	timings := doctor.WeeklyTimings{
		"monday":    {Start: "09:00", End: "17:00", Available: true},
		"tuesday":   {Start: "09:00", End: "17:00", Available: true},
		"wednesday": {Start: "09:00", End: "17:00", Available: true},
		"thursday":  {Start: "09:00", End: "17:00", Available: true},
		"friday":    {Start: "09:00", End: "13:00", Available: true},
		"saturday":  {Available: false},
		"sunday":    {Available: false},
	}
	timingsJSON, err := json.Marshal(timings)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		accountID := uuid.New()
		name := gofakeit.Name()
		email := strings.ToLower(gofakeit.Email())
		phone := gofakeit.Numerify("##########")
		spec := specializations[gofakeit.Number(0, len(specializations)-1)]
		experience := gofakeit.Number(1, 30)
		fees := float64(gofakeit.Number(40, 300))

		addressJSON, err := json.Marshal(doctor.Address{
			Street:  gofakeit.Street(),
			City:    gofakeit.City(),
			State:   gofakeit.StateAbr(),
			ZipCode: gofakeit.Zip(),
		})
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO accounts (id, name, email, password_hash, phone, role, is_doctor, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'doctor', true, now(), now())
		`, accountID, name, email, passwordHash, phone)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, account_id, full_name, email, phone, address,
				specialization, experience, fees, timings, status, rating, total_reviews,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'approved', $11, $12, now(), now())
		`, uuid.New(), accountID, "Dr. "+name, email, phone, addressJSON,
			spec, experience, fees, timingsJSON,
			float64(gofakeit.Number(30, 50))/10, gofakeit.Number(0, 200))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO accounts (id, name, email, password_hash, phone, role, is_doctor, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, 'user', false, now(), now())
			`, uuid.New(), gofakeit.Name(), strings.ToLower(gofakeit.Email()),
				passwordHash, gofakeit.Numerify("##########"))
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}
