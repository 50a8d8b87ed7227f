package postgres

import (
	"context"
	"time"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PatientRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*domain.Patient, error)
	FindByEmail(ctx context.Context, email string) (*domain.Patient, error)
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
}

type patientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientCols = `id, name, email, password_hash, created_at`

func (r *patientRepository) Create(ctx context.Context, name, email, passwordHash string) (*domain.Patient, error) {
	const q = `INSERT INTO patients (name, email, password_hash)
		VALUES ($1, lower($2), $3) RETURNING ` + patientCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Patient
	err := r.pool.QueryRow(ctx, q, name, email, passwordHash).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) FindByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	const q = `SELECT ` + patientCols + ` FROM patients WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Patient
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &p, err
}

func (r *patientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	const q = `SELECT ` + patientCols + ` FROM patients WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var p domain.Patient
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &p, err
}
