package postgres

import (
	"context"
	"time"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, limit, offset int) ([]domain.Doctor, error)
}

type doctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepository{pool: pool}
}

const doctorCols = `id, name, specialty, image_url, session_price, clinic_address`

func (r *doctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	const q = `SELECT ` + doctorCols + ` FROM doctors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d domain.Doctor
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&d.ID, &d.Name, &d.Specialty, &d.ImageURL, &d.SessionPrice, &d.ClinicAddress,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &d, err
}

func (r *doctorRepository) List(ctx context.Context, limit, offset int) ([]domain.Doctor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + doctorCols + ` FROM doctors ORDER BY name LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []domain.Doctor
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.ImageURL, &d.SessionPrice, &d.ClinicAddress); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}
