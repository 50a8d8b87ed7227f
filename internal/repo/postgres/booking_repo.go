package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, patientID int64, req *domain.BookingCreateReq) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Booking, error)
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, status, patient_id, doctor_id,
to_char(appointment_date, 'YYYY-MM-DD'), to_char(appointment_time, 'HH24:MI'),
payment_method, notes, COALESCE(payment_intent_id, ''), created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, patientID int64, req *domain.BookingCreateReq) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
		status, patient_id, doctor_id,
		appointment_date, appointment_time,
		payment_method, notes
	) VALUES ('pending', $1, $2, $3, $4, $5, $6)
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, patientID, req.DoctorID,
		req.AppointmentDate, req.AppointmentTime,
		req.PaymentMethod, req.Notes,
	).Scan(
		&b.ID, &b.Status, &b.PatientID, &b.DoctorID,
		&b.AppointmentDate, &b.AppointmentTime,
		&b.PaymentMethod, &b.Notes, &b.PaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		// Unique index on (doctor_id, appointment_date, appointment_time)
		// where status <> 'canceled' is the conflict authority.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Status, &b.PatientID, &b.DoctorID,
		&b.AppointmentDate, &b.AppointmentTime,
		&b.PaymentMethod, &b.Notes, &b.PaymentIntentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepository) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + bookingCols + ` FROM bookings
		WHERE patient_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.Status, &b.PatientID, &b.DoctorID,
			&b.AppointmentDate, &b.AppointmentTime,
			&b.PaymentMethod, &b.Notes, &b.PaymentIntentID,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	const q = `UPDATE bookings SET payment_intent_id=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id, intentID)
	return err
}
