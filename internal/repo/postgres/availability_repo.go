package postgres

import (
	"context"
	"time"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository interface {
	ListSlots(ctx context.Context, doctorID int64, from, to string) ([]domain.AvailabilitySlot, error)
	ListUnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error)
}

type availabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepository{pool: pool}
}

// ListSlots returns open intervals for a doctor, excluding any already taken
// by a live booking. Dates come back as YYYY-MM-DD and times as HH:MM.
func (r *availabilityRepository) ListSlots(ctx context.Context, doctorID int64, from, to string) ([]domain.AvailabilitySlot, error) {
	q := `SELECT to_char(a.date, 'YYYY-MM-DD'), to_char(a.start_time, 'HH24:MI'), to_char(a.end_time, 'HH24:MI')
		FROM doctor_availability a
		WHERE a.doctor_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.doctor_id = a.doctor_id
			  AND b.appointment_date = a.date
			  AND b.appointment_time = a.start_time
			  AND b.status <> 'canceled'
		  )`
	args := []any{doctorID}
	if from != "" {
		args = append(args, from)
		q += ` AND a.date >= $2`
	}
	if to != "" {
		args = append(args, to)
		if from != "" {
			q += ` AND a.date <= $3`
		} else {
			q += ` AND a.date <= $2`
		}
	}
	q += ` ORDER BY a.date, a.start_time`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := rows.Scan(&s.Date, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		if d, err := time.Parse("2006-01-02", s.Date); err == nil {
			s.DayName = d.Format("Monday")
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *availabilityRepository) ListUnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error) {
	const q = `SELECT to_char(date, 'YYYY-MM-DD'), COALESCE(reason, '')
		FROM doctor_unavailable_dates
		WHERE doctor_id = $1 AND date >= CURRENT_DATE
		ORDER BY date`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []domain.UnavailableDate
	for rows.Next() {
		var d domain.UnavailableDate
		if err := rows.Scan(&d.Date, &d.Reason); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
