package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayware/lodge-api/internal/billing"
)

// PGRepo persists reservations in Postgres. Allocations, charges and the
// calculation snapshot are stored as jsonb; totals are also broken out into
// columns for reporting queries.
type PGRepo struct {
	Pool *pgxpool.Pool
}

const reservationColumns = `id, reference, guest_name, guest_phone,
	check_in_date::text, check_out_date::text, allocations, charges,
	discount_type, discount_value, calculation, payment_method, status, created_at`

// Insert stores a new reservation row.
func (r PGRepo) Insert(ctx context.Context, res Reservation) error {
	allocations, err := json.Marshal(res.Allocations)
	if err != nil {
		return fmt.Errorf("encode allocations: %w", err)
	}
	charges, err := json.Marshal(res.Charges)
	if err != nil {
		return fmt.Errorf("encode charges: %w", err)
	}
	calc, err := json.Marshal(res.Calculation)
	if err != nil {
		return fmt.Errorf("encode calculation: %w", err)
	}
	_, err = r.Pool.Exec(ctx, `
		INSERT INTO reservations (
			id, reference, guest_name, guest_phone,
			check_in_date, check_out_date, allocations, charges,
			discount_type, discount_value, calculation,
			final_total, payment_method, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		res.ID, res.Reference, res.GuestName, res.GuestPhone,
		res.CheckInDate, res.CheckOutDate, allocations, charges,
		string(res.DiscountType), res.DiscountValue, calc,
		res.Calculation.FinalTotal, res.PaymentMethod, string(res.Status), res.CreatedAt)
	return err
}

// List returns all reservations, newest first.
func (r PGRepo) List(ctx context.Context) ([]Reservation, error) {
	rows, err := r.Pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM reservations ORDER BY created_at DESC`, reservationColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetByID fetches one reservation.
func (r PGRepo) GetByID(ctx context.Context, id uuid.UUID) (Reservation, error) {
	res, err := scanReservation(r.Pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM reservations WHERE id = $1`, reservationColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

// UpdateStatus transitions the reservation status and returns the row.
func (r PGRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Reservation, error) {
	res, err := scanReservation(r.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE reservations SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, reservationColumns), id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

func scanReservation(row pgx.Row) (Reservation, error) {
	var (
		res         Reservation
		allocations []byte
		charges     []byte
		calc        []byte
		discount    string
		status      string
	)
	err := row.Scan(&res.ID, &res.Reference, &res.GuestName, &res.GuestPhone,
		&res.CheckInDate, &res.CheckOutDate, &allocations, &charges,
		&discount, &res.DiscountValue, &calc, &res.PaymentMethod, &status, &res.CreatedAt)
	if err != nil {
		return Reservation{}, err
	}
	res.DiscountType = billing.DiscountType(discount)
	res.Status = Status(status)
	if err := json.Unmarshal(allocations, &res.Allocations); err != nil {
		return Reservation{}, fmt.Errorf("decode allocations: %w", err)
	}
	if err := json.Unmarshal(charges, &res.Charges); err != nil {
		return Reservation{}, fmt.Errorf("decode charges: %w", err)
	}
	if err := json.Unmarshal(calc, &res.Calculation); err != nil {
		return Reservation{}, fmt.Errorf("decode calculation: %w", err)
	}
	return res, nil
}
