package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayware/lodge-api/internal/billing"
)

// ErrMasterNotFound is returned when a catalog entry does not exist.
var ErrMasterNotFound = errors.New("charge master not found")

// MasterInput carries the editable fields of a catalog entry.
type MasterInput struct {
	Name        string        `json:"chargeName" validate:"required"`
	DefaultRate billing.Money `json:"defaultRate" validate:"gte=0"`
	Description string        `json:"description"`
	RateType    string        `json:"rateType" validate:"required,oneof=flat per_person per_night"`
}

// Repo abstracts charge master persistence.
type Repo interface {
	List(ctx context.Context) ([]billing.ChargeMaster, error)
	GetByID(ctx context.Context, id string) (billing.ChargeMaster, error)
	Create(ctx context.Context, in MasterInput) (billing.ChargeMaster, error)
	Update(ctx context.Context, id string, in MasterInput) (billing.ChargeMaster, error)
	Delete(ctx context.Context, id string) error
}

// PGRepo persists charge masters in Postgres.
type PGRepo struct {
	Pool *pgxpool.Pool
}

const masterColumns = `id, charge_name, default_rate, description, rate_type`

func scanMaster(row pgx.Row) (billing.ChargeMaster, error) {
	var m billing.ChargeMaster
	var id uuid.UUID
	if err := row.Scan(&id, &m.Name, &m.DefaultRate, &m.Description, &m.RateType); err != nil {
		return billing.ChargeMaster{}, err
	}
	m.ID = id.String()
	return m, nil
}

// List returns all catalog entries ordered by name.
func (r PGRepo) List(ctx context.Context) ([]billing.ChargeMaster, error) {
	rows, err := r.Pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM special_charge_masters ORDER BY charge_name`, masterColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []billing.ChargeMaster
	for rows.Next() {
		m, err := scanMaster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches a single catalog entry.
func (r PGRepo) GetByID(ctx context.Context, id string) (billing.ChargeMaster, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return billing.ChargeMaster{}, ErrMasterNotFound
	}
	m, err := scanMaster(r.Pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM special_charge_masters WHERE id = $1`, masterColumns), uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return billing.ChargeMaster{}, ErrMasterNotFound
	}
	return m, err
}

// Create inserts a new catalog entry.
func (r PGRepo) Create(ctx context.Context, in MasterInput) (billing.ChargeMaster, error) {
	return scanMaster(r.Pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO special_charge_masters (charge_name, default_rate, description, rate_type)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, masterColumns),
		in.Name, in.DefaultRate, in.Description, in.RateType))
}

// Update replaces the editable fields of an entry.
func (r PGRepo) Update(ctx context.Context, id string, in MasterInput) (billing.ChargeMaster, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return billing.ChargeMaster{}, ErrMasterNotFound
	}
	m, err := scanMaster(r.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE special_charge_masters
		SET charge_name = $2, default_rate = $3, description = $4, rate_type = $5, updated_at = now()
		WHERE id = $1
		RETURNING %s`, masterColumns),
		uid, in.Name, in.DefaultRate, in.Description, in.RateType))
	if errors.Is(err, pgx.ErrNoRows) {
		return billing.ChargeMaster{}, ErrMasterNotFound
	}
	return m, err
}

// Delete removes an entry.
func (r PGRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrMasterNotFound
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM special_charge_masters WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMasterNotFound
	}
	return nil
}
