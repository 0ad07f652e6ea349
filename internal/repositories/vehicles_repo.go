package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "fleetflow/internal/config"
	intdb "fleetflow/internal/db"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
)

type VehiclesRepository struct {
	DB *sql.DB
}

func (r VehiclesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `id, name, COALESCE(model,''), license_plate, max_capacity, odometer, status, acquisition_cost, created_at`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Model,
		&v.LicensePlate,
		&v.MaxCapacity,
		&v.Odometer,
		&v.Status,
		&v.AcquisitionCost,
		&v.CreatedAt,
	)
	return v, err
}

func (r VehiclesRepository) List() ([]models.Vehicle, error) {
	rows, err := r.db().Query(`SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehiclesRepository) GetByID(id int64) (models.Vehicle, error) {
	return r.getByID(r.db(), id)
}

// GetByIDTx re-reads the vehicle inside a lifecycle transaction.
func (r VehiclesRepository) GetByIDTx(q intdb.Queryer, id int64) (models.Vehicle, error) {
	return r.getByID(q, id)
}

func (r VehiclesRepository) getByID(q intdb.Queryer, id int64) (models.Vehicle, error) {
	v, err := scanVehicle(q.QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, domain.NotFoundError{Resource: "vehicle"}
		}
		return v, intdb.Wrap(err)
	}
	return v, nil
}

func (r VehiclesRepository) Insert(v models.Vehicle) (models.Vehicle, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (name, model, license_plate, max_capacity, odometer, status, acquisition_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.Name, intdb.NullIfEmpty(v.Model), v.LicensePlate, v.MaxCapacity, v.Odometer, v.Status, v.AcquisitionCost)
	if err != nil {
		return v, intdb.Wrap(err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

// VehiclePatch carries optional management updates; nil fields are untouched.
type VehiclePatch struct {
	Name            *string
	Model           *string
	LicensePlate    *string
	MaxCapacity     *float64
	Odometer        *float64
	Status          *string
	AcquisitionCost *float64
}

func (r VehiclesRepository) UpdateFields(id int64, p VehiclePatch) (models.Vehicle, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = ?", col))
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Model != nil {
		add("model", *p.Model)
	}
	if p.LicensePlate != nil {
		add("license_plate", *p.LicensePlate)
	}
	if p.MaxCapacity != nil {
		add("max_capacity", *p.MaxCapacity)
	}
	if p.Odometer != nil {
		add("odometer", *p.Odometer)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.AcquisitionCost != nil {
		add("acquisition_cost", *p.AcquisitionCost)
	}
	if len(sets) == 0 {
		return models.Vehicle{}, domain.ValidationError{Msg: "no fields to update"}
	}

	args = append(args, id)
	res, err := r.db().Exec(`UPDATE vehicles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return models.Vehicle{}, intdb.Wrap(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// may be a no-op update on an existing row; verify existence
		if _, err := r.GetByID(id); err != nil {
			return models.Vehicle{}, err
		}
	}
	return r.GetByID(id)
}

// UpdateStatus is the lifecycle write path; it runs inside the triad
// transaction when called with a *sql.Tx.
func (r VehiclesRepository) UpdateStatus(q intdb.Queryer, id int64, status string) error {
	res, err := q.Exec(`UPDATE vehicles SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return intdb.Wrap(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		if _, err := r.getByID(q, id); err != nil {
			return err
		}
	}
	return nil
}

func (r VehiclesRepository) Delete(q intdb.Queryer, id int64) error {
	res, err := q.Exec(`DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return intdb.Wrap(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}
