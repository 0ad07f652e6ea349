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

type DriversRepository struct {
	DB *sql.DB
}

func (r DriversRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const driverColumns = `id, full_name, license_number, COALESCE(DATE_FORMAT(license_expiry, '%Y-%m-%d'), ''), safety_score, status, created_at`

func scanDriver(row interface{ Scan(...any) error }) (models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.LicenseNumber,
		&d.LicenseExpiry,
		&d.SafetyScore,
		&d.Status,
		&d.CreatedAt,
	)
	return d, err
}

func (r DriversRepository) List() ([]models.Driver, error) {
	rows, err := r.db().Query(`SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DriversRepository) GetByID(id int64) (models.Driver, error) {
	return r.getByID(r.db(), id)
}

func (r DriversRepository) GetByIDTx(q intdb.Queryer, id int64) (models.Driver, error) {
	return r.getByID(q, id)
}

func (r DriversRepository) getByID(q intdb.Queryer, id int64) (models.Driver, error) {
	d, err := scanDriver(q.QueryRow(`SELECT `+driverColumns+` FROM drivers WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, domain.NotFoundError{Resource: "driver"}
		}
		return d, intdb.Wrap(err)
	}
	return d, nil
}

func (r DriversRepository) Insert(d models.Driver) (models.Driver, error) {
	res, err := r.db().Exec(`
		INSERT INTO drivers (full_name, license_number, license_expiry, safety_score, status)
		VALUES (?, ?, ?, ?, ?)
	`, d.FullName, d.LicenseNumber, intdb.NullIfEmpty(d.LicenseExpiry), d.SafetyScore, d.Status)
	if err != nil {
		return d, intdb.Wrap(err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

type DriverPatch struct {
	FullName      *string
	LicenseNumber *string
	LicenseExpiry *string
	SafetyScore   *float64
	Status        *string
}

func (r DriversRepository) UpdateFields(id int64, p DriverPatch) (models.Driver, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = ?", col))
		args = append(args, v)
	}
	if p.FullName != nil {
		add("full_name", *p.FullName)
	}
	if p.LicenseNumber != nil {
		add("license_number", *p.LicenseNumber)
	}
	if p.LicenseExpiry != nil {
		add("license_expiry", intdb.NullIfEmpty(*p.LicenseExpiry))
	}
	if p.SafetyScore != nil {
		add("safety_score", *p.SafetyScore)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if len(sets) == 0 {
		return models.Driver{}, domain.ValidationError{Msg: "no fields to update"}
	}

	args = append(args, id)
	res, err := r.db().Exec(`UPDATE drivers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return models.Driver{}, intdb.Wrap(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		if _, err := r.GetByID(id); err != nil {
			return models.Driver{}, err
		}
	}
	return r.GetByID(id)
}

func (r DriversRepository) UpdateStatus(q intdb.Queryer, id int64, status string) error {
	res, err := q.Exec(`UPDATE drivers SET status = ? WHERE id = ?`, status, id)
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

func (r DriversRepository) Delete(q intdb.Queryer, id int64) error {
	res, err := q.Exec(`DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return intdb.Wrap(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.NotFoundError{Resource: "driver"}
	}
	return nil
}
