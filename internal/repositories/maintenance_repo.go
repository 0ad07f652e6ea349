package repositories

import (
	"database/sql"
	"errors"

	intconfig "fleetflow/internal/config"
	intdb "fleetflow/internal/db"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
)

type MaintenanceRepository struct {
	DB *sql.DB
}

func (r MaintenanceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const maintenanceColumns = `id, vehicle_id, description, cost, COALESCE(DATE_FORMAT(service_date, '%Y-%m-%d'), ''), status, created_at`

func scanMaintenance(row interface{ Scan(...any) error }) (models.MaintenanceLog, error) {
	var m models.MaintenanceLog
	err := row.Scan(
		&m.ID,
		&m.VehicleID,
		&m.Description,
		&m.Cost,
		&m.ServiceDate,
		&m.Status,
		&m.CreatedAt,
	)
	return m, err
}

func (r MaintenanceRepository) List() ([]models.MaintenanceLog, error) {
	rows, err := r.db().Query(`SELECT ` + maintenanceColumns + ` FROM maintenance_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []models.MaintenanceLog{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r MaintenanceRepository) GetByID(id int64) (models.MaintenanceLog, error) {
	return r.getByID(r.db(), id)
}

func (r MaintenanceRepository) getByID(q intdb.Queryer, id int64) (models.MaintenanceLog, error) {
	m, err := scanMaintenance(q.QueryRow(`SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, domain.NotFoundError{Resource: "maintenance log"}
		}
		return m, intdb.Wrap(err)
	}
	return m, nil
}

func (r MaintenanceRepository) Insert(q intdb.Queryer, m models.MaintenanceLog) (int64, error) {
	if q == nil {
		q = r.db()
	}
	res, err := q.Exec(`
		INSERT INTO maintenance_logs (vehicle_id, description, cost, service_date, status)
		VALUES (?, ?, ?, ?, ?)
	`, m.VehicleID, m.Description, m.Cost, intdb.NullIfEmpty(m.ServiceDate), m.Status)
	if err != nil {
		return 0, intdb.Wrap(err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r MaintenanceRepository) MarkCompleted(q intdb.Queryer, id int64) error {
	_, err := q.Exec(`UPDATE maintenance_logs SET status = 'completed' WHERE id = ?`, id)
	return intdb.Wrap(err)
}

func (r MaintenanceRepository) DeleteByVehicle(q intdb.Queryer, vehicleID int64) error {
	_, err := q.Exec(`DELETE FROM maintenance_logs WHERE vehicle_id = ?`, vehicleID)
	return intdb.Wrap(err)
}
