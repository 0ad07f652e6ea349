package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "fleetflow/internal/config"
	intdb "fleetflow/internal/db"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
)

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, vehicle_id, driver_id, origin, destination, cargo_weight, distance, revenue, status, start_time, end_time, created_at`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var (
		t        models.Trip
		driverID sql.NullInt64
		start    sql.NullTime
		end      sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.VehicleID,
		&driverID,
		&t.Origin,
		&t.Destination,
		&t.CargoWeight,
		&t.Distance,
		&t.Revenue,
		&t.Status,
		&start,
		&end,
		&t.CreatedAt,
	)
	if driverID.Valid {
		v := driverID.Int64
		t.DriverID = &v
	}
	if start.Valid {
		v := start.Time
		t.StartTime = &v
	}
	if end.Valid {
		v := end.Time
		t.EndTime = &v
	}
	return t, err
}

func (r TripsRepository) List() ([]models.Trip, error) {
	rows, err := r.db().Query(`SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TripWithNames joins vehicle/driver display names for listings and export.
type TripWithNames struct {
	models.Trip
	VehicleName string `json:"vehicle_name"`
	DriverName  string `json:"driver_name"`
}

func (r TripsRepository) ListWithNames() ([]TripWithNames, error) {
	rows, err := r.db().Query(`
		SELECT t.id, t.vehicle_id, t.driver_id, t.origin, t.destination, t.cargo_weight, t.distance, t.revenue,
		       t.status, t.start_time, t.end_time, t.created_at,
		       COALESCE(v.name,''), COALESCE(d.full_name,'')
		FROM trips t
		LEFT JOIN vehicles v ON v.id = t.vehicle_id
		LEFT JOIN drivers d ON d.id = t.driver_id
		ORDER BY t.created_at DESC, t.id DESC
	`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []TripWithNames{}
	for rows.Next() {
		var (
			rec      TripWithNames
			driverID sql.NullInt64
			start    sql.NullTime
			end      sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.VehicleID, &driverID, &rec.Origin, &rec.Destination, &rec.CargoWeight, &rec.Distance, &rec.Revenue,
			&rec.Status, &start, &end, &rec.CreatedAt,
			&rec.VehicleName, &rec.DriverName,
		); err != nil {
			return out, err
		}
		if driverID.Valid {
			v := driverID.Int64
			rec.DriverID = &v
		}
		if start.Valid {
			v := start.Time
			rec.StartTime = &v
		}
		if end.Valid {
			v := end.Time
			rec.EndTime = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r TripsRepository) GetByID(id int64) (models.Trip, error) {
	return r.getByID(r.db(), id)
}

func (r TripsRepository) GetByIDTx(q intdb.Queryer, id int64) (models.Trip, error) {
	return r.getByID(q, id)
}

func (r TripsRepository) getByID(q intdb.Queryer, id int64) (models.Trip, error) {
	t, err := scanTrip(q.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.NotFoundError{Resource: "trip"}
		}
		return t, intdb.Wrap(err)
	}
	return t, nil
}

func (r TripsRepository) Insert(t models.Trip) (models.Trip, error) {
	res, err := r.db().Exec(`
		INSERT INTO trips (vehicle_id, driver_id, origin, destination, cargo_weight, distance, revenue, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.VehicleID, t.DriverID, t.Origin, t.Destination, t.CargoWeight, t.Distance, t.Revenue, t.Status)
	if err != nil {
		return t, intdb.Wrap(err)
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

// ActiveTripIDByVehicle is the indexed dispatched-trip lookup; it replaces
// scanning the full trip list per call.
func (r TripsRepository) ActiveTripIDByVehicle(q intdb.Queryer, vehicleID int64) (int64, bool, error) {
	return r.activeTripID(q, `SELECT id FROM trips WHERE vehicle_id = ? AND status = 'dispatched' LIMIT 1`, vehicleID)
}

func (r TripsRepository) ActiveTripIDByDriver(q intdb.Queryer, driverID int64) (int64, bool, error) {
	return r.activeTripID(q, `SELECT id FROM trips WHERE driver_id = ? AND status = 'dispatched' LIMIT 1`, driverID)
}

func (r TripsRepository) activeTripID(q intdb.Queryer, query string, id int64) (int64, bool, error) {
	if q == nil {
		q = r.db()
	}
	var tripID int64
	err := q.QueryRow(query, id).Scan(&tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, intdb.Wrap(err)
	}
	return tripID, true, nil
}

func (r TripsRepository) MarkDispatched(q intdb.Queryer, id int64, startTime time.Time) error {
	if q == nil {
		q = r.db()
	}
	_, err := q.Exec(`UPDATE trips SET status = 'dispatched', start_time = ? WHERE id = ?`, startTime, id)
	return intdb.Wrap(err)
}

func (r TripsRepository) MarkCompleted(q intdb.Queryer, id int64, endTime time.Time) error {
	if q == nil {
		q = r.db()
	}
	_, err := q.Exec(`UPDATE trips SET status = 'completed', end_time = ? WHERE id = ?`, endTime, id)
	return intdb.Wrap(err)
}

func (r TripsRepository) MarkCancelled(q intdb.Queryer, id int64) error {
	if q == nil {
		q = r.db()
	}
	_, err := q.Exec(`UPDATE trips SET status = 'cancelled' WHERE id = ?`, id)
	return intdb.Wrap(err)
}

func (r TripsRepository) DeleteByVehicle(q intdb.Queryer, vehicleID int64) error {
	_, err := q.Exec(`DELETE FROM trips WHERE vehicle_id = ?`, vehicleID)
	return intdb.Wrap(err)
}

// ClearDriver detaches trip history from a deleted driver instead of
// deleting the trips.
func (r TripsRepository) ClearDriver(q intdb.Queryer, driverID int64) error {
	_, err := q.Exec(`UPDATE trips SET driver_id = NULL WHERE driver_id = ?`, driverID)
	return intdb.Wrap(err)
}
