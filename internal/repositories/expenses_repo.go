package repositories

import (
	"database/sql"

	intconfig "fleetflow/internal/config"
	intdb "fleetflow/internal/db"
	"fleetflow/internal/domain/models"
)

type ExpensesRepository struct {
	DB *sql.DB
}

func (r ExpensesRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ExpensesRepository) List() ([]models.Expense, error) {
	rows, err := r.db().Query(`
		SELECT id, vehicle_id, trip_id, fuel_liters, fuel_cost, other_cost, created_at
		FROM expenses
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, intdb.Wrap(err)
	}
	defer rows.Close()

	out := []models.Expense{}
	for rows.Next() {
		var (
			e      models.Expense
			tripID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.VehicleID, &tripID, &e.FuelLiters, &e.FuelCost, &e.OtherCost, &e.CreatedAt); err != nil {
			return out, err
		}
		if tripID.Valid {
			v := tripID.Int64
			e.TripID = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r ExpensesRepository) Insert(e models.Expense) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO expenses (vehicle_id, trip_id, fuel_liters, fuel_cost, other_cost)
		VALUES (?, ?, ?, ?, ?)
	`, e.VehicleID, e.TripID, e.FuelLiters, e.FuelCost, e.OtherCost)
	if err != nil {
		return 0, intdb.Wrap(err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r ExpensesRepository) DeleteByVehicle(q intdb.Queryer, vehicleID int64) error {
	_, err := q.Exec(`DELETE FROM expenses WHERE vehicle_id = ?`, vehicleID)
	return intdb.Wrap(err)
}
