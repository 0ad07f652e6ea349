package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func newTripService(t *testing.T) (TripService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := TripService{
		DB:       db,
		Trips:    repositories.TripsRepository{DB: db},
		Vehicles: repositories.VehiclesRepository{DB: db},
		Drivers:  repositories.DriversRepository{DB: db},
		Locks:    NewResourceLocks(),
		Now:      func() time.Time { return testNow },
	}
	return svc, mock, func() { db.Close() }
}

func vehicleRow(id int64, status string, capacity float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "model", "license_plate", "max_capacity", "odometer", "status", "acquisition_cost", "created_at",
	}).AddRow(id, "Falcon X Truck", "Ford F-750", "FL-001-TX", capacity, 45230.0, status, 85000.0, testNow)
}

func driverRow(id int64, status, expiry string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "license_number", "license_expiry", "safety_score", "status", "created_at",
	}).AddRow(id, "Alex Martinez", "DL-2024-001", expiry, 95.0, status, testNow)
}

func tripRow(id, vehicleID, driverID int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vehicle_id", "driver_id", "origin", "destination", "cargo_weight", "distance", "revenue",
		"status", "start_time", "end_time", "created_at",
	}).AddRow(id, vehicleID, driverID, "Los Angeles, CA", "San Francisco, CA", 5500.0, 615.0, 4200.0, status, nil, nil, testNow)
}

func dispatcher() domain.RequestContext {
	return domain.RequestContext{UserID: 2, Role: domain.RoleDispatcher}
}

func TestCreateTripAtExactCapacity(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOffDuty, "2027-06-15"))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))

	trip, err := svc.Create(dispatcher(), CreateTripInput{
		VehicleID:   1,
		DriverID:    2,
		Origin:      "Los Angeles, CA",
		Destination: "San Francisco, CA",
		CargoWeight: 8000, // equal to capacity is accepted
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if trip.Status != models.TripDraft {
		t.Fatalf("status = %q, want draft", trip.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTripOverCapacity(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOffDuty, "2027-06-15"))

	_, err := svc.Create(dispatcher(), CreateTripInput{
		VehicleID:   1,
		DriverID:    2,
		Origin:      "A",
		Destination: "B",
		CargoWeight: 8000.01,
	})
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestCreateTripVehicleBusy(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	// drafts may be created ahead of dispatch; the vehicle need not be free yet
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleOnTrip, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOnDuty, "2027-06-15"))
	mock.ExpectExec("INSERT INTO trips").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(11)).
		WillReturnRows(tripRow(11, 1, 2, models.TripDraft))

	trip, err := svc.Create(dispatcher(), CreateTripInput{
		VehicleID: 1, DriverID: 2, Origin: "A", Destination: "B", CargoWeight: 100,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if trip.Status != models.TripDraft {
		t.Fatalf("status = %q, want draft", trip.Status)
	}
}

func TestCreateTripForbiddenRole(t *testing.T) {
	svc, _, done := newTripService(t)
	defer done()

	_, err := svc.Create(domain.RequestContext{Role: domain.RoleAnalyst}, CreateTripInput{
		VehicleID: 1, DriverID: 2, Origin: "A", Destination: "B",
	})
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestDispatchTrip(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOffDuty, "2027-06-15"))
	mock.ExpectExec("UPDATE trips SET status = 'dispatched'").WithArgs(testNow, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WithArgs(models.VehicleOnTrip, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE drivers SET status").WithArgs(models.DriverOnDuty, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))

	trip, err := svc.Dispatch(dispatcher(), 10)
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if trip.Status != models.TripDispatched {
		t.Fatalf("status = %q, want dispatched", trip.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchTripNotDraft(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))
	mock.ExpectRollback()

	_, err := svc.Dispatch(dispatcher(), 10)
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchTripVehicleUnavailable(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleInShop, 8000))
	mock.ExpectRollback()

	_, err := svc.Dispatch(dispatcher(), 10)
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestDispatchTripDriverDeletedAfterRead(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	// the pre-read still sees driver 2, but a concurrent driver deletion
	// cleared the reference before the in-tx re-read
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "driver_id", "origin", "destination", "cargo_weight", "distance", "revenue",
			"status", "start_time", "end_time", "created_at",
		}).AddRow(10, 1, nil, "Los Angeles, CA", "San Francisco, CA", 5500.0, 615.0, 4200.0, models.TripDraft, nil, nil, testNow))
	mock.ExpectRollback()

	_, err := svc.Dispatch(dispatcher(), 10)
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchTripDriverAlreadyOnDuty(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(20)).
		WillReturnRows(tripRow(20, 3, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(20)).
		WillReturnRows(tripRow(20, 3, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(3)).
		WillReturnRows(vehicleRow(3, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOnDuty, "2027-06-15"))
	mock.ExpectRollback()

	// the driver is already out on another dispatched trip
	_, err := svc.Dispatch(dispatcher(), 20)
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchTripSuspendedDriver(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverSuspended, "2027-06-15"))
	mock.ExpectRollback()

	_, err := svc.Dispatch(dispatcher(), 10)
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestDispatchTripLicenseExpiryBoundary(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	// expiry equal to today is still valid
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOffDuty, "2026-08-28"))
	mock.ExpectExec("UPDATE trips SET status = 'dispatched'").WithArgs(testNow, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WithArgs(models.VehicleOnTrip, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE drivers SET status").WithArgs(models.DriverOnDuty, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))

	if _, err := svc.Dispatch(dispatcher(), 10); err != nil {
		t.Fatalf("expiry == today should pass, got: %v", err)
	}

	// expired yesterday is rejected
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(11)).
		WillReturnRows(tripRow(11, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(11)).
		WillReturnRows(tripRow(11, 1, 2, models.TripDraft))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleAvailable, 8000))
	mock.ExpectQuery("SELECT (.+) FROM drivers WHERE id").WithArgs(int64(2)).
		WillReturnRows(driverRow(2, models.DriverOffDuty, "2026-08-27"))
	mock.ExpectRollback()

	_, err := svc.Dispatch(dispatcher(), 11)
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteTrip(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDispatched))
	mock.ExpectExec("UPDATE trips SET status = 'completed'").WithArgs(testNow, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WithArgs(models.VehicleAvailable, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE drivers SET status").WithArgs(models.DriverOffDuty, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripCompleted))

	trip, err := svc.Complete(dispatcher(), 10)
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if trip.Status != models.TripCompleted {
		t.Fatalf("status = %q, want completed", trip.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelCompletedTrip(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripCompleted))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripCompleted))
	mock.ExpectRollback()

	_, err := svc.Cancel(dispatcher(), 10)
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}
}

func TestCancelDraftTripKeepsResources(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripDraft))
	// a draft never held the vehicle or driver, so only the trip row changes
	mock.ExpectExec("UPDATE trips SET status = 'cancelled'").WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE id").WithArgs(int64(10)).
		WillReturnRows(tripRow(10, 1, 2, models.TripCancelled))

	trip, err := svc.Cancel(dispatcher(), 10)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if trip.Status != models.TripCancelled {
		t.Fatalf("status = %q, want cancelled", trip.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
