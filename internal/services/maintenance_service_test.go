package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
)

func newMaintenanceService(t *testing.T) (MaintenanceService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := MaintenanceService{
		DB:          db,
		Maintenance: repositories.MaintenanceRepository{DB: db},
		Vehicles:    repositories.VehiclesRepository{DB: db},
		Trips:       repositories.TripsRepository{DB: db},
		Locks:       NewResourceLocks(),
	}
	return svc, mock, func() { db.Close() }
}

func maintenanceRow(id, vehicleID int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vehicle_id", "description", "cost", "service_date", "status", "created_at",
	}).AddRow(id, vehicleID, "Brake Replacement - Front axle", 1200.0, "2026-08-28", status, testNow)
}

func TestOpenMaintenance(t *testing.T) {
	svc, mock, done := newMaintenanceService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(4)).
		WillReturnRows(vehicleRow(4, models.VehicleAvailable, 2000))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM trips WHERE vehicle_id").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO maintenance_logs").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WithArgs(models.VehicleInShop, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM maintenance_logs WHERE id").WithArgs(int64(3)).
		WillReturnRows(maintenanceRow(3, 4, models.MaintenanceInProgress))

	m, err := svc.Open(manager(), OpenMaintenanceInput{
		VehicleID:   4,
		Description: "Brake Replacement - Front axle",
		Cost:        1200,
		ServiceDate: "2026-08-28",
	})
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if m.Status != models.MaintenanceInProgress {
		t.Fatalf("status = %q, want in_progress", m.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenMaintenanceBlockedByActiveTrip(t *testing.T) {
	svc, mock, done := newMaintenanceService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").WithArgs(int64(1)).
		WillReturnRows(vehicleRow(1, models.VehicleOnTrip, 8000))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM trips WHERE vehicle_id").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectRollback()

	_, err := svc.Open(manager(), OpenMaintenanceInput{
		VehicleID:   1,
		Description: "Oil Change",
	})
	if !domain.IsPrecondition(err) {
		t.Fatalf("err = %v, want precondition", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenMaintenanceRequiresManager(t *testing.T) {
	svc, _, done := newMaintenanceService(t)
	defer done()

	_, err := svc.Open(dispatcher(), OpenMaintenanceInput{VehicleID: 1, Description: "x"})
	if !domain.IsForbidden(err) {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestCompleteMaintenance(t *testing.T) {
	svc, mock, done := newMaintenanceService(t)
	defer done()

	mock.ExpectQuery("SELECT (.+) FROM maintenance_logs WHERE id").WithArgs(int64(3)).
		WillReturnRows(maintenanceRow(3, 4, models.MaintenanceInProgress))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE maintenance_logs SET status = 'completed'").WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles SET status").WithArgs(models.VehicleAvailable, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM maintenance_logs WHERE id").WithArgs(int64(3)).
		WillReturnRows(maintenanceRow(3, 4, models.MaintenanceCompleted))

	m, err := svc.Complete(manager(), 3)
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if m.Status != models.MaintenanceCompleted {
		t.Fatalf("status = %q, want completed", m.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteMaintenanceAlreadyCompleted(t *testing.T) {
	svc, mock, done := newMaintenanceService(t)
	defer done()

	// a stale second completion must not touch the vehicle row
	mock.ExpectQuery("SELECT (.+) FROM maintenance_logs WHERE id").WithArgs(int64(3)).
		WillReturnRows(maintenanceRow(3, 4, models.MaintenanceCompleted))

	_, err := svc.Complete(manager(), 3)
	if !domain.IsInvalidState(err) {
		t.Fatalf("err = %v, want invalid state", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
