package services

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "fleetflow/internal/config"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
	"fleetflow/internal/utils"
)

// FleetService covers vehicle/driver management: CRUD plus the deletion
// guard that protects dispatched trips.
type FleetService struct {
	DB       *sql.DB
	Vehicles repositories.VehiclesRepository
	Drivers  repositories.DriversRepository
	Trips    repositories.TripsRepository
	Expenses repositories.ExpensesRepository
	Maint    repositories.MaintenanceRepository
	Locks    *ResourceLocks

	RequestID string
}

func (s FleetService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s FleetService) locks() *ResourceLocks {
	if s.Locks != nil {
		return s.Locks
	}
	return defaultLocks
}

type CreateVehicleInput struct {
	Name            string  `json:"name"`
	Model           string  `json:"model"`
	LicensePlate    string  `json:"license_plate"`
	MaxCapacity     float64 `json:"max_capacity"`
	Odometer        float64 `json:"odometer"`
	AcquisitionCost float64 `json:"acquisition_cost"`
}

func (s FleetService) ListVehicles(actor domain.RequestContext) ([]models.Vehicle, error) {
	return s.Vehicles.List()
}

func (s FleetService) CreateVehicle(actor domain.RequestContext, in CreateVehicleInput) (models.Vehicle, error) {
	var zero models.Vehicle
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return zero, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	if in.Name == "" || in.LicensePlate == "" {
		return zero, domain.ValidationError{Msg: "name and license_plate are required"}
	}
	if in.MaxCapacity <= 0 {
		return zero, domain.ValidationError{Field: "max_capacity", Msg: "must be positive"}
	}

	v, err := s.Vehicles.Insert(models.Vehicle{
		Name:            in.Name,
		Model:           strings.TrimSpace(in.Model),
		LicensePlate:    in.LicensePlate,
		MaxCapacity:     in.MaxCapacity,
		Odometer:        in.Odometer,
		Status:          models.VehicleAvailable,
		AcquisitionCost: in.AcquisitionCost,
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "vehicles", "create", fmt.Sprintf("vehicle_id=%d", v.ID))
	return v, nil
}

// UpdateVehicle applies a management patch. on_trip and in_shop are owned by
// the trip/maintenance lifecycles and are rejected here.
func (s FleetService) UpdateVehicle(actor domain.RequestContext, id int64, p repositories.VehiclePatch) (models.Vehicle, error) {
	var zero models.Vehicle
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return zero, err
	}
	if p.Status != nil {
		if !models.IsValidVehicleStatus(*p.Status) {
			return zero, domain.ValidationError{Field: "status", Msg: "unknown vehicle status"}
		}
		if *p.Status == models.VehicleOnTrip || *p.Status == models.VehicleInShop {
			return zero, domain.ValidationError{
				Field: "status",
				Msg:   fmt.Sprintf("'%s' can only be set by the trip/maintenance lifecycle", *p.Status),
			}
		}
	}
	if p.MaxCapacity != nil && *p.MaxCapacity <= 0 {
		return zero, domain.ValidationError{Field: "max_capacity", Msg: "must be positive"}
	}
	return s.Vehicles.UpdateFields(id, p)
}

// DeleteVehicle refuses while a dispatched trip references the vehicle, then
// cascades expenses, maintenance logs, and trips before the vehicle row, all
// in one transaction under the vehicle's resource lock.
func (s FleetService) DeleteVehicle(actor domain.RequestContext, id int64) error {
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return err
	}
	if _, err := s.Vehicles.GetByID(id); err != nil {
		return err
	}

	err := s.locks().WithResources(id, 0, func() error {
		return inTx(s.db(), s.RequestID, func(tx *sql.Tx) error {
			if _, busy, err := s.Trips.ActiveTripIDByVehicle(tx, id); err != nil {
				return err
			} else if busy {
				return domain.PreconditionError{Msg: "cannot delete vehicle with active trips"}
			}
			if err := s.Expenses.DeleteByVehicle(tx, id); err != nil {
				return err
			}
			if err := s.Maint.DeleteByVehicle(tx, id); err != nil {
				return err
			}
			if err := s.Trips.DeleteByVehicle(tx, id); err != nil {
				return err
			}
			return s.Vehicles.Delete(tx, id)
		})
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "vehicles", "delete", fmt.Sprintf("vehicle_id=%d", id))
	return nil
}

type CreateDriverInput struct {
	FullName      string  `json:"full_name"`
	LicenseNumber string  `json:"license_number"`
	LicenseExpiry string  `json:"license_expiry"`
	SafetyScore   float64 `json:"safety_score"`
	Status        string  `json:"status"`
}

func (s FleetService) ListDrivers(actor domain.RequestContext) ([]models.Driver, error) {
	return s.Drivers.List()
}

func (s FleetService) CreateDriver(actor domain.RequestContext, in CreateDriverInput) (models.Driver, error) {
	var zero models.Driver
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleSafety); err != nil {
		return zero, err
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	if in.FullName == "" || in.LicenseNumber == "" {
		return zero, domain.ValidationError{Msg: "full_name and license_number are required"}
	}
	if in.LicenseExpiry != "" {
		if _, err := utils.ParseDate(in.LicenseExpiry); err != nil {
			return zero, domain.ValidationError{Field: "license_expiry", Msg: "must be YYYY-MM-DD"}
		}
	}
	if in.Status == "" {
		in.Status = models.DriverOffDuty
	}
	if !models.IsValidDriverStatus(in.Status) {
		return zero, domain.ValidationError{Field: "status", Msg: "unknown driver status"}
	}
	if in.SafetyScore == 0 {
		in.SafetyScore = 100
	}

	d, err := s.Drivers.Insert(models.Driver{
		FullName:      in.FullName,
		LicenseNumber: in.LicenseNumber,
		LicenseExpiry: in.LicenseExpiry,
		SafetyScore:   in.SafetyScore,
		Status:        in.Status,
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "drivers", "create", fmt.Sprintf("driver_id=%d", d.ID))
	return d, nil
}

func (s FleetService) UpdateDriver(actor domain.RequestContext, id int64, p repositories.DriverPatch) (models.Driver, error) {
	var zero models.Driver
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleSafety); err != nil {
		return zero, err
	}
	if p.Status != nil && !models.IsValidDriverStatus(*p.Status) {
		return zero, domain.ValidationError{Field: "status", Msg: "unknown driver status"}
	}
	if p.LicenseExpiry != nil && *p.LicenseExpiry != "" {
		if _, err := utils.ParseDate(*p.LicenseExpiry); err != nil {
			return zero, domain.ValidationError{Field: "license_expiry", Msg: "must be YYYY-MM-DD"}
		}
	}
	return s.Drivers.UpdateFields(id, p)
}

// DeleteDriver refuses while a dispatched trip references the driver, under
// the driver's resource lock. Trip history survives: the driver reference is
// cleared, not the trips.
func (s FleetService) DeleteDriver(actor domain.RequestContext, id int64) error {
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return err
	}
	if _, err := s.Drivers.GetByID(id); err != nil {
		return err
	}

	err := s.locks().WithResources(0, id, func() error {
		return inTx(s.db(), s.RequestID, func(tx *sql.Tx) error {
			if _, busy, err := s.Trips.ActiveTripIDByDriver(tx, id); err != nil {
				return err
			} else if busy {
				return domain.PreconditionError{Msg: "cannot delete driver with active trips"}
			}
			if err := s.Trips.ClearDriver(tx, id); err != nil {
				return err
			}
			return s.Drivers.Delete(tx, id)
		})
	})
	if err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "drivers", "delete", fmt.Sprintf("driver_id=%d", id))
	return nil
}

type CreateExpenseInput struct {
	VehicleID  int64   `json:"vehicle_id"`
	TripID     *int64  `json:"trip_id"`
	FuelLiters float64 `json:"fuel_liters"`
	FuelCost   float64 `json:"fuel_cost"`
	OtherCost  float64 `json:"other_cost"`
}

func (s FleetService) ListExpenses(actor domain.RequestContext) ([]models.Expense, error) {
	return s.Expenses.List()
}

// CreateExpense records an immutable expense row. There is no update or
// lifecycle for expenses.
func (s FleetService) CreateExpense(actor domain.RequestContext, in CreateExpenseInput) (models.Expense, error) {
	var zero models.Expense
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleDispatcher); err != nil {
		return zero, err
	}
	if _, err := s.Vehicles.GetByID(in.VehicleID); err != nil {
		return zero, err
	}
	if in.FuelLiters < 0 || in.FuelCost < 0 || in.OtherCost < 0 {
		return zero, domain.ValidationError{Msg: "expense amounts must not be negative"}
	}

	e := models.Expense{
		VehicleID:  in.VehicleID,
		TripID:     in.TripID,
		FuelLiters: in.FuelLiters,
		FuelCost:   in.FuelCost,
		OtherCost:  in.OtherCost,
	}
	id, err := s.Expenses.Insert(e)
	if err != nil {
		return zero, err
	}
	e.ID = id
	utils.LogEvent(s.RequestID, "expenses", "create", fmt.Sprintf("expense_id=%d vehicle_id=%d", id, in.VehicleID))
	return e, nil
}
