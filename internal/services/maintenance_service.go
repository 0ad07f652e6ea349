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

// MaintenanceService gates the vehicle in_shop <-> available transitions on
// maintenance state.
type MaintenanceService struct {
	DB          *sql.DB
	Maintenance repositories.MaintenanceRepository
	Vehicles    repositories.VehiclesRepository
	Trips       repositories.TripsRepository
	Locks       *ResourceLocks

	RequestID string
}

func (s MaintenanceService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s MaintenanceService) locks() *ResourceLocks {
	if s.Locks != nil {
		return s.Locks
	}
	return defaultLocks
}

type OpenMaintenanceInput struct {
	VehicleID   int64   `json:"vehicle_id"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	ServiceDate string  `json:"service_date"`
}

func (s MaintenanceService) List(actor domain.RequestContext) ([]models.MaintenanceLog, error) {
	return s.Maintenance.List()
}

// Open creates an in_progress log and pulls the vehicle into the shop,
// regardless of prior status, unless the vehicle is out on a dispatched trip.
func (s MaintenanceService) Open(actor domain.RequestContext, in OpenMaintenanceInput) (models.MaintenanceLog, error) {
	var zero models.MaintenanceLog
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return zero, err
	}

	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return zero, domain.ValidationError{Field: "description", Msg: "is required"}
	}
	if in.ServiceDate != "" {
		if _, err := utils.ParseDate(in.ServiceDate); err != nil {
			return zero, domain.ValidationError{Field: "service_date", Msg: "must be YYYY-MM-DD"}
		}
	}

	vehicle, err := s.Vehicles.GetByID(in.VehicleID)
	if err != nil {
		return zero, err
	}

	var logID int64
	err = s.locks().WithResources(vehicle.ID, 0, func() error {
		return inTx(s.db(), s.RequestID, func(tx *sql.Tx) error {
			if _, busy, err := s.Trips.ActiveTripIDByVehicle(tx, vehicle.ID); err != nil {
				return err
			} else if busy {
				return domain.PreconditionError{Msg: "vehicle has an active trip, cannot open maintenance"}
			}
			logID, err = s.Maintenance.Insert(tx, models.MaintenanceLog{
				VehicleID:   vehicle.ID,
				Description: in.Description,
				Cost:        in.Cost,
				ServiceDate: in.ServiceDate,
				Status:      models.MaintenanceInProgress,
			})
			if err != nil {
				return err
			}
			return s.Vehicles.UpdateStatus(tx, vehicle.ID, models.VehicleInShop)
		})
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "maintenance", "open", fmt.Sprintf("log_id=%d vehicle_id=%d", logID, vehicle.ID))
	return s.Maintenance.GetByID(logID)
}

// Complete closes the log and returns the vehicle to service. Driver state
// is untouched; maintenance never coordinates with drivers.
func (s MaintenanceService) Complete(actor domain.RequestContext, logID int64) (models.MaintenanceLog, error) {
	var zero models.MaintenanceLog
	if err := domain.RequireRole(actor, domain.RoleManager); err != nil {
		return zero, err
	}

	m, err := s.Maintenance.GetByID(logID)
	if err != nil {
		return zero, err
	}
	// completing a closed log again must not pull the vehicle out of on_trip
	if m.Status != models.MaintenanceInProgress {
		return zero, domain.InvalidStateError{
			Resource: "maintenance",
			Current:  m.Status,
			Msg:      fmt.Sprintf("maintenance log is '%s', must be '%s' to complete", m.Status, models.MaintenanceInProgress),
		}
	}

	err = s.locks().WithResources(m.VehicleID, 0, func() error {
		return inTx(s.db(), s.RequestID, func(tx *sql.Tx) error {
			if err := s.Maintenance.MarkCompleted(tx, logID); err != nil {
				return err
			}
			return s.Vehicles.UpdateStatus(tx, m.VehicleID, models.VehicleAvailable)
		})
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "maintenance", "complete", fmt.Sprintf("log_id=%d", logID))
	return s.Maintenance.GetByID(logID)
}
