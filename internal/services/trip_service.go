package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "fleetflow/internal/config"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
	"fleetflow/internal/utils"
)

// TripService owns the trip lifecycle and the synchronized vehicle/driver
// status writes that go with it. Every state change re-reads current entity
// state under the resource lock; nothing is cached across calls.
type TripService struct {
	DB       *sql.DB
	Trips    repositories.TripsRepository
	Vehicles repositories.VehiclesRepository
	Drivers  repositories.DriversRepository
	Locks    *ResourceLocks

	RequestID string
	Now       func() time.Time
}

func (s TripService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TripService) locks() *ResourceLocks {
	if s.Locks != nil {
		return s.Locks
	}
	return defaultLocks
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

type CreateTripInput struct {
	VehicleID   int64   `json:"vehicle_id"`
	DriverID    int64   `json:"driver_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CargoWeight float64 `json:"cargo_weight"`
	Distance    float64 `json:"distance"`
	Revenue     float64 `json:"revenue"`
}

func (s TripService) List(actor domain.RequestContext) ([]repositories.TripWithNames, error) {
	return s.Trips.ListWithNames()
}

// Create validates references and capacity and stores the trip in draft.
// Draft creation does not reserve the vehicle; availability is re-checked
// at dispatch time.
func (s TripService) Create(actor domain.RequestContext, in CreateTripInput) (models.Trip, error) {
	var zero models.Trip
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleDispatcher); err != nil {
		return zero, err
	}

	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	if in.Origin == "" || in.Destination == "" {
		return zero, domain.ValidationError{Msg: "origin and destination are required"}
	}
	if in.CargoWeight < 0 {
		return zero, domain.ValidationError{Field: "cargo_weight", Msg: "must not be negative"}
	}

	vehicle, err := s.Vehicles.GetByID(in.VehicleID)
	if err != nil {
		return zero, err
	}
	driver, err := s.Drivers.GetByID(in.DriverID)
	if err != nil {
		return zero, err
	}

	if in.CargoWeight > vehicle.MaxCapacity {
		return zero, domain.PreconditionError{
			Msg: fmt.Sprintf("cargo weight (%.2fkg) exceeds vehicle capacity (%.2fkg)", in.CargoWeight, vehicle.MaxCapacity),
		}
	}

	driverID := driver.ID
	trip, err := s.Trips.Insert(models.Trip{
		VehicleID:   vehicle.ID,
		DriverID:    &driverID,
		Origin:      in.Origin,
		Destination: in.Destination,
		CargoWeight: in.CargoWeight,
		Distance:    in.Distance,
		Revenue:     in.Revenue,
		Status:      models.TripDraft,
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "trips", "create", fmt.Sprintf("trip_id=%d vehicle_id=%d", trip.ID, vehicle.ID))
	return trip, nil
}

// Dispatch moves a draft trip to dispatched and marks its vehicle on_trip
// and driver on_duty, as one atomic write from the caller's perspective.
func (s TripService) Dispatch(actor domain.RequestContext, tripID int64) (models.Trip, error) {
	var zero models.Trip
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleDispatcher); err != nil {
		return zero, err
	}

	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		return zero, err
	}
	if trip.DriverID == nil {
		return zero, domain.PreconditionError{Msg: "trip has no driver assigned"}
	}

	err = s.locks().WithResources(trip.VehicleID, *trip.DriverID, func() error {
		return s.inTx(func(tx *sql.Tx) error {
			cur, err := s.Trips.GetByIDTx(tx, tripID)
			if err != nil {
				return err
			}
			if cur.Status != models.TripDraft {
				return domain.InvalidStateError{
					Resource: "trip",
					Current:  cur.Status,
					Msg:      fmt.Sprintf("trip is '%s', must be '%s' to dispatch", cur.Status, models.TripDraft),
				}
			}
			// the driver may have been deleted between the pre-read and here
			if cur.DriverID == nil {
				return domain.PreconditionError{Msg: "trip has no driver assigned"}
			}

			vehicle, err := s.Vehicles.GetByIDTx(tx, cur.VehicleID)
			if err != nil {
				return err
			}
			if vehicle.Status != models.VehicleAvailable {
				return domain.PreconditionError{
					Msg: fmt.Sprintf("vehicle is '%s', must be '%s'", vehicle.Status, models.VehicleAvailable),
				}
			}
			driver, err := s.Drivers.GetByIDTx(tx, *cur.DriverID)
			if err != nil {
				return err
			}
			if err := s.checkDriverFit(driver); err != nil {
				return err
			}

			now := s.now()
			if err := s.Trips.MarkDispatched(tx, tripID, now); err != nil {
				return err
			}
			if err := s.Vehicles.UpdateStatus(tx, cur.VehicleID, models.VehicleOnTrip); err != nil {
				return err
			}
			return s.Drivers.UpdateStatus(tx, *cur.DriverID, models.DriverOnDuty)
		})
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "trips", "dispatch", fmt.Sprintf("trip_id=%d", tripID))
	return s.Trips.GetByID(tripID)
}

// Complete closes a dispatched trip and releases its vehicle and driver.
func (s TripService) Complete(actor domain.RequestContext, tripID int64) (models.Trip, error) {
	return s.finish(actor, tripID, "complete")
}

// Cancel aborts a draft or dispatched trip. A dispatched trip releases its
// vehicle and driver exactly like completion, without revenue recognition.
func (s TripService) Cancel(actor domain.RequestContext, tripID int64) (models.Trip, error) {
	return s.finish(actor, tripID, "cancel")
}

func (s TripService) finish(actor domain.RequestContext, tripID int64, action string) (models.Trip, error) {
	var zero models.Trip
	if err := domain.RequireRole(actor, domain.RoleManager, domain.RoleDispatcher); err != nil {
		return zero, err
	}

	trip, err := s.Trips.GetByID(tripID)
	if err != nil {
		return zero, err
	}
	var driverID int64
	if trip.DriverID != nil {
		driverID = *trip.DriverID
	}

	err = s.locks().WithResources(trip.VehicleID, driverID, func() error {
		return s.inTx(func(tx *sql.Tx) error {
			cur, err := s.Trips.GetByIDTx(tx, tripID)
			if err != nil {
				return err
			}

			switch action {
			case "complete":
				if cur.Status != models.TripDispatched {
					return domain.InvalidStateError{
						Resource: "trip",
						Current:  cur.Status,
						Msg:      fmt.Sprintf("trip is '%s', must be '%s' to complete", cur.Status, models.TripDispatched),
					}
				}
				if err := s.Trips.MarkCompleted(tx, tripID, s.now()); err != nil {
					return err
				}
				return s.releaseResources(tx, cur)
			default: // cancel
				if !cur.CanCancel() {
					return domain.InvalidStateError{
						Resource: "trip",
						Current:  cur.Status,
						Msg:      "only draft or dispatched trips can be cancelled",
					}
				}
				if cur.Status == models.TripDispatched {
					if err := s.releaseResources(tx, cur); err != nil {
						return err
					}
				}
				return s.Trips.MarkCancelled(tx, tripID)
			}
		})
	})
	if err != nil {
		return zero, err
	}
	utils.LogEvent(s.RequestID, "trips", action, fmt.Sprintf("trip_id=%d", tripID))
	return s.Trips.GetByID(tripID)
}

func (s TripService) releaseResources(tx *sql.Tx, trip models.Trip) error {
	if err := s.Vehicles.UpdateStatus(tx, trip.VehicleID, models.VehicleAvailable); err != nil {
		return err
	}
	if trip.DriverID == nil {
		return nil
	}
	return s.Drivers.UpdateStatus(tx, *trip.DriverID, models.DriverOffDuty)
}

func (s TripService) checkDriverFit(driver models.Driver) error {
	if driver.Status == models.DriverSuspended {
		return domain.PreconditionError{Msg: "driver is suspended"}
	}
	// an on_duty driver is already out on a dispatched trip
	if driver.Status == models.DriverOnDuty {
		return domain.PreconditionError{Msg: "driver is already on a dispatched trip"}
	}
	if utils.DateExpired(driver.LicenseExpiry, s.now()) {
		return domain.PreconditionError{Msg: "driver's license has expired"}
	}
	return nil
}

func (s TripService) inTx(fn func(tx *sql.Tx) error) error {
	return inTx(s.db(), s.RequestID, fn)
}
