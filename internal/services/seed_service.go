package services

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
	"fleetflow/internal/utils"
)

// SeedService loads a small demo fleet for fresh installs. Seeding is a
// no-op once any vehicle exists.
type SeedService struct {
	Users    repositories.UsersRepository
	Vehicles repositories.VehiclesRepository
	Drivers  repositories.DriversRepository
	Trips    repositories.TripsRepository
	Maint    repositories.MaintenanceRepository
	Expenses repositories.ExpensesRepository

	RequestID string
	Now       func() time.Time
}

func (s SeedService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

type SeedResult struct {
	Message string         `json:"message"`
	Skipped bool           `json:"skipped,omitempty"`
	Counts  map[string]int `json:"counts,omitempty"`
}

func (s SeedService) Seed() (SeedResult, error) {
	existing, err := s.Vehicles.List()
	if err != nil {
		return SeedResult{}, err
	}
	if len(existing) > 0 {
		return SeedResult{Message: "Data already exists", Skipped: true}, nil
	}

	demoHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return SeedResult{}, domain.InternalError{Msg: "failed to hash demo password", Err: err}
	}
	users := []models.User{
		{Email: "manager@fleetflow.com", FullName: "Alex Thompson", Role: domain.RoleManager},
		{Email: "dispatcher@fleetflow.com", FullName: "Sarah Chen", Role: domain.RoleDispatcher},
		{Email: "safety@fleetflow.com", FullName: "Mike Rodriguez", Role: domain.RoleSafety},
		{Email: "analyst@fleetflow.com", FullName: "Emily Park", Role: domain.RoleAnalyst},
	}
	for _, u := range users {
		u.PasswordHash = string(demoHash)
		u.Status = "active"
		if _, err := s.Users.Insert(u); err != nil {
			return SeedResult{}, err
		}
	}

	vehicles := []models.Vehicle{
		{Name: "Falcon X Truck", Model: "Ford F-750", LicensePlate: "FL-001-TX", MaxCapacity: 8000, Odometer: 45230, Status: models.VehicleOnTrip, AcquisitionCost: 85000},
		{Name: "Atlas Cargo Van", Model: "Mercedes Sprinter", LicensePlate: "FL-002-AC", MaxCapacity: 3500, Odometer: 32100, Status: models.VehicleOnTrip, AcquisitionCost: 52000},
		{Name: "Titan Heavy Loader", Model: "Volvo FH16", LicensePlate: "FL-003-TH", MaxCapacity: 15000, Odometer: 78500, Status: models.VehicleOnTrip, AcquisitionCost: 125000},
		{Name: "SwiftCity Delivery", Model: "Toyota Dyna", LicensePlate: "FL-004-SC", MaxCapacity: 2000, Odometer: 18700, Status: models.VehicleInShop, AcquisitionCost: 35000},
		{Name: "Horizon Transport", Model: "Kenworth T680", LicensePlate: "FL-005-HT", MaxCapacity: 12000, Odometer: 92300, Status: models.VehicleInShop, AcquisitionCost: 110000},
		{Name: "Metro Express", Model: "Isuzu NPR", LicensePlate: "FL-006-ME", MaxCapacity: 4500, Odometer: 28400, Status: models.VehicleAvailable, AcquisitionCost: 42000},
		{Name: "Thunder Hauler", Model: "Peterbilt 579", LicensePlate: "FL-007-TH", MaxCapacity: 18000, Odometer: 115000, Status: models.VehicleRetired, AcquisitionCost: 145000},
		{Name: "Blaze Runner", Model: "Freightliner Cascadia", LicensePlate: "FL-008-BR", MaxCapacity: 10000, Odometer: 56700, Status: models.VehicleAvailable, AcquisitionCost: 95000},
	}
	vids := make([]int64, 0, len(vehicles))
	for _, v := range vehicles {
		inserted, err := s.Vehicles.Insert(v)
		if err != nil {
			return SeedResult{}, err
		}
		vids = append(vids, inserted.ID)
	}

	drivers := []models.Driver{
		{FullName: "Alex Martinez", LicenseNumber: "DL-2024-001", LicenseExpiry: "2027-06-15", SafetyScore: 95, Status: models.DriverOnDuty},
		{FullName: "Priya Shah", LicenseNumber: "DL-2024-002", LicenseExpiry: "2026-11-30", SafetyScore: 88, Status: models.DriverOnDuty},
		{FullName: "Daniel Kim", LicenseNumber: "DL-2024-003", LicenseExpiry: "2027-03-22", SafetyScore: 92, Status: models.DriverOnDuty},
		{FullName: "Fatima Noor", LicenseNumber: "DL-2024-004", LicenseExpiry: "2026-02-28", SafetyScore: 78, Status: models.DriverOffDuty},
		{FullName: "Marcus Johnson", LicenseNumber: "DL-2024-005", LicenseExpiry: "2026-08-10", SafetyScore: 55, Status: models.DriverSuspended},
		{FullName: "Lisa Wong", LicenseNumber: "DL-2024-006", LicenseExpiry: "2027-12-01", SafetyScore: 97, Status: models.DriverOffDuty},
	}
	dids := make([]int64, 0, len(drivers))
	for _, d := range drivers {
		inserted, err := s.Drivers.Insert(d)
		if err != nil {
			return SeedResult{}, err
		}
		dids = append(dids, inserted.ID)
	}

	now := s.now()
	type seedTrip struct {
		trip  models.Trip
		start *time.Time
		end   *time.Time
	}
	ago := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	trips := []seedTrip{
		{trip: models.Trip{VehicleID: vids[0], DriverID: &dids[0], Origin: "Los Angeles, CA", Destination: "San Francisco, CA", CargoWeight: 5500, Distance: 615, Revenue: 4200, Status: models.TripDispatched}, start: &now},
		{trip: models.Trip{VehicleID: vids[1], DriverID: &dids[1], Origin: "Chicago, IL", Destination: "Detroit, MI", CargoWeight: 2800, Distance: 450, Revenue: 3100, Status: models.TripDispatched}, start: ago(3 * time.Hour)},
		{trip: models.Trip{VehicleID: vids[2], DriverID: &dids[2], Origin: "Houston, TX", Destination: "Dallas, TX", CargoWeight: 12000, Distance: 385, Revenue: 5800, Status: models.TripDispatched}, start: ago(5 * time.Hour)},
		{trip: models.Trip{VehicleID: vids[5], DriverID: &dids[3], Origin: "New York, NY", Destination: "Boston, MA", CargoWeight: 1500, Distance: 340, Revenue: 2400, Status: models.TripDraft}},
		{trip: models.Trip{VehicleID: vids[0], DriverID: &dids[0], Origin: "Seattle, WA", Destination: "Portland, OR", CargoWeight: 4200, Distance: 280, Revenue: 1800, Status: models.TripCompleted}, start: ago(24 * time.Hour), end: ago(18 * time.Hour)},
		{trip: models.Trip{VehicleID: vids[1], DriverID: &dids[1], Origin: "Miami, FL", Destination: "Atlanta, GA", CargoWeight: 3000, Distance: 1065, Revenue: 7500, Status: models.TripCompleted}, start: ago(48 * time.Hour), end: ago(30 * time.Hour)},
		{trip: models.Trip{VehicleID: vids[2], DriverID: &dids[2], Origin: "Denver, CO", Destination: "Phoenix, AZ", CargoWeight: 9800, Distance: 945, Revenue: 6200, Status: models.TripCompleted}, start: ago(72 * time.Hour), end: ago(48 * time.Hour)},
		{trip: models.Trip{VehicleID: vids[5], DriverID: &dids[5], Origin: "Austin, TX", Destination: "San Antonio, TX", CargoWeight: 1200, Distance: 130, Revenue: 950, Status: models.TripCancelled}},
	}
	for _, st := range trips {
		status := st.trip.Status
		st.trip.Status = models.TripDraft
		inserted, err := s.Trips.Insert(st.trip)
		if err != nil {
			return SeedResult{}, err
		}
		switch status {
		case models.TripDispatched:
			err = s.Trips.MarkDispatched(nil, inserted.ID, *st.start)
		case models.TripCompleted:
			if err = s.Trips.MarkDispatched(nil, inserted.ID, *st.start); err == nil {
				err = s.Trips.MarkCompleted(nil, inserted.ID, *st.end)
			}
		case models.TripCancelled:
			err = s.Trips.MarkCancelled(nil, inserted.ID)
		}
		if err != nil {
			return SeedResult{}, err
		}
	}

	today := utils.FormatDate(now)
	daysAgo := func(n int) string { return utils.FormatDate(now.AddDate(0, 0, -n)) }
	maint := []models.MaintenanceLog{
		{VehicleID: vids[3], Description: "Brake Replacement - Front axle", Cost: 1200, ServiceDate: today, Status: models.MaintenanceInProgress},
		{VehicleID: vids[4], Description: "Engine Diagnostics & Tune-up", Cost: 800, ServiceDate: today, Status: models.MaintenanceInProgress},
		{VehicleID: vids[0], Description: "Oil Change & Filter", Cost: 250, ServiceDate: daysAgo(15), Status: models.MaintenanceCompleted},
		{VehicleID: vids[1], Description: "Tire Rotation", Cost: 180, ServiceDate: daysAgo(10), Status: models.MaintenanceCompleted},
		{VehicleID: vids[2], Description: "Transmission Service", Cost: 2500, ServiceDate: daysAgo(20), Status: models.MaintenanceCompleted},
	}
	for _, m := range maint {
		if _, err := s.Maint.Insert(nil, m); err != nil {
			return SeedResult{}, err
		}
	}

	expenses := []models.Expense{
		{VehicleID: vids[0], FuelLiters: 120, FuelCost: 210, OtherCost: 45},
		{VehicleID: vids[1], FuelLiters: 85, FuelCost: 148, OtherCost: 30},
		{VehicleID: vids[2], FuelLiters: 200, FuelCost: 350, OtherCost: 80},
		{VehicleID: vids[5], FuelLiters: 60, FuelCost: 105, OtherCost: 15},
		{VehicleID: vids[0], FuelLiters: 95, FuelCost: 166, OtherCost: 25},
	}
	for _, e := range expenses {
		if _, err := s.Expenses.Insert(e); err != nil {
			return SeedResult{}, err
		}
	}

	utils.LogEvent(s.RequestID, "seed", "load", fmt.Sprintf("vehicles=%d drivers=%d trips=%d", len(vehicles), len(drivers), len(trips)))
	return SeedResult{
		Message: "Demo data seeded successfully",
		Counts: map[string]int{
			"users":       len(users),
			"vehicles":    len(vehicles),
			"drivers":     len(drivers),
			"trips":       len(trips),
			"maintenance": len(maint),
			"expenses":    len(expenses),
		},
	}, nil
}
