package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetflow/internal/domain/models"
)

func analyticsSnapshot() Snapshot {
	end1 := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	end2 := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
	d1 := int64(1)

	return Snapshot{
		Vehicles: []models.Vehicle{
			{ID: 1, Name: "Falcon X Truck", Status: models.VehicleOnTrip, AcquisitionCost: 50000},
			{ID: 2, Name: "Metro Express", Status: models.VehicleAvailable, AcquisitionCost: 0},
			{ID: 3, Name: "SwiftCity Delivery", Status: models.VehicleInShop, AcquisitionCost: 35000},
		},
		Drivers: []models.Driver{
			{ID: 1, Status: models.DriverOnDuty},
			{ID: 2, Status: models.DriverOffDuty},
			{ID: 3, Status: models.DriverSuspended},
		},
		Trips: []models.Trip{
			{ID: 10, VehicleID: 1, DriverID: &d1, Status: models.TripDispatched, Distance: 600, Revenue: 9999},
			{ID: 11, VehicleID: 1, DriverID: &d1, Status: models.TripCompleted, Distance: 500, Revenue: 3000, EndTime: &end1},
			{ID: 12, VehicleID: 1, DriverID: &d1, Status: models.TripCompleted, Distance: 115, Revenue: 1200, EndTime: &end2},
			{ID: 13, VehicleID: 2, DriverID: &d1, Status: models.TripCompleted, Distance: 200, Revenue: 800, EndTime: &end2},
			{ID: 14, VehicleID: 2, Status: models.TripCancelled, Revenue: 500},
		},
		Expenses: []models.Expense{
			{ID: 1, VehicleID: 1, FuelLiters: 100, FuelCost: 700, OtherCost: 300, CreatedAt: end1},
			{ID: 2, VehicleID: 2, FuelLiters: 60, FuelCost: 105, OtherCost: 15, CreatedAt: end2},
		},
		Maintenance: []models.MaintenanceLog{
			{ID: 1, VehicleID: 1, Cost: 200, Status: models.MaintenanceCompleted},
			{ID: 2, VehicleID: 3, Cost: 800, Status: models.MaintenanceInProgress},
		},
	}
}

func TestBuildSummaryKPIs(t *testing.T) {
	s := BuildSummary(analyticsSnapshot())
	k := s.KPIs

	assert.Equal(t, 3, k.TotalVehicles)
	assert.Equal(t, 1, k.AvailableVehicles)
	assert.Equal(t, 1, k.OnTripVehicles)
	assert.Equal(t, 1, k.InShopVehicles)
	assert.Equal(t, 1, k.ActiveTrips)
	assert.Equal(t, 3, k.CompletedTrips)
	assert.Equal(t, 3, k.TotalDrivers)
	assert.Equal(t, 1, k.OnDutyDrivers)

	// only completed trips count toward revenue
	assert.InDelta(t, 5000.0, k.TotalRevenue, 1e-9)
	assert.InDelta(t, 805.0, k.TotalFuelCost, 1e-9)
	// maintenance cost counts regardless of status
	assert.InDelta(t, 1000.0, k.TotalMaintenanceCost, 1e-9)
	assert.InDelta(t, 805+1000+315, k.TotalExpenses, 1e-9)

	// 1 of 3 on trip, rounded to one decimal
	assert.InDelta(t, 33.3, k.Utilization, 1e-9)
	// completed distance 815 over 160 liters, rounded to two decimals
	assert.InDelta(t, 5.09, k.FuelEfficiency, 1e-9)
}

func TestBuildSummaryTimeSeriesSparse(t *testing.T) {
	s := BuildSummary(analyticsSnapshot())

	require.Len(t, s.RevenueByDay, 2)
	assert.InDelta(t, 3000.0, s.RevenueByDay["2026-08-26"], 1e-9)
	assert.InDelta(t, 2000.0, s.RevenueByDay["2026-08-27"], 1e-9)
	_, present := s.RevenueByDay["2026-08-25"]
	assert.False(t, present, "days without completions must be absent")

	require.Len(t, s.ExpenseByDay, 2)
	assert.InDelta(t, 1000.0, s.ExpenseByDay["2026-08-26"], 1e-9)
	assert.InDelta(t, 120.0, s.ExpenseByDay["2026-08-27"], 1e-9)
}

func TestBuildSummaryVehicleROI(t *testing.T) {
	s := BuildSummary(analyticsSnapshot())
	require.Len(t, s.VehicleROI, 3)

	byID := map[int64]VehicleROI{}
	for _, v := range s.VehicleROI {
		byID[v.ID] = v
	}

	// revenue 4200, cost 700+300+200 = 1200, acquisition 50000 -> 6.0%
	v1 := byID[1]
	assert.InDelta(t, 4200.0, v1.Revenue, 1e-9)
	assert.InDelta(t, 1200.0, v1.Cost, 1e-9)
	assert.InDelta(t, 6.0, v1.ROI, 1e-9)

	// zero acquisition cost reports ROI 0, not a division blowup
	v2 := byID[2]
	assert.InDelta(t, 800.0, v2.Revenue, 1e-9)
	assert.InDelta(t, 120.0, v2.Cost, 1e-9)
	assert.Zero(t, v2.ROI)

	// in_progress maintenance already counts against the vehicle
	v3 := byID[3]
	assert.InDelta(t, 800.0, v3.Cost, 1e-9)
}

func TestBuildSummaryCostBreakdown(t *testing.T) {
	s := BuildSummary(analyticsSnapshot())
	assert.InDelta(t, 805.0, s.CostBreakdown.Fuel, 1e-9)
	assert.InDelta(t, 1000.0, s.CostBreakdown.Maintenance, 1e-9)
	assert.InDelta(t, 315.0, s.CostBreakdown.Other, 1e-9)
}

func TestBuildSummaryDeterministic(t *testing.T) {
	snap := analyticsSnapshot()
	assert.Equal(t, BuildSummary(snap), BuildSummary(snap))
}

func TestBuildSummaryEmptySnapshot(t *testing.T) {
	s := BuildSummary(Snapshot{})
	assert.Zero(t, s.KPIs.Utilization)
	assert.Zero(t, s.KPIs.FuelEfficiency)
	assert.Empty(t, s.RevenueByDay)
	assert.Empty(t, s.ExpenseByDay)
	assert.Empty(t, s.VehicleROI)
}
