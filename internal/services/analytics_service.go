package services

import (
	"math"

	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
	"fleetflow/internal/repositories"
	"fleetflow/internal/utils"
)

// Snapshot is the full entity set the aggregation runs over.
type Snapshot struct {
	Vehicles    []models.Vehicle
	Drivers     []models.Driver
	Trips       []models.Trip
	Expenses    []models.Expense
	Maintenance []models.MaintenanceLog
}

type KPIs struct {
	TotalVehicles        int     `json:"total_vehicles"`
	AvailableVehicles    int     `json:"available_vehicles"`
	OnTripVehicles       int     `json:"on_trip_vehicles"`
	InShopVehicles       int     `json:"in_shop_vehicles"`
	ActiveTrips          int     `json:"active_trips"`
	CompletedTrips       int     `json:"completed_trips"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalFuelCost        float64 `json:"total_fuel_cost"`
	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
	TotalExpenses        float64 `json:"total_expenses"`
	Utilization          float64 `json:"utilization"`
	FuelEfficiency       float64 `json:"fuel_efficiency"`
	OnDutyDrivers        int     `json:"on_duty_drivers"`
	TotalDrivers         int     `json:"total_drivers"`
}

type VehicleROI struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	ROI     float64 `json:"roi"`
}

type CostBreakdown struct {
	Fuel        float64 `json:"fuel"`
	Maintenance float64 `json:"maintenance"`
	Other       float64 `json:"other"`
}

type AnalyticsSummary struct {
	KPIs          KPIs               `json:"kpis"`
	RevenueByDay  map[string]float64 `json:"revenue_by_day"`
	ExpenseByDay  map[string]float64 `json:"expense_by_day"`
	VehicleROI    []VehicleROI       `json:"vehicle_roi"`
	CostBreakdown CostBreakdown      `json:"cost_breakdown"`
}

// AnalyticsService derives KPIs, time series, and per-vehicle ROI from the
// entity set. Reads are best-effort consistent; the aggregation never takes
// resource locks and never mutates anything.
type AnalyticsService struct {
	Vehicles repositories.VehiclesRepository
	Drivers  repositories.DriversRepository
	Trips    repositories.TripsRepository
	Expenses repositories.ExpensesRepository
	Maint    repositories.MaintenanceRepository
}

func (s AnalyticsService) Summary(actor domain.RequestContext) (AnalyticsSummary, error) {
	var snap Snapshot
	var err error
	if snap.Vehicles, err = s.Vehicles.List(); err != nil {
		return AnalyticsSummary{}, err
	}
	if snap.Drivers, err = s.Drivers.List(); err != nil {
		return AnalyticsSummary{}, err
	}
	if snap.Trips, err = s.Trips.List(); err != nil {
		return AnalyticsSummary{}, err
	}
	if snap.Expenses, err = s.Expenses.List(); err != nil {
		return AnalyticsSummary{}, err
	}
	if snap.Maintenance, err = s.Maint.List(); err != nil {
		return AnalyticsSummary{}, err
	}
	return BuildSummary(snap), nil
}

// BuildSummary is a pure function of the snapshot: the same input always
// produces the same output.
func BuildSummary(snap Snapshot) AnalyticsSummary {
	var k KPIs
	k.TotalVehicles = len(snap.Vehicles)
	for _, v := range snap.Vehicles {
		switch v.Status {
		case models.VehicleAvailable:
			k.AvailableVehicles++
		case models.VehicleOnTrip:
			k.OnTripVehicles++
		case models.VehicleInShop:
			k.InShopVehicles++
		}
	}

	var totalDistance float64
	for _, t := range snap.Trips {
		switch t.Status {
		case models.TripDispatched:
			k.ActiveTrips++
		case models.TripCompleted:
			k.CompletedTrips++
			k.TotalRevenue += t.Revenue
			totalDistance += t.Distance
		}
	}

	var totalFuelLiters, totalOtherCost float64
	for _, e := range snap.Expenses {
		k.TotalFuelCost += e.FuelCost
		totalOtherCost += e.OtherCost
		totalFuelLiters += e.FuelLiters
	}
	// maintenance cost counts toward totals and ROI regardless of status;
	// in_progress work is already money spent
	for _, m := range snap.Maintenance {
		k.TotalMaintenanceCost += m.Cost
	}
	k.TotalExpenses = k.TotalFuelCost + k.TotalMaintenanceCost + totalOtherCost

	if k.TotalVehicles > 0 {
		k.Utilization = round1(float64(k.OnTripVehicles) / float64(k.TotalVehicles) * 100)
	}
	if totalFuelLiters > 0 {
		k.FuelEfficiency = round2(totalDistance / totalFuelLiters)
	}

	k.TotalDrivers = len(snap.Drivers)
	for _, d := range snap.Drivers {
		if d.Status == models.DriverOnDuty {
			k.OnDutyDrivers++
		}
	}

	// sparse time series: days without activity are simply absent
	revenueByDay := map[string]float64{}
	for _, t := range snap.Trips {
		if t.Status == models.TripCompleted && t.EndTime != nil {
			revenueByDay[utils.FormatDate(*t.EndTime)] += t.Revenue
		}
	}
	expenseByDay := map[string]float64{}
	for _, e := range snap.Expenses {
		expenseByDay[utils.FormatDate(e.CreatedAt)] += e.FuelCost + e.OtherCost
	}

	roi := make([]VehicleROI, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		var revenue, cost float64
		for _, t := range snap.Trips {
			if t.VehicleID == v.ID && t.Status == models.TripCompleted {
				revenue += t.Revenue
			}
		}
		for _, e := range snap.Expenses {
			if e.VehicleID == v.ID {
				cost += e.FuelCost + e.OtherCost
			}
		}
		for _, m := range snap.Maintenance {
			if m.VehicleID == v.ID {
				cost += m.Cost
			}
		}
		var ratio float64
		if v.AcquisitionCost > 0 {
			ratio = round1((revenue - cost) / v.AcquisitionCost * 100)
		}
		roi = append(roi, VehicleROI{ID: v.ID, Name: v.Name, Revenue: revenue, Cost: cost, ROI: ratio})
	}

	return AnalyticsSummary{
		KPIs:         k,
		RevenueByDay: revenueByDay,
		ExpenseByDay: expenseByDay,
		VehicleROI:   roi,
		CostBreakdown: CostBreakdown{
			Fuel:        k.TotalFuelCost,
			Maintenance: k.TotalMaintenanceCost,
			Other:       totalOtherCost,
		},
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
