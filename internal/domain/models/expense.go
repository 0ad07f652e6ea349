package models

import "time"

// Expense is immutable once created; there is no update path.
type Expense struct {
	ID         int64     `json:"id"`
	VehicleID  int64     `json:"vehicle_id"`
	TripID     *int64    `json:"trip_id"`
	FuelLiters float64   `json:"fuel_liters"`
	FuelCost   float64   `json:"fuel_cost"`
	OtherCost  float64   `json:"other_cost"`
	CreatedAt  time.Time `json:"created_at"`
}
