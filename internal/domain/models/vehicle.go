package models

import "time"

// Vehicle statuses. on_trip and in_shop are owned by the trip and
// maintenance lifecycles; plain updates may not set them.
const (
	VehicleAvailable = "available"
	VehicleOnTrip    = "on_trip"
	VehicleInShop    = "in_shop"
	VehicleRetired   = "retired"
)

type Vehicle struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Model           string    `json:"model"`
	LicensePlate    string    `json:"license_plate"`
	MaxCapacity     float64   `json:"max_capacity"` // kg
	Odometer        float64   `json:"odometer"`
	Status          string    `json:"status"`
	AcquisitionCost float64   `json:"acquisition_cost"`
	CreatedAt       time.Time `json:"created_at"`
}

func IsValidVehicleStatus(s string) bool {
	switch s {
	case VehicleAvailable, VehicleOnTrip, VehicleInShop, VehicleRetired:
		return true
	default:
		return false
	}
}
