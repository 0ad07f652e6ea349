package models

import "time"

const (
	DriverOffDuty   = "off_duty"
	DriverOnDuty    = "on_duty"
	DriverSuspended = "suspended"
)

type Driver struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	LicenseNumber string    `json:"license_number"`
	LicenseExpiry string    `json:"license_expiry"` // YYYY-MM-DD, exclusive expiry
	SafetyScore   float64   `json:"safety_score"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func IsValidDriverStatus(s string) bool {
	switch s {
	case DriverOffDuty, DriverOnDuty, DriverSuspended:
		return true
	default:
		return false
	}
}
