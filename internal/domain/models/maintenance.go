package models

import "time"

const (
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
)

// MaintenanceLog keeps its vehicle in_shop while in_progress.
type MaintenanceLog struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
	ServiceDate string    `json:"service_date"` // YYYY-MM-DD
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
